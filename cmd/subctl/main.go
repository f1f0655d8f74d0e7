package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/dmitrymomot/subkit/pkg/api"
	"github.com/dmitrymomot/subkit/pkg/checkout"
	"github.com/dmitrymomot/subkit/pkg/config"
	"github.com/dmitrymomot/subkit/pkg/logger"
	"github.com/dmitrymomot/subkit/pkg/payment"
	"github.com/dmitrymomot/subkit/pkg/session"
)

type appConfig struct {
	APIBaseURL     string        `env:"SUBKIT_API_BASE_URL" envDefault:"http://localhost:5000/api"`
	StripeKey      string        `env:"SUBKIT_STRIPE_KEY"`
	CredentialFile string        `env:"SUBKIT_CREDENTIAL_FILE"`
	HTTPTimeout    time.Duration `env:"SUBKIT_HTTP_TIMEOUT" envDefault:"30s"`
	LogLevel       string        `env:"SUBKIT_LOG_LEVEL" envDefault:"warn"`
	LogFormat      string        `env:"SUBKIT_LOG_FORMAT" envDefault:"text"`
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: subctl <status|subscribe|cancel|logout>")
	os.Exit(2)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}
	command := os.Args[1]

	var cfg appConfig
	if err := config.Load(&cfg); err != nil {
		fmt.Fprintln(os.Stderr, "subctl:", err)
		os.Exit(1)
	}

	log := logger.New(
		logger.WithLevel(parseLevel(cfg.LogLevel)),
		logger.WithFormat(parseFormat(cfg.LogFormat)),
		logger.WithService("subctl"),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, command, cfg, log); err != nil {
		fmt.Fprintln(os.Stderr, "subctl:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, command string, cfg appConfig, log *slog.Logger) error {
	client, err := api.NewClient(cfg.APIBaseURL, api.WithTimeout(cfg.HTTPTimeout))
	if err != nil {
		return err
	}

	store, err := newStore(cfg)
	if err != nil {
		return err
	}

	sessions := session.NewManager(client, store, session.WithLogger(log))
	snapshot := sessions.Bootstrap(ctx)

	switch command {
	case "status":
		return status(ctx, sessions, snapshot)
	case "subscribe":
		return subscribe(ctx, cfg, log, client, sessions, snapshot)
	case "cancel":
		return cancel(ctx, client, sessions, snapshot)
	case "logout":
		sessions.Logout(ctx)
		fmt.Println("Logged out.")
		return nil
	default:
		usage()
		return nil
	}
}

func newStore(cfg appConfig) (*session.FileStore, error) {
	path := cfg.CredentialFile
	if path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dir, "subkit", "credential")
	}
	return session.NewFileStore(path)
}

func status(ctx context.Context, sessions *session.Manager, snapshot session.Session) error {
	if !snapshot.IsAuthenticated() {
		fmt.Println("Not signed in.")
		return nil
	}

	subscribed, err := sessions.CheckSubscription(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Signed in as %s\n", snapshot.User.Email)
	if subscribed {
		fmt.Println("Subscription: active")
	} else {
		fmt.Println("Subscription: none")
	}
	return nil
}

func subscribe(ctx context.Context, cfg appConfig, log *slog.Logger, client *api.Client, sessions *session.Manager, snapshot session.Session) error {
	if cfg.StripeKey == "" {
		return fmt.Errorf("SUBKIT_STRIPE_KEY is required for subscribe")
	}
	gateway, err := payment.NewStripeGateway(cfg.StripeKey)
	if err != nil {
		return err
	}

	in := bufio.NewReader(os.Stdin)
	req := checkout.Request{}

	if !snapshot.IsAuthenticated() {
		req.Email, err = prompt(in, "Email: ")
		if err != nil {
			return err
		}
		req.Password, err = promptPassword("Password: ")
		if err != nil {
			return err
		}
		req.PasswordConfirm, err = promptPassword("Confirm password: ")
		if err != nil {
			return err
		}
	}

	req.Card, err = promptCard(in)
	if err != nil {
		return err
	}

	orchestrator := checkout.NewOrchestrator(sessions, gateway, gateway, client,
		checkout.WithLogger(log),
		checkout.WithOnActivated(func(r checkout.Result) {
			fmt.Println("Subscription is now active.")
		}),
	)

	result, err := orchestrator.Subscribe(ctx, req)
	if err != nil {
		return err
	}
	if !result.Active() {
		return fmt.Errorf("%s", result.Reason)
	}
	if result.SubscriptionID != "" {
		fmt.Println("Subscription ID:", result.SubscriptionID)
	}
	return nil
}

func cancel(ctx context.Context, client *api.Client, sessions *session.Manager, snapshot session.Session) error {
	if !snapshot.IsAuthenticated() {
		return fmt.Errorf("not signed in")
	}
	if err := client.CancelSubscription(ctx, sessions.Credential()); err != nil {
		if apiErr, ok := api.AsError(err); ok {
			return fmt.Errorf("%s", apiErr.Message)
		}
		return err
	}
	fmt.Println("Subscription cancelled.")
	return nil
}

func prompt(in *bufio.Reader, label string) (string, error) {
	fmt.Print(label)
	line, err := in.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func promptPassword(label string) (string, error) {
	fmt.Print(label)
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func promptCard(in *bufio.Reader) (payment.Card, error) {
	number, err := prompt(in, "Card number: ")
	if err != nil {
		return payment.Card{}, err
	}

	expiry, err := prompt(in, "Expiry (MM/YY): ")
	if err != nil {
		return payment.Card{}, err
	}
	month, year, err := parseExpiry(expiry)
	if err != nil {
		return payment.Card{}, err
	}

	cvc, err := prompt(in, "CVC: ")
	if err != nil {
		return payment.Card{}, err
	}

	return payment.Card{
		Number:   strings.ReplaceAll(number, " ", ""),
		ExpMonth: month,
		ExpYear:  year,
		CVC:      cvc,
	}, nil
}

func parseExpiry(s string) (month, year int64, err error) {
	parts := strings.SplitN(strings.TrimSpace(s), "/", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expiry must be MM/YY")
	}
	month, err = strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
	if err != nil || month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("invalid expiry month")
	}
	year, err = strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid expiry year")
	}
	if year < 100 {
		year += 2000
	}
	return month, year, nil
}

func parseFormat(s string) logger.Format {
	if strings.EqualFold(s, string(logger.FormatJSON)) {
		return logger.FormatJSON
	}
	return logger.FormatText
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
