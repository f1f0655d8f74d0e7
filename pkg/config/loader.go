package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var defaultEnvLoaded sync.Once

// Load populates the provided configuration struct from environment
// variables, parsed according to `env` field tags.
//
// On first use the default .env file is loaded if it exists; a missing file
// is not an error so the same binary works in development and production.
//
// Example:
//
//	type clientConfig struct {
//		APIBaseURL string        `env:"API_BASE_URL" envDefault:"http://localhost:5000"`
//		Timeout    time.Duration `env:"HTTP_TIMEOUT" envDefault:"30s"`
//	}
//
//	var cfg clientConfig
//	if err := config.Load(&cfg); err != nil {
//		// handle error
//	}
func Load[T any](v *T) error {
	defaultEnvLoaded.Do(func() {
		// The .env file might not exist and that's ok
		_ = godotenv.Load()
	})

	if v == nil {
		return ErrNilPointer
	}

	if err := env.Parse(v); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}

	return nil
}

// MustLoad works like Load but panics if configuration loading fails.
// Useful for configurations required for the application to start.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}
