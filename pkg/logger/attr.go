package logger

import "log/slog"

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Email records an email address under the key "email".
func Email(email string) slog.Attr {
	return slog.String("email", email)
}

// Phase records a checkout phase name under the key "phase".
func Phase(name string) slog.Attr {
	return slog.String("phase", name)
}

// AttemptID records the subscription attempt identifier under the key "attempt_id".
func AttemptID(id string) slog.Attr {
	return slog.String("attempt_id", id)
}

// ErrorCode records a backend error code under the key "error_code".
func ErrorCode(code string) slog.Attr {
	return slog.String("error_code", code)
}
