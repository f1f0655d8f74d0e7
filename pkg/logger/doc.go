// Package logger provides a thin factory around log/slog with JSON and text
// handlers, plus attribute helpers shared across the kit so that log keys
// stay consistent (component, email, phase, attempt_id, error).
package logger
