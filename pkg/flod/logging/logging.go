// Package logging provides the logging sink FLOD is built against. The
// codec never calls into a process-global logger; it always logs through
// an injected Logger, so a caller can route FLOD's trial-decryption and
// outcome-classification messages wherever its own logging goes (or
// nowhere, via Noop).
package logging

import (
	"context"
	"fmt"
	"log/slog"
)

// Logger is the subset of slog functionality the codec uses. It is
// intentionally small so callers can provide their own implementation for
// testing or for a redaction policy stricter than the Redacted* helpers
// below.
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)
	With(args ...any) Logger
}

// New returns a Logger backed by the provided slog.Logger. Passing nil
// binds to slog.Default().
func New(logger *slog.Logger) Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return &slogLogger{logger: logger}
}

// Noop returns a Logger that discards everything, the default used when a
// caller does not supply one.
func Noop() Logger {
	return noopLogger{}
}

// slogLogger routes all four levels through log/slog's level-keyed
// Logger.Log, rather than four separate hand-written wrappers, so adding a
// fifth level (or changing how the level maps to slog.Level) touches one
// place.
type slogLogger struct {
	logger *slog.Logger
}

func (l *slogLogger) Debug(ctx context.Context, msg string, args ...any) {
	l.log(ctx, slog.LevelDebug, msg, args)
}

func (l *slogLogger) Info(ctx context.Context, msg string, args ...any) {
	l.log(ctx, slog.LevelInfo, msg, args)
}

func (l *slogLogger) Warn(ctx context.Context, msg string, args ...any) {
	l.log(ctx, slog.LevelWarn, msg, args)
}

func (l *slogLogger) Error(ctx context.Context, msg string, args ...any) {
	l.log(ctx, slog.LevelError, msg, args)
}

func (l *slogLogger) log(ctx context.Context, level slog.Level, msg string, args []any) {
	l.logger.Log(ctx, level, msg, args...)
}

func (l *slogLogger) With(args ...any) Logger {
	return &slogLogger{logger: l.logger.With(args...)}
}

type noopLogger struct{}

func (noopLogger) Debug(context.Context, string, ...any) {}
func (noopLogger) Info(context.Context, string, ...any)  {}
func (noopLogger) Warn(context.Context, string, ...any)  {}
func (noopLogger) Error(context.Context, string, ...any) {}
func (l noopLogger) With(...any) Logger                  { return l }

// The codec's actual sensitive fields, named explicitly rather than
// accepted as an arbitrary caller-supplied key: the AES/HMAC session keys
// carried in MPHeader, a raw RSASSA-PSS signature, and a keyring
// passphrase. Each gets its own constructor below instead of one generic
// Redacted(key string) passthrough, so a caller grepping for where a
// specific secret might reach a log sink finds it by name.

// RedactedAESKey reports that an AES session key of the given length was
// present, without ever rendering its bytes.
func RedactedAESKey(key []byte) slog.Attr {
	return slog.String("aes_key", fmt.Sprintf("[redacted %d bytes]", len(key)))
}

// RedactedHMACKey reports that an HMAC session key of the given length was
// present, without ever rendering its bytes.
func RedactedHMACKey(key []byte) slog.Attr {
	return slog.String("hmac_key", fmt.Sprintf("[redacted %d bytes]", len(key)))
}

// RedactedSignature reports that a raw RSASSA-PSS signature of the given
// length was present, without ever rendering its bytes. It does not
// distinguish a real signature from decoy bytes — that distinction is
// itself sensitive (spec's decoy-indistinguishability requirement).
func RedactedSignature(sig []byte) slog.Attr {
	return slog.String("signature", fmt.Sprintf("[redacted %d bytes]", len(sig)))
}

// RedactedPassphrase stands in for a keyring passphrase wherever a log
// line might otherwise be tempted to include one, e.g. when logging the
// arguments a CLI command was invoked with.
func RedactedPassphrase() slog.Attr {
	return slog.String("passphrase", "[redacted]")
}
