package litedb

import "go.uber.org/zap"

// Logger is the narrow logging surface the engine calls at collection and
// index lifecycle boundaries. It is satisfied by *zap.SugaredLogger
// directly, following the ignite convention of taking a Logger option
// that defaults to a no-op rather than reaching for a package-global.
type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
}

// NopLogger discards everything; it is the default when no Logger option
// is supplied.
type NopLogger struct{}

func (NopLogger) Infof(string, ...any) {}
func (NopLogger) Warnf(string, ...any) {}

// ZapLogger adapts a *zap.SugaredLogger to the Logger interface.
type ZapLogger struct {
	S *zap.SugaredLogger
}

func (z ZapLogger) Infof(format string, args ...any) { z.S.Infof(format, args...) }
func (z ZapLogger) Warnf(format string, args ...any) { z.S.Warnf(format, args...) }

// NewZapLogger builds a ZapLogger from a production zap configuration,
// matching the ignite convention of constructing the logger once at
// startup and threading it through as a dependency.
func NewZapLogger() (ZapLogger, error) {
	l, err := zap.NewProduction()
	if err != nil {
		return ZapLogger{}, err
	}
	return ZapLogger{S: l.Sugar()}, nil
}
