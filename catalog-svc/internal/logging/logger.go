package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps zap.Logger for the catalog service.
type Logger struct {
	*zap.Logger
}

type Config struct {
	Level       string // debug, info, warn, error
	Development bool
}

func DefaultConfig() Config {
	return Config{Level: "info"}
}

// New builds a logger writing to stderr so command output on stdout stays clean.
func New(cfg Config) (*Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, err
	}

	encoding := "json"
	encoder := zap.NewProductionEncoderConfig()
	if cfg.Development {
		encoding = "console"
		encoder = zap.NewDevelopmentEncoderConfig()
		encoder.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	encoder.EncodeTime = zapcore.ISO8601TimeEncoder

	zapCfg := zap.Config{
		Level:             zap.NewAtomicLevelAt(level),
		Development:       cfg.Development,
		Encoding:          encoding,
		EncoderConfig:     encoder,
		OutputPaths:       []string{"stderr"},
		ErrorOutputPaths:  []string{"stderr"},
		DisableStacktrace: !cfg.Development,
	}

	logger, err := zapCfg.Build(zap.Fields(zap.String("service", "catalog-svc")))
	if err != nil {
		return nil, err
	}
	return &Logger{Logger: logger}, nil
}

// NewDefault falls back to a no-op logger when the default config cannot be built.
func NewDefault() *Logger {
	logger, err := New(DefaultConfig())
	if err != nil {
		return NewNop()
	}
	return logger
}

func NewNop() *Logger {
	return &Logger{Logger: zap.NewNop()}
}

// Named returns a child logger scoped to component.
func (l *Logger) Named(component string) *Logger {
	return &Logger{Logger: l.Logger.Named(component)}
}
