// Package logging configures the process-wide structured logger.
package logging

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger is the global logger. Packages that are not handed a logger explicitly use this one.
var Logger = log.Logger

// Config controls level and output format of the logger
type Config struct {
	Level        string `json:"level,omitempty" yaml:"level"`                 // debug, info, warn, error
	Format       string `json:"format,omitempty" yaml:"format"`               // json or pretty
	TimeFormat   string `json:"time_format,omitempty" yaml:"time_format"`     // defaults to RFC3339
	ReportCaller bool   `json:"report_caller,omitempty" yaml:"report_caller"` // add file:line to events
}

// Init replaces the global logger according to cfg
func Init(cfg Config) {
	InitWithWriter(cfg, os.Stdout)
}

// InitWithWriter is Init with an explicit destination
func InitWithWriter(cfg Config, out io.Writer) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.TimeFormat == "" {
		zerolog.TimeFieldFormat = time.RFC3339
	} else {
		zerolog.TimeFieldFormat = cfg.TimeFormat
	}

	output := out
	if cfg.Format == "pretty" {
		output = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: cfg.TimeFormat,
		}
	}

	ctxLogger := zerolog.New(output).Level(level).With().Timestamp()
	if cfg.ReportCaller {
		ctxLogger = ctxLogger.Caller()
	}

	Logger = ctxLogger.Logger()
	log.Logger = Logger
}

// Nop returns a logger that discards everything. Used by tests and as a zero value.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}

// Ctx returns the logger stored in ctx, falling back to the global logger
func Ctx(ctx context.Context) *zerolog.Logger {
	l := zerolog.Ctx(ctx)
	if l.GetLevel() == zerolog.Disabled && zerolog.DefaultContextLogger == nil {
		return &Logger
	}
	return l
}

// WithContext attaches the global logger to ctx
func WithContext(ctx context.Context) context.Context {
	return Logger.WithContext(ctx)
}
