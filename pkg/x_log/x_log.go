// Package x_log wires zerolog with lipgloss-styled console output and
// optional rotating file output.
package x_log

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

//
// ---------- Config ----------

// Config controls where and how logs are written.
type Config struct {
	Level       string `json:"level" mapstructure:"level"`
	LogFile     string `json:"log_file" mapstructure:"log_file"`
	ToConsole   bool   `json:"to_console" mapstructure:"to_console"`
	ToFile      bool   `json:"to_file" mapstructure:"to_file"`
	ColoredFile bool   `json:"colored_file" mapstructure:"colored_file"`
	JSON        bool   `json:"json" mapstructure:"json"` // plain JSON on the console
	Style       string `json:"style" mapstructure:"style"`
	MaxSize     int    `json:"max_size" mapstructure:"max_size"`       // MB
	MaxBackups  int    `json:"max_backups" mapstructure:"max_backups"` // rotated files
	MaxAge      int    `json:"max_age" mapstructure:"max_age"`         // days
	Compress    bool   `json:"compress" mapstructure:"compress"`
}

// Default returns a copy of the built-in configuration.
func Default() Config {
	return defaultConfig
}

//
// ---------- Init ----------

// InitWithConfig configures the global logger. A non-empty module is
// attached to every entry.
func InitWithConfig(cfg *Config, module string) {
	applyDefaults(cfg)
	zerolog.SetGlobalLevel(ParseLevel(cfg.Level))

	ctx := zerolog.New(buildWriter(cfg)).With().Timestamp()
	if module != "" {
		ctx = ctx.Str("module", module)
	}
	log.Logger = ctx.Logger()
}

// New returns a child of the global logger scoped to module.
func New(module string) zerolog.Logger {
	return log.Logger.With().Str("module", module).Logger()
}

// ParseLevel maps a level name to zerolog; unknown names mean info.
func ParseLevel(s string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

//
// ---------- Context ----------

type ctxKey struct{}

// WithLogger stores l in ctx.
func WithLogger(ctx context.Context, l *zerolog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// From returns the logger stored in ctx, or the global logger.
func From(ctx context.Context) *zerolog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*zerolog.Logger); ok && l != nil {
		return l
	}
	return &log.Logger
}

//
// ---------- Global shortcuts ----------

func Debug() *zerolog.Event { return log.Logger.Debug() }
func Warn() *zerolog.Event  { return log.Logger.Warn() }

//
// ---------- Writers ----------

// buildWriter assembles console and file outputs from cfg.
func buildWriter(cfg *Config) io.Writer {
	var writers []io.Writer

	if cfg.ToConsole {
		if cfg.JSON {
			writers = append(writers, os.Stderr)
		} else {
			styles := DefaultStylesByName(cfg.Style)
			styles.Out = os.Stderr
			cw := ConsoleWriterWithStyles(styles)
			cw.NoColor = !isTerminal(os.Stderr)
			writers = append(writers, cw)
		}
	}

	if cfg.ToFile && cfg.LogFile != "" {
		file := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		}
		if cfg.ColoredFile {
			styles := DefaultStylesByName(cfg.Style)
			styles.Out = file
			writers = append(writers, ConsoleWriterWithStyles(styles))
		} else {
			writers = append(writers, file)
		}
	}

	switch len(writers) {
	case 0:
		return io.Discard
	case 1:
		return writers[0]
	}
	return zerolog.MultiLevelWriter(writers...)
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
