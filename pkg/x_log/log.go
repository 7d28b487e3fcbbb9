// Package x_log configures zerolog for the service: styled console output,
// rotated file output and context-scoped loggers.
package x_log

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	mu   sync.Mutex
	file *lumberjack.Logger
)

//
// ---------- Init ----------

// Init configures the global logger with default config.
func Init() {
	cfg := DefaultConfig()
	InitWithConfig(&cfg, "")
}

// InitWithConfig configures the global logger. module, if set, is attached
// to every entry.
func InitWithConfig(cfg *Config, module string) {
	c := *cfg
	ApplyDefaults(&c)

	mu.Lock()
	defer mu.Unlock()

	level, err := zerolog.ParseLevel(c.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if file != nil {
		_ = file.Close()
		file = nil
	}

	var writers []io.Writer
	if c.ToConsole {
		writers = append(writers, consoleWriter(os.Stdout, &c))
	}
	if c.ToFile {
		file = &lumberjack.Logger{
			Filename:   c.LogFile,
			MaxSize:    c.MaxSize,
			MaxBackups: c.MaxBackups,
			MaxAge:     c.MaxAge,
			Compress:   c.Compress,
		}
		writers = append(writers, file)
	}

	ctx := zerolog.New(zerolog.MultiLevelWriter(writers...)).With().Timestamp()
	if module != "" {
		ctx = ctx.Str("module", module)
	}
	log.Logger = ctx.Logger()
}

// consoleWriter picks JSON, styled or plain output for out.
func consoleWriter(out *os.File, c *Config) io.Writer {
	if c.JSON {
		return out
	}
	styles := DefaultStylesByName(c.Style)
	styles.Out = out
	w := ConsoleWriterWithStyles(styles)
	w.NoColor = !isatty.IsTerminal(out.Fd()) && !isatty.IsCygwinTerminal(out.Fd())
	return w
}

// Close flushes and closes the rotated log file, if any.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if file == nil {
		return nil
	}
	err := file.Close()
	file = nil
	return err
}

//
// ---------- Scoped Loggers ----------

// New returns a child of the global logger tagged with module.
func New(module string) zerolog.Logger {
	return log.Logger.With().Str("module", module).Logger()
}

// WithLogger stores l in ctx.
func WithLogger(ctx context.Context, l *zerolog.Logger) context.Context {
	return l.WithContext(ctx)
}

// From returns the logger stored in ctx, or the global logger.
func From(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l != nil && l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &log.Logger
}

//
// ---------- Shortcuts ----------

func Debug() *zerolog.Event { return log.Debug() }
func Info() *zerolog.Event  { return log.Info() }
func Warn() *zerolog.Event  { return log.Warn() }
func Error() *zerolog.Event { return log.Error() }
func Fatal() *zerolog.Event { return log.Fatal() }
