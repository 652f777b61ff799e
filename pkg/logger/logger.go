// Package logger configures the process-wide structured logger on top of
// zerolog. Call Init once during startup; Get hands out the configured
// instance everywhere else.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const serviceName = "finance-tracker"

// Options controls how the logger is built.
type Options struct {
	// Level is the minimum level to emit: trace, debug, info, warn or error.
	// Unknown or empty values fall back to info.
	Level string
	// Pretty switches to human-readable console output for local development.
	// Leave false in production so logs stay machine-parseable JSON.
	Pretty bool
	// Output receives the log stream. Defaults to os.Stdout.
	Output io.Writer
}

var (
	mu       sync.Mutex
	instance zerolog.Logger
	ready    bool
)

// Init builds the shared logger from opts. The first call wins; later calls
// return the already-configured instance unchanged.
func Init(opts Options) zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()

	if ready {
		return instance
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano

	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	if opts.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	lvl := parseLevel(opts.Level)
	zerolog.SetGlobalLevel(lvl)

	instance = zerolog.New(out).
		Level(lvl).
		With().
		Timestamp().
		Caller().
		Str("service", serviceName).
		Logger()
	ready = true

	return instance
}

// Get returns the shared logger. Before Init it returns a stdout JSON logger
// at info level so early code paths never log into the void.
func Get() zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()

	if !ready {
		return zerolog.New(os.Stdout).With().Timestamp().Logger()
	}
	return instance
}

// Reset discards the configured instance so the next Init rebuilds it.
// Only tests should call this.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	instance = zerolog.Logger{}
	ready = false
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
