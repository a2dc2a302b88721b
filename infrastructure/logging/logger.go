// Package logging provides structured logging using bolt.
//
// Logs go to stderr by default: stdout carries the MCP stdio stream.
package logging

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/felixgeelhaar/bolt/v3"
)

var (
	mu     sync.RWMutex
	logger *bolt.Logger
)

// Config configures the process logger.
type Config struct {
	// Level is the minimum log level (trace, debug, info, warn, error).
	Level string

	// Format is "json" or "console".
	Format string

	// Output defaults to stderr.
	Output io.Writer
}

// DefaultConfig logs info and above to stderr in console format.
func DefaultConfig() Config {
	return Config{
		Level:  "info",
		Format: "console",
		Output: os.Stderr,
	}
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// levelOf maps a level name to bolt. Unknown names map to INFO and false.
func levelOf(s string) (bolt.Level, bool) {
	switch normalize(s) {
	case "trace":
		return bolt.TRACE, true
	case "debug":
		return bolt.DEBUG, true
	case "info":
		return bolt.INFO, true
	case "warn":
		return bolt.WARN, true
	case "error":
		return bolt.ERROR, true
	}
	return bolt.INFO, false
}

// ValidLevel reports whether s names a supported log level.
func ValidLevel(s string) bool {
	_, ok := levelOf(s)
	return ok
}

// Init replaces the process logger. Later calls win, so a reloaded
// configuration can switch format or output.
func Init(config Config) {
	output := config.Output
	if output == nil {
		output = os.Stderr
	}

	var handler bolt.Handler
	if normalize(config.Format) == "json" {
		handler = bolt.NewJSONHandler(output)
	} else {
		handler = bolt.NewConsoleHandler(output)
	}
	level, _ := levelOf(config.Level)

	l := bolt.New(handler).SetLevel(level)
	mu.Lock()
	logger = l
	mu.Unlock()
}

// Get returns the process logger, installing DefaultConfig on first use.
func Get() *bolt.Logger {
	mu.RLock()
	l := logger
	mu.RUnlock()
	if l != nil {
		return l
	}

	mu.Lock()
	defer mu.Unlock()
	if logger == nil {
		logger = bolt.New(bolt.NewConsoleHandler(os.Stderr)).SetLevel(bolt.INFO)
	}
	return logger
}

// SetLevel changes the level of the process logger in place.
func SetLevel(level string) {
	l, _ := levelOf(level)
	Get().SetLevel(l)
}

// LogEvent collects Fields for a single log line.
type LogEvent struct {
	event *bolt.Event
}

// Add applies a field to the event and returns the wrapper for chaining.
func (l *LogEvent) Add(f Field) *LogEvent {
	l.event = f(l.event)
	return l
}

// Msg sends the log event with a message.
func (l *LogEvent) Msg(msg string) {
	l.event.Msg(msg)
}

// Debug starts a debug-level event.
func Debug() *LogEvent {
	return &LogEvent{event: Get().Debug()}
}

// Info starts an info-level event.
func Info() *LogEvent {
	return &LogEvent{event: Get().Info()}
}

// Warn starts a warn-level event.
func Warn() *LogEvent {
	return &LogEvent{event: Get().Warn()}
}

// Error starts an error-level event.
func Error() *LogEvent {
	return &LogEvent{event: Get().Error()}
}
