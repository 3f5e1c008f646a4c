// Package logging collects the log records of one degoss invocation.
//
// A Collector is a slog.Handler. Every record is always kept in an in-memory
// buffer so it can be handed back to the calling automation as output lines;
// records are additionally mirrored to a log file and to the console when
// configured. The buffer and console share the short "[LEVEL] message"
// format, the file carries a timestamp and the logger name.
package logging

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"code.cloudfoundry.org/clock"
)

// LoggerName is written into every file-sink line.
const LoggerName = "degoss"

const fileTimeLayout = "2006-01-02 15:04:05,000"

// Record is a single collected log entry.
type Record struct {
	Time    time.Time
	Level   slog.Level
	Message string
}

// Options configures a Collector.
type Options struct {
	// LogFile, if set, mirrors records to this file (appending).
	LogFile string
	// Verbose mirrors records to Console.
	Verbose bool
	// Console receives records when Verbose is set (default: os.Stderr).
	Console io.Writer
	// Clock stamps records (default: wall clock).
	Clock clock.Clock
	// Level is the minimum level collected (default: debug).
	Level slog.Leveler
}

// Collector accumulates records for one invocation.
type Collector struct {
	mu      sync.Mutex
	clock   clock.Clock
	level   slog.Leveler
	buffer  bytes.Buffer
	records []Record
	sinks   []sink
	file    *os.File
}

// sink is a destination with its own line format.
type sink struct {
	w      io.Writer
	format func(Record) string
}

// New creates a Collector. It fails only if the log file cannot be opened.
func New(opts Options) (*Collector, error) {
	c := &Collector{
		clock: opts.Clock,
		level: opts.Level,
	}
	if c.clock == nil {
		c.clock = clock.NewClock()
	}
	if c.level == nil {
		c.level = slog.LevelDebug
	}

	c.sinks = append(c.sinks, sink{w: &c.buffer, format: FormatConsole})

	if opts.LogFile != "" {
		f, err := os.OpenFile(opts.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		c.file = f
		c.sinks = append(c.sinks, sink{w: f, format: FormatFile})
	}

	if opts.Verbose {
		console := opts.Console
		if console == nil {
			console = os.Stderr
		}
		c.sinks = append(c.sinks, sink{w: console, format: FormatConsole})
	}

	return c, nil
}

// Logger returns a slog.Logger writing into this collector.
func (c *Collector) Logger() *slog.Logger {
	return slog.New(&handler{c: c})
}

// Lines returns the buffered output split into non-empty lines.
func (c *Collector) Lines() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	lines := []string{}
	for _, line := range strings.Split(c.buffer.String(), "\n") {
		if len(line) > 0 {
			lines = append(lines, line)
		}
	}
	return lines
}

// Records returns a copy of the collected records in emission order.
func (c *Collector) Records() []Record {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Record, len(c.records))
	copy(out, c.records)
	return out
}

// Close closes the file sink, if any.
func (c *Collector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.file == nil {
		return nil
	}
	err := c.file.Close()
	kept := c.sinks[:0]
	for _, s := range c.sinks {
		if s.w != io.Writer(c.file) {
			kept = append(kept, s)
		}
	}
	c.sinks = kept
	c.file = nil
	return err
}

func (c *Collector) emit(level slog.Level, msg string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	rec := Record{Time: c.clock.Now(), Level: level, Message: msg}
	c.records = append(c.records, rec)

	var firstErr error
	for _, s := range c.sinks {
		if _, err := io.WriteString(s.w, s.format(rec)+"\n"); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// LevelName maps a slog level onto DEBUG, INFO, WARN or ERROR.
func LevelName(l slog.Level) string {
	switch {
	case l < slog.LevelInfo:
		return "DEBUG"
	case l < slog.LevelWarn:
		return "INFO"
	case l < slog.LevelError:
		return "WARN"
	default:
		return "ERROR"
	}
}

// FormatConsole renders "[LEVEL] message".
func FormatConsole(r Record) string {
	return fmt.Sprintf("[%-5s] %s", LevelName(r.Level), r.Message)
}

// FormatFile renders "<time> [LEVEL] degoss: message".
func FormatFile(r Record) string {
	return fmt.Sprintf("%s [%-5s] %s: %s", r.Time.Format(fileTimeLayout), LevelName(r.Level), LoggerName, r.Message)
}
