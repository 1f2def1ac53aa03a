package logging

// Leveled logging for meshdiag

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"
)

// LogLevel represents the logging level
type LogLevel int

const (
	LogLevelSilent LogLevel = iota
	LogLevelError
	LogLevelInfo
	LogLevelVerbose
	LogLevelDebug
)

// ParseLevel maps a level name ("silent", "error", "info", "verbose",
// "debug") to a LogLevel.
func ParseLevel(name string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "silent", "off", "none":
		return LogLevelSilent, nil
	case "error":
		return LogLevelError, nil
	case "", "info":
		return LogLevelInfo, nil
	case "verbose":
		return LogLevelVerbose, nil
	case "debug":
		return LogLevelDebug, nil
	default:
		return LogLevelInfo, fmt.Errorf("unknown log level %q", name)
	}
}

func (l LogLevel) String() string {
	switch l {
	case LogLevelSilent:
		return "silent"
	case LogLevelError:
		return "error"
	case LogLevelInfo:
		return "info"
	case LogLevelVerbose:
		return "verbose"
	case LogLevelDebug:
		return "debug"
	default:
		return "unknown"
	}
}

func levelLabel(l LogLevel) string {
	return strings.ToUpper(l.String())
}

// Logger provides leveled logging to the console and an optional file.
type Logger struct {
	mu      sync.Mutex
	level   LogLevel
	format  string
	file    *os.File
	fileLog *log.Logger
	stdout  *log.Logger
	stderr  *log.Logger
}

// NewLogger creates a new text logger
func NewLogger(level LogLevel, logFile string) (*Logger, error) {
	return NewLoggerWithOptions(level, logFile, "text")
}

// NewLoggerWithOptions creates a logger with an explicit line format
// ("text" or "json").
func NewLoggerWithOptions(level LogLevel, logFile, format string) (*Logger, error) {
	if format == "" {
		format = "text"
	}
	if format != "text" && format != "json" {
		return nil, fmt.Errorf("unknown log format %q", format)
	}
	l := &Logger{
		level:  level,
		format: format,
		stdout: log.New(os.Stdout, "", 0),
		stderr: log.New(os.Stderr, "", 0),
	}

	if logFile != "" {
		file, err := os.Create(logFile)
		if err != nil {
			return nil, fmt.Errorf("create log file: %w", err)
		}
		l.file = file
		flags := log.LstdFlags
		if format == "json" {
			flags = 0
		}
		l.fileLog = log.New(file, "", flags)
	}

	return l, nil
}

// Discard returns a logger that writes nothing.
func Discard() *Logger {
	return &Logger{
		level:  LogLevelSilent,
		format: "text",
		stdout: log.New(io.Discard, "", 0),
		stderr: log.New(io.Discard, "", 0),
	}
}

// SetOutput redirects console output.
func (l *Logger) SetOutput(stdout, stderr io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stdout = log.New(stdout, "", 0)
	l.stderr = log.New(stderr, "", 0)
}

// Close closes the logger and flushes all data
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		l.fileLog = nil
		return err
	}
	return nil
}

// Error logs an error message
func (l *Logger) Error(format string, v ...interface{}) {
	l.logf(LogLevelError, format, v...)
}

// Info logs an info message
func (l *Logger) Info(format string, v ...interface{}) {
	l.logf(LogLevelInfo, format, v...)
}

// Verbose logs a verbose message
func (l *Logger) Verbose(format string, v ...interface{}) {
	l.logf(LogLevelVerbose, format, v...)
}

// Debug logs a debug message
func (l *Logger) Debug(format string, v ...interface{}) {
	l.logf(LogLevelDebug, format, v...)
}

func (l *Logger) logf(level LogLevel, format string, v ...interface{}) {
	if l.GetLevel() < level {
		return
	}
	msg := fmt.Sprintf(format, v...)
	if l.format == "json" {
		entry := map[string]string{
			"time":  time.Now().UTC().Format(time.RFC3339Nano),
			"level": level.String(),
			"msg":   msg,
		}
		data, err := json.Marshal(entry)
		if err == nil {
			l.write(string(data), level == LogLevelError)
			return
		}
	}
	l.write(levelLabel(level)+": "+msg, level == LogLevelError)
}

// write writes a message to the appropriate outputs
func (l *Logger) write(msg string, isError bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.fileLog != nil {
		l.fileLog.Println(msg)
	}

	// Errors go to stderr; everything else reaches stdout only at verbose or debug.
	if isError {
		l.stderr.Println(msg)
	} else if l.level >= LogLevelVerbose {
		l.stdout.Println(msg)
	}
}

// SetLevel sets the logging level
func (l *Logger) SetLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// GetLevel returns the current logging level
func (l *Logger) GetLevel() LogLevel {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

// LogDecode logs the outcome of one payload decode.
func (l *Logger) LogDecode(source, version string, size, fields int, err error) {
	if err != nil {
		l.Info("FAILED decode of %s (version %s, %d bytes): %v", source, version, size, err)
		return
	}
	l.Verbose("DECODED %s (version %s, %d bytes, %d fields)", source, version, size, fields)
}

// LogStartup logs startup information
func (l *Logger) LogStartup(command, version, input, configPath string) {
	l.Info("Starting meshdiag %s", command)
	l.Verbose("  Protocol version: %s", version)
	l.Verbose("  Input: %s", input)
	if configPath != "" {
		l.Verbose("  Config: %s", configPath)
	}
}

// LogHex logs hex data (for debug level)
func (l *Logger) LogHex(label string, data []byte) {
	if l.GetLevel() < LogLevelDebug {
		return
	}
	var sb strings.Builder
	for i, b := range data {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%02x", b)
	}
	l.Debug("%s: %s", label, sb.String())
}
