package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"
)

// Level represents the logging level
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the string representation of the log level
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Options controls where log lines go.
type Options struct {
	Console  io.Writer // human-facing output; nil means os.Stderr
	FilePath string    // optional log file, every level is written there
	Verbose  bool      // show DEBUG on the console
	Quiet    bool      // drop all console output (the result stream owns stdout)
}

// Logger handles dual-output logging (console + file)
type Logger struct {
	console  *log.Logger
	file     *log.Logger
	logFile  *os.File
	verbose  bool
	minLevel Level
}

var globalLogger *Logger

// Init initializes the global logger. Calling Init again replaces the
// previous logger and closes its file.
func Init(opts Options) error {
	Close()

	console := opts.Console
	if console == nil {
		console = os.Stderr
	}
	if opts.Quiet {
		console = io.Discard
	}

	l := &Logger{
		console:  log.New(console, "", 0),
		verbose:  opts.Verbose,
		minLevel: LevelInfo,
	}
	if opts.Verbose {
		l.minLevel = LevelDebug
	}

	if opts.FilePath != "" {
		if err := os.MkdirAll(filepath.Dir(opts.FilePath), 0755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(opts.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		l.logFile = f
		l.file = log.New(f, "", log.LstdFlags)
	}

	globalLogger = l
	return nil
}

// Close closes the log file
func Close() {
	if globalLogger != nil && globalLogger.logFile != nil {
		globalLogger.logFile.Close()
		globalLogger.logFile = nil
		globalLogger.file = nil
	}
}

// Debug logs a debug message (file only, unless verbose)
func Debug(format string, args ...interface{}) {
	if globalLogger == nil {
		return
	}
	globalLogger.log(LevelDebug, format, args...)
}

// Info logs an info message (console + file)
func Info(format string, args ...interface{}) {
	if globalLogger == nil {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
		return
	}
	globalLogger.log(LevelInfo, format, args...)
}

// Warn logs a warning message (console + file)
func Warn(format string, args ...interface{}) {
	if globalLogger == nil {
		fmt.Fprintf(os.Stderr, "WARN: "+format+"\n", args...)
		return
	}
	globalLogger.log(LevelWarn, format, args...)
}

// Error logs an error message (console + file)
func Error(format string, args ...interface{}) {
	if globalLogger == nil {
		fmt.Fprintf(os.Stderr, "ERROR: "+format+"\n", args...)
		return
	}
	globalLogger.log(LevelError, format, args...)
}

func (l *Logger) log(level Level, format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)

	if l.file != nil {
		l.file.Printf("[%s] %s", level, message)
	}

	if level < l.minLevel {
		return
	}

	switch level {
	case LevelDebug:
		l.console.Printf("[DEBUG] %s", message)
	case LevelInfo:
		l.console.Printf("%s", message)
	case LevelWarn:
		l.console.Printf("⚠️  %s", message)
	case LevelError:
		l.console.Printf("❌ %s", message)
	}
}

// LogParseError records a per-file parse failure in the log file and keeps
// the console to a debug line.
func LogParseError(filePath string, err error, context string) {
	if globalLogger == nil {
		return
	}

	if globalLogger.file != nil {
		timestamp := time.Now().Format("2006-01-02 15:04:05")
		globalLogger.file.Printf("[%s] [PARSE_ERROR] File: %s, Context: %s, Error: %v", timestamp, filePath, context, err)
	}

	Debug("Parse error in %s: %v", filePath, err)
}

// GetLogFilePath returns the path to the current log file
func GetLogFilePath() string {
	if globalLogger != nil && globalLogger.logFile != nil {
		return globalLogger.logFile.Name()
	}
	return ""
}

// IsVerbose returns whether verbose logging is enabled
func IsVerbose() bool {
	if globalLogger == nil {
		return false
	}
	return globalLogger.verbose
}
