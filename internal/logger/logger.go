package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/julianstephens/querylib/internal/constants"
)

// Rotation limits for the log file.
const (
	maxFileMB    = 5
	keepFiles    = 3
	keepForDays  = 14
	logSubdir    = "logs"
	logExtension = ".log"
)

var (
	// Logger is the global logger instance
	Logger *log.Logger

	logPath string
)

// Config holds logger configuration
type Config struct {
	Debug bool
	// Dir is the directory holding the logs/ subdirectory, usually the config dir.
	Dir string
	// Interactive suppresses stderr output; the TUI owns the terminal.
	Interactive bool
}

// level is warn by default, debug when requested.
func (c Config) level() log.Level {
	if c.Debug {
		return log.DebugLevel
	}
	return log.WarnLevel
}

// sink is the rotated file, mirrored to stderr only for debug runs outside the TUI.
func (c Config) sink(file io.Writer) io.Writer {
	if c.Debug && !c.Interactive {
		return io.MultiWriter(os.Stderr, file)
	}
	return file
}

func rotatingFile(dir string) (*lumberjack.Logger, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &lumberjack.Logger{
		Filename:   filepath.Join(dir, constants.AppName+logExtension),
		MaxSize:    maxFileMB,
		MaxBackups: keepFiles,
		MaxAge:     keepForDays,
		Compress:   true,
	}, nil
}

// Init points the global logger at <Dir>/logs/querylib.log.
func Init(cfg Config) error {
	file, err := rotatingFile(filepath.Join(cfg.Dir, logSubdir))
	if err != nil {
		return err
	}

	logPath = file.Filename
	Logger = log.NewWithOptions(cfg.sink(file), log.Options{
		Prefix:          constants.AppName,
		Level:           cfg.level(),
		ReportTimestamp: true,
		ReportCaller:    cfg.Debug,
	})
	return nil
}

// UseWriter points the global logger at w. Used by tests to capture output.
func UseWriter(w io.Writer, level log.Level) {
	logPath = ""
	Logger = log.NewWithOptions(w, log.Options{
		Level:  level,
		Prefix: constants.AppName,
	})
}

// Path returns the active log file, or "" when logging is not file-backed.
func Path() string {
	return logPath
}

func Debug(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Debug(msg, keyvals...)
	}
}

func Info(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Info(msg, keyvals...)
	}
}

func Warn(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Warn(msg, keyvals...)
	}
}

func Error(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Error(msg, keyvals...)
	}
}

// Fatal logs msg and exits with status 1, logger or not.
func Fatal(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Fatal(msg, keyvals...)
	}
	os.Exit(1)
}
