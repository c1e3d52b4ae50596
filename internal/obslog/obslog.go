package obslog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var globalLogger = zap.NewNop()

// L returns the process-wide logger. It is a nop until InitFromEnv runs.
func L() *zap.Logger { return globalLogger }

// Sync flushes buffered entries. Safe to defer from main.
func Sync() { _ = globalLogger.Sync() }

// InitFromEnv builds the global logger from the LOG_* environment variables:
// LOG_LEVEL, LOG_FORMAT (legacy|json|console), LOG_TO_CONSOLE, LOG_TO_FILE,
// LOG_FILE and LOG_CALLER. Console and file sinks share one encoder format.
func InitFromEnv() error {
	level := parseLevel(envOr("LOG_LEVEL", "info"))
	format := normalizeFormat(envOr("LOG_FORMAT", "legacy"))

	var cores []zapcore.Core
	if boolEnv("LOG_TO_CONSOLE", true) {
		cores = append(cores, zapcore.NewCore(newEncoder(format), zapcore.AddSync(os.Stdout), level))
	}
	if boolEnv("LOG_TO_FILE", true) {
		path := envOr("LOG_FILE", filepath.Join("logs", "bingo-server.log"))
		sink, err := openLogFile(path)
		if err != nil {
			return err
		}
		cores = append(cores, zapcore.NewCore(newEncoder(format), sink, level))
	}
	if len(cores) == 0 {
		cores = append(cores, zapcore.NewCore(newEncoder(format), zapcore.AddSync(os.Stdout), level))
	}

	logger := zap.New(zapcore.NewTee(cores...), zap.AddStacktrace(zapcore.ErrorLevel))
	// The legacy format always carries the caller; the others opt in.
	if format == "legacy" || boolEnv("LOG_CALLER", false) {
		logger = logger.WithOptions(zap.AddCaller())
	}
	globalLogger = logger
	return nil
}

func openLogFile(path string) (zapcore.WriteSyncer, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return zapcore.AddSync(f), nil
}

func normalizeFormat(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return "json"
	case "console":
		return "console"
	default:
		return "legacy"
	}
}

// newEncoder maps a format name to its encoder: legacy is pipe-separated
// console lines, the other two are standard zap encoders.
func newEncoder(format string) zapcore.Encoder {
	cfg := zap.NewProductionEncoderConfig()
	switch format {
	case "json":
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		cfg.EncodeLevel = zapcore.LowercaseLevelEncoder
		return zapcore.NewJSONEncoder(cfg)
	case "console":
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		cfg.EncodeLevel = zapcore.CapitalLevelEncoder
		return zapcore.NewConsoleEncoder(cfg)
	default:
		cfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")
		cfg.EncodeLevel = zapcore.CapitalLevelEncoder
		cfg.ConsoleSeparator = " | "
		return zapcore.NewConsoleEncoder(cfg)
	}
}

func parseLevel(s string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	case "fatal":
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func boolEnv(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return strings.EqualFold(v, "true")
}
