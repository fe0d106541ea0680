package logx

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config 日志配置
type Config struct {
	File    string `mapstructure:"file"`    // 日志文件路径,为空则不写文件
	Level   string `mapstructure:"level"`   // debug | info | warn | error
	Console bool   `mapstructure:"console"` // 是否同时输出到控制台
}

var (
	mu     sync.RWMutex
	logger *zap.SugaredLogger = defaultLogger()
)

// defaultLogger 未初始化时使用的控制台日志
func defaultLogger() *zap.SugaredLogger {
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig()),
		zapcore.Lock(os.Stderr),
		zapcore.InfoLevel,
	)
	return zap.New(core).Sugar()
}

func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.000")
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return cfg
}

// Init 根据配置初始化全局日志
func Init(cfg Config) error {
	level := parseLevel(cfg.Level)

	var cores []zapcore.Core
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return err
		}
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(encoderConfig()),
			zapcore.Lock(f),
			level,
		))
	}
	if cfg.Console || cfg.File == "" {
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(encoderConfig()),
			zapcore.Lock(os.Stderr),
			level,
		))
	}

	mu.Lock()
	defer mu.Unlock()
	logger = zap.New(zapcore.NewTee(cores...), zap.AddCallerSkip(1)).Sugar()
	return nil
}

// parseLevel 解析日志级别,无法识别时回退到 info
func parseLevel(s string) zapcore.Level {
	switch strings.ToLower(s) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func get() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Debug 输出 debug 级别日志
func Debug(format string, args ...any) {
	get().Debugf(format, args...)
}

// Info 输出 info 级别日志
func Info(format string, args ...any) {
	get().Infof(format, args...)
}

// Warn 输出 warn 级别日志
func Warn(format string, args ...any) {
	get().Warnf(format, args...)
}

// Error 输出 error 级别日志
func Error(format string, args ...any) {
	get().Errorf(format, args...)
}

// Sync 刷新缓冲的日志
func Sync() {
	_ = get().Sync()
}
