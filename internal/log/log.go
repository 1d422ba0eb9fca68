// Package log provides centralized logging functionality using zap logger.
package log

import (
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	mu         sync.RWMutex
	log        *zap.SugaredLogger
	baseLogger *zap.Logger
	fileSink   *lumberjack.Logger
)

// Options configures the package-level logger
type Options struct {
	Debug bool

	// File, when set, receives a copy of every entry and is rotated by size
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Init initializes the package-level logger
func Init(debug bool) error {
	return InitWithOptions(Options{Debug: debug})
}

// InitWithOptions initializes the package-level logger with an optional
// rotating file sink
func InitWithOptions(opts Options) error {
	zapLogger, sink, err := build(opts)
	if err != nil {
		return fmt.Errorf("can't initialize zap logger: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()

	if fileSink != nil {
		fileSink.Close()
	}
	baseLogger = zapLogger
	log = zapLogger.Sugar()
	fileSink = sink
	return nil
}

func build(opts Options) (*zap.Logger, *lumberjack.Logger, error) {
	var encCfg zapcore.EncoderConfig
	var level zapcore.Level
	var consoleEnc zapcore.Encoder

	if opts.Debug {
		encCfg = zap.NewDevelopmentEncoderConfig()
		level = zapcore.DebugLevel
		consoleEnc = zapcore.NewConsoleEncoder(encCfg)
	} else {
		encCfg = zap.NewProductionEncoderConfig()
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		level = zapcore.InfoLevel
		consoleEnc = zapcore.NewJSONEncoder(encCfg)
	}

	cores := []zapcore.Core{
		zapcore.NewCore(consoleEnc, zapcore.Lock(os.Stderr), level),
	}

	var sink *lumberjack.Logger
	if opts.File != "" {
		if opts.MaxSizeMB < 0 || opts.MaxBackups < 0 || opts.MaxAgeDays < 0 {
			return nil, nil, fmt.Errorf("negative rotation limits for %s", opts.File)
		}
		sink = &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
		}
		// Files always get JSON so they can be shipped elsewhere
		fileEnc := zap.NewProductionEncoderConfig()
		fileEnc.EncodeTime = zapcore.ISO8601TimeEncoder
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(fileEnc), zapcore.AddSync(sink), level))
	}

	zapOpts := []zap.Option{zap.AddCaller(), zap.AddCallerSkip(1)}
	if opts.Debug {
		zapOpts = append(zapOpts, zap.Development())
	}

	return zap.New(zapcore.NewTee(cores...), zapOpts...), sink, nil
}

// GetZapLogger returns the base zap logger
func GetZapLogger() *zap.Logger {
	mu.Lock()
	defer mu.Unlock()
	if baseLogger == nil {
		// Fallback logger if not initialized
		baseLogger, _ = zap.NewProduction(zap.AddCallerSkip(1))
		log = baseLogger.Sugar()
	}
	return baseLogger
}

// GetSugaredLogger returns the sugared logger instance
func GetSugaredLogger() *zap.SugaredLogger {
	GetZapLogger()
	mu.RLock()
	defer mu.RUnlock()
	return log
}

// Sync flushes any buffered log entries
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	if log != nil {
		log.Sync()
	}
}

// Package-level convenience functions
func Debug(args ...interface{}) {
	GetSugaredLogger().Debug(args...)
}

func Debugf(template string, args ...interface{}) {
	GetSugaredLogger().Debugf(template, args...)
}

func Debugw(msg string, keysAndValues ...interface{}) {
	GetSugaredLogger().Debugw(msg, keysAndValues...)
}

func Info(args ...interface{}) {
	GetSugaredLogger().Info(args...)
}

func Infof(template string, args ...interface{}) {
	GetSugaredLogger().Infof(template, args...)
}

func Infow(msg string, keysAndValues ...interface{}) {
	GetSugaredLogger().Infow(msg, keysAndValues...)
}

func Warn(args ...interface{}) {
	GetSugaredLogger().Warn(args...)
}

func Warnf(template string, args ...interface{}) {
	GetSugaredLogger().Warnf(template, args...)
}

func Warnw(msg string, keysAndValues ...interface{}) {
	GetSugaredLogger().Warnw(msg, keysAndValues...)
}

func Error(args ...interface{}) {
	GetSugaredLogger().Error(args...)
}

func Errorf(template string, args ...interface{}) {
	GetSugaredLogger().Errorf(template, args...)
}

func Errorw(msg string, keysAndValues ...interface{}) {
	GetSugaredLogger().Errorw(msg, keysAndValues...)
}

func Fatal(args ...interface{}) {
	GetSugaredLogger().Fatal(args...)
	os.Exit(1)
}

func Fatalf(template string, args ...interface{}) {
	GetSugaredLogger().Fatalf(template, args...)
	os.Exit(1)
}
