// Package logger builds the process-wide zap logger.
package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"interview-assessment-service/internal/config"
)

// New returns a logger writing to stdout, plus a rotating JSON file when
// log.file is set. Debug mode switches stdout to the console encoder.
func New(cfg config.Config) (*zap.Logger, error) {
	level := zap.InfoLevel
	if cfg.Log.Level != "" {
		parsed, err := zapcore.ParseLevel(cfg.Log.Level)
		if err != nil {
			return nil, err
		}
		level = parsed
	} else if cfg.Server.Mode == "debug" {
		level = zap.DebugLevel
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	stdoutEncoder := zapcore.NewJSONEncoder(encoderConfig)
	if cfg.Server.Mode == "debug" {
		stdoutEncoder = zapcore.NewConsoleEncoder(encoderConfig)
	}
	cores := []zapcore.Core{
		zapcore.NewCore(stdoutEncoder, zapcore.AddSync(os.Stdout), level),
	}
	if cfg.Log.File != "" {
		fileWriter := zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.Log.File,
			MaxSize:    100,
			MaxBackups: 5,
			MaxAge:     30,
			Compress:   true,
		})
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), fileWriter, level))
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddStacktrace(zap.ErrorLevel)), nil
}
