package utils

import (
	"log"

	"github.com/Adriel2503/agente-reserva/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Global logger instance
var Logger *zap.Logger

// InitializeLogger sets up the logging configuration
func InitializeLogger() {
	var err error
	Logger, err = NewLogger(config.AppConfig)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	zap.ReplaceGlobals(Logger)
}

// NewLogger builds a zap logger for the given environment, level and optional log file.
func NewLogger(cfg config.Config) (*zap.Logger, error) {
	var zc zap.Config

	if cfg.Env == "production" {
		zc = zap.NewProductionConfig()
		zc.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	} else {
		zc = zap.NewDevelopmentConfig()
		zc.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	if cfg.LogLevel != "" {
		level, err := zap.ParseAtomicLevel(cfg.LogLevel)
		if err != nil {
			return nil, err
		}
		zc.Level = level
	}

	if cfg.LogFile != "" {
		zc.OutputPaths = append(zc.OutputPaths, cfg.LogFile)
		zc.ErrorOutputPaths = append(zc.ErrorOutputPaths, cfg.LogFile)
	}

	return zc.Build(zap.Fields(zap.String("service", "agent-reservas")))
}

// GetLogger retrieves the global logger
func GetLogger() *zap.Logger {
	if Logger == nil {
		InitializeLogger()
	}
	return Logger
}
