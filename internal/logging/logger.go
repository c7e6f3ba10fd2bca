// Package logging provides config-driven categorized logging on top of zap.
// The interactive client owns the terminal, so its logs go to a file; when
// logging is disabled every category logger is a no-op.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"grievancechat/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category represents a log category/system
type Category string

const (
	CategoryBoot  Category = "boot"  // Startup, config
	CategoryAPI   Category = "api"   // Backend HTTP calls
	CategoryRelay Category = "relay" // Form submission and chat relay
	CategoryUI    Category = "ui"    // TUI events
)

var (
	root   = zap.NewNop()
	rootMu sync.RWMutex
)

// Build creates a logger writing to cfg.File. A disabled config yields a
// no-op logger.
func Build(cfg config.LoggingConfig) (*zap.Logger, error) {
	if !cfg.Enabled || strings.TrimSpace(cfg.File) == "" {
		return zap.NewNop(), nil
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
		return nil, fmt.Errorf("failed to create logs directory: %w", err)
	}

	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.Encoding = "json"
	if cfg.Format == "console" {
		zc.Encoding = "console"
		zc.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	}
	zc.OutputPaths = []string{cfg.File}
	zc.ErrorOutputPaths = []string{cfg.File}
	zc.Sampling = nil

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// Initialize builds the root logger from cfg and installs it for Get.
func Initialize(cfg config.LoggingConfig) error {
	logger, err := Build(cfg)
	if err != nil {
		return err
	}
	SetRoot(logger)
	Get(CategoryBoot).Debug("logging initialized",
		zap.String("file", cfg.File),
		zap.String("level", cfg.Level))
	return nil
}

// SetRoot replaces the root logger. Passing nil installs a no-op logger.
func SetRoot(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	rootMu.Lock()
	root = l
	rootMu.Unlock()
}

// Root returns the root logger.
func Root() *zap.Logger {
	rootMu.RLock()
	defer rootMu.RUnlock()
	return root
}

// Get returns the logger for a category.
func Get(category Category) *zap.Logger {
	return Root().Named(string(category))
}

// Sync flushes the root logger.
func Sync() {
	_ = Root().Sync()
}
