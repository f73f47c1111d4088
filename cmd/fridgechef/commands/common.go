// Package commands implements the fridgechef subcommands
package commands

import (
	"go.uber.org/zap"

	"github.com/fridgechef/fridgechef/internal/infrastructure/config"
	"github.com/fridgechef/fridgechef/pkg/logger"
)

// ConfigFile is bound to the root --config flag
var ConfigFile string

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	return logger.New(logger.Config{
		Level:       cfg.App.LogLevel,
		Format:      cfg.App.LogFormat,
		Development: cfg.App.Debug,
	})
}
