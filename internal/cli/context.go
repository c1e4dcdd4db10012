package cli

import (
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/entrypoint"
	"github.com/mrlokans/bookshelf/internal/logging"
)

// commandContext lazily loads configuration and the application for the
// subcommands that need them.
type commandContext struct {
	version string
	dbFlag  *string

	configOnce sync.Once
	config     *config.Config
	logger     *zap.Logger
	configErr  error

	app *entrypoint.App
}

func newCommandContext(version string, dbFlag *string) *commandContext {
	return &commandContext{version: version, dbFlag: dbFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, *zap.Logger, error) {
	c.configOnce.Do(func() {
		cfg := config.NewConfig()
		if c.dbFlag != nil {
			if path := strings.TrimSpace(*c.dbFlag); path != "" {
				cfg.Database.Path = path
			}
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.logger = logger
	})
	return c.config, c.logger, c.configErr
}

func (c *commandContext) ensureApp() (*entrypoint.App, error) {
	if c.app != nil {
		return c.app, nil
	}
	cfg, logger, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	app, err := entrypoint.NewApp(cfg, logger)
	if err != nil {
		return nil, err
	}
	c.app = app
	return app, nil
}

func (c *commandContext) close() {
	if c.app != nil {
		if err := c.app.Close(); err != nil && c.logger != nil {
			c.logger.Warn("error closing database", zap.Error(err))
		}
		c.app = nil
	}
	if c.logger != nil {
		_ = c.logger.Sync()
	}
}
