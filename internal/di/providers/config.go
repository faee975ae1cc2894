package providers

import (
	"github.com/samber/do/v2"

	"github.com/adventapp/advent-server/internal/clock"
	"github.com/adventapp/advent-server/internal/config"
	"github.com/adventapp/advent-server/internal/logger"
)

// ProvideConfig provides the application configuration.
func ProvideConfig(i do.Injector) (*config.Config, error) {
	return config.LoadConfig()
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		AddSource:   cfg.App.Environment == "development",
		Environment: cfg.App.Environment,
	})

	log.Info("Starting Advent Server",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"data_path", cfg.Database.BasePath,
	)

	return log, nil
}

// ProvideClock provides the wall-clock time source used by the door gate.
func ProvideClock(i do.Injector) (clock.Clock, error) {
	return clock.System(), nil
}
