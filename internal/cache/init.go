package cache

import (
	"github.com/flexcargo/flexcargo/internal/config"
	"github.com/flexcargo/flexcargo/internal/logger"
)

// Initialize builds the process wide cache
func Initialize(cfg *config.Configuration, log *logger.Logger) Cache {
	log.Infow("initializing cache system", "enabled", cfg.Cache.Enabled)
	return NewInMemoryCache(cfg)
}
