package prefs

import (
	"fmt"
	"log/slog"

	"github.com/stagehand-games/stagehand/internal/config"
	"github.com/stagehand-games/stagehand/pkg/save"
)

// Open builds the store the configuration names.
func Open(cfg *config.Config, logger *slog.Logger) (save.PrefStore, error) {
	switch cfg.Store {
	case config.StoreRedis:
		return NewRedis(cfg.RedisURL, logger), nil
	case config.StoreSQLite:
		return OpenSQLite(cfg.SQLitePath, logger)
	case config.StoreMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown save store %q", cfg.Store)
	}
}
