package app

import (
	"github.com/taskdeck/taskdeck/internal/cache"
	"github.com/taskdeck/taskdeck/internal/config"
)

var globalQueryCache *cache.Cache

func MustInitQueryCache() {
	cfg := config.Global().Cache

	queryCache, err := cache.New(cfg.MaxEntries)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to initialize query cache")
		panic(err)
	}
	globalQueryCache = queryCache

	globalQueryCache.Subscribe(func(tag string) {
		globalLogger.Trace().
			Str("tag", tag).
			Msg("invalidated cache tag")
	})

	globalLogger.Info().
		Int("max_entries", cfg.MaxEntries).
		Msg("initialized query cache")
}
