package api

import (
	"fmt"

	"github.com/JayJamieson/sports-api/pkg/cache"
	"github.com/JayJamieson/sports-api/pkg/config"
	"github.com/JayJamieson/sports-api/pkg/db"
	"github.com/JayJamieson/sports-api/pkg/service"
	"github.com/sirupsen/logrus"
)

// OpenSource builds the table source selected by cfg. The returned memory
// cache is nil unless CACHE=memory.
func OpenSource(cfg *config.Config, log *logrus.Logger) (db.Source, *cache.Memory, error) {
	if cfg.Data.Source == config.SourceLibSQL {
		mirror, err := db.NewMirror(cfg.Data.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		if cfg.Cache.Backend != config.CacheNone {
			log.WithField("cache", cfg.Cache.Backend).Warn("table cache only applies to the csv source, ignoring")
		}
		return mirror, nil, nil
	}

	csvSource, err := db.NewCSVSource(map[string]string{
		service.DatasetPrograms:   cfg.Data.ProgramsPath(),
		service.DatasetFacilities: cfg.Data.FacilitiesPath(),
	})
	if err != nil {
		return nil, nil, err
	}

	switch cfg.Cache.Backend {
	case config.CacheMemory:
		mem := cache.NewMemory(log)
		return db.NewCachedSource(csvSource, mem), mem, nil
	case config.CacheRedis:
		client, err := cache.NewRedisClient(cache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			csvSource.Close()
			return nil, nil, err
		}
		log.WithField("addr", cfg.Redis.Addr).Info("Successfully connected to Redis")
		return db.NewCachedSource(csvSource, cache.NewRedis(client, cfg.Cache.TTL, log)), nil, nil
	default:
		return csvSource, nil, nil
	}
}
