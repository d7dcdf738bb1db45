package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Skotchmaster/storefront/internal/auth/gate"
	"github.com/Skotchmaster/storefront/internal/catalog/cache"
	"github.com/Skotchmaster/storefront/internal/catalog/search"
	"github.com/Skotchmaster/storefront/pkg/config"
	"github.com/Skotchmaster/storefront/pkg/db"
	"github.com/Skotchmaster/storefront/pkg/mykafka"
)

// Build connects to everything cfg names. Kafka, Redis and Elasticsearch are
// skipped when their address is empty; a configured one that cannot be
// reached fails the build. The returned close func releases whatever was
// opened.
func Build(ctx context.Context, cfg config.Config, log *slog.Logger) (*Deps, func() error, error) {
	var closers []func() error
	closeAll := func() error {
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			errs = append(errs, closers[i]())
		}
		return errors.Join(errs...)
	}

	gdb, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	closers = append(closers, func() error { return db.Close(gdb) })

	if err := Migrate(gdb); err != nil {
		_ = closeAll()
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}

	d := &Deps{
		DB:          gdb,
		Logger:      log,
		Gate:        gate.New(cfg.JWTAccessSecret, cfg.TokenTTL),
		CartTopic:   cfg.CartTopic,
		SyncWorkers: cfg.SyncWorkers,
	}

	if len(cfg.KafkaBrokers) > 0 {
		producer, err := mykafka.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			_ = closeAll()
			return nil, nil, fmt.Errorf("kafka producer: %w", err)
		}
		closers = append(closers, producer.Close)
		d.Events = producer
		log.Info("cart_events_enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.CartTopic)
	}

	if cfg.RedisAddr != "" {
		rdb, err := cache.NewClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			_ = closeAll()
			return nil, nil, err
		}
		closers = append(closers, rdb.Close)
		d.Cache = &cache.RedisCache{Client: rdb, Key: cache.DefaultKey, TTL: cfg.CatalogCacheTTL}
		log.Info("catalog_cache_enabled", "addr", cfg.RedisAddr)
	}

	if cfg.ESURL != "" {
		es, err := search.NewESClient(ctx, cfg.ESURL, cfg.ESUser, cfg.ESPassword)
		if err != nil {
			_ = closeAll()
			return nil, nil, err
		}
		d.Search = &search.Index{ES: es, Name: cfg.ESIndex}
		log.Info("catalog_search_enabled", "url", cfg.ESURL, "index", cfg.ESIndex)
	}

	return d, closeAll, nil
}
