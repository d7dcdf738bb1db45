// Command seed loads products into the catalog table and, when ES_URL is
// set, into the search index.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/Skotchmaster/storefront/internal/app"
	"github.com/Skotchmaster/storefront/internal/catalog/cache"
	catalogmodels "github.com/Skotchmaster/storefront/internal/catalog/models"
	catalogrepo "github.com/Skotchmaster/storefront/internal/catalog/repo"
	"github.com/Skotchmaster/storefront/internal/catalog/search"
	"github.com/Skotchmaster/storefront/internal/catalog/seed"
	"github.com/Skotchmaster/storefront/pkg/config"
	"github.com/Skotchmaster/storefront/pkg/db"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

func main() {
	file := flag.String("file", "", "JSON array of products; the built-in set is used when empty")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()

	log := logging.New(cfg.LogLevel).With("service", "seed")
	config.MustHave(log, cfg, "DATABASE_URL")
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	ctx = logging.IntoContext(ctx, log)

	products, err := loadProducts(*file)
	if err != nil {
		log.Error("load_products_failed", "error", err)
		os.Exit(1)
	}

	gdb, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db_init_failed", "error", err)
		os.Exit(1)
	}
	defer db.Close(gdb)

	if err := app.Migrate(gdb); err != nil {
		log.Error("migrate_failed", "error", err)
		os.Exit(1)
	}

	var idx seed.Indexer
	if cfg.ESURL != "" {
		es, err := search.NewESClient(ctx, cfg.ESURL, cfg.ESUser, cfg.ESPassword)
		if err != nil {
			log.Error("es_init_failed", "error", err)
			os.Exit(1)
		}
		idx = &search.Index{ES: es, Name: cfg.ESIndex}
	}

	indexed, err := seed.Run(ctx, &catalogrepo.GormRepo{DB: gdb}, idx, products)
	if err != nil {
		log.Error("seed_failed", "error", err)
		os.Exit(1)
	}

	if cfg.RedisAddr != "" {
		rdb, err := cache.NewClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Warn("cache_invalidate_skipped", "error", err)
		} else {
			c := &cache.RedisCache{Client: rdb, Key: cache.DefaultKey}
			if err := c.Invalidate(ctx); err != nil {
				log.Warn("cache_invalidate_failed", "error", err)
			}
			_ = rdb.Close()
		}
	}

	log.Info("seed_done", "products", len(products), "indexed", indexed)
}

func loadProducts(path string) ([]catalogmodels.Product, error) {
	if path == "" {
		return seed.Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return seed.Load(f)
}
