// Package seed loads the product catalog into storage and the search index.
package seed

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"

	"github.com/Skotchmaster/storefront/internal/catalog/models"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

//go:embed products.json
var defaultProducts []byte

type Store interface {
	UpsertProducts(ctx context.Context, products []models.Product) error
}

type Indexer interface {
	IndexProduct(ctx context.Context, p models.Product) error
}

func Load(r io.Reader) ([]models.Product, error) {
	var products []models.Product
	if err := json.NewDecoder(r).Decode(&products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	for i, p := range products {
		if p.ID <= 0 || p.Name == "" {
			return nil, fmt.Errorf("product #%d: id and name are required", i)
		}
	}
	return products, nil
}

func Default() ([]models.Product, error) {
	return Load(bytes.NewReader(defaultProducts))
}

// Run upserts products and, when idx is set, indexes each one. Index failures
// are logged and counted; the storage write is what makes the catalog usable.
func Run(ctx context.Context, store Store, idx Indexer, products []models.Product) (indexed int, err error) {
	l := logging.FromContext(ctx).With("svc", "catalog.seed")

	if err := store.UpsertProducts(ctx, products); err != nil {
		return 0, fmt.Errorf("upsert products: %w", err)
	}
	l.Info("products_upserted", "count", len(products))

	if idx == nil {
		return 0, nil
	}
	for _, p := range products {
		if err := idx.IndexProduct(ctx, p); err != nil {
			l.Warn("index_product_failed", "product_id", p.ID, "error", err)
			continue
		}
		indexed++
	}
	l.Info("products_indexed", "count", indexed)
	return indexed, nil
}
