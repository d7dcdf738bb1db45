package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Skotchmaster/storefront/internal/catalog/models"
	"github.com/Skotchmaster/storefront/internal/catalog/repo"
	"github.com/Skotchmaster/storefront/pkg/logging"
	"github.com/Skotchmaster/storefront/pkg/util"
)

var (
	ErrValidation     = errors.New("validation")
	ErrNotFound       = errors.New("not found")
	ErrSearchDisabled = errors.New("search disabled")
)

type Repository interface {
	GetProduct(ctx context.Context, id int) (*models.Product, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
}

// Cache holds the full product listing. ok is false on a miss.
type Cache interface {
	Products(ctx context.Context) (items []models.Product, ok bool, err error)
	SetProducts(ctx context.Context, items []models.Product) error
}

type Searcher interface {
	Search(ctx context.Context, query string, from, size int) (int64, []models.Product, error)
}

// CatalogService is read-only. Cache and Search are optional.
type CatalogService struct {
	Repo   Repository
	Cache  Cache
	Search Searcher
}

type SearchResult struct {
	Total int64
	Items []models.Product
	Page  int
	Size  int
}

func (s *CatalogService) GetProduct(ctx context.Context, id int) (*models.Product, error) {
	if id <= 0 {
		return nil, fmt.Errorf("product id must be positive: %w", ErrValidation)
	}
	p, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, fmt.Errorf("product %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return p, nil
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.list")

	if s.Cache != nil {
		items, ok, err := s.Cache.Products(ctx)
		switch {
		case err != nil:
			l.Warn("catalog_cache_read_failed", "error", err)
		case ok:
			return items, nil
		}
	}

	items, err := s.Repo.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	if s.Cache != nil {
		if err := s.Cache.SetProducts(ctx, items); err != nil {
			l.Warn("catalog_cache_write_failed", "error", err)
		}
	}
	return items, nil
}

func (s *CatalogService) SearchProducts(ctx context.Context, query string, page, size int) (*SearchResult, error) {
	if query == "" {
		return nil, fmt.Errorf("query is required: %w", ErrValidation)
	}
	if s.Search == nil {
		return nil, ErrSearchDisabled
	}

	from, limit := util.Calculate(page, size)
	total, items, err := s.Search.Search(ctx, query, from, limit)
	if err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}
	return &SearchResult{Total: total, Items: items, Page: page, Size: limit}, nil
}
