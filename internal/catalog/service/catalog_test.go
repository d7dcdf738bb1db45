package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/catalog/models"
	"github.com/Skotchmaster/storefront/internal/catalog/repo"
)

type fakeRepo struct {
	products []models.Product
	listHits int
	err      error
}

func (f *fakeRepo) GetProduct(_ context.Context, id int) (*models.Product, error) {
	for _, p := range f.products {
		if p.ID == id {
			p := p
			return &p, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (f *fakeRepo) ListProducts(context.Context) ([]models.Product, error) {
	f.listHits++
	return f.products, f.err
}

type fakeCache struct {
	items   []models.Product
	has     bool
	readErr error
	sets    int
}

func (f *fakeCache) Products(context.Context) ([]models.Product, bool, error) {
	return f.items, f.has, f.readErr
}

func (f *fakeCache) SetProducts(_ context.Context, items []models.Product) error {
	f.items, f.has = items, true
	f.sets++
	return nil
}

type fakeSearcher struct {
	gotFrom, gotSize int
}

func (f *fakeSearcher) Search(_ context.Context, q string, from, size int) (int64, []models.Product, error) {
	f.gotFrom, f.gotSize = from, size
	return 1, []models.Product{{ID: 1, Name: q}}, nil
}

func TestCatalogService_GetProduct(t *testing.T) {
	svc := &CatalogService{Repo: &fakeRepo{products: []models.Product{{ID: 1, Name: "Chair"}}}}
	ctx := context.Background()

	p, err := svc.GetProduct(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Chair", p.Name)

	_, err = svc.GetProduct(ctx, 2)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.GetProduct(ctx, 0)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCatalogService_ListProducts_ReadThroughCache(t *testing.T) {
	r := &fakeRepo{products: []models.Product{{ID: 1}, {ID: 2}}}
	c := &fakeCache{}
	svc := &CatalogService{Repo: r, Cache: c}
	ctx := context.Background()

	items, err := svc.ListProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, 1, c.sets)

	items, err = svc.ListProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, 1, r.listHits)
}

func TestCatalogService_ListProducts_CacheFailureFallsBack(t *testing.T) {
	r := &fakeRepo{products: []models.Product{{ID: 1}}}
	svc := &CatalogService{Repo: r, Cache: &fakeCache{readErr: errors.New("redis down")}}

	items, err := svc.ListProducts(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, 1, r.listHits)
}

func TestCatalogService_ListProducts_RepoError(t *testing.T) {
	boom := errors.New("boom")
	svc := &CatalogService{Repo: &fakeRepo{err: boom}}

	_, err := svc.ListProducts(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestCatalogService_SearchProducts(t *testing.T) {
	ctx := context.Background()

	_, err := (&CatalogService{}).SearchProducts(ctx, "", 1, 10)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = (&CatalogService{}).SearchProducts(ctx, "lamp", 1, 10)
	assert.ErrorIs(t, err, ErrSearchDisabled)

	s := &fakeSearcher{}
	res, err := (&CatalogService{Search: s}).SearchProducts(ctx, "lamp", 3, 5)
	require.NoError(t, err)
	assert.Equal(t, 10, s.gotFrom)
	assert.Equal(t, 5, s.gotSize)
	assert.EqualValues(t, 1, res.Total)
	assert.Equal(t, 3, res.Page)
	assert.Equal(t, "lamp", res.Items[0].Name)
}
