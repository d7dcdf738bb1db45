package cartsync

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogmodels "github.com/Skotchmaster/storefront/internal/catalog/models"
	ordermodels "github.com/Skotchmaster/storefront/internal/order/models"
	"github.com/Skotchmaster/storefront/internal/order/transport"
)

func TestState_AddAccumulates(t *testing.T) {
	t.Parallel()
	s := NewState()

	first := s.Add(catalogmodels.Product{ID: 2, Name: "Table"})
	s.Add(catalogmodels.Product{ID: 1, Name: "Chair"})
	again := s.Add(catalogmodels.Product{ID: 2, Name: "Table"})

	assert.NotEmpty(t, first.ID)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, 2, again.Quantity)
	assert.Equal(t, 2, s.Len())

	items := s.Items()
	require.Len(t, items, 2)
	assert.Equal(t, 2, items[0].Product.ID)
	assert.Equal(t, 1, items[1].Product.ID)
}

func TestState_AdjustAndRemove(t *testing.T) {
	t.Parallel()
	s := NewState()
	s.Add(catalogmodels.Product{ID: 1})
	s.Add(catalogmodels.Product{ID: 2})

	require.NoError(t, s.Adjust(1, 1))
	item, ok := s.Get(1)
	require.True(t, ok)
	assert.Equal(t, 2, item.Quantity)

	require.NoError(t, s.Adjust(1, -2))
	_, ok = s.Get(1)
	assert.False(t, ok)

	assert.ErrorIs(t, s.Adjust(9, 1), ErrNotInCart)
	assert.ErrorIs(t, s.Remove(9), ErrNotInCart)

	require.NoError(t, s.Remove(2))
	assert.Zero(t, s.Len())
	assert.Empty(t, s.Items())
}

func TestState_ReplaceAndEmpty(t *testing.T) {
	t.Parallel()
	s := NewState()
	s.Add(catalogmodels.Product{ID: 5})

	s.Replace([]transport.ClientCartItem{
		{ID: "a", Quantity: 3, Product: catalogmodels.Product{ID: 1}},
		{ID: "b", Quantity: 1, Product: catalogmodels.Product{ID: 2}},
	})
	items := s.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "a", items[0].ID)
	assert.Equal(t, "b", items[1].ID)
	_, ok := s.Get(5)
	assert.False(t, ok)

	s.Empty()
	assert.Zero(t, s.Len())
}

func TestState_ConcurrentAdd(t *testing.T) {
	t.Parallel()
	s := NewState()

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Add(catalogmodels.Product{ID: 7})
		}()
	}
	wg.Wait()

	item, ok := s.Get(7)
	require.True(t, ok)
	assert.Equal(t, 50, item.Quantity)
	assert.Equal(t, 1, s.Len())
}

func TestFromOrderLines(t *testing.T) {
	t.Parallel()

	items := FromOrderLines([]ordermodels.OrderLine{
		{ID: "x", ProductID: 1, Quantity: 2, Product: &catalogmodels.Product{ID: 1, Name: "Chair"}},
		{ID: "y", ProductID: 3, Quantity: 1},
	})
	require.Len(t, items, 2)
	assert.Equal(t, "Chair", items[0].Product.Name)
	assert.Equal(t, 3, items[1].Product.ID)
	assert.Equal(t, 1, items[1].Quantity)
}
