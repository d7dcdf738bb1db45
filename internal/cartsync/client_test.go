package cartsync

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/app"
	"github.com/Skotchmaster/storefront/internal/auth/gate"
	catalogmodels "github.com/Skotchmaster/storefront/internal/catalog/models"
	"github.com/Skotchmaster/storefront/internal/order/service"
	"github.com/Skotchmaster/storefront/pkg/db/dbtest"
)

var (
	chair = catalogmodels.Product{ID: 1, Name: "Chair", Price: 49.5}
	table = catalogmodels.Product{ID: 2, Name: "Table", Price: 120}
	lamp  = catalogmodels.Product{ID: 3, Name: "Lamp", Price: 15}
)

// newTestClient runs the whole storefront over TLS so the secure session
// cookie round-trips through the client's jar.
func newTestClient(t *testing.T) (*Client, *httptest.Server) {
	t.Helper()
	db := dbtest.Open(t)
	require.NoError(t, app.Migrate(db))
	require.NoError(t, db.Create(&[]catalogmodels.Product{chair, table, lamp}).Error)

	ts := httptest.NewTLSServer(app.NewServer(&app.Deps{
		DB:     db,
		Logger: slog.New(slog.NewJSONHandler(io.Discard, nil)),
		Gate:   gate.New([]byte("test-jwt-secret"), time.Hour),
	}))
	t.Cleanup(ts.Close)

	c, err := NewClient(ts.URL, ts.Client())
	require.NoError(t, err)
	return c, ts
}

func quantities(s *State) map[int]int {
	out := make(map[int]int)
	for _, it := range s.Items() {
		out[it.Product.ID] = it.Quantity
	}
	return out
}

func TestClient_SignedOutChangesStayLocal(t *testing.T) {
	t.Parallel()
	c, _ := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, c.Add(ctx, chair))
	require.NoError(t, c.Add(ctx, chair))
	require.NoError(t, c.Add(ctx, table))
	require.NoError(t, c.Adjust(ctx, table.ID, service.OpDecrement))

	assert.False(t, c.Authenticated())
	assert.Equal(t, map[int]int{chair.ID: 2}, quantities(c.State))

	assert.ErrorIs(t, c.Adjust(ctx, chair.ID, service.Operation("double")), service.ErrInvalidOperation)
	assert.ErrorIs(t, c.Remove(ctx, lamp.ID), ErrNotInCart)
}

func TestClient_RegisterPushesLocalCart(t *testing.T) {
	t.Parallel()
	c, _ := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, c.Add(ctx, chair))
	require.NoError(t, c.Add(ctx, chair))
	require.NoError(t, c.Add(ctx, lamp))
	local := c.State.Items()

	results, err := c.Register(ctx, "erin", "pw")
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.Equal(t, service.SyncCreated, r.Status)
	}

	assert.True(t, c.Authenticated())
	assert.Equal(t, map[int]int{chair.ID: 2, lamp.ID: 1}, quantities(c.State))

	// the server keeps the ids the client made up
	got, ok := c.State.Get(chair.ID)
	require.True(t, ok)
	assert.Equal(t, local[0].ID, got.ID)
	assert.Equal(t, "Chair", got.Product.Name)
}

func TestClient_SignedInChangesGoToServer(t *testing.T) {
	t.Parallel()
	c, _ := newTestClient(t)
	ctx := context.Background()

	_, err := c.Register(ctx, "frank", "pw")
	require.NoError(t, err)

	require.NoError(t, c.Add(ctx, table))
	require.NoError(t, c.Add(ctx, table))
	require.NoError(t, c.Add(ctx, lamp))
	assert.Equal(t, map[int]int{table.ID: 2, lamp.ID: 1}, quantities(c.State))

	require.NoError(t, c.Adjust(ctx, lamp.ID, service.OpDecrement))
	require.NoError(t, c.Remove(ctx, table.ID))
	assert.Zero(t, c.State.Len())

	require.NoError(t, c.Add(ctx, chair))
	require.NoError(t, c.Logout(ctx))
	assert.False(t, c.Authenticated())
	assert.Zero(t, c.State.Len())

	// a fresh client signing in picks the cart up from the server
	other, err := NewClient(c.baseURL, &http.Client{Transport: c.httpClient.Transport})
	require.NoError(t, err)
	require.NoError(t, other.Add(ctx, lamp))
	results, err := other.Login(ctx, "frank", "pw")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, map[int]int{chair.ID: 1, lamp.ID: 1}, quantities(other.State))

	require.NoError(t, other.Refresh(ctx))
	assert.Equal(t, 2, other.State.Len())

	require.NoError(t, other.Clear(ctx))
	require.NoError(t, other.Refresh(ctx))
	assert.Zero(t, other.State.Len())
}

func TestClient_LoginFailures(t *testing.T) {
	t.Parallel()
	c, _ := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, c.Add(ctx, chair))
	_, err := c.Login(ctx, "nobody", "pw")

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.NotEmpty(t, apiErr.Message)
	assert.False(t, c.Authenticated())
	assert.Equal(t, 1, c.State.Len())

	err = c.Refresh(ctx)
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
}
