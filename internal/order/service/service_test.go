package service

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	authmodels "github.com/Skotchmaster/storefront/internal/auth/models"
	authrepo "github.com/Skotchmaster/storefront/internal/auth/repo"
	catalogmodels "github.com/Skotchmaster/storefront/internal/catalog/models"
	"github.com/Skotchmaster/storefront/internal/order/models"
	"github.com/Skotchmaster/storefront/internal/order/repo"
	"github.com/Skotchmaster/storefront/internal/order/transport"
	"github.com/Skotchmaster/storefront/pkg/db/dbtest"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []CartEvent
}

func (p *recordingPublisher) PublishEvent(_ context.Context, topic, key string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event.(CartEvent))
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

type testEnv struct {
	Svc    *OrderService
	Repo   *repo.GormRepo
	Events *recordingPublisher
	U1, U2 uuid.UUID
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := dbtest.Open(t, &catalogmodels.Product{}, &authmodels.User{}, &models.OrderLine{})

	require.NoError(t, db.Create(&[]catalogmodels.Product{
		{ID: 1, Name: "Chair", Price: 10},
		{ID: 2, Name: "Table", Price: 20},
		{ID: 3, Name: "Lamp", Price: 30},
	}).Error)

	u1 := authmodels.User{Username: "u1", PasswordHash: "x"}
	u2 := authmodels.User{Username: "u2", PasswordHash: "x"}
	require.NoError(t, db.Create(&u1).Error)
	require.NoError(t, db.Create(&u2).Error)

	r := &repo.GormRepo{DB: db}
	ev := &recordingPublisher{}
	return &testEnv{
		Svc:    &OrderService{Repo: r, Users: &authrepo.GormRepo{DB: db}, Events: ev, Workers: 4},
		Repo:   r,
		Events: ev,
		U1:     u1.ID,
		U2:     u2.ID,
	}
}

func item(id string, qty, productID int) transport.ClientCartItem {
	return transport.ClientCartItem{ID: id, Quantity: qty, Product: catalogmodels.Product{ID: productID}}
}
