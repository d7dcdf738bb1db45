package service

import (
	"context"

	"github.com/google/uuid"

	authmodels "github.com/Skotchmaster/storefront/internal/auth/models"
	"github.com/Skotchmaster/storefront/internal/order/models"
)

// Store is the order line storage. Implementations report the
// repo.ErrNotFound, repo.ErrDuplicate and repo.ErrMissingReference
// sentinels; everything else is treated as a storage failure.
type Store interface {
	FindByUserAndProduct(ctx context.Context, userID uuid.UUID, productID int) (*models.OrderLine, error)
	FindByID(ctx context.Context, id string) (*models.OrderLine, error)
	Create(ctx context.Context, line *models.OrderLine) error
	UpdateQuantityDelta(ctx context.Context, id string, delta int) error
	Delete(ctx context.Context, id string) error
	DeleteAtQuantity(ctx context.Context, id string, quantity int) error
	DeleteAllForUser(ctx context.Context, userID uuid.UUID) (int64, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]models.OrderLine, error)
}

type UserFinder interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (*authmodels.User, error)
}

type EventPublisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}
