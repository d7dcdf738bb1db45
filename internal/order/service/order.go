package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	authmodels "github.com/Skotchmaster/storefront/internal/auth/models"
	authrepo "github.com/Skotchmaster/storefront/internal/auth/repo"
	"github.com/Skotchmaster/storefront/internal/order/models"
	"github.com/Skotchmaster/storefront/internal/order/repo"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

type Operation string

const (
	OpIncrement Operation = "increment"
	OpDecrement Operation = "decrement"
)

func ParseOperation(s string) (Operation, error) {
	switch op := Operation(s); op {
	case OpIncrement, OpDecrement:
		return op, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidOperation, s)
	}
}

type OrderService struct {
	Repo    Store
	Users   UserFinder
	Events  EventPublisher
	Topic   string
	Workers int
}

type LineSummary struct {
	ID        string `json:"id"`
	ProductID int    `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

func storageErr(err error) error {
	return fmt.Errorf("%w: %w", ErrStorage, err)
}

// missingReference decides which side of a failed foreign key is gone.
func (s *OrderService) missingReference(ctx context.Context, userID uuid.UUID, productID int) error {
	if s.Users != nil {
		if _, err := s.Users.GetUserByID(ctx, userID); errors.Is(err, authrepo.ErrUserNotFound) {
			return fmt.Errorf("user %s: %w", userID, ErrUserNotFound)
		}
	}
	return fmt.Errorf("product %d: %w", productID, ErrProductNotFound)
}

// ownedLine loads a line and hides lines that belong to somebody else.
func (s *OrderService) ownedLine(ctx context.Context, userID uuid.UUID, lineID string) (*models.OrderLine, error) {
	if lineID == "" {
		return nil, fmt.Errorf("line id is required: %w", ErrValidation)
	}
	line, err := s.Repo.FindByID(ctx, lineID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, fmt.Errorf("line %s: %w", lineID, ErrLineNotFound)
		}
		return nil, storageErr(err)
	}
	if line.UserID != userID {
		return nil, fmt.Errorf("line %s: %w", lineID, ErrLineNotFound)
	}
	return line, nil
}

func (s *OrderService) CreateLine(ctx context.Context, userID uuid.UUID, productID int) (*LineSummary, error) {
	l := logging.FromContext(ctx).With("svc", "order.create_line")

	if userID == uuid.Nil {
		return nil, fmt.Errorf("user id is required: %w", ErrValidation)
	}
	if productID <= 0 {
		return nil, fmt.Errorf("product id must be positive: %w", ErrValidation)
	}

	_, err := s.Repo.FindByUserAndProduct(ctx, userID, productID)
	switch {
	case err == nil:
		return nil, fmt.Errorf("product %d: %w", productID, ErrDuplicateLine)
	case !errors.Is(err, repo.ErrNotFound):
		return nil, storageErr(err)
	}

	line := &models.OrderLine{UserID: userID, ProductID: productID, Quantity: 1}
	if err := s.Repo.Create(ctx, line); err != nil {
		switch {
		case errors.Is(err, repo.ErrDuplicate):
			return nil, fmt.Errorf("product %d: %w", productID, ErrDuplicateLine)
		case errors.Is(err, repo.ErrMissingReference):
			return nil, s.missingReference(ctx, userID, productID)
		default:
			return nil, storageErr(err)
		}
	}

	l.Info("line_created", "line_id", line.ID, "product_id", productID)
	s.publish(ctx, userID, CartEvent{Type: EventLineCreated, LineID: line.ID, ProductID: productID, Quantity: 1})
	return &LineSummary{ID: line.ID, ProductID: line.ProductID, Quantity: line.Quantity}, nil
}

// AdjustQuantity moves a line's quantity by one. Decrementing a line at
// quantity 1 deletes it.
func (s *OrderService) AdjustQuantity(ctx context.Context, userID uuid.UUID, lineID string, op Operation) error {
	if op != OpIncrement && op != OpDecrement {
		return fmt.Errorf("%w: %q", ErrInvalidOperation, op)
	}

	line, err := s.ownedLine(ctx, userID, lineID)
	if err != nil {
		return err
	}

	if op == OpDecrement {
		return s.decrement(ctx, userID, line)
	}

	if err := s.Repo.UpdateQuantityDelta(ctx, line.ID, 1); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return fmt.Errorf("line %s: %w", line.ID, ErrLineNotFound)
		}
		return storageErr(err)
	}
	s.publish(ctx, userID, CartEvent{Type: EventLineIncremented, LineID: line.ID, ProductID: line.ProductID})
	return nil
}

const maxDecrementAttempts = 5

// decrement never deletes a line it did not see at quantity 1: both steps
// are guarded by the stored quantity, and a line that moved between them
// is tried again.
func (s *OrderService) decrement(ctx context.Context, userID uuid.UUID, line *models.OrderLine) error {
	for range maxDecrementAttempts {
		err := s.Repo.UpdateQuantityDelta(ctx, line.ID, -1)
		if err == nil {
			s.publish(ctx, userID, CartEvent{Type: EventLineDecremented, LineID: line.ID, ProductID: line.ProductID})
			return nil
		}
		if !errors.Is(err, repo.ErrNotFound) {
			return storageErr(err)
		}

		err = s.Repo.DeleteAtQuantity(ctx, line.ID, 1)
		if err == nil {
			s.publish(ctx, userID, CartEvent{Type: EventLineDeleted, LineID: line.ID, ProductID: line.ProductID})
			return nil
		}
		if !errors.Is(err, repo.ErrNotFound) {
			return storageErr(err)
		}

		if _, err := s.Repo.FindByID(ctx, line.ID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return fmt.Errorf("line %s: %w", line.ID, ErrLineNotFound)
			}
			return storageErr(err)
		}
	}
	return fmt.Errorf("line %s kept changing during decrement: %w", line.ID, ErrStorage)
}

func (s *OrderService) deleteLine(ctx context.Context, userID uuid.UUID, line *models.OrderLine) error {
	if err := s.Repo.Delete(ctx, line.ID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return fmt.Errorf("line %s: %w", line.ID, ErrLineNotFound)
		}
		return storageErr(err)
	}
	s.publish(ctx, userID, CartEvent{Type: EventLineDeleted, LineID: line.ID, ProductID: line.ProductID})
	return nil
}

func (s *OrderService) RemoveLine(ctx context.Context, userID uuid.UUID, lineID string) error {
	line, err := s.ownedLine(ctx, userID, lineID)
	if err != nil {
		return err
	}
	return s.deleteLine(ctx, userID, line)
}

// ClearCart deletes every line of the user and returns the user. Clearing an
// empty cart succeeds.
func (s *OrderService) ClearCart(ctx context.Context, userID uuid.UUID) (*authmodels.User, error) {
	l := logging.FromContext(ctx).With("svc", "order.clear_cart")

	n, err := s.Repo.DeleteAllForUser(ctx, userID)
	if err != nil {
		return nil, storageErr(err)
	}
	l.Info("cart_cleared", "deleted", n)
	if n > 0 {
		s.publish(ctx, userID, CartEvent{Type: EventCartCleared, Count: int(n)})
	}

	if s.Users == nil {
		return &authmodels.User{ID: userID}, nil
	}
	user, err := s.Users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, authrepo.ErrUserNotFound) {
			return nil, fmt.Errorf("user %s: %w", userID, ErrUserNotFound)
		}
		return nil, storageErr(err)
	}
	return user, nil
}

func (s *OrderService) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.OrderLine, error) {
	lines, err := s.Repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, storageErr(err)
	}
	return lines, nil
}
