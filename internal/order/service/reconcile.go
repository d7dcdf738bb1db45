package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Skotchmaster/storefront/internal/order/models"
	"github.com/Skotchmaster/storefront/internal/order/repo"
	"github.com/Skotchmaster/storefront/internal/order/transport"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

const DefaultWorkers = 8

type SyncStatus string

const (
	SyncCreated  SyncStatus = "created"
	SyncExisting SyncStatus = "existing"
	SyncFailed   SyncStatus = "failed"
)

type SyncResult struct {
	ID        string     `json:"id"`
	ProductID int        `json:"product_id"`
	Quantity  int        `json:"quantity"`
	Status    SyncStatus `json:"status"`
	Error     string     `json:"error,omitempty"`

	Err error `json:"-"`
}

func (r *SyncResult) fail(err error) {
	r.Status = SyncFailed
	r.Err = err
	r.Error = err.Error()
}

// Reconcile stores a client-held cart as order lines of userID. Items are
// independent: each one is created at most once, runs concurrently with the
// others and fails on its own. Results come back in input order.
//
// Items already handed to storage finish even if ctx is canceled; items not
// yet started are reported as failed with the context error.
func (s *OrderService) Reconcile(ctx context.Context, userID uuid.UUID, items []transport.ClientCartItem) ([]SyncResult, error) {
	l := logging.FromContext(ctx).With("svc", "order.reconcile")

	if userID == uuid.Nil {
		return nil, fmt.Errorf("user id is required: %w", ErrValidation)
	}
	results := make([]SyncResult, len(items))
	if len(items) == 0 {
		return results, nil
	}

	workers := s.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	storeCtx := context.WithoutCancel(ctx)
	var g errgroup.Group
	g.SetLimit(workers)

	for i, item := range items {
		if ctx.Err() != nil {
			results[i] = canceledResult(ctx, item)
			continue
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				results[i] = canceledResult(ctx, item)
				return nil
			}
			results[i] = s.reconcileItem(storeCtx, userID, item)
			return nil
		})
	}
	_ = g.Wait()

	var created, failed int
	for _, r := range results {
		switch r.Status {
		case SyncCreated:
			created++
		case SyncFailed:
			failed++
			l.Warn("reconcile_item_failed", "line_id", r.ID, "product_id", r.ProductID, "error", r.Err)
		}
	}
	l.Info("reconcile_done", "items", len(items), "created", created, "failed", failed)
	if created > 0 || failed > 0 {
		s.publish(ctx, userID, CartEvent{Type: EventCartSynced, Count: created, Failed: failed})
	}
	return results, nil
}

func canceledResult(ctx context.Context, item transport.ClientCartItem) SyncResult {
	res := SyncResult{ID: strings.TrimSpace(item.ID), ProductID: item.Product.ID, Quantity: item.Quantity}
	res.fail(ctx.Err())
	return res
}

func (s *OrderService) reconcileItem(ctx context.Context, userID uuid.UUID, item transport.ClientCartItem) SyncResult {
	res := SyncResult{
		ID:        strings.TrimSpace(item.ID),
		ProductID: item.Product.ID,
		Quantity:  item.Quantity,
	}
	if res.ID == "" {
		res.ID = uuid.NewString()
	}

	switch {
	case len(res.ID) > models.MaxLineIDLen:
		res.fail(fmt.Errorf("line id longer than %d: %w", models.MaxLineIDLen, ErrValidation))
		return res
	case res.ProductID <= 0:
		res.fail(fmt.Errorf("product id must be positive: %w", ErrValidation))
		return res
	case res.Quantity < 1:
		res.fail(fmt.Errorf("quantity must be at least 1: %w", ErrValidation))
		return res
	}

	if status, err := s.checkExisting(ctx, userID, res.ID, res.ProductID); err != nil {
		res.fail(err)
		return res
	} else if status != "" {
		res.Status = status
		return res
	}

	line := &models.OrderLine{ID: res.ID, UserID: userID, ProductID: res.ProductID, Quantity: res.Quantity}
	err := s.Repo.Create(ctx, line)
	switch {
	case err == nil:
		res.Status = SyncCreated
	case errors.Is(err, repo.ErrDuplicate):
		// Lost a race against an identical reconcile or a concurrent add.
		status, cerr := s.checkExisting(ctx, userID, res.ID, res.ProductID)
		switch {
		case cerr != nil:
			res.fail(cerr)
		case status != "":
			res.Status = status
		default:
			res.fail(fmt.Errorf("product %d: %w", res.ProductID, ErrDuplicateLine))
		}
	case errors.Is(err, repo.ErrMissingReference):
		res.fail(s.missingReference(ctx, userID, res.ProductID))
	default:
		res.fail(storageErr(err))
	}
	return res
}

// checkExisting returns SyncExisting when this exact line is already stored,
// an error when the id or the (user, product) pair is taken by another line,
// and "" when the item can be created.
func (s *OrderService) checkExisting(ctx context.Context, userID uuid.UUID, id string, productID int) (SyncStatus, error) {
	line, err := s.Repo.FindByID(ctx, id)
	switch {
	case err == nil:
		if line.UserID == userID && line.ProductID == productID {
			return SyncExisting, nil
		}
		return "", fmt.Errorf("line id %s already used: %w", id, ErrDuplicateLine)
	case !errors.Is(err, repo.ErrNotFound):
		return "", storageErr(err)
	}

	_, err = s.Repo.FindByUserAndProduct(ctx, userID, productID)
	switch {
	case err == nil:
		return "", fmt.Errorf("product %d: %w", productID, ErrDuplicateLine)
	case !errors.Is(err, repo.ErrNotFound):
		return "", storageErr(err)
	}
	return "", nil
}
