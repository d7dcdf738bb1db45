package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/storefront/internal/auth/gate"
	"github.com/Skotchmaster/storefront/internal/auth/models"
	"github.com/Skotchmaster/storefront/internal/auth/repo"
	ordermodels "github.com/Skotchmaster/storefront/internal/order/models"
	orderservice "github.com/Skotchmaster/storefront/internal/order/service"
	ordertransport "github.com/Skotchmaster/storefront/internal/order/transport"
	pkg_hash "github.com/Skotchmaster/storefront/pkg/hash"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

var (
	ErrValidation         = errors.New("validation")
	ErrUserExists         = errors.New("username already in use")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserNotFound       = errors.New("user not found")
)

const maxUsernameLen = 64

// Cart is the part of the order engine that signing in touches.
type Cart interface {
	Reconcile(ctx context.Context, userID uuid.UUID, items []ordertransport.ClientCartItem) ([]orderservice.SyncResult, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]ordermodels.OrderLine, error)
}

type AuthService struct {
	Repo *repo.GormRepo
	Gate *gate.Gate
	Cart Cart
}

// Session is what a successful register or login hands back: the user, a
// fresh access token and the server-side cart after the client cart was merged.
type Session struct {
	User    *models.User
	Orders  []ordermodels.OrderLine
	Sync    []orderservice.SyncResult
	Token   string
	Expires time.Time
}

func validateCredentials(username, password string) error {
	switch {
	case strings.TrimSpace(username) == "":
		return fmt.Errorf("username is required: %w", ErrValidation)
	case len(username) > maxUsernameLen:
		return fmt.Errorf("username longer than %d: %w", maxUsernameLen, ErrValidation)
	case password == "":
		return fmt.Errorf("password is required: %w", ErrValidation)
	}
	return nil
}

func (s *AuthService) Register(ctx context.Context, username, password string, cart []ordertransport.ClientCartItem) (*Session, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	if err := validateCredentials(username, password); err != nil {
		return nil, err
	}

	pwHash, err := pkg_hash.HashPassword(password)
	if err != nil {
		l.Error("register_error", "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	user := &models.User{Username: username, PasswordHash: pwHash}
	if err := s.Repo.CreateUserIfNotExists(ctx, user); err != nil {
		if errors.Is(err, repo.ErrUserAlreadyExist) {
			return nil, fmt.Errorf("%s: %w", username, ErrUserExists)
		}
		return nil, err
	}

	l.Info("user_registered", "user_id", user.ID)
	return s.openSession(ctx, user, cart)
}

func (s *AuthService) Login(ctx context.Context, username, password string, cart []ordertransport.ClientCartItem) (*Session, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "username", username)

	if err := validateCredentials(username, password); err != nil {
		return nil, err
	}

	user, err := s.Repo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			l.Warn("login_failed", "reason", "unknown username")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !pkg_hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "reason", "password mismatch")
		return nil, ErrInvalidCredentials
	}

	return s.openSession(ctx, user, cart)
}

func (s *AuthService) openSession(ctx context.Context, user *models.User, cart []ordertransport.ClientCartItem) (*Session, error) {
	token, exp, err := s.Gate.Issue(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	sess := &Session{User: user, Token: token, Expires: exp}
	if len(cart) > 0 {
		sess.Sync, err = s.Cart.Reconcile(ctx, user.ID, cart)
		if err != nil {
			return nil, fmt.Errorf("reconcile cart: %w", err)
		}
	}

	sess.Orders, err = s.Cart.ListForUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *AuthService) LoadUser(ctx context.Context, userID uuid.UUID) (*Session, error) {
	user, err := s.Repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	orders, err := s.Cart.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Session{User: user, Orders: orders}, nil
}

func (s *AuthService) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	if err := s.Repo.DeleteUser(ctx, userID); err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	logging.FromContext(ctx).Info("user_deleted", "user_id", userID)
	return nil
}
