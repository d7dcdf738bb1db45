package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/pkg/cookies"
	"github.com/Skotchmaster/storefront/pkg/logging"
	"github.com/Skotchmaster/storefront/pkg/tokens"
)

const userIDKey = "user_id"

var ErrNoUser = errors.New("no authenticated user in context")

type Authenticator interface {
	Authenticate(token string) (uuid.UUID, error)
}

// RequireAuth rejects requests without a token with 403 and requests with a
// token that does not verify with 401.
func RequireAuth(a Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			l := logging.FromContext(req.Context())

			userID, err := a.Authenticate(tokenFromRequest(c))
			if err != nil {
				if errors.Is(err, tokens.ErrMissingToken) {
					l.Warn("auth_rejected", "status", 403, "reason", "missing token")
					return echo.NewHTTPError(http.StatusForbidden, "no token: authorization denied")
				}
				c.SetCookie(cookies.DeleteCookie(cookies.AccessToken, "/"))
				l.Warn("auth_rejected", "status", 401, "reason", "invalid token", "error", err)
				return echo.NewHTTPError(http.StatusUnauthorized, "token is not valid: authorization denied")
			}

			c.Set(userIDKey, userID.String())
			l = l.With("user_id", userID.String())
			c.SetRequest(req.WithContext(logging.IntoContext(req.Context(), l)))
			return next(c)
		}
	}
}

func tokenFromRequest(c echo.Context) string {
	if ck, err := c.Cookie(cookies.AccessToken); err == nil && ck.Value != "" {
		return ck.Value
	}
	h := c.Request().Header.Get(echo.HeaderAuthorization)
	if token, ok := strings.CutPrefix(h, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

func GetID(c echo.Context) (uuid.UUID, error) {
	s, ok := c.Get(userIDKey).(string)
	if !ok || s == "" {
		return uuid.Nil, ErrNoUser
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, ErrNoUser
	}
	return id, nil
}
