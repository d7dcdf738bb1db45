package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/auth/service"
	"github.com/Skotchmaster/storefront/internal/auth/transport"
	"github.com/Skotchmaster/storefront/pkg/cookies"
	"github.com/Skotchmaster/storefront/pkg/logging"
	authmw "github.com/Skotchmaster/storefront/pkg/middleware/auth"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func userView(s *service.Session) transport.UserView {
	return transport.UserView{ID: s.User.ID, Username: s.User.Username, Orders: s.Orders}
}

func sessionResponse(s *service.Session) echo.Map {
	resp := echo.Map{"user": userView(s)}
	if len(s.Sync) > 0 {
		resp["sync"] = s.Sync
	}
	return resp
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_register")

	var req transport.Credentials
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	sess, err := h.Svc.Register(ctx, req.Username, req.Password, req.Cart)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			l.Warn("register_error", "status", 400, "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, "username and password are required")
		case errors.Is(err, service.ErrUserExists):
			l.Warn("register_error", "status", 409, "error", err)
			return echo.NewHTTPError(http.StatusConflict, "this username is already in use, please choose a different one")
		default:
			l.Error("register_error", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "register failed")
		}
	}

	c.SetCookie(cookies.CreateCookie(cookies.AccessToken, sess.Token, "/", sess.Expires))
	l.Info("register_successful", "user_id", sess.User.ID)
	return c.JSON(http.StatusCreated, sessionResponse(sess))
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req transport.Credentials
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	sess, err := h.Svc.Login(ctx, req.Username, req.Password, req.Cart)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			l.Warn("login_failed", "status", 400, "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, "username and password are required")
		case errors.Is(err, service.ErrInvalidCredentials):
			l.Warn("login_failed", "status", 401, "error", err)
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid username or password")
		default:
			l.Error("login_failed", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "login failed")
		}
	}

	c.SetCookie(cookies.CreateCookie(cookies.AccessToken, sess.Token, "/", sess.Expires))
	l.Info("login_successful", "user_id", sess.User.ID)
	return c.JSON(http.StatusOK, sessionResponse(sess))
}

func (h *AuthHTTP) LogOut(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "auth_logout")

	c.SetCookie(cookies.DeleteCookie(cookies.AccessToken, "/"))
	l.Info("successful_logout")
	return c.JSON(http.StatusOK, echo.Map{"msg": "token removed"})
}

func (h *AuthHTTP) LoadUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_load_user")

	userID, err := authmw.GetID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	sess, err := h.Svc.LoadUser(ctx, userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			l.Warn("load_user_error", "status", 404, "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		}
		l.Error("load_user_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "something went wrong")
	}
	return c.JSON(http.StatusOK, echo.Map{"user": userView(sess)})
}

func (h *AuthHTTP) DeleteUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_delete_user")

	userID, err := authmw.GetID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	if err := h.Svc.DeleteUser(ctx, userID); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			l.Warn("delete_user_error", "status", 404, "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		}
		l.Error("delete_user_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "something went wrong")
	}

	c.SetCookie(cookies.DeleteCookie(cookies.AccessToken, "/"))
	return c.JSON(http.StatusOK, echo.Map{"msg": "user removed successfully"})
}
