package httpserver

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/order/service"
	"github.com/Skotchmaster/storefront/internal/order/transport"
	"github.com/Skotchmaster/storefront/pkg/logging"
	authmw "github.com/Skotchmaster/storefront/pkg/middleware/auth"
)

type OrderHTTP struct {
	Svc *service.OrderService
}

// httpError maps engine errors to responses. Unclassified errors are logged
// in full and reported without detail.
func httpError(l *slog.Logger, event string, err error) error {
	var (
		code int
		msg  string
	)
	switch {
	case errors.Is(err, service.ErrDuplicateLine):
		code, msg = http.StatusConflict, "cannot add two equal orders"
	case errors.Is(err, service.ErrLineNotFound):
		code, msg = http.StatusNotFound, "record not found in database"
	case errors.Is(err, service.ErrProductNotFound):
		code, msg = http.StatusBadRequest, "product does not exist"
	case errors.Is(err, service.ErrUserNotFound):
		code, msg = http.StatusNotFound, "user not found"
	case errors.Is(err, service.ErrInvalidOperation):
		code, msg = http.StatusBadRequest, "operation must be increment or decrement"
	case errors.Is(err, service.ErrValidation):
		code, msg = http.StatusBadRequest, "invalid request"
	default:
		l.Error(event, "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "something went wrong")
	}
	l.Warn(event, "status", code, "error", err)
	return echo.NewHTTPError(code, msg)
}

func (h *OrderHTTP) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list")

	userID, err := authmw.GetID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	lines, err := h.Svc.ListForUser(ctx, userID)
	if err != nil {
		return httpError(l, "list_orders_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"orders": lines})
}

func (h *OrderHTTP) NewOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.new")

	userID, err := authmw.GetID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var req transport.CreateLineRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("new_order_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	line, err := h.Svc.CreateLine(ctx, userID, req.ProductID)
	if err != nil {
		return httpError(l, "new_order_error", err)
	}

	l.Info("order_created", "line_id", line.ID)
	return c.JSON(http.StatusCreated, echo.Map{"order": line})
}

func (h *OrderHTTP) UpdateQuantity(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.update_quantity")

	userID, err := authmw.GetID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var req transport.AdjustQuantityRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_quantity_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	op, err := service.ParseOperation(req.Operation)
	if err != nil {
		return httpError(l, "update_quantity_error", err)
	}

	if err := h.Svc.AdjustQuantity(ctx, userID, c.Param("id"), op); err != nil {
		return httpError(l, "update_quantity_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"msg": "operation successful"})
}

func (h *OrderHTTP) RemoveItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.remove")

	userID, err := authmw.GetID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	if err := h.Svc.RemoveLine(ctx, userID, c.Param("id")); err != nil {
		return httpError(l, "remove_item_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"msg": "operation successful"})
}

func (h *OrderHTTP) ClearCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.clear")

	userID, err := authmw.GetID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	user, err := h.Svc.ClearCart(ctx, userID)
	if err != nil {
		return httpError(l, "clear_cart_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"user": user})
}

func (h *OrderHTTP) SyncOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.sync")

	userID, err := authmw.GetID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var req transport.SyncRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("sync_orders_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	results, err := h.Svc.Reconcile(ctx, userID, req.Orders)
	if err != nil {
		return httpError(l, "sync_orders_error", err)
	}

	lines, err := h.Svc.ListForUser(ctx, userID)
	if err != nil {
		return httpError(l, "sync_orders_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"results": results, "orders": lines})
}
