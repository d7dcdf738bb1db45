package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/catalog/service"
	"github.com/Skotchmaster/storefront/pkg/logging"
	"github.com/Skotchmaster/storefront/pkg/util"
)

type CatalogHTTP struct {
	Svc *service.CatalogService
}

func (h *CatalogHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_products")

	items, err := h.Svc.ListProducts(ctx)
	if err != nil {
		l.Error("get_products_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "something went wrong")
	}

	return c.JSON(http.StatusOK, echo.Map{"products": items})
}

func (h *CatalogHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_product")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		l.Warn("get_product_failed", "status", 400, "reason", "id is not an integer", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not an integer")
	}

	product, err := h.Svc.GetProduct(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			l.Warn("get_product_failed", "status", 400, "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, "id must be positive")
		case errors.Is(err, service.ErrNotFound):
			l.Warn("get_product_failed", "status", 404, "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		default:
			l.Error("get_product_failed", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "something went wrong")
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"product": product})
}

func (h *CatalogHTTP) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.search")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)

	res, err := h.Svc.SearchProducts(ctx, c.QueryParam("q"), page, size)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			l.Warn("search_failed", "status", 400, "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, "query parameter q is required")
		case errors.Is(err, service.ErrSearchDisabled):
			l.Warn("search_failed", "status", 503, "error", err)
			return echo.NewHTTPError(http.StatusServiceUnavailable, "search is not available")
		default:
			l.Error("search_failed", "status", 502, "error", err)
			return echo.NewHTTPError(http.StatusBadGateway, "search failed")
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"data": res.Items,
		"meta": echo.Map{
			"page":     res.Page,
			"size":     res.Size,
			"total":    res.Total,
			"has_prev": res.Page > 1,
			"has_next": int64(res.Page*res.Size) < res.Total,
		},
	})
}
