package httpserver

import "github.com/labstack/echo/v4"

func Register(g *echo.Group, h *OrderHTTP, requireAuth echo.MiddlewareFunc) {
	orders := g.Group("/orders", requireAuth)

	orders.GET("", h.ListOrders)
	orders.POST("", h.NewOrder)
	orders.DELETE("", h.ClearCart)
	orders.POST("/syncOrders", h.SyncOrders)
	orders.PUT("/:id", h.UpdateQuantity)
	orders.DELETE("/:id", h.RemoveItem)
}
