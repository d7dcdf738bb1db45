package httpserver

import "github.com/labstack/echo/v4"

func Register(g *echo.Group, h *CatalogHTTP) {
	products := g.Group("/products")
	products.GET("", h.GetProducts)
	products.GET("/search", h.SearchProducts)
	products.GET("/:id", h.GetProduct)
}
