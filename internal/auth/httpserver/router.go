package httpserver

import "github.com/labstack/echo/v4"

func Register(g *echo.Group, h *AuthHTTP, requireAuth echo.MiddlewareFunc) {
	users := g.Group("/users")

	users.POST("", h.Register)
	users.POST("/login", h.Login)
	users.POST("/logout", h.LogOut)
	users.GET("/loadUser", h.LoadUser, requireAuth)
	users.DELETE("", h.DeleteUser, requireAuth)
}
