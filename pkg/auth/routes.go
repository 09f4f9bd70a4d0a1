package auth

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes registers the /accounts routes.
func RegisterRoutes(e *echo.Echo, authService *Service, mw *Middleware) {
	h := &handler{authService: authService}

	accounts := e.Group("/accounts")
	accounts.GET("/login", h.loginForm, mw.AuthenticateOptional).Name = "login"
	accounts.POST("/login", h.login)
	accounts.POST("/logout", h.logout).Name = "logout"
	accounts.GET("/me", h.me, mw.Authenticate)
}
