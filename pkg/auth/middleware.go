package auth

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"github.com/lyflibrary/catalog/pkg/errcodes"
	"github.com/lyflibrary/catalog/pkg/models"
)

// LoginPath is where RequireLogin sends anonymous visitors.
const LoginPath = "/accounts/login"

// Middleware provides authentication guards.
type Middleware struct {
	authService *Service
}

func NewMiddleware(authService *Service) *Middleware {
	return &Middleware{authService: authService}
}

func (m *Middleware) resolve(c echo.Context) (*models.User, bool) {
	cookie, err := c.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil, false
	}
	user, err := m.authService.userFromToken(c.Request().Context(), cookie.Value)
	if err != nil {
		return nil, false
	}
	return user, true
}

func setUser(c echo.Context, user *models.User) {
	c.Set("user_id", user.ID)
	c.Set("username", user.Username)
	c.Set("user", user)
}

// Authenticate requires a valid session cookie and returns 401 without one.
func (m *Middleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, ok := m.resolve(c)
		if !ok {
			return errcodes.Unauthorized("Authentication required")
		}
		setUser(c, user)
		return next(c)
	}
}

// AuthenticateOptional loads the user when a valid cookie is present and lets
// anonymous requests through.
func (m *Middleware) AuthenticateOptional(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if user, ok := m.resolve(c); ok {
			setUser(c, user)
		}
		return next(c)
	}
}

// RequireLogin redirects anonymous visitors to the login page with the
// requested path in `next`. Must be used after AuthenticateOptional.
func (m *Middleware) RequireLogin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if UserFromContext(c) == nil {
			target := LoginPath + "?" + url.Values{"next": {c.Request().URL.RequestURI()}}.Encode()
			return c.Redirect(http.StatusFound, target)
		}
		return next(c)
	}
}

// RequireCapability returns 403 unless the user holds the capability.
// Anonymous requests are also 403. Must be used after AuthenticateOptional.
func (m *Middleware) RequireCapability(name string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !UserFromContext(c).HasCapability(name) {
				return errcodes.Forbidden("Access to this page")
			}
			return next(c)
		}
	}
}

// UserFromContext returns the logged-in user, or nil.
func UserFromContext(c echo.Context) *models.User {
	user, _ := c.Get("user").(*models.User)
	return user
}
