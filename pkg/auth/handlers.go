package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/lyflibrary/catalog/pkg/errcodes"
	"github.com/lyflibrary/catalog/pkg/models"
	"github.com/pkg/errors"
	echologger "github.com/robinjoseph08/golib/echo/v4/middleware/logger"
	"github.com/robinjoseph08/golib/logger"
)

const (
	// CookieName is the name of the login cookie.
	CookieName = "catalog_token"
	// CookieMaxAge is how long the cookie is valid.
	CookieMaxAge = TokenExpiry

	LoginTemplate     = "registration/login.html"
	LoggedOutTemplate = "registration/logged_out.html"
)

type handler struct {
	authService *Service
}

func buildMeResponse(user *models.User) MeResponse {
	resp := MeResponse{
		ID:           user.ID,
		Username:     user.Username,
		Email:        user.Email,
		RoleID:       user.RoleID,
		Capabilities: user.Capabilities(),
	}
	if user.Role != nil {
		resp.RoleName = user.Role.Name
	}
	return resp
}

func isFormPost(c echo.Context) bool {
	ctype := c.Request().Header.Get(echo.HeaderContentType)
	return strings.HasPrefix(ctype, echo.MIMEApplicationForm) || strings.HasPrefix(ctype, echo.MIMEMultipartForm)
}

// safeNext only allows local absolute paths.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return ""
	}
	return next
}

func sessionCookie(c echo.Context, value string, maxAge time.Duration) *http.Cookie {
	age := int(maxAge.Seconds())
	if maxAge < 0 {
		age = -1
	}
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   age,
		HttpOnly: true,
		Secure:   c.Request().TLS != nil || c.Request().Header.Get("X-Forwarded-Proto") == "https",
		SameSite: http.SameSiteLaxMode,
	}
}

func (h *handler) loginForm(c echo.Context) error {
	return errors.WithStack(c.Render(http.StatusOK, LoginTemplate, map[string]interface{}{
		"next": safeNext(c.QueryParam("next")),
		"user": UserFromContext(c),
	}))
}

func (h *handler) login(c echo.Context) error {
	ctx := c.Request().Context()
	form := isFormPost(c)

	params := LoginPayload{}
	if err := c.Bind(&params); err != nil {
		if form {
			return h.renderLoginError(c, params, err)
		}
		return errors.WithStack(err)
	}

	user, err := h.authService.Authenticate(ctx, params.Username, params.Password)
	if err != nil {
		if form {
			return h.renderLoginError(c, params, err)
		}
		return err
	}

	token, err := h.authService.GenerateToken(user)
	if err != nil {
		return errors.WithStack(err)
	}
	c.SetCookie(sessionCookie(c, token, CookieMaxAge))

	echologger.FromEchoContext(c).Info("user logged in", logger.Data{"user_id": user.ID})

	if next := safeNext(params.Next); next != "" {
		return errors.WithStack(c.Redirect(http.StatusFound, next))
	}
	if form {
		return errors.WithStack(c.Redirect(http.StatusFound, c.Echo().Reverse("index")))
	}
	return errors.WithStack(c.JSON(http.StatusOK, buildMeResponse(user)))
}

func (h *handler) renderLoginError(c echo.Context, params LoginPayload, err error) error {
	var e *errcodes.Error
	if !errors.As(err, &e) {
		return errors.WithStack(err)
	}
	return errors.WithStack(c.Render(http.StatusOK, LoginTemplate, map[string]interface{}{
		"next":     safeNext(params.Next),
		"username": params.Username,
		"error":    e.Message,
	}))
}

func (h *handler) logout(c echo.Context) error {
	c.SetCookie(sessionCookie(c, "", -1))

	if isFormPost(c) {
		return errors.WithStack(c.Render(http.StatusOK, LoggedOutTemplate, map[string]interface{}{}))
	}
	return errors.WithStack(c.JSON(http.StatusOK, map[string]string{"message": "Logged out successfully"}))
}

func (h *handler) me(c echo.Context) error {
	return errors.WithStack(c.JSON(http.StatusOK, buildMeResponse(UserFromContext(c))))
}
