// Package render renders the embedded HTML pages for echo.
package render

import (
	"embed"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/lyflibrary/catalog/pkg/auth"
	"github.com/lyflibrary/catalog/pkg/models"
	"github.com/pkg/errors"
)

//go:embed templates
var templateFS embed.FS

const layout = "templates/base.html"

// Renderer holds one parsed template set per page, each layered over the
// shared layout.
type Renderer struct {
	pages map[string]*template.Template
}

// New parses every page. Route names are resolved through e, so the routes
// must be registered before a page is rendered.
func New(e *echo.Echo) (*Renderer, error) {
	funcs := template.FuncMap{
		"url": func(name string, params ...interface{}) string {
			return e.Reverse(name, params...)
		},
		"date": func(t *time.Time) string {
			return models.FormatDate(t)
		},
		"can": func(user *models.User, capability string) bool {
			return user.HasCapability(capability)
		},
	}

	r := &Renderer{pages: map[string]*template.Template{}}

	err := fs.WalkDir(templateFS, "templates", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || p == layout || path.Ext(p) != ".html" {
			return nil
		}
		name := strings.TrimPrefix(p, "templates/")
		tmpl, err := template.New(path.Base(layout)).Funcs(funcs).ParseFS(templateFS, layout, p)
		if err != nil {
			return errors.Wrapf(err, "parsing %s", name)
		}
		r.pages[name] = tmpl
		return nil
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return r, nil
}

// Render executes the page with the handler's data plus the current user
// and the request path.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return errors.Errorf("template %q not found", name)
	}

	ctx := map[string]interface{}{}
	if m, ok := data.(map[string]interface{}); ok {
		for k, v := range m {
			ctx[k] = v
		}
	}
	if _, ok := ctx["user"]; !ok {
		ctx["user"] = auth.UserFromContext(c)
	}
	ctx["path"] = c.Request().URL.RequestURI()
	ctx["path_base"] = c.Request().URL.Path

	return errors.WithStack(tmpl.ExecuteTemplate(w, path.Base(layout), ctx))
}

// Pages returns the names of the parsed pages.
func (r *Renderer) Pages() []string {
	names := make([]string, 0, len(r.pages))
	for name := range r.pages {
		names = append(names, name)
	}
	return names
}
