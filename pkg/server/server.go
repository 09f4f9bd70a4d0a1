package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/lyflibrary/catalog/pkg/auth"
	"github.com/lyflibrary/catalog/pkg/authors"
	"github.com/lyflibrary/catalog/pkg/binder"
	"github.com/lyflibrary/catalog/pkg/bookinstances"
	"github.com/lyflibrary/catalog/pkg/books"
	"github.com/lyflibrary/catalog/pkg/catalog"
	"github.com/lyflibrary/catalog/pkg/config"
	"github.com/lyflibrary/catalog/pkg/errcodes"
	"github.com/lyflibrary/catalog/pkg/genres"
	"github.com/lyflibrary/catalog/pkg/metrics"
	"github.com/lyflibrary/catalog/pkg/render"
	"github.com/lyflibrary/catalog/pkg/renewal"
	"github.com/lyflibrary/catalog/pkg/roles"
	"github.com/lyflibrary/catalog/pkg/users"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/echo/v4/health"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
	"github.com/robinjoseph08/golib/echo/v4/middleware/recovery"
	"github.com/uptrace/bun"
)

// Options are the collaborators the server needs besides the config and the
// database.
type Options struct {
	// Metrics is served on /metrics and counts renewals. Nil disables both.
	Metrics *metrics.Exporter
}

func New(cfg *config.Config, db *bun.DB, opts Options) (*http.Server, error) {
	e, err := NewEcho(cfg, db, opts)
	if err != nil {
		return nil, err
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
		Handler:           e,
		ReadHeaderTimeout: 3 * time.Second,
	}

	return srv, nil
}

// NewEcho builds the router with every route registered.
func NewEcho(cfg *config.Config, db *bun.DB, opts Options) (*echo.Echo, error) {
	e := echo.New()

	b, err := binder.New()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	e.Binder = b

	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(logger.Middleware())
	e.Use(recovery.Middleware())

	health.RegisterRoutes(e)

	authService := auth.NewService(db, cfg.JWTSecret)
	authMiddleware := auth.NewMiddleware(authService)
	e.Use(authMiddleware.AuthenticateOptional)

	auth.RegisterRoutes(e, authService, authMiddleware)
	users.RegisterRoutes(e, db, authMiddleware)
	roles.RegisterRoutes(e, db, authMiddleware)

	var recorder metrics.RenewalRecorder = metrics.Noop{}
	if opts.Metrics != nil {
		recorder = opts.Metrics
		e.GET("/metrics", echo.WrapHandler(opts.Metrics.Handler()))
	}

	registerCatalogRoutes(e, db, cfg, authMiddleware, recorder)

	e.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusFound, c.Echo().Reverse("index"))
	})

	renderer, err := render.New(e)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	e.Renderer = renderer

	e.RouteNotFound("/*", notFoundHandler)
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	return e, nil
}

// registerCatalogRoutes registers everything under /catalog. Reads are open
// to anonymous visitors; each package guards its own writes.
func registerCatalogRoutes(e *echo.Echo, db *bun.DB, cfg *config.Config, authMiddleware *auth.Middleware, recorder metrics.RenewalRecorder) {
	g := e.Group("/catalog")

	catalog.RegisterRoutesWithGroup(g, db)
	books.RegisterRoutesWithGroup(g, db, authMiddleware, cfg.BooksPageSize)
	authors.RegisterRoutesWithGroup(g, db, authMiddleware, cfg.AuthorsPageSize)
	genres.RegisterRoutesWithGroup(g, db, authMiddleware)
	bookinstances.RegisterRoutesWithGroup(g, db, authMiddleware, cfg.BorrowedPageSize)
	renewal.RegisterRoutesWithGroup(g, db, renewal.Policy{
		DefaultWeeks: cfg.RenewalDefaultWeeks,
		MaxWeeks:     cfg.RenewalMaxWeeks,
	}, recorder)
}

func notFoundHandler(c echo.Context) error {
	return errcodes.NotFound("Page")
}
