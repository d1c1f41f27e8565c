package server

import (
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/echo/v4/health"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
	"github.com/robinjoseph08/golib/echo/v4/middleware/recovery"
	"github.com/talesforge/talesforge/pkg/auth"
	"github.com/talesforge/talesforge/pkg/binder"
	"github.com/talesforge/talesforge/pkg/blog"
	"github.com/talesforge/talesforge/pkg/chapters"
	"github.com/talesforge/talesforge/pkg/characters"
	"github.com/talesforge/talesforge/pkg/codex"
	"github.com/talesforge/talesforge/pkg/config"
	"github.com/talesforge/talesforge/pkg/errcodes"
	"github.com/talesforge/talesforge/pkg/fallback"
	"github.com/talesforge/talesforge/pkg/locations"
	"github.com/talesforge/talesforge/pkg/metrics"
	"github.com/talesforge/talesforge/pkg/progress"
	"github.com/talesforge/talesforge/pkg/testutils"
	"github.com/talesforge/talesforge/pkg/uploads"
	"github.com/talesforge/talesforge/pkg/users"
	"github.com/uptrace/bun"
)

// New builds the HTTP server. reader may be nil to disable snapshot
// fallback for public reads.
func New(cfg *config.Config, db *bun.DB, reader *fallback.Reader) (*http.Server, error) {
	e := echo.New()

	b, err := binder.New()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	e.Binder = b

	e.Use(logger.Middleware())
	e.Use(recovery.Middleware())
	e.Use(middleware.CORSWithConfig(corsConfig(cfg.CORSOrigins)))
	e.Use(metrics.Middleware())

	health.RegisterRoutes(e)
	e.GET("/metrics", metrics.Handler())

	api := e.Group("/api")
	config.RegisterRoutes(api, cfg)

	authMiddleware := auth.RegisterRoutes(api.Group("/auth"), db, cfg)
	admin := api.Group("/admin", authMiddleware.Authenticate, authMiddleware.RequireAdmin)

	chapters.RegisterRoutes(api, admin, db, reader)
	characters.RegisterRoutes(api, admin, db, reader)
	locations.RegisterRoutes(api, admin, db, reader)
	codex.RegisterRoutes(api, admin, db, reader)
	blog.RegisterRoutes(api, admin, db, reader)
	progress.RegisterRoutes(api, db)
	users.RegisterRoutes(admin, db)
	uploads.RegisterRoutes(e, admin, cfg)

	if cfg.Environment == config.EnvironmentTest {
		testutils.RegisterRoutes(e, db)
	}

	echo.NotFoundHandler = notFoundHandler
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
		Handler:           e,
		ReadHeaderTimeout: 3 * time.Second,
	}

	return srv, nil
}

// Exporters returns every service that can write a fallback snapshot.
func Exporters(db *bun.DB) []fallback.Exporter {
	return []fallback.Exporter{
		chapters.NewService(db, nil),
		characters.NewService(db, nil),
		locations.NewService(db, nil),
		codex.NewService(db, nil),
		blog.NewService(db, nil),
	}
}

// corsConfig allows credentials only for explicit origins. Browsers refuse
// credentialed responses with a wildcard origin anyway.
func corsConfig(origins []string) middleware.CORSConfig {
	if len(origins) == 0 || slices.Contains(origins, "*") {
		return middleware.CORSConfig{AllowOrigins: []string{"*"}}
	}
	return middleware.CORSConfig{
		AllowOrigins:     origins,
		AllowCredentials: true,
	}
}

func notFoundHandler(c echo.Context) error {
	c.SetPath("/:path")
	return errcodes.NotFound("Page")
}
