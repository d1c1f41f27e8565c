// Package testutils provides test-only API endpoints used by end-to-end
// browser tests. These routes are only registered when ENVIRONMENT=test.
package testutils

import (
	"github.com/labstack/echo/v4"
	"github.com/talesforge/talesforge/pkg/users"
	"github.com/uptrace/bun"
)

func RegisterRoutes(e *echo.Echo, db *bun.DB) {
	h := &handler{
		db:          db,
		userService: users.NewService(db),
	}

	test := e.Group("/test")
	test.POST("/users", h.createUser)
	test.DELETE("/data", h.reset)
}
