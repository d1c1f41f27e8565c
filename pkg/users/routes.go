package users

import (
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutes mounts user management on the admin group.
func RegisterRoutes(admin *echo.Group, db *bun.DB) {
	h := &handler{
		userService: NewService(db),
	}

	admin.GET("/users", h.list)
	admin.PUT("/users/:id", h.update)
}
