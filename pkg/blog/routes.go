package blog

import (
	"github.com/labstack/echo/v4"
	"github.com/talesforge/talesforge/pkg/fallback"
	"github.com/uptrace/bun"
)

func RegisterRoutes(api, admin *echo.Group, db *bun.DB, reader *fallback.Reader) *Service {
	blogService := NewService(db, reader)

	h := &handler{
		blogService: blogService,
	}

	api.GET("/blog", h.list)
	api.GET("/blog/:slug", h.retrieve)

	admin.POST("/blog", h.create)
	admin.PUT("/blog/:id", h.update)
	admin.DELETE("/blog/:id", h.delete)

	return blogService
}
