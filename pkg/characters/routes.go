package characters

import (
	"github.com/labstack/echo/v4"
	"github.com/talesforge/talesforge/pkg/fallback"
	"github.com/uptrace/bun"
)

func RegisterRoutes(api, admin *echo.Group, db *bun.DB, reader *fallback.Reader) *Service {
	characterService := NewService(db, reader)

	h := &handler{
		characterService: characterService,
	}

	api.GET("/characters", h.list)
	api.GET("/characters/:slug", h.retrieve)

	admin.POST("/characters", h.create)
	admin.PUT("/characters/:id", h.update)
	admin.DELETE("/characters/:id", h.delete)

	return characterService
}
