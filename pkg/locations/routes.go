package locations

import (
	"github.com/labstack/echo/v4"
	"github.com/talesforge/talesforge/pkg/fallback"
	"github.com/uptrace/bun"
)

func RegisterRoutes(api, admin *echo.Group, db *bun.DB, reader *fallback.Reader) *Service {
	locationService := NewService(db, reader)

	h := &handler{
		locationService: locationService,
	}

	api.GET("/locations", h.list)
	api.GET("/locations/:id", h.retrieve)

	admin.POST("/locations", h.create)
	admin.PUT("/locations/:id", h.update)
	admin.DELETE("/locations/:id", h.delete)

	return locationService
}
