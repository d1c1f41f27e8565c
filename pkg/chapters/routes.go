package chapters

import (
	"github.com/labstack/echo/v4"
	"github.com/talesforge/talesforge/pkg/fallback"
	"github.com/uptrace/bun"
)

// RegisterRoutes mounts the public reads on api and the writes on admin. The
// admin group is expected to carry the auth middleware already.
func RegisterRoutes(api, admin *echo.Group, db *bun.DB, reader *fallback.Reader) *Service {
	chapterService := NewService(db, reader)

	h := &handler{
		chapterService: chapterService,
	}

	api.GET("/chapters", h.list)
	api.GET("/chapters/:slug", h.retrieve)

	admin.POST("/chapters", h.create)
	admin.PUT("/chapters/:id", h.update)
	admin.DELETE("/chapters/:id", h.delete)

	return chapterService
}
