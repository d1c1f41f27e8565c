package progress

import (
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

func RegisterRoutes(api *echo.Group, db *bun.DB) {
	h := &handler{
		progressService: NewService(db),
	}

	api.PUT("/reading-progress", h.upsert)
	api.GET("/reading-progress/:sessionId", h.list)
	api.GET("/reading-progress/:sessionId/:chapterId", h.retrieve)
}
