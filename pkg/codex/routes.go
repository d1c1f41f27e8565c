package codex

import (
	"github.com/labstack/echo/v4"
	"github.com/talesforge/talesforge/pkg/fallback"
	"github.com/uptrace/bun"
)

func RegisterRoutes(api, admin *echo.Group, db *bun.DB, reader *fallback.Reader) *Service {
	codexService := NewService(db, reader)

	h := &handler{
		codexService: codexService,
	}

	api.GET("/codex", h.list)
	api.GET("/codex/:id", h.retrieve)

	admin.POST("/codex", h.create)
	admin.PUT("/codex/:id", h.update)
	admin.DELETE("/codex/:id", h.delete)

	return codexService
}
