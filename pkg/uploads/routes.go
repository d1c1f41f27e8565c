package uploads

import (
	"fmt"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/talesforge/talesforge/pkg/config"
)

// RegisterRoutes mounts the admin upload endpoint and the static file server.
func RegisterRoutes(e *echo.Echo, admin *echo.Group, cfg *config.Config) {
	h := &handler{
		uploadService: NewService(cfg.UploadDir, cfg.UploadMaxBytes),
	}

	admin.POST("/upload", h.upload, middleware.BodyLimit(bodyLimit(cfg.UploadMaxBytes)))

	e.Static(PublicPath, cfg.UploadDir)
}

// bodyLimit allows for the base64 expansion of a maximum sized file plus the
// JSON envelope around it.
func bodyLimit(maxBytes int64) string {
	kb := (maxBytes*4/3)/1024 + 64
	return fmt.Sprintf("%dK", kb)
}
