package config

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes registers the public config route on the API group.
func RegisterRoutes(g *echo.Group, cfg *Config) {
	h := &handler{config: cfg}
	g.GET("/config", h.retrieve)
}
