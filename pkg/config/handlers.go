package config

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// PublicConfig is the subset of the configuration the frontend needs to know
// about. Nothing secret goes in here.
type PublicConfig struct {
	Environment     string `json:"environment"`
	DevLoginEnabled bool   `json:"devLoginEnabled"`
	UploadMaxBytes  int64  `json:"uploadMaxBytes"`
}

type handler struct {
	config *Config
}

func (h *handler) retrieve(c echo.Context) error {
	resp := PublicConfig{
		Environment:     h.config.Environment,
		DevLoginEnabled: h.config.DevLoginEnabled,
		UploadMaxBytes:  h.config.UploadMaxBytes,
	}
	return errors.WithStack(c.JSON(http.StatusOK, resp))
}
