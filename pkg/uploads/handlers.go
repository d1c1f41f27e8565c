package uploads

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	uploadService *Service
}

func (h *handler) upload(c echo.Context) error {
	ctx := c.Request().Context()

	params := UploadPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	data, err := h.uploadService.Decode(params.File)
	if err != nil {
		return err
	}

	url, err := h.uploadService.Store(ctx, data, params.Filename)
	if err != nil {
		return err
	}

	return errors.WithStack(c.JSON(http.StatusCreated, UploadResponse{URL: url}))
}
