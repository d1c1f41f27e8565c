package progress

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/talesforge/talesforge/pkg/errcodes"
	"github.com/talesforge/talesforge/pkg/models"
)

type handler struct {
	progressService *Service
}

func (h *handler) upsert(c echo.Context) error {
	ctx := c.Request().Context()

	params := UpsertProgressPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	rp := &models.ReadingProgress{
		SessionID: params.SessionID,
		ChapterID: params.ChapterID,
		Progress:  Clamp(*params.Progress),
	}
	if err := h.progressService.UpsertProgress(ctx, rp); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, rp))
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	rows, err := h.progressService.ListProgress(ctx, c.Param("sessionId"))
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, rows))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()
	chapterID, err := strconv.Atoi(c.Param("chapterId"))
	if err != nil {
		return errcodes.NotFound("Reading progress")
	}

	rp, err := h.progressService.RetrieveProgress(ctx, c.Param("sessionId"), chapterID)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, rp))
}
