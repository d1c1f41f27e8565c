package codex

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/talesforge/talesforge/pkg/errcodes"
	"github.com/talesforge/talesforge/pkg/models"
)

type handler struct {
	codexService *Service
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListEntriesQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	opts := ListEntriesOptions{}
	if params.Category != "" {
		opts.Category = &params.Category
	}

	entries, err := h.codexService.ListEntries(ctx, opts)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, entries))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Codex entry")
	}

	entry, err := h.codexService.RetrieveEntry(ctx, id)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, entry))
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateEntryPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}
	if err := params.Translations.Validate(translatableFields...); err != nil {
		return err
	}

	data := params.Data
	entry := &models.CodexEntry{
		Title:       data.Title,
		Description: data.Description,
		Category:    data.Category,
		ImageURL:    data.ImageURL,
	}
	params.Translations.Apply(i18nTargets(entry))

	if err := h.codexService.CreateEntry(ctx, entry); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, entry))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Codex entry")
	}

	params := UpdateEntryPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}
	if err := params.Translations.Validate(translatableFields...); err != nil {
		return err
	}

	entry, err := h.codexService.retrieveEntry(ctx, id)
	if err != nil {
		return errors.WithStack(err)
	}

	opts := UpdateEntryOptions{Columns: []string{}}
	data := params.Data
	if data.Title != nil && *data.Title != entry.Title {
		entry.Title = *data.Title
		opts.Columns = append(opts.Columns, "title")
	}
	if data.Description != nil && *data.Description != entry.Description {
		entry.Description = *data.Description
		opts.Columns = append(opts.Columns, "description")
	}
	if data.Category != nil && *data.Category != entry.Category {
		entry.Category = *data.Category
		opts.Columns = append(opts.Columns, "category")
	}
	if data.ImageURL != nil {
		if *data.ImageURL == "" {
			entry.ImageURL = nil
		} else {
			entry.ImageURL = data.ImageURL
		}
		opts.Columns = append(opts.Columns, "image_url")
	}
	opts.Columns = append(opts.Columns, params.Translations.Apply(i18nTargets(entry))...)

	if err := h.codexService.UpdateEntry(ctx, entry, opts); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, entry))
}

func (h *handler) delete(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Codex entry")
	}

	if err := h.codexService.DeleteEntry(ctx, id); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, map[string]bool{"success": true}))
}

func i18nTargets(entry *models.CodexEntry) map[string]*models.I18n {
	return map[string]*models.I18n{
		"title":       &entry.TitleI18n,
		"description": &entry.DescriptionI18n,
	}
}
