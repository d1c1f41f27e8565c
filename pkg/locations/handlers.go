package locations

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/talesforge/talesforge/pkg/errcodes"
	"github.com/talesforge/talesforge/pkg/models"
)

type handler struct {
	locationService *Service
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListLocationsQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	opts := ListLocationsOptions{}
	if params.Type != "" {
		opts.Type = &params.Type
	}

	locations, err := h.locationService.ListLocations(ctx, opts)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, locations))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Location")
	}

	location, err := h.locationService.RetrieveLocation(ctx, id)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, location))
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateLocationPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}
	if err := params.Translations.Validate(translatableFields...); err != nil {
		return err
	}

	data := params.Data
	location := &models.Location{
		Name:        data.Name,
		Description: data.Description,
		MapX:        *data.MapX,
		MapY:        *data.MapY,
		Type:        data.Type,
	}
	params.Translations.Apply(i18nTargets(location))

	if err := h.locationService.CreateLocation(ctx, location); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, location))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Location")
	}

	params := UpdateLocationPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}
	if err := params.Translations.Validate(translatableFields...); err != nil {
		return err
	}

	location, err := h.locationService.retrieveLocation(ctx, id)
	if err != nil {
		return errors.WithStack(err)
	}

	opts := UpdateLocationOptions{Columns: []string{}}
	data := params.Data
	if data.Name != nil && *data.Name != location.Name {
		location.Name = *data.Name
		opts.Columns = append(opts.Columns, "name")
	}
	if data.Description != nil && *data.Description != location.Description {
		location.Description = *data.Description
		opts.Columns = append(opts.Columns, "description")
	}
	if data.MapX != nil && *data.MapX != location.MapX {
		location.MapX = *data.MapX
		opts.Columns = append(opts.Columns, "map_x")
	}
	if data.MapY != nil && *data.MapY != location.MapY {
		location.MapY = *data.MapY
		opts.Columns = append(opts.Columns, "map_y")
	}
	if data.Type != nil && *data.Type != location.Type {
		location.Type = *data.Type
		opts.Columns = append(opts.Columns, "type")
	}
	opts.Columns = append(opts.Columns, params.Translations.Apply(i18nTargets(location))...)

	if err := h.locationService.UpdateLocation(ctx, location, opts); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, location))
}

func (h *handler) delete(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Location")
	}

	if err := h.locationService.DeleteLocation(ctx, id); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, map[string]bool{"success": true}))
}

func i18nTargets(location *models.Location) map[string]*models.I18n {
	return map[string]*models.I18n{
		"name":        &location.NameI18n,
		"description": &location.DescriptionI18n,
	}
}
