package characters

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/talesforge/talesforge/pkg/errcodes"
	"github.com/talesforge/talesforge/pkg/models"
)

type handler struct {
	characterService *Service
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListCharactersQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	opts := ListCharactersOptions{}
	if params.Role != "" {
		opts.Role = &params.Role
	}

	characters, err := h.characterService.ListCharacters(ctx, opts)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, characters))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()
	slug := c.Param("slug")

	character, err := h.characterService.RetrieveCharacter(ctx, RetrieveCharacterOptions{
		Slug: &slug,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, character))
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateCharacterPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}
	if err := params.Translations.Validate(translatableFields...); err != nil {
		return err
	}

	data := params.Data
	character := &models.Character{
		Name:        data.Name,
		Title:       data.Title,
		Description: data.Description,
		Slug:        data.Slug,
		ImageURL:    data.ImageURL,
		Role:        data.Role,
	}
	params.Translations.Apply(i18nTargets(character))

	if err := h.characterService.CreateCharacter(ctx, character); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, character))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Character")
	}

	params := UpdateCharacterPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}
	if err := params.Translations.Validate(translatableFields...); err != nil {
		return err
	}

	character, err := h.characterService.retrieveCharacter(ctx, RetrieveCharacterOptions{
		ID: &id,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	opts := UpdateCharacterOptions{Columns: []string{}}
	data := params.Data
	if data.Name != nil && *data.Name != character.Name {
		character.Name = *data.Name
		opts.Columns = append(opts.Columns, "name")
	}
	if data.Title != nil && *data.Title != character.Title {
		character.Title = *data.Title
		opts.Columns = append(opts.Columns, "title")
	}
	if data.Description != nil && *data.Description != character.Description {
		character.Description = *data.Description
		opts.Columns = append(opts.Columns, "description")
	}
	if data.Slug != nil && *data.Slug != character.Slug {
		character.Slug = *data.Slug
		opts.Columns = append(opts.Columns, "slug")
	}
	if data.ImageURL != nil {
		if *data.ImageURL == "" {
			character.ImageURL = nil
		} else {
			character.ImageURL = data.ImageURL
		}
		opts.Columns = append(opts.Columns, "image_url")
	}
	if data.Role != nil && *data.Role != character.Role {
		character.Role = *data.Role
		opts.Columns = append(opts.Columns, "role")
	}
	opts.Columns = append(opts.Columns, params.Translations.Apply(i18nTargets(character))...)

	if err := h.characterService.UpdateCharacter(ctx, character, opts); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, character))
}

func (h *handler) delete(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Character")
	}

	if err := h.characterService.DeleteCharacter(ctx, id); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, map[string]bool{"success": true}))
}

func i18nTargets(character *models.Character) map[string]*models.I18n {
	return map[string]*models.I18n{
		"name":        &character.NameI18n,
		"title":       &character.TitleI18n,
		"description": &character.DescriptionI18n,
	}
}
