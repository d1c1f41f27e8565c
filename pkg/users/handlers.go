package users

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/talesforge/talesforge/pkg/errcodes"
)

// ContextKeyUserID is the echo context key under which the session
// middleware stores the signed-in user's id.
const ContextKeyUserID = "user_id"

type handler struct {
	userService *Service
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	users, err := h.userService.List(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, users))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	params := UpdateUserPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	user, err := h.userService.Retrieve(ctx, id)
	if err != nil {
		return errors.WithStack(err)
	}

	opts := UpdateUserOptions{Columns: []string{}}
	if params.IsAdmin != nil && *params.IsAdmin != user.IsAdmin {
		// Keep at least the acting admin around to undo mistakes.
		if currentID, ok := c.Get(ContextKeyUserID).(string); ok && currentID == user.ID && !*params.IsAdmin {
			return errcodes.Forbidden("Removing your own admin access")
		}
		user.IsAdmin = *params.IsAdmin
		opts.Columns = append(opts.Columns, "is_admin")
	}
	if params.FirstName != nil {
		user.FirstName = emptyToNil(params.FirstName)
		opts.Columns = append(opts.Columns, "first_name")
	}
	if params.LastName != nil {
		user.LastName = emptyToNil(params.LastName)
		opts.Columns = append(opts.Columns, "last_name")
	}
	if params.ProfileImageURL != nil {
		user.ProfileImageURL = emptyToNil(params.ProfileImageURL)
		opts.Columns = append(opts.Columns, "profile_image_url")
	}

	if err := h.userService.Update(ctx, user, opts); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, user))
}

func emptyToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
