package testutils

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/talesforge/talesforge/pkg/users"
	"github.com/uptrace/bun"
)

// contentTables are cleared by reset, children before parents.
var contentTables = []string{
	"reading_progress",
	"chapters",
	"characters",
	"locations",
	"codex_entries",
	"blog_posts",
	"users",
}

type handler struct {
	db          *bun.DB
	userService *users.Service
}

type createUserPayload struct {
	Email    string `json:"email" mod:"trim" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	IsAdmin  bool   `json:"isAdmin"`
}

// createUser creates or replaces a user with a known password.
// POST /test/users.
func (h *handler) createUser(c echo.Context) error {
	ctx := c.Request().Context()

	params := createUserPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	user, err := h.userService.Upsert(ctx, users.CreateUserOptions{
		Email:    params.Email,
		Password: params.Password,
		IsAdmin:  params.IsAdmin,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, user))
}

// reset empties every table so each browser test starts clean.
// DELETE /test/data.
func (h *handler) reset(c echo.Context) error {
	ctx := c.Request().Context()

	err := h.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, table := range contentTables {
			if _, err := tx.ExecContext(ctx, "DELETE FROM ?", bun.Ident(table)); err != nil {
				return errors.Wrapf(err, "failed to clear %s", table)
			}
		}
		return nil
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return c.NoContent(http.StatusNoContent)
}
