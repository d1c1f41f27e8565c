package models

import (
	"time"

	"github.com/uptrace/bun"
)

type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID              string    `bun:",pk" json:"id"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
	Email           string    `bun:",notnull" json:"email"`
	FirstName       *string   `json:"firstName"`
	LastName        *string   `json:"lastName"`
	ProfileImageURL *string   `bun:"profile_image_url" json:"profileImageUrl"`
	IsAdmin         bool      `bun:",notnull" json:"isAdmin"`
	PasswordHash    string    `json:"-"` // Never expose password hash
}

// HasPassword reports whether the user can sign in with a password.
func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}
