package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	CharacterRoleProtagonist = "protagonist"
	CharacterRoleAntagonist  = "antagonist"
	CharacterRoleSupporting  = "supporting"
)

type Character struct {
	bun.BaseModel `bun:"table:characters,alias:chr"`

	ID              int       `bun:",pk,autoincrement" json:"id"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
	Name            string    `bun:",notnull" json:"name"`
	NameI18n        I18n      `bun:"name_i18n" json:"nameI18n,omitempty"`
	Title           string    `bun:",notnull" json:"title"`
	TitleI18n       I18n      `bun:"title_i18n" json:"titleI18n,omitempty"`
	Description     string    `bun:",notnull" json:"description"`
	DescriptionI18n I18n      `bun:"description_i18n" json:"descriptionI18n,omitempty"`
	Slug            string    `bun:",notnull,unique" json:"slug"`
	ImageURL        *string   `bun:"image_url" json:"imageUrl"`
	Role            string    `bun:",notnull" json:"role"`
}
