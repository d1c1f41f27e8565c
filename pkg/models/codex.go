package models

import (
	"time"

	"github.com/uptrace/bun"
)

type CodexEntry struct {
	bun.BaseModel `bun:"table:codex_entries,alias:cx"`

	ID              int       `bun:",pk,autoincrement" json:"id"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
	Title           string    `bun:",notnull" json:"title"`
	TitleI18n       I18n      `bun:"title_i18n" json:"titleI18n,omitempty"`
	Description     string    `bun:",notnull" json:"description"`
	DescriptionI18n I18n      `bun:"description_i18n" json:"descriptionI18n,omitempty"`
	Category        string    `bun:",notnull" json:"category"`
	ImageURL        *string   `bun:"image_url" json:"imageUrl"`
}
