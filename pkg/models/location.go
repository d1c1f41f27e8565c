package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Location is a point on the world map. MapX and MapY are percentages of the
// map's width and height.
type Location struct {
	bun.BaseModel `bun:"table:locations,alias:loc"`

	ID              int       `bun:",pk,autoincrement" json:"id"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
	Name            string    `bun:",notnull" json:"name"`
	NameI18n        I18n      `bun:"name_i18n" json:"nameI18n,omitempty"`
	Description     string    `bun:",notnull" json:"description"`
	DescriptionI18n I18n      `bun:"description_i18n" json:"descriptionI18n,omitempty"`
	MapX            float64   `bun:"map_x,notnull" json:"mapX"`
	MapY            float64   `bun:"map_y,notnull" json:"mapY"`
	Type            string    `bun:",notnull" json:"type"`
}
