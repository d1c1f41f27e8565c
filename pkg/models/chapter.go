package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Chapter struct {
	bun.BaseModel `bun:"table:chapters,alias:ch"`

	ID            int       `bun:",pk,autoincrement" json:"id"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
	Title         string    `bun:",notnull" json:"title"`
	TitleI18n     I18n      `bun:"title_i18n" json:"titleI18n,omitempty"`
	Slug          string    `bun:",notnull,unique" json:"slug"`
	Content       string    `bun:",notnull" json:"content"`
	ContentI18n   I18n      `bun:"content_i18n" json:"contentI18n,omitempty"`
	Excerpt       string    `bun:",notnull" json:"excerpt"`
	ExcerptI18n   I18n      `bun:"excerpt_i18n" json:"excerptI18n,omitempty"`
	ChapterNumber int       `bun:",notnull" json:"chapterNumber"`
	ReadingTime   int       `bun:",notnull" json:"readingTime"` // minutes
	PublishedAt   time.Time `bun:",notnull" json:"publishedAt"`
	ImageURL      *string   `bun:"image_url" json:"imageUrl"`
}
