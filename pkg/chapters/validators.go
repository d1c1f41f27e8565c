package chapters

import (
	"time"

	"github.com/talesforge/talesforge/pkg/models"
)

// translatableFields are the fields accepted under each locale of the
// translations object.
var translatableFields = []string{"title", "content", "excerpt"}

type ChapterData struct {
	Title         string     `json:"title" mod:"trim" validate:"required,max=300"`
	Slug          string     `json:"slug" mod:"trim,lcase" validate:"slug,max=300"`
	Content       string     `json:"content" validate:"required"`
	Excerpt       string     `json:"excerpt" mod:"trim" validate:"required,max=2000"`
	ChapterNumber int        `json:"chapterNumber" validate:"required,min=1"`
	ReadingTime   int        `json:"readingTime" validate:"min=0"`
	PublishedAt   *time.Time `json:"publishedAt"`
	ImageURL      *string    `json:"imageUrl" mod:"trim" validate:"omitempty,url"`
}

type CreateChapterPayload struct {
	Data         *ChapterData        `json:"data" validate:"required"`
	Translations models.Translations `json:"translations"`
}

type UpdateChapterData struct {
	Title         *string    `json:"title" mod:"trim" validate:"omitempty,min=1,max=300"`
	Slug          *string    `json:"slug" mod:"trim,lcase" validate:"omitempty,slug,max=300"`
	Content       *string    `json:"content" validate:"omitempty,min=1"`
	Excerpt       *string    `json:"excerpt" mod:"trim" validate:"omitempty,min=1,max=2000"`
	ChapterNumber *int       `json:"chapterNumber" validate:"omitempty,min=1"`
	ReadingTime   *int       `json:"readingTime" validate:"omitempty,min=0"`
	PublishedAt   *time.Time `json:"publishedAt"`
	ImageURL      *string    `json:"imageUrl" mod:"trim" validate:"omitempty,url"`
}

type UpdateChapterPayload struct {
	Data         *UpdateChapterData  `json:"data" validate:"required"`
	Translations models.Translations `json:"translations"`
}
