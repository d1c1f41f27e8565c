package blog

import (
	"time"

	"github.com/talesforge/talesforge/pkg/models"
)

var translatableFields = []string{"title", "content", "excerpt"}

type ListPostsQuery struct {
	Category string `query:"category" mod:"trim,lcase"`
}

type PostData struct {
	Title       string     `json:"title" mod:"trim" validate:"required,max=300"`
	Slug        string     `json:"slug" mod:"trim,lcase" validate:"slug,max=300"`
	Content     string     `json:"content" validate:"required"`
	Excerpt     string     `json:"excerpt" mod:"trim" validate:"required,max=2000"`
	Category    string     `json:"category" mod:"trim,lcase" validate:"required,max=100"`
	PublishedAt *time.Time `json:"publishedAt"`
	ImageURL    *string    `json:"imageUrl" mod:"trim" validate:"omitempty,url"`
}

type CreatePostPayload struct {
	Data         *PostData           `json:"data" validate:"required"`
	Translations models.Translations `json:"translations"`
}

type UpdatePostData struct {
	Title       *string    `json:"title" mod:"trim" validate:"omitempty,min=1,max=300"`
	Slug        *string    `json:"slug" mod:"trim,lcase" validate:"omitempty,slug,max=300"`
	Content     *string    `json:"content" validate:"omitempty,min=1"`
	Excerpt     *string    `json:"excerpt" mod:"trim" validate:"omitempty,min=1,max=2000"`
	Category    *string    `json:"category" mod:"trim,lcase" validate:"omitempty,min=1,max=100"`
	PublishedAt *time.Time `json:"publishedAt"`
	ImageURL    *string    `json:"imageUrl" mod:"trim" validate:"omitempty,url"`
}

type UpdatePostPayload struct {
	Data         *UpdatePostData     `json:"data" validate:"required"`
	Translations models.Translations `json:"translations"`
}
