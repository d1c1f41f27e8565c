package codex

import "github.com/talesforge/talesforge/pkg/models"

var translatableFields = []string{"title", "description"}

type ListEntriesQuery struct {
	Category string `query:"category" mod:"trim,lcase"`
}

type EntryData struct {
	Title       string  `json:"title" mod:"trim" validate:"required,max=300"`
	Description string  `json:"description" validate:"required"`
	Category    string  `json:"category" mod:"trim,lcase" validate:"required,max=100"`
	ImageURL    *string `json:"imageUrl" mod:"trim" validate:"omitempty,url"`
}

type CreateEntryPayload struct {
	Data         *EntryData          `json:"data" validate:"required"`
	Translations models.Translations `json:"translations"`
}

type UpdateEntryData struct {
	Title       *string `json:"title" mod:"trim" validate:"omitempty,min=1,max=300"`
	Description *string `json:"description" validate:"omitempty,min=1"`
	Category    *string `json:"category" mod:"trim,lcase" validate:"omitempty,min=1,max=100"`
	ImageURL    *string `json:"imageUrl" mod:"trim" validate:"omitempty,url"`
}

type UpdateEntryPayload struct {
	Data         *UpdateEntryData    `json:"data" validate:"required"`
	Translations models.Translations `json:"translations"`
}
