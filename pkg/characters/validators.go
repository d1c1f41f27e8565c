package characters

import "github.com/talesforge/talesforge/pkg/models"

var translatableFields = []string{"name", "title", "description"}

type ListCharactersQuery struct {
	Role string `query:"role" mod:"trim,lcase" validate:"omitempty,oneof=protagonist antagonist supporting"`
}

type CharacterData struct {
	Name        string  `json:"name" mod:"trim" validate:"required,max=200"`
	Title       string  `json:"title" mod:"trim" validate:"required,max=300"`
	Description string  `json:"description" validate:"required"`
	Slug        string  `json:"slug" mod:"trim,lcase" validate:"slug,max=300"`
	ImageURL    *string `json:"imageUrl" mod:"trim" validate:"omitempty,url"`
	Role        string  `json:"role" mod:"trim,lcase" validate:"required,oneof=protagonist antagonist supporting"`
}

type CreateCharacterPayload struct {
	Data         *CharacterData      `json:"data" validate:"required"`
	Translations models.Translations `json:"translations"`
}

type UpdateCharacterData struct {
	Name        *string `json:"name" mod:"trim" validate:"omitempty,min=1,max=200"`
	Title       *string `json:"title" mod:"trim" validate:"omitempty,min=1,max=300"`
	Description *string `json:"description" validate:"omitempty,min=1"`
	Slug        *string `json:"slug" mod:"trim,lcase" validate:"omitempty,slug,max=300"`
	ImageURL    *string `json:"imageUrl" mod:"trim" validate:"omitempty,url"`
	Role        *string `json:"role" mod:"trim,lcase" validate:"omitempty,oneof=protagonist antagonist supporting"`
}

type UpdateCharacterPayload struct {
	Data         *UpdateCharacterData `json:"data" validate:"required"`
	Translations models.Translations  `json:"translations"`
}
