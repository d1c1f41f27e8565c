package locations

import "github.com/talesforge/talesforge/pkg/models"

var translatableFields = []string{"name", "description"}

type ListLocationsQuery struct {
	Type string `query:"type" mod:"trim,lcase"`
}

// Map coordinates are percentages of the map image, so both axes run 0-100.
type LocationData struct {
	Name        string   `json:"name" mod:"trim" validate:"required,max=200"`
	Description string   `json:"description" validate:"required"`
	MapX        *float64 `json:"mapX" validate:"required,min=0,max=100"`
	MapY        *float64 `json:"mapY" validate:"required,min=0,max=100"`
	Type        string   `json:"type" mod:"trim,lcase" validate:"required,max=100"`
}

type CreateLocationPayload struct {
	Data         *LocationData       `json:"data" validate:"required"`
	Translations models.Translations `json:"translations"`
}

type UpdateLocationData struct {
	Name        *string  `json:"name" mod:"trim" validate:"omitempty,min=1,max=200"`
	Description *string  `json:"description" validate:"omitempty,min=1"`
	MapX        *float64 `json:"mapX" validate:"omitempty,min=0,max=100"`
	MapY        *float64 `json:"mapY" validate:"omitempty,min=0,max=100"`
	Type        *string  `json:"type" mod:"trim,lcase" validate:"omitempty,min=1,max=100"`
}

type UpdateLocationPayload struct {
	Data         *UpdateLocationData `json:"data" validate:"required"`
	Translations models.Translations `json:"translations"`
}
