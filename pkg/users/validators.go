package users

// UpdateUserPayload is the admin edit of another user. Email and password are
// not editable here.
type UpdateUserPayload struct {
	FirstName       *string `json:"firstName" mod:"trim" validate:"omitempty,max=100"`
	LastName        *string `json:"lastName" mod:"trim" validate:"omitempty,max=100"`
	ProfileImageURL *string `json:"profileImageUrl" mod:"trim" validate:"omitempty,url"`
	IsAdmin         *bool   `json:"isAdmin"`
}
