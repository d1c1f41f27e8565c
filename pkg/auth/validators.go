package auth

// LoginPayload represents the login request body.
type LoginPayload struct {
	Email    string `json:"email" mod:"trim" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,max=200"`
}

// DevLoginPayload signs in as any email without a password. Only routed when
// dev login is enabled.
type DevLoginPayload struct {
	Email     string  `json:"email" mod:"trim" validate:"required,email,max=254"`
	FirstName *string `json:"firstName" mod:"trim" validate:"omitempty,max=100"`
	LastName  *string `json:"lastName" mod:"trim" validate:"omitempty,max=100"`
	IsAdmin   bool    `json:"isAdmin"`
}
