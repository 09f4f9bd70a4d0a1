package auth

// LoginPayload is accepted as a form post or a JSON body.
type LoginPayload struct {
	Username string `json:"username" form:"username" mod:"trim" validate:"required,max=150"`
	Password string `json:"password" form:"password" validate:"required"`
	Next     string `json:"next" form:"next"`
}

// MeResponse represents the current user response.
type MeResponse struct {
	ID           int      `json:"id"`
	Username     string   `json:"username"`
	Email        *string  `json:"email,omitempty"`
	RoleID       int      `json:"role_id"`
	RoleName     string   `json:"role_name"`
	Capabilities []string `json:"capabilities"`
}
