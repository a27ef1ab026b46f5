package dto

// RegisterRequest describes the self-registration payload.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// LoginRequest describes the credential payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
