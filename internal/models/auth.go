package models

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by both /auth/login and /auth/register.
// User is optional; the session is derived from the token regardless.
type AuthResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        *User  `json:"user,omitempty"`
}

// Message is the generic `{"message": ...}` acknowledgement body used by
// verification and password endpoints.
type Message struct {
	Message string `json:"message"`
}
