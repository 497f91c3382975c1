// Package proto holds the wire contract shared by the gophauth server and
// client: request and response messages, the gRPC service description and
// the JSON codec the messages travel with.
package proto

// CredentialsRequest is the body of Signup and Login.
type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse answers Signup and Login. Token is set on success, Message on
// failure.
type AuthResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token,omitempty"`
	Message string `json:"message,omitempty"`
}

type LandingPageRequest struct{}

// LandingPageResponse is the protected page payload.
type LandingPageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Email   string `json:"email,omitempty"`
}

// LandingPageMessage is the greeting served to authenticated callers.
const LandingPageMessage = "Hello World"
