package models

import "time"

// SessionProfile is the per-user state this service keeps after a successful
// login or registration. BackendToken is the access token issued by the
// remote backend; it is stored server-side and never returned to the client.
type SessionProfile struct {
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	BackendToken string    `json:"backendToken"`
	LoggedInAt   time.Time `json:"loggedInAt"`
}
