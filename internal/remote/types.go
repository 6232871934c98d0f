package remote

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound reports a 404; Fetch uses it for "no profile yet".
	ErrNotFound = errors.New("not found")
	// ErrConflict reports a 409 from any endpoint.
	ErrConflict = errors.New("conflict")
	// ErrUnauthorized reports rejected credentials.
	ErrUnauthorized = errors.New("invalid email or password")

	ErrUsernameTaken = errors.New("username taken")
	ErrEmailTaken    = errors.New("email already registered")
)

// Account identifies a signed-in user.
type Account struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Credentials is the sign-up/sign-in request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ownerResponse struct {
	ID string `json:"id"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// StatusError is a non-2xx response.
type StatusError struct {
	Path    string
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api %s returned status %d: %s", e.Path, e.Status, e.Message)
	}
	return fmt.Sprintf("api %s returned status %d", e.Path, e.Status)
}

// Unwrap maps well-known statuses onto the package sentinels.
func (e *StatusError) Unwrap() error {
	switch e.Status {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		return ErrConflict
	case http.StatusUnauthorized:
		return ErrUnauthorized
	default:
		return nil
	}
}
