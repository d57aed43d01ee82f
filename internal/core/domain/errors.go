package domain

import "errors"

var (
	// ErrInvalidCredentials is returned when the backend rejects a login.
	// The backend's own message travels separately via BackendError so the
	// view layer can show it verbatim.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNotAuthenticated is returned when an operation requiring an active
	// session is attempted without one, or when the session token no longer
	// validates against the backend.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrPasswordChangeRequired gates every operation except the password
	// change itself while the mustChangePassword flag is set.
	ErrPasswordChangeRequired = errors.New("password change required")

	ErrObraNotFound         = errors.New("obra not found")
	ErrDepartamentoNotFound = errors.New("departamento not found")
)

// ValidationError reports a client-side form constraint violated before any
// network call was attempted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}

// BackendError wraps a non-2xx response from the content backend, preserving
// the backend's message verbatim for user-visible rendering.
type BackendError struct {
	StatusCode int
	Name       string
	Message    string
}

func (e *BackendError) Error() string {
	if e.Name != "" {
		return e.Name + ": " + e.Message
	}
	return e.Message
}
