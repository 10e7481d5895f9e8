package domain

import "errors"

// ErrBackendUnreachable marks transport-level failures talking to the
// backend proxy. Distinct from backend-reported errors so the UI can
// show a "is the server running?" message instead of the raw cause.
var ErrBackendUnreachable = errors.New("backend unreachable")

// ValidationError reports malformed local input (phone or code). It is
// recovered inline and never causes a state transition.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// BackendError carries a backend-reported failure reason, surfaced to
// the user verbatim. SecondFactor marks the "needs 2FA password" case
// from login so the UI can show the fixed guidance text.
type BackendError struct {
	Reason       string
	SecondFactor bool
}

func (e *BackendError) Error() string { return e.Reason }
