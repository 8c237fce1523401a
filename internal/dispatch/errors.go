package dispatch

import "errors"

// ErrInvalidCredentials is returned by Login on any username/password
// mismatch. Callers get no detail about which part was wrong.
var ErrInvalidCredentials = errors.New("invalid username or password")

// ValidationError is a user-correctable input problem. The operation was
// aborted and no state was mutated.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func validationf(msg string) error {
	return &ValidationError{Msg: msg}
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
