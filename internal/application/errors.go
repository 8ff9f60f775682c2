package application

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email is already registered")

	ErrMissingInput        = errors.New("missing input")
	ErrInvalidAction       = errors.New("invalid action")
	ErrUnknownDeceasedUser = errors.New("no user found with that email")
	ErrNotTrustedContact   = errors.New("not registered as a trusted contact for this user")
	ErrUnauthorized        = errors.New("not allowed to modify this resource")
	ErrNotFound            = errors.New("resource not found")
)

// ensureOwner is the ownership guard shared by every registry mutation.
func ensureOwner(callerID, ownerID int64) error {
	if callerID != ownerID {
		return ErrUnauthorized
	}
	return nil
}
