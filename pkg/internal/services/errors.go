package services

import (
	"errors"
	"fmt"
)

var (
	ErrRequestNotFound     = errors.New("chat request not found")
	ErrNotInvited          = errors.New("you are not invited by this chat request")
	ErrAlreadySettled      = errors.New("this invitation was already settled")
	ErrMaterializeConflict = errors.New("chat was materialized by a concurrent acceptance")
)

// ValidationError marks a malformed request shape. Fatal to the single
// call, never worth a retry.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
