package domain

import (
	"errors"
	"fmt"
)

// Error kinds shared by usecases and services. Concrete errors wrap one of them
// so handlers can map with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrAccessDenied = errors.New("access denied")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict")
	ErrUnavailable  = errors.New("dependency unavailable")
)

// SlotUnavailableError the requested slot of a service cannot be booked
type SlotUnavailableError struct {
	ServiceID int64
	Reason    string
}

func (e *SlotUnavailableError) Error() string {
	return fmt.Sprintf("slot unavailable for service %d: %s", e.ServiceID, e.Reason)
}

func (e *SlotUnavailableError) Unwrap() error {
	return ErrConflict
}
