package geocoding

import (
	"fmt"
	"marker-route-service/internal/domain"
)

// Error is returned when an address cannot be geocoded.
// It matches domain.ErrResolutionFailed under errors.Is.
type Error struct {
	Provider string
	Address  string
	Reason   string
	Err      error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s geocoding failed for address %q: %s", e.Provider, e.Address, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{domain.ErrResolutionFailed, e.Err}
	}
	return []error{domain.ErrResolutionFailed}
}
