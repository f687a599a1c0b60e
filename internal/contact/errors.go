package contact

import (
	"errors"
	"fmt"
)

var (
	// ErrClosed is returned by operations on a controller after Close.
	ErrClosed = errors.New("contact: controller closed")

	// ErrSubmitInFlight is returned when Submit is called while a previous
	// request has not resolved yet. State is left untouched.
	ErrSubmitInFlight = errors.New("contact: submission already in flight")

	// ErrDelivery wraps every transport or server failure reported by a Sender.
	ErrDelivery = errors.New("contact: delivery failed")
)

// ValidationKind tells which local check rejected a submission.
type ValidationKind int

const (
	MissingRequiredFields ValidationKind = iota + 1
	MissingChannelContact
)

func (k ValidationKind) String() string {
	switch k {
	case MissingRequiredFields:
		return "missing required fields"
	case MissingChannelContact:
		return "missing channel contact"
	default:
		return "unknown"
	}
}

// ValidationError reports a submission rejected before any network I/O.
// Channel is set only for MissingChannelContact.
type ValidationError struct {
	Kind    ValidationKind
	Channel Channel
}

func (e *ValidationError) Error() string {
	if e.Kind == MissingChannelContact {
		return fmt.Sprintf("contact: %s: %s", e.Kind, e.Channel)
	}
	return "contact: " + e.Kind.String()
}
