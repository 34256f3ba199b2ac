package validator

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidName indicates a channel name that breaks the naming rules
	ErrInvalidName = errors.New("invalid channel name")

	// ErrDuplicateName indicates two channels sharing a name
	ErrDuplicateName = errors.New("duplicate channel name")

	// ErrInvalidKind indicates a kind outside Broadcast, Unicast and Port
	ErrInvalidKind = errors.New("invalid channel kind")

	// ErrInvalidDirection indicates a direction outside the known process pairs
	ErrInvalidDirection = errors.New("invalid channel direction")

	// ErrIncompatibleKind indicates a kind that cannot be used with the direction
	ErrIncompatibleKind = errors.New("incompatible kind and direction")

	// ErrMissingSignature indicates a channel without a usable signature
	ErrMissingSignature = errors.New("missing signature")

	// ErrInvalidReturnType indicates a non-void return for a fire-and-forget channel
	ErrInvalidReturnType = errors.New("invalid return type")

	// ErrListenersNotAllowed indicates listener overrides on a non-Broadcast channel
	ErrListenersNotAllowed = errors.New("listeners not allowed")

	// ErrInvalidListener indicates a listener name that breaks the naming rules
	ErrInvalidListener = errors.New("invalid listener name")

	// ErrDuplicateListener indicates a listener callable generated twice
	ErrDuplicateListener = errors.New("duplicate listener name")

	// ErrInvalidTrigger indicates a lifecycle trigger that cannot be used
	ErrInvalidTrigger = errors.New("invalid trigger")
)

// FieldError describes one rule violation on one channel field.
type FieldError struct {
	File    string // relative path of the schema module
	Channel string
	Field   string
	Value   string
	Rule    string
	Err     error // sentinel
}

func (e *FieldError) Error() string {
	var b strings.Builder
	if e.File != "" {
		b.WriteString(e.File)
		b.WriteString(": ")
	}
	if e.Channel != "" {
		fmt.Fprintf(&b, "channel %q: ", e.Channel)
	}
	fmt.Fprintf(&b, "%v: %s %q %s", e.Err, e.Field, e.Value, e.Rule)
	return b.String()
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// Errors is the set of violations found in one validation pass.
// It unwraps to every violation so errors.Is and errors.As see each one.
type Errors []error

func (e Errors) Error() string {
	if len(e) == 1 {
		return e[0].Error()
	}

	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}

func (e Errors) Unwrap() []error {
	return e
}

// joinErrors combines violations into a single error, or nil when there are none.
func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	return Errors(errs)
}
