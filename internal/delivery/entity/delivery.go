package entity

import (
	"errors"
	"fmt"
)

// ErrNoProvider is reported when no provider is configured at all.
var ErrNoProvider = errors.New("no delivery provider configured")

// Attempt is the result of one provider call.
type Attempt struct {
	Provider string
	Err      error
}

// Outcome summarizes a delivery. Provider names the provider that accepted
// the message; it is empty when every attempt failed.
type Outcome struct {
	Provider string
	Failures []Attempt
}

// Delivered reports whether some provider accepted the message.
func (o Outcome) Delivered() bool {
	return o.Provider != ""
}

// Err returns nil when delivered, otherwise every failure joined.
func (o Outcome) Err() error {
	if o.Delivered() {
		return nil
	}
	if len(o.Failures) == 0 {
		return ErrNoProvider
	}

	errs := make([]error, len(o.Failures))
	for i, f := range o.Failures {
		errs[i] = fmt.Errorf("%s: %w", f.Provider, f.Err)
	}
	return errors.Join(errs...)
}

// TransientError marks a provider failure worth retrying, such as a timeout,
// throttling or a 5xx response.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string { return e.Err.Error() }
func (e *TransientError) Unwrap() error { return e.Err }

// Transient wraps err as retryable. A nil err stays nil.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &TransientError{Err: err}
}

// IsTransient reports whether err is marked retryable.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}
