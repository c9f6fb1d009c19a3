// Package validator provides a small validation abstraction for request and
// domain structs.
//
// Business code should depend on the Validator interface so validation can be
// shared and tested consistently. The go-playground/validator v10
// implementation adds a "phone" rule: optional leading plus, common
// separators, and at least seven digits.
package validator

// Validator validates a struct and returns a field keyed error on failure.
type Validator interface {
	Validate(data any) error
}
