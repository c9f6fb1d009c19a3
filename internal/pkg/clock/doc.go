// Package clock provides a tiny time abstraction.
//
// Passcode expiry is always evaluated against a Clocker so tests can move time
// forward with Fake instead of sleeping past a TTL.
package clock
