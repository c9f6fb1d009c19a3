// Package mail sends plain e-mail messages.
//
// Callers depend on the Mail interface and the provider-agnostic Message; the
// SMTP implementation is built on go-mail.
package mail
