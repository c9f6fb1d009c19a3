// Package otp generates fixed-length numeric one-time passcodes.
//
// Codes are drawn uniformly from [0, 10^n) using crypto/rand and zero padded,
// so "004211" is as likely as any other value.
package otp
