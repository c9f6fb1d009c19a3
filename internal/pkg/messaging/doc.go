// Package messaging provides a small broker API for publishing and consuming
// messages, implemented on NATS core subjects with queue groups.
//
// Business code depends on the Publisher and Consumer interfaces so a
// different broker can be slotted in without touching use cases.
package messaging
