package entity

import "time"

// Record is a pending passcode for one identifier.
type Record struct {
	Secret    string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// ExpiredAt reports whether the record is no longer redeemable at now.
func (r Record) ExpiredAt(now time.Time) bool {
	return now.After(r.ExpiresAt)
}

// Entry is a store snapshot row used by development introspection.
type Entry struct {
	Identifier string
	Record
	Expired bool
}

// Stats are cumulative store counters.
type Stats struct {
	Live     int
	Issued   int64
	Redeemed int64
	Swept    int64
}
