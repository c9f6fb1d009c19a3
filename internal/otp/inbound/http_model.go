package inbound

import "time"

type IssueRequest struct {
	Identifier string `json:"identifier"`
}

type IssueResponse struct {
	Accepted  bool   `json:"accepted"`
	ExpiresIn int64  `json:"expires_in"`
	Secret    string `json:"secret,omitempty"`
}

func (IssueResponse) Message() string {
	return "If the number can receive messages, a verification code is on its way."
}

type VerifyRequest struct {
	Identifier string `json:"identifier"`
	Candidate  string `json:"candidate"`
}

type VerifyResponse struct {
	Verified bool `json:"verified"`
}

type DebugEntry struct {
	Identifier string    `json:"identifier"`
	Secret     string    `json:"secret"`
	IssuedAt   time.Time `json:"issued_at"`
	ExpiresAt  time.Time `json:"expires_at"`
	Expired    bool      `json:"expired"`
}

type DebugEntriesResponse struct {
	Entries  []DebugEntry `json:"entries"`
	Live     int          `json:"live"`
	Issued   int64        `json:"issued"`
	Redeemed int64        `json:"redeemed"`
	Swept    int64        `json:"swept"`
}
