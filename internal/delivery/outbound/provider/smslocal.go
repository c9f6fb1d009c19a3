package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/shandysiswandi/passcode/internal/pkg/instrument"
	"github.com/shandysiswandi/passcode/internal/pkg/phone"
)

// SMSLocalConfig configures the SMS Local bulk API adapter.
type SMSLocalConfig struct {
	APIKey  string
	Sender  string
	BaseURL string
	Timeout time.Duration
}

// SMSLocal sends SMS through the SMS Local bulk V2 API.
type SMSLocal struct {
	cfg    SMSLocalConfig
	client *http.Client
	ins    instrument.Instrumentation
}

func NewSMSLocal(cfg SMSLocalConfig, ins instrument.Instrumentation) *SMSLocal {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://www.smslocal.com/dev/bulkV2"
	}
	return &SMSLocal{cfg: cfg, client: newHTTPClient(cfg.Timeout), ins: ins}
}

func (s *SMSLocal) Name() string { return "smslocal" }

func (s *SMSLocal) Configured() bool { return s.cfg.APIKey != "" }

func (s *SMSLocal) Send(ctx context.Context, destination, body string) (err error) {
	ctx, span := startSpan(ctx, s.ins, s.Name())
	defer func() { endSpan(span, err) }()

	if !s.Configured() {
		return errNotConfigured
	}

	payload := map[string]string{
		"route":   "q",
		"numbers": phone.Digits(destination),
		"message": body,
	}
	if s.cfg.Sender != "" {
		payload["sender_id"] = s.cfg.Sender
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.BaseURL, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", s.cfg.APIKey)

	return do(s.client, req)
}
