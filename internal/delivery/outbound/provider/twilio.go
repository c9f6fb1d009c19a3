package provider

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shandysiswandi/passcode/internal/pkg/instrument"
)

// TwilioConfig configures the Twilio Programmable Messaging adapter.
type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	// From is a Twilio number or a messaging service SID ("MG...").
	From    string
	BaseURL string
	Timeout time.Duration
}

// Twilio sends SMS through the Twilio REST API.
type Twilio struct {
	cfg    TwilioConfig
	client *http.Client
	ins    instrument.Instrumentation
}

func NewTwilio(cfg TwilioConfig, ins instrument.Instrumentation) *Twilio {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.twilio.com"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Twilio{cfg: cfg, client: newHTTPClient(cfg.Timeout), ins: ins}
}

func (t *Twilio) Name() string { return "twilio" }

func (t *Twilio) Configured() bool {
	return t.cfg.AccountSID != "" && t.cfg.AuthToken != "" && t.cfg.From != ""
}

func (t *Twilio) Send(ctx context.Context, destination, body string) (err error) {
	ctx, span := startSpan(ctx, t.ins, t.Name())
	defer func() { endSpan(span, err) }()

	if !t.Configured() {
		return errNotConfigured
	}

	form := url.Values{"To": {destination}, "Body": {body}}
	if strings.HasPrefix(t.cfg.From, "MG") {
		form.Set("MessagingServiceSid", t.cfg.From)
	} else {
		form.Set("From", t.cfg.From)
	}

	endpoint := t.cfg.BaseURL + "/2010-04-01/Accounts/" + url.PathEscape(t.cfg.AccountSID) + "/Messages.json"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(t.cfg.AccountSID, t.cfg.AuthToken)

	return do(t.client, req)
}
