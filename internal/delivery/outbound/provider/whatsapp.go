package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shandysiswandi/passcode/internal/pkg/instrument"
	"github.com/shandysiswandi/passcode/internal/pkg/phone"
)

// WhatsAppConfig configures the WhatsApp Business Cloud API adapter.
type WhatsAppConfig struct {
	AccessToken   string
	PhoneNumberID string
	APIVersion    string
	BaseURL       string
	Timeout       time.Duration
}

type whatsAppMessage struct {
	MessagingProduct string       `json:"messaging_product"`
	To               string       `json:"to"`
	Type             string       `json:"type"`
	Text             whatsAppText `json:"text"`
}

type whatsAppText struct {
	Body string `json:"body"`
}

// WhatsApp sends text messages through the Meta Graph API.
type WhatsApp struct {
	cfg    WhatsAppConfig
	client *http.Client
	ins    instrument.Instrumentation
}

func NewWhatsApp(cfg WhatsAppConfig, ins instrument.Instrumentation) *WhatsApp {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://graph.facebook.com"
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = "v21.0"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &WhatsApp{cfg: cfg, client: newHTTPClient(cfg.Timeout), ins: ins}
}

func (w *WhatsApp) Name() string { return "whatsapp" }

func (w *WhatsApp) Configured() bool {
	return w.cfg.AccessToken != "" && w.cfg.PhoneNumberID != ""
}

func (w *WhatsApp) Send(ctx context.Context, destination, body string) (err error) {
	ctx, span := startSpan(ctx, w.ins, w.Name())
	defer func() { endSpan(span, err) }()

	if !w.Configured() {
		return errNotConfigured
	}

	raw, err := json.Marshal(whatsAppMessage{
		MessagingProduct: "whatsapp",
		To:               phone.Digits(destination),
		Type:             "text",
		Text:             whatsAppText{Body: body},
	})
	if err != nil {
		return err
	}

	endpoint := w.cfg.BaseURL + "/" + w.cfg.APIVersion + "/" + url.PathEscape(w.cfg.PhoneNumberID) + "/messages"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+w.cfg.AccessToken)

	return do(w.client, req)
}
