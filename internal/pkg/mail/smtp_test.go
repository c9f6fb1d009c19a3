package mail

import (
	"bytes"
	"context"
	"errors"
	"testing"

	gomail "github.com/go-mail/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDialer struct {
	sent []*gomail.Message
	err  error
}

func (f *fakeDialer) DialAndSend(m ...*gomail.Message) error {
	f.sent = append(f.sent, m...)
	return f.err
}

func TestNewSMTP(t *testing.T) {
	_, err := NewSMTP(SMTPConfig{})
	assert.ErrorIs(t, err, ErrSMTPHostPortRequired)

	s, err := NewSMTP(SMTPConfig{Host: "smtp.example.com", Port: 587, From: "otp@example.com"})
	require.NoError(t, err)
	assert.NoError(t, s.Close())
}

func TestSMTP_Send(t *testing.T) {
	fd := &fakeDialer{}
	s := &SMTP{dialer: fd, defaultFrom: "otp@example.com"}

	err := s.Send(context.Background(), Message{
		To:       []string{"923001234567@sms.example.net"},
		Subject:  "Verification",
		TextBody: "code 123456",
	})
	require.NoError(t, err)
	require.Len(t, fd.sent, 1)

	m := fd.sent[0]
	assert.Equal(t, []string{"otp@example.com"}, m.GetHeader("From"))
	assert.Equal(t, []string{"923001234567@sms.example.net"}, m.GetHeader("To"))

	var buf bytes.Buffer
	_, err = m.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "code 123456")
}

func TestSMTP_SendErrors(t *testing.T) {
	s := &SMTP{dialer: &fakeDialer{}}

	assert.ErrorIs(t, s.Send(context.Background(), Message{}), ErrSMTPNoRecipients)
	assert.ErrorIs(t, s.Send(context.Background(), Message{To: []string{"a@b.c"}}), ErrSMTPNoSender)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Send(ctx, Message{To: []string{"a@b.c"}, From: "x@y.z"}), context.Canceled)

	failing := &SMTP{dialer: &fakeDialer{err: errors.New("550 rejected")}, defaultFrom: "x@y.z"}
	assert.ErrorContains(t, failing.Send(context.Background(), Message{To: []string{"a@b.c"}}), "550 rejected")
}
