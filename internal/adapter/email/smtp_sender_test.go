package email

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/PartyAppOfficial/Partyapp/internal/contact"
	"github.com/PartyAppOfficial/Partyapp/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type fakeDialer struct {
	sent  []*gomail.Message
	err   error
	block chan struct{}
}

func (d *fakeDialer) DialAndSend(m ...*gomail.Message) error {
	if d.block != nil {
		<-d.block
	}
	d.sent = append(d.sent, m...)
	return d.err
}

func testOptions() Options {
	return Options{
		Host:         "smtp.example.com",
		Port:         587,
		SenderEmail:  "no-reply@partyapp.mx",
		SenderName:   "PartyApp",
		ContactInbox: "hola@partyapp.mx",
	}
}

func render(t *testing.T, m *gomail.Message) string {
	t.Helper()
	var buf bytes.Buffer
	_, err := m.WriteTo(&buf)
	require.NoError(t, err)
	return buf.String()
}

func TestNewSMTPSender_RequiresHostPortSender(t *testing.T) {
	_, err := NewSMTPSender(Options{Host: "smtp.example.com"}, logger.NewNop())
	assert.ErrorIs(t, err, ErrNotConfigured)

	s, err := NewSMTPSender(testOptions(), logger.NewNop())
	require.NoError(t, err)
	assert.NotNil(t, s)
}

func TestSendListingCreatedEmail(t *testing.T) {
	d := &fakeDialer{}
	s := newSMTPSender(testOptions(), d, logger.NewNop())

	require.NoError(t, s.SendListingCreatedEmail(context.Background(), "owner@example.com", "Ana", "Tacos <El Güero>"))
	require.Len(t, d.sent, 1)

	m := d.sent[0]
	assert.Equal(t, []string{"owner@example.com"}, m.GetHeader("To"))
	assert.Equal(t, []string{"Your business has been registered"}, m.GetHeader("Subject"))
	body := render(t, m)
	assert.Contains(t, body, "text/plain")
	assert.Contains(t, body, "text/html")
}

func TestSendContactMessage_GoesToInbox(t *testing.T) {
	d := &fakeDialer{}
	opts := testOptions()
	opts.ContactInbox = ""
	s := newSMTPSender(opts, d, logger.NewNop())

	err := s.SendContactMessage(context.Background(), contact.Message{
		Name: "Luis", Email: "luis@example.com", Subject: "Evento", Message: "Hola",
	})
	require.NoError(t, err)
	require.Len(t, d.sent, 1)
	assert.Equal(t, []string{"no-reply@partyapp.mx"}, d.sent[0].GetHeader("To"))
	assert.Equal(t, []string{"Evento"}, d.sent[0].GetHeader("Subject"))
	assert.Contains(t, d.sent[0].GetHeader("Reply-To")[0], "luis@example.com")
}

func TestSend_DialFailure(t *testing.T) {
	boom := errors.New("connection refused")
	s := newSMTPSender(testOptions(), &fakeDialer{err: boom}, logger.NewNop())

	err := s.SendListingCreatedEmail(context.Background(), "owner@example.com", "Ana", "Tacos")
	assert.ErrorIs(t, err, boom)
}

func TestSend_ContextCancelled(t *testing.T) {
	d := &fakeDialer{block: make(chan struct{})}
	defer close(d.block)
	s := newSMTPSender(testOptions(), d, logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := s.SendListingCreatedEmail(ctx, "owner@example.com", "Ana", "Tacos")
	assert.ErrorIs(t, err, context.Canceled)
}
