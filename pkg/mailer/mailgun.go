package mailer

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	mg "github.com/mailgun/mailgun-go/v4"
)

// ErrNotVerified is returned by Send while the transport has not passed its
// one-time verification check.
var ErrNotVerified = errors.New("mail transport not verified")

// Mailgun wraps the Mailgun client behind a verification gate: Verify must
// succeed once before Send will hand anything to the API. Verification is
// kicked off asynchronously at startup, so a request arriving in the first
// moments of the process can still see an unverified transport.
type Mailgun struct {
	Domain string
	APIKey string
	Sender string

	verified atomic.Bool
}

func NewMailgun(domain, apiKey, sender string) *Mailgun {
	return &Mailgun{Domain: domain, APIKey: apiKey, Sender: sender}
}

// Verify checks that the configured sending domain exists and flips the
// gate open. Safe to call more than once.
func (m *Mailgun) Verify(ctx context.Context) error {
	client := mg.NewMailgun(m.Domain, m.APIKey)
	c, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if _, err := client.GetDomain(c, m.Domain); err != nil {
		return err
	}
	m.verified.Store(true)
	return nil
}

// Verified reports whether the transport passed verification.
func (m *Mailgun) Verified() bool {
	return m.verified.Load()
}

// Send sends an email via Mailgun. html is optional; if provided it will be
// used as HTML body.
func (m *Mailgun) Send(ctx context.Context, to, subject, text, html string) error {
	if !m.verified.Load() {
		return ErrNotVerified
	}
	client := mg.NewMailgun(m.Domain, m.APIKey)
	msg := client.NewMessage(m.Sender, subject, text, to)
	if html != "" {
		msg.SetHtml(html)
	}
	c, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	_, _, err := client.Send(c, msg)
	return err
}
