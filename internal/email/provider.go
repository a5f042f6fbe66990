// Package email delivers magic-link sign-in emails through a pluggable
// provider.
package email

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
)

// Provider defines the interface for email sending implementations.
type Provider interface {
	// Send sends an email with the given parameters.
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// Sender composes and sends Tripverse transactional email.
type Sender struct {
	provider Provider
	logger   *slog.Logger
	baseURL  string // For links in emails
}

// New creates a new email sender with the given provider.
func New(provider Provider, logger *slog.Logger, baseURL string) *Sender {
	return &Sender{
		provider: provider,
		logger:   logger,
		baseURL:  baseURL,
	}
}

// SendMagicLink emails a one-time sign-in link for the given token.
func (s *Sender) SendMagicLink(ctx context.Context, to, token string) error {
	link := s.MagicLinkURL(token)

	s.logger.Info("Sending magic link email", "to", to)

	body := fmt.Sprintf(`<html><body>
<p>Hi,</p>
<p>Click the link below to sign in to Tripverse. The link is valid for 15 minutes and can be used once.</p>
<p><a href="%s">Sign in to Tripverse</a></p>
<p>If you did not request this, you can ignore this email.</p>
</body></html>`, link)

	return s.provider.Send(ctx, to, "Your Tripverse sign-in link", body)
}

// MagicLinkURL builds the verification link for a token.
func (s *Sender) MagicLinkURL(token string) string {
	return fmt.Sprintf("%s/auth/verify?token=%s", s.baseURL, url.QueryEscape(token))
}
