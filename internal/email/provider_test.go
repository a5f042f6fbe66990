package email

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureProvider records the last email handed to it.
type captureProvider struct {
	to      string
	subject string
	body    string
}

func (p *captureProvider) Send(_ context.Context, to, subject, htmlBody string) error {
	p.to = to
	p.subject = subject
	p.body = htmlBody
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestMagicLinkURL(t *testing.T) {
	s := New(&captureProvider{}, testLogger(), "https://tripverse.example")

	assert.Equal(t,
		"https://tripverse.example/auth/verify?token=abc-123",
		s.MagicLinkURL("abc-123"))

	// Token is query-escaped, not pasted raw.
	assert.Equal(t,
		"https://tripverse.example/auth/verify?token=a%2Fb%26c",
		s.MagicLinkURL("a/b&c"))
}

func TestSendMagicLink(t *testing.T) {
	provider := &captureProvider{}
	s := New(provider, testLogger(), "https://tripverse.example")

	err := s.SendMagicLink(context.Background(), "traveler@example.com", "tok-42")
	require.NoError(t, err)

	assert.Equal(t, "traveler@example.com", provider.to)
	assert.Equal(t, "Your Tripverse sign-in link", provider.subject)
	assert.Contains(t, provider.body, "https://tripverse.example/auth/verify?token=tok-42")
}
