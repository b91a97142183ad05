package smtp

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lukasdrothler/mail-service/mail"
)

func TestNewSender_WithDefaultConfig(t *testing.T) {
	cfg := Config{
		Host:     "localhost",
		Port:     2525,
		Username: "test",
		Password: "test",
		TLS:      true, // explicit for test
	}

	sender := NewSender(cfg, nil)

	assert.NotNil(t, sender)
	assert.Equal(t, "localhost", sender.cfg.Host)
	assert.Equal(t, 2525, sender.cfg.Port)
	assert.True(t, sender.cfg.TLS)

	err := sender.Close()
	assert.NoError(t, err)
}

func TestSender_CloseTwice(t *testing.T) {
	cfg := Config{
		Host:     "localhost",
		Port:     2525,
		Username: "test",
		Password: "test",
	}

	sender := NewSender(cfg, nil)

	err := sender.Close()
	assert.NoError(t, err)

	err = sender.Close()
	assert.NoError(t, err)
}

func TestSender_Send_WhenClosed(t *testing.T) {
	cfg := Config{
		Host: "localhost",
		Port: 2525,
	}
	sender := NewSender(cfg, nil)

	require.NoError(t, sender.Close())

	ctx := context.Background()
	email := mail.Email{
		From: mail.Address{Address: "sender@example.com"},
		To:   []mail.Address{{Address: "recipient@example.com"}},
	}

	err := sender.Send(ctx, email)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "closed")
}

func TestSender_Send_NoFromAddress(t *testing.T) {
	// No explicit From and no account identity to fall back to.
	cfg := Config{
		Host: "localhost",
		Port: 2525,
	}
	sender := NewSender(cfg, nil)

	ctx := context.Background()
	email := mail.Email{
		To: []mail.Address{{Address: "recipient@example.com"}},
	}

	err := sender.Send(ctx, email)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no from address")
}

func TestSender_Send_FromFallsBackToUsername(t *testing.T) {
	cfg := Config{
		Host:     "localhost",
		Port:     2525,
		Username: "account@example.com",
		DryRun:   true,
	}

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	sender := NewSender(cfg, &SenderOptions{Logger: logger})

	email := mail.Email{
		To:      []mail.Address{{Address: "recipient@example.com"}},
		Subject: "Test",
	}

	err := sender.Send(context.Background(), email)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "account@example.com")
}

func TestSender_Send_NoRecipients(t *testing.T) {
	cfg := Config{
		Host:     "localhost",
		Port:     2525,
		Username: "account@example.com",
	}
	sender := NewSender(cfg, nil)

	ctx := context.Background()
	email := mail.Email{
		From: mail.Address{Address: "sender@example.com"},
	}

	err := sender.Send(ctx, email)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no recipients")
}

func TestSender_Send_DryRunSkipsNetwork(t *testing.T) {
	// 203.0.113.1 is TEST-NET; any real dial attempt would fail, so a nil
	// error proves the network was never touched.
	cfg := Config{
		Host:     "203.0.113.1",
		Port:     2525,
		Username: "test",
		Password: "test",
		DryRun:   true,
	}

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	sender := NewSender(cfg, &SenderOptions{Logger: logger})

	email := mail.Email{
		From:    mail.Address{Address: "sender@example.com"},
		To:      []mail.Address{{Address: "recipient@example.com"}},
		Subject: "Dry Run Test",
		HTML:    "<p>never sent</p>",
	}

	err := sender.Send(context.Background(), email)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "dry run: would send email")
	assert.Contains(t, buf.String(), "recipient@example.com")
}

func TestSender_Send_ConnectionRefusedClassified(t *testing.T) {
	cfg := Config{
		Host:     "127.0.0.1",
		Port:     1, // reserved, nothing listens here
		Username: "test",
		Password: "test",
		TLS:      true,
	}

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	sender := NewSender(cfg, &SenderOptions{Logger: logger})

	email := mail.Email{
		From:    mail.Address{Address: "sender@example.com"},
		To:      []mail.Address{{Address: "recipient@example.com"}},
		Subject: "Refused Test",
	}

	err := sender.Send(context.Background(), email)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to send email")
	assert.Contains(t, buf.String(), "connection refused")
}

func TestSender_BuildMessage(t *testing.T) {
	cfg := Config{Host: "localhost"}
	sender := NewSender(cfg, nil)

	email := mail.Email{
		From:    mail.Address{Name: "Sender", Address: "sender@example.com"},
		To:      []mail.Address{{Name: "Recipient", Address: "recipient@example.com"}},
		Subject: "Test Subject",
		Body:    "Test Body",
		Headers: map[string]string{"X-Custom": "value"},
	}

	msg := sender.buildMessage(email, "sender@example.com")

	msgStr := string(msg)
	assert.Contains(t, msgStr, "From: Sender <sender@example.com>")
	assert.Contains(t, msgStr, "To: Recipient <recipient@example.com>")
	assert.Contains(t, msgStr, "Subject: Test Subject")
	assert.Contains(t, msgStr, "X-Custom: value")
	assert.Contains(t, msgStr, "Test Body")
	assert.Contains(t, msgStr, "MIME-Version: 1.0")
}

func TestSender_BuildMessageWithHTML(t *testing.T) {
	cfg := Config{Host: "localhost"}
	sender := NewSender(cfg, nil)

	email := mail.Email{
		From:    mail.Address{Address: "sender@example.com"},
		To:      []mail.Address{{Address: "recipient@example.com"}},
		Subject: "HTML Test",
		Body:    "Plain text",
		HTML:    "<p>HTML content</p>",
	}

	msg := sender.buildMessage(email, "sender@example.com")

	msgStr := string(msg)
	assert.Contains(t, msgStr, "multipart/alternative")
	assert.Contains(t, msgStr, "Plain text")
	assert.Contains(t, msgStr, "<p>HTML content</p>")
	assert.Contains(t, msgStr, "boundary_")
}

func TestSender_BuildMessage_DefaultFromHeader(t *testing.T) {
	cfg := Config{Host: "localhost"}
	sender := NewSender(cfg, nil)

	email := mail.Email{
		To:      []mail.Address{{Address: "recipient@example.com"}},
		Subject: "Test",
		Body:    "Test",
	}

	msg := sender.buildMessage(email, "account@example.com")

	assert.Contains(t, string(msg), "From: account@example.com")
}

func TestSender_FormatAddress(t *testing.T) {
	cfg := Config{Host: "localhost"}
	sender := NewSender(cfg, nil)

	addr := mail.Address{Name: "John Doe", Address: "john@example.com"}
	result := sender.formatAddress(addr)
	assert.Equal(t, "John Doe <john@example.com>", result)
}

func TestSender_FormatAddress_WithQuotes(t *testing.T) {
	cfg := Config{Host: "localhost"}
	sender := NewSender(cfg, nil)

	addr := mail.Address{Name: `John "The Rock" Doe`, Address: "john@example.com"}
	result := sender.formatAddress(addr)
	assert.Equal(t, `John \"The Rock\" Doe <john@example.com>`, result)
}

func TestSender_FormatAddress_NoName(t *testing.T) {
	cfg := Config{Host: "localhost"}
	sender := NewSender(cfg, nil)

	addr := mail.Address{Address: "john@example.com"}
	result := sender.formatAddress(addr)
	assert.Equal(t, "john@example.com", result)
}

func TestSender_FormatAddressList(t *testing.T) {
	cfg := Config{Host: "localhost"}
	sender := NewSender(cfg, nil)

	addrs := []mail.Address{
		{Name: "First", Address: "first@example.com"},
		{Address: "second@example.com"},
	}

	result := sender.formatAddressList(addrs)
	assert.Equal(t, "First <first@example.com>, second@example.com", result)
}

func TestSender_GetEmailAddresses_SkipsEmpty(t *testing.T) {
	cfg := Config{Host: "localhost"}
	sender := NewSender(cfg, nil)

	addrs := []mail.Address{
		{Address: "first@example.com"},
		{Name: "No Address"},
		{Address: "second@example.com"},
	}

	result := sender.getEmailAddresses(addrs)
	assert.Equal(t, []string{"first@example.com", "second@example.com"}, result)
}
