package smtp

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/lukasdrothler/mail-service/mail"
)

var _ mail.Sender = (*Sender)(nil)

// Sender implements mail.Sender against an SMTP relay. It never retries:
// a failed submission surfaces to the caller, which decides what happens to
// the message that triggered it.
type Sender struct {
	mx     sync.Mutex
	cfg    Config
	logger *slog.Logger
	closed bool
}

// SenderOptions contains options for creating a Sender.
type SenderOptions struct {
	Logger *slog.Logger
}

// NewSender creates a new SMTP Sender.
func NewSender(cfg Config, options *SenderOptions) *Sender {
	if options == nil {
		options = new(SenderOptions)
	}
	if options.Logger == nil {
		options.Logger = slog.Default()
	}

	return &Sender{
		cfg:    cfg,
		logger: options.Logger.WithGroup("smtp"),
		closed: false,
	}
}

// Send sends one or more emails, stopping at the first failure.
func (s *Sender) Send(ctx context.Context, emails ...mail.Email) error {
	for _, email := range emails {
		if err := s.send(ctx, email); err != nil {
			return err
		}
	}
	return nil
}

func (s *Sender) send(ctx context.Context, email mail.Email) error {
	ctx, span := tracer.Start(ctx, "SMTP.Send", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	span.SetAttributes(
		attribute.String("smtp.subject", email.Subject),
		attribute.Int("smtp.to_count", len(email.To)),
		attribute.String("smtp.host", s.cfg.Host),
		attribute.Int("smtp.port", s.cfg.Port),
		attribute.Bool("smtp.dry_run", s.cfg.DryRun),
	)

	s.mx.Lock()
	defer s.mx.Unlock()

	if s.closed {
		span.SetStatus(codes.Error, "sender is closed")
		return errors.New("sender is closed")
	}

	from := email.From.Address
	if from == "" {
		from = s.cfg.From
	}
	if from == "" {
		from = s.cfg.Username
	}
	if from == "" {
		return errors.New("no from address specified")
	}

	recipients := s.getEmailAddresses(email.To)
	if len(recipients) == 0 {
		return errors.New("no recipients specified")
	}

	if s.cfg.DryRun {
		s.logger.Info("dry run: would send email",
			"to", strings.Join(recipients, ","),
			"subject", email.Subject,
			"from", from,
		)
		span.SetStatus(codes.Ok, "")
		return nil
	}

	msg := s.buildMessage(email, from)
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	var err error
	if s.cfg.TLS {
		err = s.submit(ctx, addr, auth, from, recipients, msg)
	} else {
		err = smtp.SendMail(addr, auth, from, recipients, msg)
	}

	if err != nil {
		s.classify(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return errors.Wrapf(err, "failed to send email to %s", strings.Join(recipients, ","))
	}

	s.logger.Info("sent email", "to", strings.Join(recipients, ","), "subject", email.Subject)
	span.SetStatus(codes.Ok, "")
	return nil
}

// classify logs network-level failures with actionable hints. The error
// still surfaces to the caller either way; this layer never retries.
func (s *Sender) classify(err error) {
	switch {
	case errors.Is(err, syscall.ECONNREFUSED):
		s.logger.Error("SMTP connection refused: check that the relay is running and the port is correct",
			"host", s.cfg.Host, "port", s.cfg.Port, "error", err.Error())
	case errors.Is(err, syscall.ENETUNREACH), errors.Is(err, syscall.EHOSTUNREACH):
		s.logger.Error("SMTP relay unreachable: check egress policies, firewall rules and DNS",
			"host", s.cfg.Host, "port", s.cfg.Port, "error", err.Error())
	default:
		s.logger.Error("SMTP submission failed",
			"host", s.cfg.Host, "port", s.cfg.Port, "user", s.cfg.Username, "error", err.Error())
	}
}

// submit delivers a message over a STARTTLS-upgraded session.
func (s *Sender) submit(ctx context.Context, addr string, auth smtp.Auth, from string, recipients []string, msg []byte) error {
	ctx, span := tracer.Start(ctx, "SMTP.Submit")
	defer span.End()

	span.SetAttributes(
		attribute.String("smtp.address", addr),
		attribute.Int("smtp.recipients_count", len(recipients)),
		attribute.Bool("smtp.auth", auth != nil),
	)

	select {
	case <-ctx.Done():
		span.SetStatus(codes.Error, "context canceled")
		return ctx.Err()
	default:
	}

	client, err := smtp.Dial(addr)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to connect")
		return errors.Wrap(err, "failed to connect to SMTP server")
	}
	defer func() {
		// The session is already complete when this runs; a close failure
		// is cleaned up server-side.
		_ = client.Close()
	}()

	if ok, _ := client.Extension("STARTTLS"); ok {
		span.SetAttributes(attribute.Bool("smtp.starttls", true))

		tlsConfig := &tls.Config{
			ServerName:         s.cfg.Host,
			InsecureSkipVerify: s.cfg.Insecure, // #nosec G402 -- controlled by config, user's responsibility
		}
		if err := client.StartTLS(tlsConfig); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to start TLS")
			return errors.Wrap(err, "failed to start TLS")
		}
	} else {
		span.SetAttributes(attribute.Bool("smtp.starttls", false))
	}

	if auth != nil {
		if err := client.Auth(auth); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to authenticate")
			return errors.Wrap(err, "failed to authenticate")
		}
	}

	if err := client.Mail(from); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to set sender")
		return errors.Wrap(err, "failed to set sender")
	}

	for _, rcpt := range recipients {
		if err := client.Rcpt(rcpt); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to set recipient")
			return errors.Wrapf(err, "failed to set recipient: %s", rcpt)
		}
	}

	writer, err := client.Data()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to get data writer")
		return errors.Wrap(err, "failed to get data writer")
	}

	if _, err = writer.Write(msg); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to write message")
		return errors.Wrap(err, "failed to write message")
	}

	if err := writer.Close(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to finish message")
		return errors.Wrap(err, "failed to finish message")
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// buildMessage builds the raw email message.
func (s *Sender) buildMessage(email mail.Email, from string) []byte {
	var msg strings.Builder

	fromAddr := email.From
	if fromAddr.Address == "" {
		fromAddr.Address = from
	}
	msg.WriteString(fmt.Sprintf("From: %s\r\n", s.formatAddress(fromAddr)))

	if len(email.To) > 0 {
		msg.WriteString(fmt.Sprintf("To: %s\r\n", s.formatAddressList(email.To)))
	}

	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", email.Subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString(fmt.Sprintf("Date: %s\r\n", time.Now().Format(time.RFC1123Z)))

	for k, v := range email.Headers {
		msg.WriteString(fmt.Sprintf("%s: %s\r\n", k, v))
	}

	if email.HTML != "" {
		boundary := fmt.Sprintf("boundary_%d", time.Now().UnixNano())
		msg.WriteString(fmt.Sprintf("Content-Type: multipart/alternative; boundary=%s\r\n", boundary))
		msg.WriteString("\r\n")

		msg.WriteString(fmt.Sprintf("--%s\r\n", boundary))
		msg.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
		msg.WriteString(email.Body)
		msg.WriteString("\r\n")

		msg.WriteString(fmt.Sprintf("--%s\r\n", boundary))
		msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
		msg.WriteString(email.HTML)
		msg.WriteString("\r\n")

		msg.WriteString(fmt.Sprintf("--%s--\r\n", boundary))
	} else {
		msg.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
		msg.WriteString(email.Body)
		msg.WriteString("\r\n")
	}

	return []byte(msg.String())
}

// formatAddress formats a single address.
func (s *Sender) formatAddress(addr mail.Address) string {
	if addr.Name != "" {
		escapedName := strings.ReplaceAll(addr.Name, "\"", "\\\"")
		return fmt.Sprintf("%s <%s>", escapedName, addr.Address)
	}
	return addr.Address
}

// formatAddressList formats a list of addresses.
func (s *Sender) formatAddressList(addrs []mail.Address) string {
	formatted := make([]string, len(addrs))
	for i, addr := range addrs {
		formatted[i] = s.formatAddress(addr)
	}
	return strings.Join(formatted, ", ")
}

// getEmailAddresses extracts bare addresses from mail.Address values.
func (s *Sender) getEmailAddresses(addrs []mail.Address) []string {
	result := make([]string, 0, len(addrs))
	for _, addr := range addrs {
		if addr.Address != "" {
			result = append(result, addr.Address)
		}
	}
	return result
}

// Close closes the sender.
func (s *Sender) Close() error {
	s.mx.Lock()
	defer s.mx.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return nil
}
