package mailer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/lukasdrothler/mail-service/mail"
	"github.com/lukasdrothler/mail-service/template"
)

// ErrTemplateNotFound is returned when neither the override directory nor
// the bundled templates contain the requested template. Not retryable.
var ErrTemplateNotFound = errors.New("template not found")

// Service renders templated emails and hands them to a mail.Sender. It does
// not retry: failures surface to the caller, which owns the message's fate.
type Service struct {
	store    *template.Store
	sender   mail.Sender
	branding BrandingConfig
	logger   *slog.Logger
}

// New creates a mail Service.
func New(store *template.Store, sender mail.Sender, branding BrandingConfig, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		store:    store,
		sender:   sender,
		branding: branding,
		logger:   logger.WithGroup("mailer"),
	}
}

// SendCodeMail sends one of the built-in verification templates. The stored
// template defaults are merged with the dynamic username and code, dynamic
// values winning.
func (s *Service) SendCodeMail(ctx context.Context, templateName, username, recipient, code, subject string) error {
	if code == "" {
		return errors.Errorf("template %q requires a verification code", templateName)
	}

	variables := template.Merge(s.store.LoadValues(templateName), map[string]any{
		"username":          username,
		"verification_code": code,
	})

	if subject == "" {
		subject = fmt.Sprintf("Your verification code is %s", code)
	}

	return s.SendHTML(ctx, templateName, variables, subject, recipient)
}

// SendCustomTemplateMail sends any non-built-in template using its stored
// defaults plus the dynamic username.
func (s *Service) SendCustomTemplateMail(ctx context.Context, templateName, username, recipient, subject string) error {
	variables := template.Merge(s.store.LoadValues(templateName), map[string]any{
		"username": username,
	})

	if subject == "" {
		subject = fmt.Sprintf("Notification from %s", s.branding.AppName)
	}

	return s.SendHTML(ctx, templateName, variables, subject, recipient)
}

// SendHTML loads and renders the named template and submits the result to
// the single recipient. The working variable set is branding first, then the
// given variables, so request values win on key collisions.
func (s *Service) SendHTML(ctx context.Context, templateName string, variables map[string]any, subject, recipient string) error {
	content, ok := s.store.LoadTemplate(templateName)
	if !ok {
		return errors.Wrapf(ErrTemplateNotFound, "template %q", templateName)
	}

	html := template.Render(content, template.Merge(s.branding.Values(), variables))

	email := mail.Email{
		To:      []mail.Address{{Address: recipient}},
		Subject: subject,
		HTML:    html,
	}

	if err := s.sender.Send(ctx, email); err != nil {
		// High severity: a transport failure here usually means an
		// infrastructure problem that will hit every following message too.
		s.logger.Error("failed to deliver templated email",
			"template", templateName, "recipient", recipient, "error", err.Error())
		return errors.Wrapf(err, "send template %q to %s", templateName, recipient)
	}

	s.logger.Info("delivered templated email", "template", templateName, "recipient", recipient)
	return nil
}

// SendPlainText sends an untemplated text-only email. Kept for operator
// tooling and backwards compatibility.
func (s *Service) SendPlainText(ctx context.Context, content, subject, recipient string) error {
	email := mail.Email{
		To:      []mail.Address{{Address: recipient}},
		Subject: subject,
		Body:    content,
	}

	if err := s.sender.Send(ctx, email); err != nil {
		return errors.Wrapf(err, "send plain text to %s", recipient)
	}
	return nil
}
