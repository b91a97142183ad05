package worker

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/lukasdrothler/mail-service/mailer"
)

// MailRequest is the inbound message body on the mail queue.
type MailRequest struct {
	TemplateName     string `json:"template_name"`
	Username         string `json:"username"`
	Recipient        string `json:"recipient"`
	VerificationCode string `json:"verification_code,omitempty"`
	Subject          string `json:"subject,omitempty"`
}

// ParseMailRequest decodes and validates a mail request payload.
func ParseMailRequest(body []byte) (MailRequest, error) {
	var req MailRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return MailRequest{}, errors.Wrap(err, "failed to decode mail request")
	}

	return req, req.Validate()
}

// Validate checks the fields every request needs, plus the verification
// code for templates that render one.
func (r MailRequest) Validate() error {
	if r.TemplateName == "" {
		return errors.New("template_name is required")
	}
	if r.Username == "" {
		return errors.New("username is required")
	}
	if r.Recipient == "" {
		return errors.New("recipient is required")
	}
	if mailer.IsCodeTemplate(r.TemplateName) && r.VerificationCode == "" {
		return errors.Errorf("verification_code is required for template %q", r.TemplateName)
	}

	return nil
}
