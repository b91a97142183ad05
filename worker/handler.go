package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/pkg/errors"

	"github.com/lukasdrothler/mail-service/mailer"
	"github.com/lukasdrothler/mail-service/queue"
)

// Handler turns queue deliveries into outgoing emails. Any error it
// returns causes the delivery to be dead-lettered by the subscriber.
type Handler struct {
	mailer *mailer.Service
	logger *slog.Logger
}

func NewHandler(service *mailer.Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		mailer: service,
		logger: logger.WithGroup("worker"),
	}
}

// Handle implements queue.Handler.
func (h *Handler) Handle(ctx context.Context, msg queue.Delivery) error {
	start := time.Now()

	req, err := ParseMailRequest(msg.Body)
	if err != nil {
		h.logger.With("error", err.Error()).Error("Invalid mail request")
		recordHandled("", statusInvalid, time.Since(start))
		return err
	}

	log := h.logger.With("template", req.TemplateName, "recipient", req.Recipient)
	log.Info("Handling mail request")

	if err := h.dispatch(ctx, req); err != nil {
		log.With("error", err.Error()).Error("Failed to send mail")
		recordHandled(req.TemplateName, statusFailed, time.Since(start))
		return errors.Wrapf(err, "failed to handle mail request for template %q", req.TemplateName)
	}

	log.Info("Mail request handled")
	recordHandled(req.TemplateName, statusSent, time.Since(start))
	return nil
}

// dispatch routes verification-style templates through the code mail path
// and everything else through the custom template path.
func (h *Handler) dispatch(ctx context.Context, req MailRequest) error {
	if mailer.IsCodeTemplate(req.TemplateName) {
		return h.mailer.SendCodeMail(ctx, req.TemplateName, req.Username, req.Recipient, req.VerificationCode, req.Subject)
	}

	return h.mailer.SendCustomTemplateMail(ctx, req.TemplateName, req.Username, req.Recipient, req.Subject)
}
