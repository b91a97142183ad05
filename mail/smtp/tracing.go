package smtp

import (
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("github.com/lukasdrothler/mail-service/mail/smtp")
