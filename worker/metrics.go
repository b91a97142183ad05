package worker

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	statusSent    = "sent"
	statusFailed  = "failed"
	statusInvalid = "invalid"
)

var (
	meter = otel.GetMeterProvider().Meter("github.com/lukasdrothler/mail-service/worker")
	// nolint:errcheck // Sync OpenTelemetry instruments never return errors
	handledCount, _   = meter.Int64Counter("mail.handled_count")
	handleTimeHist, _ = meter.Int64Histogram("mail.handle_time", metric.WithUnit("ms"))
)

func recordHandled(template, status string, elapsed time.Duration) {
	ctx := context.Background()
	labels := metric.WithAttributes(
		attribute.String("mail.template", template),
		attribute.String("mail.status", status),
	)
	handledCount.Add(ctx, 1, labels)
	handleTimeHist.Record(ctx, elapsed.Milliseconds(), labels)
}
