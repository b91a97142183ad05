package rabbitmq

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/lukasdrothler/mail-service/queue"

	amqp "github.com/rabbitmq/amqp091-go"
)

const ConsumeRetryInterval = 5 * time.Second

var _ queue.Subscriber = (*Subscriber)(nil)

// Subscriber implements queue.Subscriber with dead-letter semantics: one
// message at a time, ack on handler success, reject without requeue on
// handler failure so the broker routes the message to the DLQ. Nothing is
// ever requeued into the live queue, which keeps poison messages out of the
// consume loop.
type Subscriber struct {
	name      string
	queueName string
	wg        sync.WaitGroup
	cfg       SubscriberOptions
	dialer    *Dialer
	close     chan struct{}
	logger    *slog.Logger
}

type SubscriberOptions struct {
	Name string
	// PrefetchCount limits unacknowledged messages per consumer. Defaults
	// to 1 so a message is fully handled before the next one is fetched.
	PrefetchCount int
	// DeclareTopology declares the dead-letter exchange/queue and the main
	// queue before consuming. Idempotent, runs on every (re)subscribe.
	DeclareTopology bool
}

func NewDefaultSubscriber(dialer *Dialer, queueName string) *Subscriber {
	return NewSubscriber(dialer, queueName, SubscriberOptions{DeclareTopology: true})
}

func NewSubscriber(dialer *Dialer, queueName string, cfg SubscriberOptions) *Subscriber {
	if cfg.Name == "" {
		cfg.Name = uuid.NewString()
	}
	if cfg.PrefetchCount <= 0 {
		cfg.PrefetchCount = 1
	}

	return &Subscriber{
		name:      cfg.Name,
		queueName: queueName,
		dialer:    dialer,
		logger:    dialer.options.Logger.With("subscriber", cfg.Name).With("queue", queueName),
		close:     make(chan struct{}),
		cfg:       cfg,
	}
}

// Listen consumes deliveries and dispatches them to handler until Close is
// called. It blocks; run it in its own goroutine.
func (s *Subscriber) Listen(handler queue.Handler) {
	s.wg.Add(1)
	defer s.wg.Done()

	s.logger.Info("listening...")
	for {
		needRestart, err := s.listen(handler)
		if !needRestart {
			return
		}

		if err != nil {
			s.logger.With("error", err.Error()).Error("s.listen error")
		}

		select {
		case <-s.close:
			return
		case <-time.After(ConsumeRetryInterval):
		}
	}
}

func (s *Subscriber) listen(handler queue.Handler) (bool, error) {
	var channel *amqp.Channel
	var err error
	if s.cfg.DeclareTopology {
		channel, err = declareTopology(s.dialer, s.queueName, s.logger)
	} else {
		channel, err = s.dialer.Channel()
	}
	if err != nil {
		return true, errors.Wrap(err, "failed to make channel")
	}
	defer func() {
		// Channel close error is not critical here as we're about to exit
		// anyway and RabbitMQ will clean up the channel on the server side
		_ = channel.Close()
	}()
	notifyClose := channel.NotifyClose(make(chan *amqp.Error, 1))

	if err := channel.Qos(s.cfg.PrefetchCount, 0, false); err != nil {
		return true, errors.Wrap(err, "failed to set prefetch count")
	}

	deliveries, err := channel.Consume(
		s.queueName,
		s.name,
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return true, errors.Wrapf(err, "failed to start consuming from %q", s.queueName)
	}

	for {
		select {
		case <-s.close:
			if err := channel.Cancel(s.name, false); err != nil {
				return true, errors.Wrapf(err, "cancel consumer %q", s.name)
			}
		case amqpErr := <-notifyClose:
			if amqpErr != nil {
				return true, errors.Wrap(amqpErr, "channel is closed")
			}
		case delivery, ok := <-deliveries:
			if !ok {
				// Rest of messages is drained
				return false, nil
			}
			if err := s.handleDelivery(channel, delivery, handler); err != nil {
				return true, err
			}
		}
	}
}

// Close stops the consume loop. Safe to call from another goroutine; it
// returns once the in-flight message, if any, has been terminally resolved.
func (s *Subscriber) Close() error {
	s.logger.Info("Closing subscriber...")
	close(s.close)
	s.wg.Wait()
	return nil
}

func (s *Subscriber) handleDelivery(channel *amqp.Channel, delivery amqp.Delivery, handler queue.Handler) error {
	s.logger.Debug("handleDelivery")
	ctx := otel.GetTextMapPropagator().Extract(context.Background(), tableCarrier(delivery.Headers))
	ctx, span := tracer.Start(ctx, s.queueName, trace.WithSpanKind(trace.SpanKindConsumer))
	defer span.End()

	span.SetAttributes(
		attribute.String("id", delivery.MessageId),
		attribute.String("body", string(delivery.Body)),
		attribute.String("consumer_name", s.name),
	)

	err := handler(ctx, newDelivery(delivery))
	if err == nil {
		if err := channel.Ack(delivery.DeliveryTag, false); err != nil {
			span.SetStatus(codes.Error, err.Error())
			return errors.Wrap(err, "failed to ack")
		}
		return nil
	}

	s.logger.With("error", err.Error()).Error("Handle message")
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	// Reject without requeue: the broker routes the message to the DLQ via
	// the queue's dead-letter exchange, keeping the original body intact
	// for operator inspection and replay.
	if err := channel.Reject(delivery.DeliveryTag, false); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return errors.Wrap(err, "failed to reject")
	}
	s.logger.Warn("message dead-lettered", "dlq", DeadLetterQueueName(s.queueName))
	return nil
}

func newDelivery(msg amqp.Delivery) queue.Delivery {
	headers := make(map[string]string, len(msg.Headers))
	for k, v := range msg.Headers {
		headers[k] = fmt.Sprintf("%v", v)
	}
	return queue.Delivery{
		Headers: headers,
		Body:    msg.Body,
	}
}
