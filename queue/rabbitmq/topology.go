package rabbitmq

import (
	"log/slog"

	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Dead-letter naming convention. Fixed, not configurable: DLQ consumers and
// operator tooling rely on it.
const (
	dlxSuffix = "_dlx"
	dlqSuffix = "_dlq"
)

// DeadLetterExchangeName returns the dead-letter exchange name for a queue.
func DeadLetterExchangeName(queueName string) string {
	return queueName + dlxSuffix
}

// DeadLetterQueueName returns the dead-letter queue name for a queue.
func DeadLetterQueueName(queueName string) string {
	return queueName + dlqSuffix
}

// declareTopology ensures the dead-letter exchange and queue exist and are
// bound, then ensures the main queue exists, and returns a channel ready for
// consuming. Declarations are tolerant of pre-existing entities with
// different settings: a conflict is logged and the existing topology wins.
// A failed declaration closes the AMQP channel, so a fresh one is opened
// after every tolerated failure.
func declareTopology(d *Dialer, queueName string, logger *slog.Logger) (*amqp.Channel, error) {
	channel, err := d.Channel()
	if err != nil {
		return nil, errors.Wrap(err, "failed to make channel")
	}

	dlx := DeadLetterExchangeName(queueName)
	dlq := DeadLetterQueueName(queueName)

	if err := channel.ExchangeDeclare(dlx, "direct", true, false, false, false, nil); err != nil {
		logger.Warn("failed to declare dead-letter exchange", "exchange", dlx, "error", err.Error())
		if channel, err = d.Channel(); err != nil {
			return nil, errors.Wrap(err, "failed to reopen channel")
		}
	}

	if _, err := channel.QueueDeclare(dlq, true, false, false, false, nil); err != nil {
		logger.Warn("failed to declare dead-letter queue", "queue", dlq, "error", err.Error())
		if channel, err = d.Channel(); err != nil {
			return nil, errors.Wrap(err, "failed to reopen channel")
		}
	}

	// Dead-lettered messages keep their original routing key, so binding
	// with the main queue name routes them into the DLQ.
	if err := channel.QueueBind(dlq, queueName, dlx, false, nil); err != nil {
		logger.Warn("failed to bind dead-letter queue", "queue", dlq, "exchange", dlx, "error", err.Error())
		if channel, err = d.Channel(); err != nil {
			return nil, errors.Wrap(err, "failed to reopen channel")
		}
	}

	// Passive declare detects existence without risking PRECONDITION_FAILED
	// against a queue declared by another process with different arguments.
	if _, err := channel.QueueDeclarePassive(queueName, true, false, false, false, nil); err == nil {
		logger.Debug("queue already exists, leaving its arguments untouched", "queue", queueName)
		return channel, nil
	}

	// The failed passive declare closed the channel. Open a fresh one and
	// create the queue with the dead-letter argument.
	if channel, err = d.Channel(); err != nil {
		return nil, errors.Wrap(err, "failed to reopen channel")
	}

	if _, err := channel.QueueDeclare(queueName, true, false, false, false, amqp.Table{
		"x-dead-letter-exchange": dlx,
	}); err != nil {
		_ = channel.Close()
		return nil, errors.Wrapf(err, "failed to declare queue %q", queueName)
	}

	logger.Info("created queue with dead-letter exchange", "queue", queueName, "dlx", dlx)
	return channel, nil
}
