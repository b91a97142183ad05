package rabbitmq

import (
	"log/slog"
	"sync"
	"time"

	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"
)

var ErrConnectionClosed = errors.New("connection is closed manually")

// DefaultDialTimeout bounds a single dial attempt.
const DefaultDialTimeout = 30 * time.Second

type Dialer struct {
	uri     string
	conn    *amqp.Connection
	options *DialerOptions
	mx      sync.Mutex
}

// RetryPolicy of dialer connection attempts.
type RetryPolicy interface {
	TryNum(i int) (duration time.Duration, stop bool)
}

// DialerOptions set dialer params.
type DialerOptions struct {
	RetryPolicy RetryPolicy
	Logger      *slog.Logger
	// Heartbeat is the requested AMQP heartbeat interval; zero disables
	// client-requested heartbeats.
	Heartbeat time.Duration
	// DialTimeout bounds a single dial attempt, DefaultDialTimeout if zero.
	DialTimeout time.Duration
}

func NewDefaultDialer(uri string) *Dialer {
	return NewDialer(uri, nil)
}

func NewDialer(uri string, options *DialerOptions) *Dialer {
	if options == nil {
		options = new(DialerOptions)
	}
	if options.Logger == nil {
		options.Logger = slog.Default()
	}
	options.Logger = options.Logger.WithGroup("rabbitmq")

	if options.RetryPolicy == nil {
		options.RetryPolicy = NewDefaultMaxInterval()
	}
	if options.DialTimeout == 0 {
		options.DialTimeout = DefaultDialTimeout
	}

	return &Dialer{
		uri:     uri,
		options: options,
	}
}

// Connect dials the broker, retrying per the configured RetryPolicy. When
// the policy gives up the last dial error is returned; callers treat that as
// fatal at startup. A successful connection is watched for broker-side
// closes and re-established in the background.
func (d *Dialer) Connect() error {
	for i := 0; ; i++ {
		err := d.connect()
		if err == nil {
			return nil
		}

		sleepDuration, stop := d.options.RetryPolicy.TryNum(i)
		if stop {
			d.options.Logger.With("error", err.Error()).Error("Cannot connect to rabbitmq, retries exhausted")
			return errors.Wrap(err, "connection retries exhausted")
		}

		d.options.Logger.With("error", err.Error()).Warn("Failed to connect, retrying", "attempt", i+1)
		time.Sleep(sleepDuration)
	}
}

func (d *Dialer) connect() error {
	d.options.Logger.Debug("Dialing...")

	d.mx.Lock()
	defer d.mx.Unlock()

	conn, err := amqp.DialConfig(d.uri, amqp.Config{
		Heartbeat: d.options.Heartbeat,
		Dial:      amqp.DefaultDial(d.options.DialTimeout),
	})
	if err != nil {
		return errors.Wrap(err, "failed to dial")
	}

	ch := conn.NotifyClose(make(chan *amqp.Error, 1))
	d.conn = conn
	d.options.Logger.Debug("Connection is stable")
	go d.handleReconnect(ch)
	return nil
}

func (d *Dialer) Channel() (*amqp.Channel, error) {
	d.mx.Lock()
	defer d.mx.Unlock()

	if d.conn == nil {
		return nil, ErrConnectionClosed
	}

	channel, err := d.conn.Channel()
	if err != nil {
		return nil, errors.Wrap(err, "failed to open channel")
	}
	return channel, nil
}

func (d *Dialer) Close() error {
	d.mx.Lock()
	defer d.mx.Unlock()

	if d.conn == nil {
		return nil
	}
	if err := d.conn.Close(); err != nil {
		return errors.Wrap(err, "failed to close RabbitMQ connection")
	}
	d.conn = nil
	return nil
}

// handleReconnect listens for AMQP connection failures and re-establishes
// the connection through the retry policy.
func (d *Dialer) handleReconnect(ch chan *amqp.Error) {
	err, ok := <-ch
	if !ok {
		d.options.Logger.Debug("Shutdown")
		return
	}

	d.options.Logger.With("error", err.Error()).Warn("Disconnected")

	if err := d.Connect(); err != nil {
		d.options.Logger.With("error", err.Error()).Error("Failed to reconnect")
	}
}
