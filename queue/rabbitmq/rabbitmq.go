package rabbitmq

import (
	"fmt"
	"net/url"
	"time"
)

// Config contains broker connection parameters and the main queue name. The
// dead-letter exchange and queue names are derived from Queue by fixed
// convention, see Topology.
type Config struct {
	Host      string        `envconfig:"RABBITMQ_HOST" default:"localhost"`
	Port      int           `envconfig:"RABBITMQ_PORT" default:"5672"`
	Queue     string        `envconfig:"RABBITMQ_MAIL_QUEUE_NAME" required:"true"`
	Username  string        `envconfig:"RABBITMQ_USERNAME" required:"true"`
	Password  string        `envconfig:"RABBITMQ_PASSWORD" required:"true"`
	Heartbeat time.Duration `envconfig:"RABBITMQ_HEARTBEAT" default:"0s"` // 0 disables heartbeats
}

// URL builds the AMQP URI for the configured broker.
func (c Config) URL() string {
	return fmt.Sprintf("amqp://%s@%s:%d/",
		url.UserPassword(c.Username, c.Password).String(), c.Host, c.Port)
}
