package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/lukasdrothler/mail-service/env"
	"github.com/lukasdrothler/mail-service/logger"
	"github.com/lukasdrothler/mail-service/mail/smtp"
	"github.com/lukasdrothler/mail-service/mailer"
	"github.com/lukasdrothler/mail-service/metrics"
	"github.com/lukasdrothler/mail-service/queue/rabbitmq"
	"github.com/lukasdrothler/mail-service/template"
	"github.com/lukasdrothler/mail-service/tracing"
	"github.com/lukasdrothler/mail-service/tracing/jaeger"
	"github.com/lukasdrothler/mail-service/worker"
)

type Config struct {
	Logger   logger.Config
	Metrics  metrics.Config
	Tracing  jaeger.Config
	RabbitMQ rabbitmq.Config
	SMTP     smtp.Config
	Branding mailer.BrandingConfig
	Template template.Config
}

func main() {
	var cfg Config
	if err := env.InitConfig(&cfg); err != nil {
		slog.Default().With("error", err.Error()).Error("Failed to load config")
		os.Exit(1)
	}

	logger.InitDefault(cfg.Logger)
	log := slog.Default()

	if cfg.Metrics.Enabled {
		metricsCloser, err := metrics.InitDefault(cfg.Metrics)
		if err != nil {
			log.With("error", err.Error()).Error("Failed to start metrics server")
			os.Exit(1)
		}
		defer metricsCloser.Close()
	}

	if cfg.Tracing.EndPoint != "" {
		tracingProvider, err := tracing.Init(jaeger.NewProviderBuilder(cfg.Tracing))
		if err != nil {
			log.With("error", err.Error()).Warn("Tracing disabled")
		}
		defer tracingProvider.Close()
	}

	sender := smtp.NewSender(cfg.SMTP, nil)
	store := template.NewStore(cfg.Template, log)
	service := mailer.New(store, sender, cfg.Branding, log)
	handler := worker.NewHandler(service, log)

	dialer := rabbitmq.NewDialer(cfg.RabbitMQ.URL(), &rabbitmq.DialerOptions{
		Heartbeat:   cfg.RabbitMQ.Heartbeat,
		RetryPolicy: rabbitmq.NewDefaultMaxAttempts(),
	})
	if err := dialer.Connect(); err != nil {
		log.With("error", err.Error()).Error("Failed to connect to rabbitmq")
		os.Exit(1)
	}
	defer dialer.Close()

	subscriber := rabbitmq.NewDefaultSubscriber(dialer, cfg.RabbitMQ.Queue)
	go subscriber.Listen(handler.Handle)

	log.Info("mail worker started", "queue", cfg.RabbitMQ.Queue)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("Shutting down...")
	if err := subscriber.Close(); err != nil {
		log.With("error", err.Error()).Warn("Failed to close subscriber")
	}
}
