package smtp

// Config contains SMTP relay connection parameters.
type Config struct {
	Host     string `envconfig:"SMTP_SERVER" default:"localhost"` // relay hostname
	Port     int    `envconfig:"SMTP_PORT" default:"587"`         // 587 for STARTTLS
	Username string `envconfig:"SMTP_USER" required:"true"`       // account identity, also the From address
	Password string `envconfig:"SMTP_PASSWORD" required:"true"`
	From     string `envconfig:"SMTP_FROM"`                     // overrides Username as From when set
	TLS      bool   `envconfig:"SMTP_TLS" default:"true"`       // upgrade via STARTTLS
	Insecure bool   `envconfig:"SMTP_INSECURE" default:"false"` // skip certificate verification
	DryRun   bool   `envconfig:"MAIL_DRY_RUN" default:"false"`  // log instead of submitting
}
