package mailer

// BrandingConfig carries the visual identity injected into every rendered
// template. Loaded once at startup and shared read-only by all sends.
type BrandingConfig struct {
	AppName                string `envconfig:"APP_NAME" required:"true"`
	AppOwner               string `envconfig:"APP_OWNER" required:"true"`
	ContactEmail           string `envconfig:"CONTACT_EMAIL" required:"true"`
	LogoURL                string `envconfig:"LOGO_URL"`
	PrimaryColor           string `envconfig:"PRIMARY_COLOR" default:"#4f46e5"`
	PrimaryShadeColor      string `envconfig:"PRIMARY_SHADE_COLOR" default:"#3730a3"`
	PrimaryForegroundColor string `envconfig:"PRIMARY_FOREGROUND_COLOR" default:"#ffffff"`
}

// Values converts the config to the string-keyed mapping used for template
// merging. The conversion is explicit, not reflective, so the template key
// names are auditable here.
func (c BrandingConfig) Values() map[string]any {
	return map[string]any{
		"app_name":                 c.AppName,
		"app_owner":                c.AppOwner,
		"contact_email":            c.ContactEmail,
		"logo_url":                 c.LogoURL,
		"primary_color":            c.PrimaryColor,
		"primary_shade_color":      c.PrimaryShadeColor,
		"primary_foreground_color": c.PrimaryForegroundColor,
	}
}
