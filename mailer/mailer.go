package mailer

// The three built-in verification templates. Requests naming any of them go
// through the code-mail path and must carry a verification code; every other
// template name goes through the custom-template path.
const (
	TemplateEmailVerification          = "email_verification"
	TemplateEmailChangeVerification    = "email_change_verification"
	TemplateForgotPasswordVerification = "forgot_password_verification"
)

// IsCodeTemplate reports whether name is one of the built-in verification
// templates.
func IsCodeTemplate(name string) bool {
	switch name {
	case TemplateEmailVerification, TemplateEmailChangeVerification, TemplateForgotPasswordVerification:
		return true
	}
	return false
}
