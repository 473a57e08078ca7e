package email

import (
	"embed"
	"fmt"
	"html/template"
	"strings"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// WelcomeData fills the welcome template.
type WelcomeData struct {
	Name string
}

// PasswordResetData fills the password reset template.
type PasswordResetData struct {
	Name     string
	ResetURL string
}

// RenderWelcome renders the welcome email body.
func RenderWelcome(data WelcomeData) (string, error) {
	return render("welcome.html", data)
}

// RenderPasswordReset renders the password reset email body.
func RenderPasswordReset(data PasswordResetData) (string, error) {
	return render("password_reset.html", data)
}

func render(name string, data any) (string, error) {
	var sb strings.Builder
	if err := templates.ExecuteTemplate(&sb, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return sb.String(), nil
}
