package templates

import (
	"bytes"
	"embed"
	htmpl "html/template"
	texttpl "text/template"
)

//go:embed *.tmpl
var FS embed.FS

// Template names.
const (
	VerifyEmail   = "verify_email"
	ResetPassword = "reset_password"
)

var subjects = map[string]string{
	VerifyEmail:   "Verifica tu cuenta de Nexum",
	ResetPassword: "Restablece tu contraseña de Nexum",
}

// EmailData carries the fields the auth email templates understand.
type EmailData struct {
	Name      string
	ActionURL string
	// Human-readable validity, e.g. "24 horas" / "1 hora".
	ValidFor string
}

// Render renders the named template pair and returns subject, text and html
// bodies. The html body comes from <name>.html.tmpl, the plain-text fallback
// from <name>.txt.tmpl.
func Render(name string, data EmailData) (subject, text, html string, err error) {
	subject, ok := subjects[name]
	if !ok {
		return "", "", "", errUnknownTemplate(name)
	}

	ht, err := htmpl.ParseFS(FS, name+".html.tmpl")
	if err != nil {
		return "", "", "", err
	}
	var hbuf bytes.Buffer
	if err := ht.Execute(&hbuf, data); err != nil {
		return "", "", "", err
	}

	tt, err := texttpl.ParseFS(FS, name+".txt.tmpl")
	if err != nil {
		return "", "", "", err
	}
	var tbuf bytes.Buffer
	if err := tt.Execute(&tbuf, data); err != nil {
		return "", "", "", err
	}

	return subject, tbuf.String(), hbuf.String(), nil
}

type errUnknownTemplate string

func (e errUnknownTemplate) Error() string { return "unknown email template: " + string(e) }
