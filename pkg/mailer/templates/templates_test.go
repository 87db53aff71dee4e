package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderVerifyEmail(t *testing.T) {
	subject, text, html, err := Render(VerifyEmail, EmailData{
		Name:      "Ana",
		ActionURL: "https://app.example.com/verify-email?token=abc",
		ValidFor:  "24 horas",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, subject)
	assert.Contains(t, text, "Ana")
	assert.Contains(t, text, "https://app.example.com/verify-email?token=abc")
	assert.Contains(t, text, "24 horas")
	assert.Contains(t, html, "https://app.example.com/verify-email?token=abc")
}

func TestRenderResetPassword(t *testing.T) {
	subject, text, html, err := Render(ResetPassword, EmailData{
		Name:      "Ana",
		ActionURL: "https://app.example.com/reset-password?token=abc",
		ValidFor:  "1 hora",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, subject)
	assert.Contains(t, text, "1 hora")
	assert.Contains(t, html, "https://app.example.com/reset-password?token=abc")
}

func TestRenderEscapesHTML(t *testing.T) {
	_, _, html, err := Render(VerifyEmail, EmailData{
		Name:      "<script>alert(1)</script>",
		ActionURL: "https://app.example.com/verify",
		ValidFor:  "24 horas",
	})
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>alert(1)</script>")
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, _, _, err := Render("no_such_template", EmailData{})
	assert.Error(t, err)
}
