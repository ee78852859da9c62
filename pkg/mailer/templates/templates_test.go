package templates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_RegistrationConfirmation(t *testing.T) {
	data := EmailData{
		Name:       "Jane",
		Email:      "jane@example.com",
		AppName:    "GroceryList",
		ConfirmURL: "https://groceries.example.com/confirm-registration?id=65a0c0ffee",
	}.WithExpiresAt(time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC))

	subject, text, html, err := Render(RegistrationConfirmation, data)
	require.NoError(t, err)

	assert.Equal(t, "Confirm your GroceryList registration", subject)
	assert.Contains(t, text, "Hi Jane")
	assert.Contains(t, text, "https://groceries.example.com/confirm-registration?id=65a0c0ffee")
	assert.Contains(t, text, "14 March 2026")
	assert.Contains(t, html, `href="https://groceries.example.com/confirm-registration?id=65a0c0ffee"`)
	assert.Contains(t, html, "14 March 2026")
}

func TestRender_LoginNotification(t *testing.T) {
	data := EmailData{
		Name:      "Jane",
		AppName:   "GroceryList",
		IP:        "203.0.113.7",
		UserAgent: "Mozilla/5.0",
	}.WithTime(time.Date(2026, 1, 2, 8, 30, 0, 0, time.UTC))

	subject, text, html, err := Render(LoginNotification, data)
	require.NoError(t, err)

	assert.Equal(t, "New sign-in to your GroceryList account", subject)
	assert.Contains(t, text, "203.0.113.7")
	assert.Contains(t, text, "02 January 2026")
	assert.Contains(t, html, "Mozilla/5.0")
}

func TestRender_UnknownTemplate(t *testing.T) {
	_, _, _, err := Render("no_such_template", EmailData{})
	assert.Error(t, err)
}
