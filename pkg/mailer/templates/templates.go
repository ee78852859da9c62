package templates

import (
	"bytes"
	"embed"
	"fmt"
	htmpl "html/template"
	"strings"
	texttpl "text/template"
	"time"
)

//go:embed *.tmpl
var FS embed.FS

// Template names.
const (
	RegistrationConfirmation = "registration_confirmation"
	LoginNotification        = "login_notification"
)

// EmailData carries the fields the bundled templates interpolate.
type EmailData struct {
	Name    string `json:"Name"`
	Email   string `json:"Email"`
	AppName string `json:"AppName"`

	// Registration confirmation
	ConfirmURL    string `json:"ConfirmURL"`
	ExpiresAtText string `json:"ExpiresAtText"`

	// Login notification
	Time      string `json:"Time"`
	IP        string `json:"IP"`
	UserAgent string `json:"UserAgent"`
}

// WithExpiresAt formats the confirmation window end for display.
func (d EmailData) WithExpiresAt(t time.Time) EmailData {
	d.ExpiresAtText = t.UTC().Format("02 January 2006, 15:04 MST")
	return d
}

// WithTime formats the event time for display.
func (d EmailData) WithTime(t time.Time) EmailData {
	d.Time = t.UTC().Format("02 January 2006, 15:04 MST")
	return d
}

// renderFile loads and renders a single template file from the embedded FS.
// isHTML indicates whether to use html/template (true) or text/template (false).
func renderFile(filename string, isHTML bool, data any) (string, error) {
	var (
		buf bytes.Buffer
		err error
	)

	if isHTML {
		tpl, e := htmpl.New(filename).ParseFS(FS, filename)
		if e != nil {
			return "", fmt.Errorf("parse html %q: %w", filename, e)
		}
		err = tpl.Execute(&buf, data)
	} else {
		tpl, e := texttpl.New(filename).ParseFS(FS, filename)
		if e != nil {
			return "", fmt.Errorf("parse text %q: %w", filename, e)
		}
		err = tpl.Execute(&buf, data)
	}
	if err != nil {
		return "", fmt.Errorf("exec %q: %w", filename, err)
	}
	return buf.String(), nil
}

// Render loads and renders subject, text, and html templates for the given base name.
// Expects: <name>.subject.tmpl, <name>.text.tmpl, <name>.html.tmpl
func Render(name string, data any) (subject string, text string, html string, err error) {
	subject, err = renderFile(name+".subject.tmpl", false, data)
	if err != nil {
		return "", "", "", err
	}
	subject = strings.TrimSpace(subject)
	text, err = renderFile(name+".text.tmpl", false, data)
	if err != nil {
		return "", "", "", err
	}
	html, err = renderFile(name+".html.tmpl", true, data)
	if err != nil {
		return "", "", "", err
	}
	return subject, text, html, nil
}
