package core

import (
	"bytes"
	"net/mail"
	"text/template"
)

// Email templates are compiled in rather than loaded from disk; the only
// mail this system sends is the deadline digest.
var emailTemplates = template.Must(template.New("email").Parse(`
{{define "deadline-digest"}}Hi {{.Name}},

The following application tasks are due within {{.WindowDays}} days:
{{range .Rows}}
  - {{.University}}: {{.Task}} ({{.DueLabel}}){{end}}

Good luck!
{{end}}`))

type (
	EmailMessage struct {
		To      []mail.Address
		Cc      []mail.Address
		Bcc     []mail.Address
		Subject string
		BodyStr string // simple text/plain, non-templated content

		// templated contents
		TemplateName string
		TemplateData interface{}
		TextContent  string
	}

	// EmailService is any service that can send emails
	EmailService interface {
		// SendMessages sends messages concurrently
		SendMessages(messages ...*EmailMessage)
		// SendMessagesSync returns only once every message has been sent;
		// short-lived callers (CLI commands) use it so the process does not
		// exit before delivery
		SendMessagesSync(messages ...*EmailMessage)
	}
)

func (m *EmailMessage) Render() error {
	if m.BodyStr != "" {
		m.TextContent = m.BodyStr
		return nil
	}
	if m.TemplateName == "" {
		return nil
	}

	var buff bytes.Buffer
	if err := emailTemplates.ExecuteTemplate(&buff, m.TemplateName, m.TemplateData); err != nil {
		return err
	}
	m.TextContent = buff.String()
	return nil
}

func (m *EmailMessage) HasRecipients() bool { return len(m.To) > 0 }
func (m *EmailMessage) HasContent() bool    { return m.TextContent != "" }
