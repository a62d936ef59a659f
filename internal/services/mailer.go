package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

const sendGridHost = "https://api.sendgrid.com"

// EmailMessage is one transactional email. Either Subject+HTML/Text or a
// TemplateID with dynamic data must be set.
type EmailMessage struct {
	To                  string
	Subject             string
	HTML                string
	Text                string
	TemplateID          string
	DynamicTemplateData map[string]interface{}
}

// Mailer relays transactional emails through an external provider.
type Mailer interface {
	Send(ctx context.Context, msg *EmailMessage) error
}

// SendGridMailer sends through the SendGrid v3 mail API.
type SendGridMailer struct {
	apiKey    string
	host      string
	fromName  string
	fromEmail string
}

func NewSendGridMailer(apiKey, fromName, fromEmail string) *SendGridMailer {
	return &SendGridMailer{
		apiKey:    apiKey,
		host:      sendGridHost,
		fromName:  fromName,
		fromEmail: fromEmail,
	}
}

func (m *SendGridMailer) Send(ctx context.Context, msg *EmailMessage) error {
	if m.apiKey == "" {
		return errors.New("mail service is not configured")
	}
	if msg.To == "" {
		return errors.New("recipient is required")
	}

	from := mail.NewEmail(m.fromName, m.fromEmail)
	to := mail.NewEmail("", msg.To)

	var message *mail.SGMailV3
	if msg.TemplateID != "" {
		message = mail.NewV3Mail()
		message.SetFrom(from)
		message.SetTemplateID(msg.TemplateID)
		p := mail.NewPersonalization()
		p.AddTos(to)
		for key, value := range msg.DynamicTemplateData {
			p.SetDynamicTemplateData(key, value)
		}
		message.AddPersonalizations(p)
	} else {
		message = mail.NewSingleEmail(from, msg.Subject, to, msg.Text, msg.HTML)
	}

	request := sendgrid.GetRequest(m.apiKey, "/v3/mail/send", m.host)
	request.Method = "POST"
	request.Body = mail.GetRequestBody(message)

	response, err := sendgrid.MakeRequestWithContext(ctx, request)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 300 {
		return fmt.Errorf("mail provider returned status %d: %s", response.StatusCode, response.Body)
	}
	return nil
}
