package services

import (
	"bytes"
	"fmt"
	"log"
	"net/smtp"
	"text/template"
)

// EmailService sends transactional mail. Callers treat sends as
// fire-and-forget: a failed email never fails the operation that
// triggered it.
type EmailService interface {
	SendTrialReminder(to, recipientName, orgName string, daysLeft int) error
	SendTrialExpired(to, recipientName, orgName string) error
	SendInvoiceNotice(to, recipientName, orgName string, amount float64, invoiceNumber string) error
}

type smtpEmailService struct {
	host     string
	port     string
	username string
	password string
	from     string
}

func NewSMTPEmailService(host, port, username, password, from string) EmailService {
	return &smtpEmailService{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

var trialReminderTemplate = template.Must(template.New("trial_reminder").Parse(
	`Hi {{.Name}},

The trial period for {{.OrgName}} ends in {{.DaysLeft}} day(s). Upgrade to a
paid plan to keep your service running without interruption.

The WasteFlow Team
`))

var trialExpiredTemplate = template.Must(template.New("trial_expired").Parse(
	`Hi {{.Name}},

The trial period for {{.OrgName}} has ended and the account has been
suspended. Upgrade to a paid plan to restore access.

The WasteFlow Team
`))

var invoiceNoticeTemplate = template.Must(template.New("invoice_notice").Parse(
	`Hi {{.Name}},

A new invoice {{.InvoiceNumber}} for {{printf "%.2f" .Amount}} has been issued
for {{.OrgName}}. You can view it in your billing dashboard.

The WasteFlow Team
`))

func (s *smtpEmailService) SendTrialReminder(to, recipientName, orgName string, daysLeft int) error {
	return s.send(to, "Your trial is ending soon", trialReminderTemplate, map[string]interface{}{
		"Name":     recipientName,
		"OrgName":  orgName,
		"DaysLeft": daysLeft,
	})
}

func (s *smtpEmailService) SendTrialExpired(to, recipientName, orgName string) error {
	return s.send(to, "Your trial has expired", trialExpiredTemplate, map[string]interface{}{
		"Name":    recipientName,
		"OrgName": orgName,
	})
}

func (s *smtpEmailService) SendInvoiceNotice(to, recipientName, orgName string, amount float64, invoiceNumber string) error {
	return s.send(to, "New invoice issued", invoiceNoticeTemplate, map[string]interface{}{
		"Name":          recipientName,
		"OrgName":       orgName,
		"Amount":        amount,
		"InvoiceNumber": invoiceNumber,
	})
}

func (s *smtpEmailService) send(to, subject string, tmpl *template.Template, data map[string]interface{}) error {
	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to render email template: %v", err)
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s", s.from, to, subject, body.String())

	var auth smtp.Auth
	if s.username != "" {
		auth = smtp.PlainAuth("", s.username, s.password, s.host)
	}
	if err := smtp.SendMail(s.host+":"+s.port, auth, s.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send email to %s: %v", to, err)
	}
	return nil
}

// noopEmailService is used when SMTP is not configured. It logs what would
// have been sent.
type noopEmailService struct{}

func NewNoopEmailService() EmailService {
	return &noopEmailService{}
}

func (s *noopEmailService) SendTrialReminder(to, recipientName, orgName string, daysLeft int) error {
	log.Printf("Email (noop): trial reminder to %s for %s, %d day(s) left", to, orgName, daysLeft)
	return nil
}

func (s *noopEmailService) SendTrialExpired(to, recipientName, orgName string) error {
	log.Printf("Email (noop): trial expired notice to %s for %s", to, orgName)
	return nil
}

func (s *noopEmailService) SendInvoiceNotice(to, recipientName, orgName string, amount float64, invoiceNumber string) error {
	log.Printf("Email (noop): invoice %s notice to %s for %s", invoiceNumber, to, orgName)
	return nil
}
