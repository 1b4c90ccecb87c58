package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/smtp"
	"strings"
	"time"

	"github.com/dilg-calendar/calendar-backend-go/internal/config"
)

//go:embed templates/*.html
var templateFS embed.FS

// EmailService defines the interface for sending emails
type EmailService interface {
	SendEventInvitation(to string, data EventMailData) error
	SendEventInterruption(to string, data EventMailData) error
}

// EventMailData is the event summary rendered into notification mails.
type EventMailData struct {
	EventID     string
	EventName   string
	Host        string
	CreatedBy   string
	Date        string
	Time        string
	Location    string
	Description string
	MeetingLink string
	Invitees    []string
	// Status and Reason are set for postponed or cancelled events.
	Status string
	Reason string
}

type emailServiceImpl struct {
	cfg       config.SMTPConfig
	templates *template.Template
	backoff   time.Duration
}

// NewEmailService creates a new email service instance
func NewEmailService(cfg config.SMTPConfig) (EmailService, error) {
	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	if cfg.MaxRetries < 1 {
		cfg.MaxRetries = 1
	}

	return &emailServiceImpl{
		cfg:       cfg,
		templates: tmpl,
		backoff:   time.Second,
	}, nil
}

func parseTemplates() (*template.Template, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"join": strings.Join,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}
	return tmpl, nil
}

// InvitationSubject is the subject line of an invitation mail.
func InvitationSubject(eventName string) string {
	return fmt.Sprintf("Invitation to the Event: %s", eventName)
}

// InterruptionSubject is the subject line of a postponement or cancellation mail.
func InterruptionSubject(status, eventName string) string {
	return fmt.Sprintf("Notification for the %s Event: %s", strings.ToLower(status), eventName)
}

// SendEventInvitation sends the invitation for an approved event
func (s *emailServiceImpl) SendEventInvitation(to string, data EventMailData) error {
	body, err := s.render("event_invitation.html", data)
	if err != nil {
		return err
	}
	return s.sendHTML(to, InvitationSubject(data.EventName), body)
}

// SendEventInterruption tells an invitee the event was postponed or cancelled
func (s *emailServiceImpl) SendEventInterruption(to string, data EventMailData) error {
	body, err := s.render("event_interruption.html", data)
	if err != nil {
		return err
	}
	return s.sendHTML(to, InterruptionSubject(data.Status, data.EventName), body)
}

func (s *emailServiceImpl) render(name string, data EventMailData) (string, error) {
	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, name, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	return body.String(), nil
}

func (s *emailServiceImpl) sendHTML(to, subject, htmlBody string) error {
	// Skip sending if SMTP is not configured
	if s.cfg.Host == "" {
		slog.Warn("SMTP not configured, skipping email send", "to", to, "subject", subject)
		return nil
	}

	from := s.cfg.FromEmail

	headers := fmt.Sprintf("From: %s <%s>\r\n", s.cfg.FromName, from)
	headers += fmt.Sprintf("To: %s\r\n", to)
	headers += fmt.Sprintf("Subject: %s\r\n", subject)
	headers += "MIME-Version: 1.0\r\n"
	headers += "Content-Type: text/html; charset=\"UTF-8\"\r\n"
	headers += "\r\n"

	message := []byte(headers + htmlBody)

	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	var lastErr error
	for attempt := 1; attempt <= s.cfg.MaxRetries; attempt++ {
		err := smtp.SendMail(addr, auth, from, []string{to}, message)
		if err == nil {
			slog.Info("Email sent", "to", to, "subject", subject, "attempt", attempt)
			return nil
		}

		lastErr = err
		slog.Warn("Email send attempt failed",
			"to", to,
			"subject", subject,
			"attempt", attempt,
			"max_retries", s.cfg.MaxRetries,
			"error", err,
		)

		// exponential backoff: 1s, 2s, 4s
		if attempt < s.cfg.MaxRetries {
			time.Sleep(s.backoff << (attempt - 1))
		}
	}

	return fmt.Errorf("failed to send email after %d attempts: %w", s.cfg.MaxRetries, lastErr)
}
