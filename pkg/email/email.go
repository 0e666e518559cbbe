package email

import (
	"bytes"
	"fmt"
	"go-interview-backend/config"
	"html/template"
	"net/smtp"
)

// EmailService handles sending transactional emails via SMTP
type EmailService struct {
	host      string
	port      string
	username  string
	password  string
	fromEmail string
}

func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{
		host:      cfg.SMTPHost,
		port:      cfg.SMTPPort,
		username:  cfg.SMTPUsername,
		password:  cfg.SMTPPassword,
		fromEmail: cfg.SMTPFromEmail,
	}
}

const welcomeTemplate = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
    <h2>Welcome to Interviewly, {{.Name}}!</h2>
    <p>Your account has been created. Verify your email with the code below to start practicing interviews.</p>
    <p style="font-size: 24px; font-weight: bold; letter-spacing: 4px;">{{.Code}}</p>
    <p>The code expires in {{.ExpiryMinutes}} minutes.</p>
</body>
</html>`

const otpTemplate = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
    <h2>Your verification code</h2>
    <p style="font-size: 24px; font-weight: bold; letter-spacing: 4px;">{{.Code}}</p>
    <p>The code expires in {{.ExpiryMinutes}} minutes. If you did not request this, ignore this email.</p>
</body>
</html>`

const interviewCompleteTemplate = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
    <h2>Interview complete</h2>
    <p>Well done {{.Name}}, you finished all three rounds.</p>
    <p>Final score: <strong>{{.Score}}/100</strong></p>
    <p>Open your dashboard to review per-round feedback and suggestions.</p>
</body>
</html>`

type welcomeData struct {
	Name          string
	Code          string
	ExpiryMinutes int
}

type otpData struct {
	Code          string
	ExpiryMinutes int
}

type completeData struct {
	Name  string
	Score int
}

// SendWelcomeEmail sends the registration welcome email carrying the first OTP
func (s *EmailService) SendWelcomeEmail(to, name, otpCode string, expiryMinutes int) error {
	return s.send(to, "Welcome to Interviewly", welcomeTemplate, welcomeData{Name: name, Code: otpCode, ExpiryMinutes: expiryMinutes})
}

// SendOTPEmail sends a verification code
func (s *EmailService) SendOTPEmail(to, otpCode string, expiryMinutes int) error {
	return s.send(to, "Your Interviewly verification code", otpTemplate, otpData{Code: otpCode, ExpiryMinutes: expiryMinutes})
}

// SendInterviewCompleteEmail notifies the candidate their interview finished
func (s *EmailService) SendInterviewCompleteEmail(to, name string, finalScore int) error {
	return s.send(to, "Your interview results are ready", interviewCompleteTemplate, completeData{Name: name, Score: finalScore})
}

func (s *EmailService) send(to, subject, tmplText string, data interface{}) error {
	tmpl, err := template.New("email").Parse(tmplText)
	if err != nil {
		return fmt.Errorf("failed to parse email template: %w", err)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to execute email template: %w", err)
	}

	msg := []byte(fmt.Sprintf(
		"From: %s\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=UTF-8\r\n"+
			"\r\n"+
			"%s",
		s.fromEmail,
		to,
		subject,
		body.String(),
	))

	auth := smtp.PlainAuth("", s.username, s.password, s.host)

	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	if err := smtp.SendMail(addr, auth, s.fromEmail, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

// IsConfigured checks if the email service has valid SMTP configuration
func (s *EmailService) IsConfigured() bool {
	return s.host != "" && s.username != "" && s.password != ""
}
