package email

import (
	"bytes"
	"crypto/tls"
	"embed"
	"fmt"
	"html/template"
	"net/smtp"
	"time"

	"fleet-compliance/internal/config"
	"fleet-compliance/internal/models"
	"fleet-compliance/internal/services"
)

//go:embed templates/*.html
var templateFS embed.FS

// EmailService is the notification sender: one SMTP send per call, no
// retries. It satisfies services.NotificationSender.
type EmailService struct {
	smtpHost  string
	smtpPort  string
	username  string
	password  string
	fromEmail string
	fromName  string
}

func NewEmailService(cfg config.SMTPConfig) *EmailService {
	return &EmailService{
		smtpHost:  cfg.Host,
		smtpPort:  cfg.Port,
		username:  cfg.Username,
		password:  cfg.Password,
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
	}
}

type reminderData struct {
	RiderName   string
	PlateNumber string
	Odometer    int
	Period      string
}

func (s *EmailService) SendInspectionReminder(to string, notice services.ReminderNotice) error {
	data := reminderData{
		RiderName:   notice.RiderName,
		PlateNumber: notice.PlateNumber,
		Odometer:    notice.Odometer,
		Period:      notice.Period.Format("January 2006"),
	}

	body, err := renderTemplate("inspection_reminder.html", data)
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("Monthly inspection due - %s", notice.PlateNumber)
	return s.Send(to, subject, body)
}

type escalationData struct {
	RiderName   string
	PlateNumber string
	Odometer    string
	Defects     []models.Defect
	ReportedAt  string
}

func (s *EmailService) SendDefectEscalation(to string, notice services.EscalationNotice) error {
	plate := escalationPlate(notice)
	data := escalationData{
		RiderName:   notice.RiderName,
		PlateNumber: plate,
		Odometer:    "not reported",
		Defects:     notice.Defects,
		ReportedAt:  time.Now().Format("2006-01-02 15:04"),
	}
	if notice.Odometer != nil {
		data.Odometer = fmt.Sprintf("%d km", *notice.Odometer)
	}

	body, err := renderTemplate("defect_escalation.html", data)
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("Defects reported on %s (%d items)", plate, len(notice.Defects))
	return s.Send(to, subject, body)
}

// escalationPlate labels the vehicle when the plate lookup did not resolve.
func escalationPlate(notice services.EscalationNotice) string {
	if notice.PlateNumber != "" {
		return notice.PlateNumber
	}
	return fmt.Sprintf("unknown plate (vehicle %s)", notice.VehicleID)
}

type expiryReportData struct {
	Insurance    []models.ExpiringItem
	Registration []models.ExpiringItem
	GeneratedAt  string
}

func (s *EmailService) SendExpiryReport(to string, items []models.ExpiringItem) error {
	data := expiryReportData{
		GeneratedAt: time.Now().Format("2006-01-02"),
	}
	for _, item := range items {
		switch item.Kind {
		case models.ExpiryKindInsurance:
			data.Insurance = append(data.Insurance, item)
		case models.ExpiryKindRegistration:
			data.Registration = append(data.Registration, item)
		}
	}

	body, err := renderTemplate("expiry_report.html", data)
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("Fleet expiry report - %d items need attention", len(items))
	return s.Send(to, subject, body)
}

// Send delivers one rendered message over SMTP with STARTTLS.
func (s *EmailService) Send(to, subject, htmlBody string) error {
	message := s.buildMessage(to, subject, htmlBody)

	if err := s.deliver(to, message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

func renderTemplate(name string, data interface{}) (string, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/"+name)
	if err != nil {
		return "", fmt.Errorf("failed to parse email template: %w", err)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return "", fmt.Errorf("failed to execute email template: %w", err)
	}

	return body.String(), nil
}

func (s *EmailService) buildMessage(to, subject, htmlBody string) []byte {
	from := fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)

	var message bytes.Buffer
	fmt.Fprintf(&message, "From: %s\r\n", from)
	fmt.Fprintf(&message, "To: %s\r\n", to)
	fmt.Fprintf(&message, "Subject: %s\r\n", subject)
	message.WriteString("MIME-Version: 1.0\r\n")
	message.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	message.WriteString("\r\n")
	message.WriteString(htmlBody)

	return message.Bytes()
}

func (s *EmailService) deliver(to string, message []byte) error {
	auth := smtp.PlainAuth("", s.username, s.password, s.smtpHost)

	tlsConfig := &tls.Config{
		ServerName: s.smtpHost,
	}

	addr := fmt.Sprintf("%s:%s", s.smtpHost, s.smtpPort)

	conn, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer conn.Close()

	if err = conn.StartTLS(tlsConfig); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}

	if err = conn.Auth(auth); err != nil {
		return fmt.Errorf("failed to authenticate: %w", err)
	}

	if err = conn.Mail(s.fromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}

	if err = conn.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := conn.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}

	if _, err = w.Write(message); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close writer: %w", err)
	}

	return conn.Quit()
}
