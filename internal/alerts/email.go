package alerts

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"
)

// SMTPConfig carries the SMTP credentials for a single delivery. It is
// passed explicitly on each send so handlers can validate it up front.
type SMTPConfig struct {
	Host     string
	Port     int
	From     string
	Password string
}

// SMTPConfigFromEnv reads SMTP settings from the environment.
func SMTPConfigFromEnv() SMTPConfig {
	cfg := SMTPConfig{
		Host:     os.Getenv("SMTP_HOST"),
		Port:     587,
		From:     os.Getenv("SMTP_FROM"),
		Password: os.Getenv("SMTP_PASSWORD"),
	}
	if cfg.Host == "" {
		cfg.Host = "smtp.gmail.com"
	}
	if p, err := strconv.Atoi(os.Getenv("SMTP_PORT")); err == nil && p > 0 {
		cfg.Port = p
	}
	return cfg
}

// Complete reports whether the config has everything needed to send.
func (c SMTPConfig) Complete() bool {
	return c.Host != "" && c.Port > 0 && c.From != "" && c.Password != ""
}

var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="font-family: Arial, sans-serif; color: #222;">
<h2>Fleet status report</h2>
<p>Generated {{.GeneratedAt.Format "2006-01-02 15:04"}} UTC</p>
{{if .AllClear}}
<p style="color: #2e7d32; font-weight: bold;">All clear: no expirations, overdue maintenance or out-of-service vehicles.</p>
{{else}}
<p><strong>{{.TotalAlerts}}</strong> item(s) need attention.</p>
{{if .VehicleDocuments}}
<h3>Vehicle documents</h3>
<table border="1" cellpadding="6" cellspacing="0">
<tr><th>Status</th><th>Vehicle</th><th>Document</th><th>Detail</th></tr>
{{range .VehicleDocuments}}<tr><td>{{.Severity}}</td><td>{{.SubjectLabel}}</td><td>{{.Category}}</td><td>{{.Detail}}</td></tr>
{{end}}</table>
{{end}}
{{if .Maintenance}}
<h3>Maintenance</h3>
<table border="1" cellpadding="6" cellspacing="0">
<tr><th>Status</th><th>Vehicle</th><th>Item</th><th>Detail</th></tr>
{{range .Maintenance}}<tr><td>{{.Severity}}</td><td>{{.SubjectLabel}}</td><td>{{.Category}}</td><td>{{.Detail}}</td></tr>
{{end}}</table>
{{end}}
{{if .DriverCredentials}}
<h3>Driver credentials</h3>
<table border="1" cellpadding="6" cellspacing="0">
<tr><th>Status</th><th>Driver</th><th>Credential</th><th>Detail</th></tr>
{{range .DriverCredentials}}<tr><td>{{.Severity}}</td><td>{{.SubjectLabel}}</td><td>{{.Category}}</td><td>{{.Detail}}</td></tr>
{{end}}</table>
{{end}}
{{if .OutOfService}}
<h3>Out of service</h3>
<table border="1" cellpadding="6" cellspacing="0">
<tr><th>Vehicle</th><th>State</th><th>Notes</th></tr>
{{range .OutOfService}}<tr><td>{{.Plate}}</td><td>{{.State}}</td><td>{{.Notes}}</td></tr>
{{end}}</table>
{{end}}
{{end}}
</body>
</html>`))

// RenderHTML renders the report into the e-mail body.
func RenderHTML(report Report) (string, error) {
	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, report); err != nil {
		return "", fmt.Errorf("rendering report: %w", err)
	}
	return buf.String(), nil
}

// Mailer delivers rendered reports over SMTP.
type Mailer struct {
	cfg SMTPConfig
}

func NewMailer(cfg SMTPConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

// Send delivers the HTML body to the given recipients. A transport or auth
// failure comes back as an error, never a panic.
func (m *Mailer) Send(recipients []string, subject, htmlBody string) error {
	if len(recipients) == 0 {
		return fmt.Errorf("no recipients to deliver to")
	}
	if !m.cfg.Complete() {
		return fmt.Errorf("incomplete SMTP configuration")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", recipients...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	dialer := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.From, m.cfg.Password)
	if err := dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("sending alert mail: %w", err)
	}
	return nil
}
