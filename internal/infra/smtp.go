package infra

import (
	"fmt"
	"net/smtp"

	"github.com/Neakz-star/La-Desesperanza/internal/config"

	"github.com/jordan-wright/email"
	"github.com/shopspring/decimal"
)

// Mailer wraps SMTP configuration for sending emails with PDF attachments.
type Mailer struct {
	host     string
	port     int
	user     string
	password string
	addr     string
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
	}
}

// Enabled reports whether SMTP is configured at all; the ticket worker skips
// mailing when it is not.
func (m *Mailer) Enabled() bool { return m.host != "" }

// SendTicket mails a PDF receipt to the customer.
func (m *Mailer) SendTicket(to, subject, body, pdfPath string) error {
	e := email.NewEmail()
	e.From = m.user
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(body)

	if pdfPath != "" {
		if _, err := e.AttachFile(pdfPath); err != nil {
			return fmt.Errorf("mailer: attach PDF: %w", err)
		}
	}

	auth := smtp.PlainAuth("", m.user, m.password, m.host)
	return e.Send(m.addr, auth)
}

// decimalFromInt is shared by the receipt renderers.
func decimalFromInt(n int) decimal.Decimal { return decimal.NewFromInt(int64(n)) }
