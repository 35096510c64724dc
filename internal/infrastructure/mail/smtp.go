package mail

import (
	"context"

	"github.com/qiustore/backend/internal/application/notification"
	"github.com/qiustore/backend/internal/infrastructure/config"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// SMTPMailer sends mail through an SMTP relay via gomail. When no host is
// configured the mailer degrades to log-only mode: every send is recorded in
// the log and reported as not configured, never as an error.
type SMTPMailer struct {
	cfg    config.MailConfig
	dialer *gomail.Dialer
	logger *zap.Logger
}

// NewSMTPMailer creates a mailer from SMTP settings
func NewSMTPMailer(cfg config.MailConfig, logger *zap.Logger) *SMTPMailer {
	m := &SMTPMailer{cfg: cfg, logger: logger}
	if cfg.Host != "" {
		m.dialer = gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	}
	return m
}

// Send delivers one message, reporting the outcome instead of failing
func (m *SMTPMailer) Send(ctx context.Context, msg notification.Message) notification.Result {
	if m.dialer == nil {
		m.logger.Info("mail service not configured, skipping send",
			zap.String("to", msg.To),
			zap.String("subject", msg.Subject),
		)
		return notification.Result{
			Reason:  notification.ReasonNotConfigured,
			Warning: "mail service is not configured",
		}
	}

	gm := gomail.NewMessage()
	gm.SetHeader("From", m.cfg.From)
	gm.SetHeader("To", msg.To)
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/html", msg.Body)

	if err := m.dialer.DialAndSend(gm); err != nil {
		m.logger.Error("mail send failed",
			zap.String("to", msg.To),
			zap.String("subject", msg.Subject),
			zap.Error(err),
		)
		return notification.Result{
			Reason:  notification.ReasonSendFailed,
			Warning: "mail could not be delivered",
		}
	}

	m.logger.Info("mail sent",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
	)
	return notification.Result{Sent: true}
}
