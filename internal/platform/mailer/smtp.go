package mailer

import (
	"fmt"

	"github.com/SlpAus/grade-relay-backend/internal/platform/config"
	"github.com/google/uuid"
	"gopkg.in/gomail.v2"
)

// SMTPMailer 通过SMTP投递邮件。
type SMTPMailer struct {
	dialer *gomail.Dialer
}

// NewSMTPMailer 用配置的SMTP通道创建发送器。
func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

// Send 组装并投递一封text+HTML双格式邮件。
func (m *SMTPMailer) Send(msg Message) (string, error) {
	gm := gomail.NewMessage()
	gm.SetHeader("From", msg.From)
	gm.SetHeader("To", msg.To...)
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/plain", msg.TextBody)
	gm.AddAlternative("text/html", msg.HTMLBody)

	if err := m.dialer.DialAndSend(gm); err != nil {
		return "", fmt.Errorf("SMTP投递失败: %w", err)
	}
	// SMTP本身不返回消息ID，这里生成一个用于日志关联。
	return uuid.NewString(), nil
}
