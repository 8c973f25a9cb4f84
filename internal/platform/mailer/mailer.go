package mailer

import (
	"fmt"

	"github.com/SlpAus/grade-relay-backend/internal/platform/config"
)

// Message 描述一封待发送的双格式通知邮件。
type Message struct {
	From     string
	To       []string
	Subject  string
	TextBody string
	HTMLBody string
}

// Mailer 是外发邮件协作方的接口。
// 生产环境由SMTP实现；测试用记录式的memory实现替换。
type Mailer interface {
	// Send 投递一封邮件，成功时返回消息ID。
	Send(msg Message) (string, error)
}

// Dispatcher 是全局的邮件发送实例，在启动时由InitMailer装配。
var Dispatcher Mailer

// InitMailer 根据配置初始化SMTP邮件通道。
func InitMailer(cfg config.MailConfig) {
	Dispatcher = NewSMTPMailer(cfg.SMTP)
	fmt.Printf("邮件通道已初始化: %s:%d\n", cfg.SMTP.Host, cfg.SMTP.Port)
}
