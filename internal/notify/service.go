package notify

import (
	"fmt"

	"github.com/SlpAus/grade-relay-backend/internal/metadata"
	"github.com/SlpAus/grade-relay-backend/internal/platform/config"
	"github.com/SlpAus/grade-relay-backend/internal/platform/mailer"
)

// SendReport 把批改报告同时发给学生和教授。
// 收件人恰好两位，发件人是配置中固定的、经过验证的身份。
// 成功时返回投递通道给出的消息ID。
func SendReport(m metadata.GradingMetadata, identifier, downloadURL string) (string, error) {
	msg := mailer.Message{
		From:     config.Cfg.Mail.Sender,
		To:       []string{m.StudentEmail, m.ProfessorEmail},
		Subject:  config.Cfg.Mail.Subject,
		TextBody: composeText(m, identifier, downloadURL),
		HTMLBody: composeHTML(m, identifier, downloadURL),
	}

	messageID, err := mailer.Dispatcher.Send(msg)
	if err != nil {
		return "", fmt.Errorf("通知发送失败 (%s): %w", identifier, err)
	}
	fmt.Printf("通知已发送: %s -> %v (消息ID %s)\n", identifier, msg.To, messageID)
	return messageID, nil
}
