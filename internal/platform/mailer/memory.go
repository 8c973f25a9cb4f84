package mailer

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

// MemoryMailer 是Mailer的记录式内存实现，供测试断言发送行为。
type MemoryMailer struct {
	mu   sync.Mutex
	sent []Message

	// FailNext 为true时，下一次Send会失败一次，用于测试通知的fail-open路径。
	FailNext bool
}

// NewMemoryMailer 创建一个空的记录式发送器。
func NewMemoryMailer() *MemoryMailer {
	return &MemoryMailer{}
}

func (m *MemoryMailer) Send(msg Message) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailNext {
		m.FailNext = false
		return "", errors.New("模拟的邮件投递失败")
	}
	m.sent = append(m.sent, msg)
	return uuid.NewString(), nil
}

// Sent 返回已记录的全部邮件副本。
func (m *MemoryMailer) Sent() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Message(nil), m.sent...)
}
