package links

import (
	"fmt"
	"time"

	"github.com/SlpAus/grade-relay-backend/internal/platform/database"
)

// Registry 记录已经发出去的限时下载链接。
// 台账是"链接曾经发出"的持久事实来源；注册表只回答"这个链接现在还活着吗"，
// 因此它天然适合放在带TTL的Redis里，丢失后可以从台账重建。
type Registry interface {
	// Register 记录一个标识符对应的链接，ttl之后自动过期。
	Register(identifier, url string, ttl time.Duration) error
	// IsActive 返回标识符对应的链接是否仍在有效期内。
	IsActive(identifier string) (bool, error)
}

// Active 是全局的链接注册表实例。
var Active Registry

// InitRegistry 装配Redis实现的链接注册表。
func InitRegistry() {
	Active = &redisRegistry{}
	fmt.Println("链接注册表已初始化。")
}

// linkKey 是Redis中链接记录的键前缀。
const linkKeyPrefix = "link:"

type redisRegistry struct{}

func (r *redisRegistry) Register(identifier, url string, ttl time.Duration) error {
	if err := database.RDB.Set(database.Ctx, linkKeyPrefix+identifier, url, ttl).Err(); err != nil {
		return fmt.Errorf("无法记录链接 %s: %w", identifier, err)
	}
	return nil
}

func (r *redisRegistry) IsActive(identifier string) (bool, error) {
	if !database.IsRedisHealthy() {
		// Redis不可用时读路径降级：统一报告为不活跃，而不是失败。
		return false, nil
	}
	n, err := database.RDB.Exists(database.Ctx, linkKeyPrefix+identifier).Result()
	if err != nil {
		return false, fmt.Errorf("无法查询链接状态 %s: %w", identifier, err)
	}
	return n > 0, nil
}
