package ledger

import (
	"fmt"

	"github.com/SlpAus/grade-relay-backend/internal/platform/database"
)

// PrimeDB 负责初始化台账的数据库表结构。
func PrimeDB() error {
	if err := database.DB.AutoMigrate(&Record{}); err != nil {
		return fmt.Errorf("无法迁移台账表: %w", err)
	}
	fmt.Println("台账数据库表迁移成功。")
	return nil
}
