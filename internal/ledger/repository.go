package ledger

import (
	"fmt"
	"time"

	"github.com/SlpAus/grade-relay-backend/internal/platform/database"
)

// SQLite短暂锁冲突的重试上限与间隔
const (
	maxAppendAttempts = 3
	appendRetryDelay  = 50 * time.Millisecond
)

// Append 以单次原子插入的方式持久化一条台账记录。
// 没有读-改-写，因此不同标识符的并发写入互不竞争；SQLite的瞬时忙错误
// 做有限次重试。标识符已存在说明触发层重复投递了同一事件：
// 记录日志并按已入账处理，这是接受的语义，而不是exactly-once保证。
func Append(record *Record) error {
	var err error
	for attempt := 1; attempt <= maxAppendAttempts; attempt++ {
		err = database.DB.Create(record).Error
		if err == nil {
			return nil
		}
		if database.IsDuplicateKeyError(err) {
			fmt.Printf("台账: 标识符 %s 已入账，按重复投递处理。\n", record.Identifier)
			return nil
		}
		if !database.IsRetryableError(err) || attempt == maxAppendAttempts {
			break
		}
		fmt.Printf("台账: 写入 %s 遇到数据库忙 (第%d次尝试)，稍后重试。\n", record.Identifier, attempt)
		time.Sleep(appendRetryDelay)
	}
	return fmt.Errorf("台账写入失败 (%s): %w", record.Identifier, err)
}

// ScanAll 返回台账中的全部记录。
// 这是一次无分页、无排序保证的全量扫描，只服务于辅助读路径；
// 台账增长超过单次扫描的承载能力后，完整性会下降，这一点是明确接受的。
func ScanAll() ([]Record, error) {
	var records []Record
	if err := database.DB.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("台账扫描失败: %w", err)
	}
	return records, nil
}
