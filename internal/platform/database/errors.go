package database

import (
	"strings"

	"github.com/mattn/go-sqlite3"
)

// IsDuplicateKeyError 判断一个GORM错误是否由主键/唯一索引冲突引起。
// 台账写入用它把触发层重复投递同一事件的情况与真实故障区分开。
func IsDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	if sqliteErr, ok := err.(sqlite3.Error); ok {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	// GORM有时会把驱动错误包装成纯文本
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed")
}

// IsRetryableError 判断一个错误是否为SQLite的瞬时忙错误，短暂等待后重试有意义。
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}
	if sqliteErr, ok := err.(sqlite3.Error); ok {
		return sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked
	}
	msg := err.Error()
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "database table is locked")
}
