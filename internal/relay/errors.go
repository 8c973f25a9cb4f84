package relay

import "fmt"

// DependencyError 表示某个外部协作方（存储、台账、通知通道）的调用失败，
// 且失败原因不是"对象不存在"。它携带失败的环节名，便于日志排查和人工重放。
type DependencyError struct {
	Op  string
	Err error
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("协作方调用失败 [%s]: %v", e.Op, e.Err)
}

func (e *DependencyError) Unwrap() error {
	return e.Err
}
