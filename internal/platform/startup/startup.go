package startup

import (
	"context"
	"fmt"

	"github.com/SlpAus/grade-relay-backend/internal/ledger"
	"github.com/SlpAus/grade-relay-backend/internal/platform/metadata"
	"github.com/SlpAus/grade-relay-backend/internal/relay"
)

// InitializeApplication 是应用首次启动时执行的总入口
func InitializeApplication() error {
	fmt.Println("开始应用首次初始化...")

	if err := metadata.PrimeDB(); err != nil {
		return err
	}
	if err := ledger.PrimeDB(); err != nil {
		return err
	}

	// 进程重启期间Redis可能也重启过，run_id基线检测不到这种情况，
	// 因此启动时无条件从台账重建一次链接注册表
	if err := relay.RebuildLinkRegistry(context.Background()); err != nil {
		return err
	}

	fmt.Println("应用初始化完成！")
	return nil
}

// RebuildCache 在运行时热重建Redis中的链接注册表。
// 健康检查器发现Redis重启后调用它，从台账恢复仍在有效期内的下载链接。
func RebuildCache() error {
	fmt.Println("开始缓存热重建...")

	if err := relay.RebuildLinkRegistry(context.Background()); err != nil {
		return err
	}

	fmt.Println("缓存热重建完成。")
	return nil
}
