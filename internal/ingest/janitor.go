package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/SlpAus/grade-relay-backend/internal/platform/config"
	"github.com/SlpAus/grade-relay-backend/internal/platform/storage"
	"github.com/SlpAus/grade-relay-backend/pkg/lifecycle"
)

// sweepInterval 是暂存桶清扫的轮询间隔。
const sweepInterval = 10 * time.Minute

// StartStagingJanitor 启动后台清扫服务。
// 暂存对象应当被搬运流程恰好消费一次；没有被消费的（例如校验失败的）
// 在超过保留时长后由janitor清理掉。
func StartStagingJanitor(handle *lifecycle.Handle) {
	go func() {
		defer handle.Close()
		for {
			if err := handle.Sleep(sweepInterval); err != nil {
				fmt.Println("暂存清扫服务: 收到停机信号，退出。")
				return
			}
			if n, err := SweepStaging(handle.Ctx()); err != nil {
				fmt.Printf("暂存清扫失败: %v\n", err)
			} else if n > 0 {
				fmt.Printf("暂存清扫: 清理了 %d 个过期对象。\n", n)
			}
		}
	}()
}

// SweepStaging 清理暂存桶中超过保留时长的对象，返回清理数量。
func SweepStaging(ctx context.Context) (int, error) {
	stagingBucket := config.Cfg.Storage.StagingBucket
	cutoff := time.Now().Add(-config.Cfg.StagingRetention())

	infos, err := storage.Store.List(ctx, stagingBucket)
	if err != nil {
		return 0, fmt.Errorf("无法遍历暂存桶: %w", err)
	}

	removed := 0
	for _, info := range infos {
		if info.LastModified.After(cutoff) {
			continue
		}
		if err := storage.Store.Delete(ctx, stagingBucket, info.Key); err != nil {
			fmt.Printf("暂存清扫: 无法删除 %s: %v\n", info.Key, err)
			continue
		}
		removed++
	}
	return removed, nil
}
