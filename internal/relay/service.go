package relay

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SlpAus/grade-relay-backend/internal/ledger"
	"github.com/SlpAus/grade-relay-backend/internal/metadata"
	"github.com/SlpAus/grade-relay-backend/internal/notify"
	"github.com/SlpAus/grade-relay-backend/internal/platform/config"
	"github.com/SlpAus/grade-relay-backend/internal/platform/links"
	"github.com/SlpAus/grade-relay-backend/internal/platform/storage"
	"github.com/SlpAus/grade-relay-backend/pkg/identifier"
)

// Outcome 是一次搬运的结果。
type Outcome struct {
	Identifier  string
	DownloadURL string
	// Notified 标记通知是否成功发出；通知失败不影响搬运和入账
	Notified  bool
	MessageID string
}

// Relocate 执行一次完整的附件搬运：
// 读取暂存对象的元数据并校验，生成匿名标识符，把内容（剥离元数据）写入归档桶，
// 签发限时下载链接，写入台账，最后尽力发送通知。
// 校验错误和源对象缺失在任何写入发生之前返回；通知失败只记录，不回滚。
func Relocate(ctx context.Context, bucket, key string) (*Outcome, error) {
	metaMap, err := storage.Store.HeadMetadata(ctx, bucket, key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, err
		}
		return nil, &DependencyError{Op: "head-metadata", Err: err}
	}

	// 规范化只在这里做一次，后续环节拿到的都是规范字段记录
	m := metadata.Normalize(metaMap)
	if err := m.Validate(); err != nil {
		return nil, err
	}

	content, err := storage.Store.Get(ctx, bucket, key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, err
		}
		return nil, &DependencyError{Op: "get-object", Err: err}
	}

	id, err := identifier.NewDocumentKey()
	if err != nil {
		return nil, &DependencyError{Op: "generate-identifier", Err: err}
	}

	archiveBucket := config.Cfg.Storage.ArchiveBucket
	ttl := config.Cfg.LinkTTL()

	// 归档对象不携带任何元数据，匿名标识符是它与台账之间唯一的关联
	if err := storage.Store.Put(ctx, archiveBucket, id, content, nil); err != nil {
		return nil, &DependencyError{Op: "put-archive", Err: err}
	}
	downloadURL, err := storage.Store.Presign(ctx, archiveBucket, id, ttl)
	if err != nil {
		return nil, &DependencyError{Op: "presign", Err: err}
	}

	record, err := ledger.NewRecord(id, m, time.Now())
	if err != nil {
		return nil, &DependencyError{Op: "build-record", Err: err}
	}
	if err := ledger.Append(record); err != nil {
		return nil, &DependencyError{Op: "ledger-append", Err: err}
	}
	fmt.Printf("搬运完成: %s/%s -> %s/%s\n", bucket, key, archiveBucket, id)

	if err := links.Active.Register(id, downloadURL, ttl); err != nil {
		// 注册表只服务读路径的链接状态展示，失败不阻断流水线
		fmt.Printf("搬运: 无法登记链接 %s: %v\n", id, err)
	}

	outcome := &Outcome{Identifier: id, DownloadURL: downloadURL}

	// 通知是尽力而为的收尾：归档和台账永远优先，发送失败只留下日志线索
	messageID, err := notify.SendReport(m, id, downloadURL)
	if err != nil {
		depErr := &DependencyError{Op: "notify", Err: err}
		fmt.Printf("搬运 (%s/%s): %v\n", bucket, key, depErr)
	} else {
		outcome.Notified = true
		outcome.MessageID = messageID
	}

	// 暂存对象恰好被消费一次，搬运成功后尽力删除源对象
	if err := storage.Store.Delete(ctx, bucket, key); err != nil {
		fmt.Printf("搬运: 无法删除暂存对象 %s/%s: %v\n", bucket, key, err)
	}

	return outcome, nil
}
