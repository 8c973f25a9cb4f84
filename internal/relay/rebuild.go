package relay

import (
	"context"
	"fmt"
	"time"

	"github.com/SlpAus/grade-relay-backend/internal/ledger"
	"github.com/SlpAus/grade-relay-backend/internal/platform/config"
	"github.com/SlpAus/grade-relay-backend/internal/platform/database"
	"github.com/SlpAus/grade-relay-backend/internal/platform/links"
	platformmeta "github.com/SlpAus/grade-relay-backend/internal/platform/metadata"
	"github.com/SlpAus/grade-relay-backend/internal/platform/storage"
)

// RebuildLinkRegistry 在Redis重启后从台账重建链接注册表。
// 台账是"链接曾经发出"的事实来源：对每条仍在有效期内的记录，
// 用剩余的有效期重新签发下载链接并登记。已过期的记录保持过期。
func RebuildLinkRegistry(ctx context.Context) error {
	records, err := ledger.ScanAll()
	if err != nil {
		return fmt.Errorf("链接重建: %w", err)
	}

	archiveBucket := config.Cfg.Storage.ArchiveBucket
	ttl := config.Cfg.LinkTTL()
	now := time.Now()

	rebuilt := 0
	for _, record := range records {
		issuedAt, err := time.Parse(time.RFC3339, record.Timestamp)
		if err != nil {
			fmt.Printf("链接重建: 台账记录 %s 的时间戳无法解析: %v\n", record.Identifier, err)
			continue
		}
		remaining := ttl - now.Sub(issuedAt)
		if remaining <= 0 {
			continue
		}

		url, err := storage.Store.Presign(ctx, archiveBucket, record.Identifier, remaining)
		if err != nil {
			return fmt.Errorf("链接重建: 无法重签链接 %s: %w", record.Identifier, err)
		}
		if err := links.Active.Register(record.Identifier, url, remaining); err != nil {
			return fmt.Errorf("链接重建: %w", err)
		}
		rebuilt++
	}

	if err := platformmeta.SetLastLinkRebuild(database.DB, now); err != nil {
		fmt.Printf("链接重建: 无法记录重建时间: %v\n", err)
	}
	fmt.Printf("链接重建完成: 恢复了 %d 个仍在有效期内的链接。\n", rebuilt)
	return nil
}
