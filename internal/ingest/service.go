package ingest

import (
	"bytes"
	"context"
	"fmt"

	"github.com/SlpAus/grade-relay-backend/internal/metadata"
	"github.com/SlpAus/grade-relay-backend/internal/platform/config"
	"github.com/SlpAus/grade-relay-backend/internal/platform/storage"
	"github.com/google/uuid"
	"github.com/jhillyerd/enmime"
)

// ParseError 表示邮件的信封无法读取。
// enmime把大多数结构问题记为解析缺陷并继续，退化输入（空对象、乱码）
// 也会被宽容地解析成一封空邮件；只有信封本身读不出来才会走到这里。
// 对这一封邮件是致命的，但不影响进程级状态。
type ParseError struct {
	Source string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("邮件解析失败 (%s): %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Result 是一次邮件分解的结果。
type Result struct {
	// Staged 是本次写入暂存桶的对象键
	Staged []string
	// Warnings 是元数据提取过程中的非致命警告
	Warnings []string
}

// DecomposeEmail 读取一封原始邮件，提取纯文本正文中的批改元数据，
// 并把每个附件连同元数据一起写入暂存桶。
// 没有纯文本正文或没有附件都不是错误：没有工作也是合法的结果。
func DecomposeEmail(ctx context.Context, bucket, key string) (*Result, error) {
	raw, err := storage.Store.Get(ctx, bucket, key)
	if err != nil {
		return nil, err
	}

	env, err := enmime.ReadEnvelope(bytes.NewReader(raw))
	if err != nil {
		return nil, &ParseError{Source: bucket + "/" + key, Err: err}
	}

	meta, warnings := metadata.ExtractFromBody(env.Text)
	for _, w := range warnings {
		fmt.Printf("邮件分解警告 (%s/%s): %s\n", bucket, key, w)
	}

	result := &Result{Warnings: warnings}
	stagingBucket := config.Cfg.Storage.StagingBucket
	metaMap := meta.StorageMap()

	for _, att := range env.Attachments {
		filename := att.FileName
		if filename == "" {
			filename = "attachment"
		}
		// uuid前缀避免两封邮件携带同名附件时互相覆盖
		stagedKey := uuid.NewString() + "/" + filename

		if err := storage.Store.Put(ctx, stagingBucket, stagedKey, att.Content, metaMap); err != nil {
			return nil, fmt.Errorf("无法暂存附件 %s: %w", filename, err)
		}
		fmt.Printf("附件已暂存: %s/%s (%d 字节)\n", stagingBucket, stagedKey, len(att.Content))
		result.Staged = append(result.Staged, stagedKey)
	}

	if len(result.Staged) == 0 {
		fmt.Printf("邮件 %s/%s 不包含附件，无需暂存。\n", bucket, key)
	}
	return result, nil
}
