package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SlpAus/grade-relay-backend/internal/platform/config"
)

// ErrObjectNotFound 表示引用的对象在桶中不存在。
// 它让调用方能把"源对象缺失"和一般的存储I/O错误区分开。
var ErrObjectNotFound = errors.New("对象不存在")

// ObjectInfo 描述桶内一个对象的基本信息，供janitor等遍历场景使用。
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// ObjectStore 是耐久对象存储协作方的接口。
// 核心流水线只依赖这个接口；生产环境由local或b2实现，测试用memory实现替换。
type ObjectStore interface {
	// Put 将对象写入桶中，metadata以用户元数据的形式附着在对象上。
	Put(ctx context.Context, bucket, key string, body []byte, metadata map[string]string) error
	// Get 读取对象的全部内容。对象不存在时返回ErrObjectNotFound。
	Get(ctx context.Context, bucket, key string) ([]byte, error)
	// HeadMetadata 只读取对象的用户元数据，不取回内容。
	HeadMetadata(ctx context.Context, bucket, key string) (map[string]string, error)
	// Presign 为对象签发一个限时下载链接。
	Presign(ctx context.Context, bucket, key string, ttl time.Duration) (string, error)
	// List 返回桶内全部对象的信息。
	List(ctx context.Context, bucket string) ([]ObjectInfo, error)
	// Delete 删除对象。删除不存在的对象不算错误。
	Delete(ctx context.Context, bucket, key string) error
}

// Store 是全局的对象存储实例，在启动时由InitStore按配置装配。
var Store ObjectStore

// InitStore 根据配置选择并初始化对象存储后端。
func InitStore(cfg config.StorageConfig, baseURL string) {
	switch cfg.Backend {
	case "", "local":
		Store = NewLocalStore(cfg.LocalRoot, baseURL)
		fmt.Printf("对象存储已初始化: local (%s)\n", cfg.LocalRoot)
	case "b2":
		store, err := NewB2Store(cfg.B2.AccountID, cfg.B2.AppKey)
		if err != nil {
			panic("无法初始化B2对象存储: " + err.Error())
		}
		Store = store
		fmt.Println("对象存储已初始化: b2")
	case "memory":
		Store = NewMemoryStore(baseURL)
		fmt.Println("对象存储已初始化: memory (仅用于演示和测试)")
	default:
		panic("未知的对象存储后端: " + cfg.Backend)
	}
}
