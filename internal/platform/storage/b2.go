package storage

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/kurin/blazer/b2"
)

// B2Store 是ObjectStore的Backblaze B2实现。
// 桶句柄按名称惰性解析并缓存；下载链接使用B2的授权令牌机制。
type B2Store struct {
	client *b2.Client

	mu      sync.Mutex
	buckets map[string]*b2.Bucket
}

// NewB2Store 用账户凭据创建一个B2对象存储。
func NewB2Store(accountID, appKey string) (*B2Store, error) {
	client, err := b2.NewClient(context.Background(), accountID, appKey)
	if err != nil {
		return nil, fmt.Errorf("无法创建B2客户端: %w", err)
	}
	return &B2Store{
		client:  client,
		buckets: make(map[string]*b2.Bucket),
	}, nil
}

func (s *B2Store) bucket(ctx context.Context, name string) (*b2.Bucket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if bkt, ok := s.buckets[name]; ok {
		return bkt, nil
	}
	bkt, err := s.client.Bucket(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("无法获取B2桶 %s: %w", name, err)
	}
	s.buckets[name] = bkt
	return bkt, nil
}

func (s *B2Store) Put(ctx context.Context, bucket, key string, body []byte, metadata map[string]string) error {
	bkt, err := s.bucket(ctx, bucket)
	if err != nil {
		return err
	}

	w := bkt.Object(key).NewWriter(ctx)
	if len(metadata) > 0 {
		w = w.WithAttrs(&b2.Attrs{Info: metadata})
	}
	if _, err := w.Write(body); err != nil {
		w.Close()
		return fmt.Errorf("无法写入B2对象 %s/%s: %w", bucket, key, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("无法提交B2对象 %s/%s: %w", bucket, key, err)
	}
	return nil
}

func (s *B2Store) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	bkt, err := s.bucket(ctx, bucket)
	if err != nil {
		return nil, err
	}

	r := bkt.Object(key).NewReader(ctx)
	defer r.Close()
	body, err := io.ReadAll(r)
	if err != nil {
		if b2.IsNotExist(err) {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("无法读取B2对象 %s/%s: %w", bucket, key, err)
	}
	return body, nil
}

func (s *B2Store) HeadMetadata(ctx context.Context, bucket, key string) (map[string]string, error) {
	bkt, err := s.bucket(ctx, bucket)
	if err != nil {
		return nil, err
	}

	attrs, err := bkt.Object(key).Attrs(ctx)
	if err != nil {
		if b2.IsNotExist(err) {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("无法读取B2对象属性 %s/%s: %w", bucket, key, err)
	}
	if attrs.Info == nil {
		return map[string]string{}, nil
	}
	return attrs.Info, nil
}

func (s *B2Store) Presign(ctx context.Context, bucket, key string, ttl time.Duration) (string, error) {
	bkt, err := s.bucket(ctx, bucket)
	if err != nil {
		return "", err
	}

	// B2的授权令牌按前缀签发，这里用完整的对象键作为前缀，
	// 使令牌只能下载这一个对象。
	tok, err := bkt.AuthToken(ctx, key, ttl)
	if err != nil {
		return "", fmt.Errorf("无法签发B2下载令牌 %s/%s: %w", bucket, key, err)
	}
	return bkt.Object(key).URL() + "?Authorization=" + tok, nil
}

func (s *B2Store) List(ctx context.Context, bucket string) ([]ObjectInfo, error) {
	bkt, err := s.bucket(ctx, bucket)
	if err != nil {
		return nil, err
	}

	var infos []ObjectInfo
	iter := bkt.List(ctx)
	for iter.Next() {
		obj := iter.Object()
		attrs, err := obj.Attrs(ctx)
		if err != nil {
			return nil, fmt.Errorf("无法读取B2对象属性 %s/%s: %w", bucket, obj.Name(), err)
		}
		infos = append(infos, ObjectInfo{
			Key:          obj.Name(),
			Size:         attrs.Size,
			LastModified: attrs.UploadTimestamp,
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("无法遍历B2桶 %s: %w", bucket, err)
	}
	return infos, nil
}

func (s *B2Store) Delete(ctx context.Context, bucket, key string) error {
	bkt, err := s.bucket(ctx, bucket)
	if err != nil {
		return err
	}
	if err := bkt.Object(key).Delete(ctx); err != nil {
		if b2.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("无法删除B2对象 %s/%s: %w", bucket, key, err)
	}
	return nil
}
