package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/SlpAus/grade-relay-backend/pkg/token"
)

// LocalStore 把对象保存在本地文件系统上：<root>/<bucket>/<key>。
// 用户元数据保存在平行的 <root>/.meta/<bucket>/<key>.json 中，
// 避免元数据文件混进对象列表。下载链接用pkg/token签发的能力令牌实现。
type LocalStore struct {
	root    string
	baseURL string
}

// NewLocalStore 创建一个以root为根目录的本地对象存储。
func NewLocalStore(root, baseURL string) *LocalStore {
	return &LocalStore{root: root, baseURL: strings.TrimRight(baseURL, "/")}
}

func (s *LocalStore) objectPath(bucket, key string) string {
	return filepath.Join(s.root, bucket, filepath.FromSlash(key))
}

func (s *LocalStore) metaPath(bucket, key string) string {
	return filepath.Join(s.root, ".meta", bucket, filepath.FromSlash(key)+".json")
}

// Put 写入对象内容和元数据边车文件。
func (s *LocalStore) Put(ctx context.Context, bucket, key string, body []byte, metadata map[string]string) error {
	objPath := s.objectPath(bucket, key)
	if err := os.MkdirAll(filepath.Dir(objPath), 0o755); err != nil {
		return fmt.Errorf("无法创建对象目录: %w", err)
	}
	if err := os.WriteFile(objPath, body, 0o644); err != nil {
		return fmt.Errorf("无法写入对象 %s/%s: %w", bucket, key, err)
	}

	if len(metadata) == 0 {
		return nil
	}
	metaPath := s.metaPath(bucket, key)
	if err := os.MkdirAll(filepath.Dir(metaPath), 0o755); err != nil {
		return fmt.Errorf("无法创建元数据目录: %w", err)
	}
	metaBytes, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("无法序列化对象元数据: %w", err)
	}
	if err := os.WriteFile(metaPath, metaBytes, 0o644); err != nil {
		return fmt.Errorf("无法写入对象元数据 %s/%s: %w", bucket, key, err)
	}
	return nil
}

// Get 读取对象内容。
func (s *LocalStore) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	body, err := os.ReadFile(s.objectPath(bucket, key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("无法读取对象 %s/%s: %w", bucket, key, err)
	}
	return body, nil
}

// HeadMetadata 读取对象的用户元数据。对象存在但没有元数据时返回空映射。
func (s *LocalStore) HeadMetadata(ctx context.Context, bucket, key string) (map[string]string, error) {
	if _, err := os.Stat(s.objectPath(bucket, key)); err != nil {
		if os.IsNotExist(err) {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("无法访问对象 %s/%s: %w", bucket, key, err)
	}

	metaBytes, err := os.ReadFile(s.metaPath(bucket, key))
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("无法读取对象元数据 %s/%s: %w", bucket, key, err)
	}
	var metadata map[string]string
	if err := json.Unmarshal(metaBytes, &metadata); err != nil {
		return nil, fmt.Errorf("对象元数据损坏 %s/%s: %w", bucket, key, err)
	}
	return metadata, nil
}

// Presign 签发一个带HMAC签名和过期时间的下载URL。
func (s *LocalStore) Presign(ctx context.Context, bucket, key string, ttl time.Duration) (string, error) {
	tok, err := token.GenerateDownloadToken(bucket, key, ttl)
	if err != nil {
		return "", err
	}
	return s.baseURL + "/files/" + tok, nil
}

// List 遍历桶目录，返回全部对象信息。桶目录不存在视为空桶。
func (s *LocalStore) List(ctx context.Context, bucket string) ([]ObjectInfo, error) {
	bucketDir := filepath.Join(s.root, bucket)
	var infos []ObjectInfo
	err := filepath.Walk(bucketDir, func(path string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(bucketDir, path)
		if err != nil {
			return err
		}
		infos = append(infos, ObjectInfo{
			Key:          filepath.ToSlash(rel),
			Size:         fi.Size(),
			LastModified: fi.ModTime(),
		})
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("无法遍历桶 %s: %w", bucket, err)
	}
	return infos, nil
}

// Delete 删除对象及其元数据边车。对象不存在不算错误。
func (s *LocalStore) Delete(ctx context.Context, bucket, key string) error {
	if err := os.Remove(s.objectPath(bucket, key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("无法删除对象 %s/%s: %w", bucket, key, err)
	}
	if err := os.Remove(s.metaPath(bucket, key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("无法删除对象元数据 %s/%s: %w", bucket, key, err)
	}
	return nil
}
