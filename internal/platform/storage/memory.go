package storage

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/SlpAus/grade-relay-backend/pkg/token"
)

type memoryObject struct {
	body     []byte
	metadata map[string]string
	modTime  time.Time
}

// MemoryStore 是ObjectStore的内存实现，用于测试和演示。
// 它额外记录各操作的调用次数，方便测试断言"没有发生写入"。
type MemoryStore struct {
	mu      sync.Mutex
	buckets map[string]map[string]memoryObject
	baseURL string

	PutCalls     int
	DeleteCalls  int
	PresignCalls int
}

// NewMemoryStore 创建一个空的内存对象存储。
func NewMemoryStore(baseURL string) *MemoryStore {
	return &MemoryStore{
		buckets: make(map[string]map[string]memoryObject),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (s *MemoryStore) Put(ctx context.Context, bucket, key string, body []byte, metadata map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.PutCalls++

	if s.buckets[bucket] == nil {
		s.buckets[bucket] = make(map[string]memoryObject)
	}
	metaCopy := make(map[string]string, len(metadata))
	for k, v := range metadata {
		metaCopy[k] = v
	}
	s.buckets[bucket][key] = memoryObject{
		body:     append([]byte(nil), body...),
		metadata: metaCopy,
		modTime:  time.Now(),
	}
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	obj, ok := s.buckets[bucket][key]
	if !ok {
		return nil, ErrObjectNotFound
	}
	return append([]byte(nil), obj.body...), nil
}

func (s *MemoryStore) HeadMetadata(ctx context.Context, bucket, key string) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	obj, ok := s.buckets[bucket][key]
	if !ok {
		return nil, ErrObjectNotFound
	}
	metaCopy := make(map[string]string, len(obj.metadata))
	for k, v := range obj.metadata {
		metaCopy[k] = v
	}
	return metaCopy, nil
}

func (s *MemoryStore) Presign(ctx context.Context, bucket, key string, ttl time.Duration) (string, error) {
	s.mu.Lock()
	s.PresignCalls++
	s.mu.Unlock()

	tok, err := token.GenerateDownloadToken(bucket, key, ttl)
	if err != nil {
		return "", err
	}
	return s.baseURL + "/files/" + tok, nil
}

func (s *MemoryStore) List(ctx context.Context, bucket string) ([]ObjectInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var infos []ObjectInfo
	for key, obj := range s.buckets[bucket] {
		infos = append(infos, ObjectInfo{
			Key:          key,
			Size:         int64(len(obj.body)),
			LastModified: obj.modTime,
		})
	}
	return infos, nil
}

func (s *MemoryStore) Delete(ctx context.Context, bucket, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.DeleteCalls++

	delete(s.buckets[bucket], key)
	return nil
}

// ObjectCount 返回桶内对象数量，供测试使用。
func (s *MemoryStore) ObjectCount(bucket string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.buckets[bucket])
}

// SetModTime 覆盖一个对象的修改时间，供janitor的过期测试使用。
func (s *MemoryStore) SetModTime(bucket, key string, t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if obj, ok := s.buckets[bucket][key]; ok {
		obj.modTime = t
		s.buckets[bucket][key] = obj
	}
}
