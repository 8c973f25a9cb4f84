package links

import (
	"sync"
	"time"
)

type memoryEntry struct {
	url       string
	expiresAt time.Time
}

// MemoryRegistry 是Registry的内存实现，供测试使用。
type MemoryRegistry struct {
	mu      sync.Mutex
	entries map[string]memoryEntry

	RegisterCalls int
}

// NewMemoryRegistry 创建一个空的内存注册表。
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{entries: make(map[string]memoryEntry)}
}

func (r *MemoryRegistry) Register(identifier, url string, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.RegisterCalls++
	r.entries[identifier] = memoryEntry{url: url, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (r *MemoryRegistry) IsActive(identifier string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[identifier]
	return ok && time.Now().Before(entry.expiresAt), nil
}

// URL 返回已注册链接的地址，供测试断言。
func (r *MemoryRegistry) URL(identifier string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.entries[identifier].url
}
