package v1

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type upload struct {
	name      string
	data      []byte
	expiresAt time.Time
}

// uploadStore 上传内容暂存（按令牌取回，过期自动清理）
type uploadStore struct {
	mu    sync.Mutex
	items map[string]upload
	now   func() time.Time
}

func newUploadStore() *uploadStore {
	return &uploadStore{
		items: make(map[string]upload),
		now:   time.Now,
	}
}

func (s *uploadStore) put(name string, data []byte, ttl time.Duration) (token string, expiresAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.purgeExpiredLocked(now)

	token = uuid.NewString()
	expiresAt = now.Add(ttl)
	s.items[token] = upload{name: name, data: data, expiresAt: expiresAt}
	return token, expiresAt
}

func (s *uploadStore) get(token string) (upload, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.purgeExpiredLocked(now)

	v, ok := s.items[token]
	return v, ok
}

func (s *uploadStore) delete(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.items[token]
	delete(s.items, token)
	return ok
}

func (s *uploadStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.purgeExpiredLocked(s.now())
	return len(s.items)
}

func (s *uploadStore) purgeExpiredLocked(now time.Time) {
	for k, v := range s.items {
		if now.After(v.expiresAt) {
			delete(s.items, k)
		}
	}
}
