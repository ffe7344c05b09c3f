package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/afiliados-next/internal/cache"

	"github.com/google/uuid"
)

// FormSessionStore 表单会话存储
// Update 必须在同一原子步骤内检查提交锁并写入，持锁期间返回 ErrSubmissionInProgress
type FormSessionStore interface {
	Get(ctx context.Context, id string) (*cache.FormSession, bool, error)
	Save(ctx context.Context, session *cache.FormSession) error
	Update(ctx context.Context, id string, fn func(*cache.FormSession) error) (*cache.FormSession, error)
	Delete(ctx context.Context, id string) error
	TryLock(ctx context.Context, id string) (string, bool, error)
	Locked(ctx context.Context, id string) (bool, error)
	SaveLocked(ctx context.Context, session *cache.FormSession, token string) (bool, error)
	Unlock(ctx context.Context, id, token string) error
}

const submitLockMargin = 5 * time.Second

// SubmitLockTTL 提交锁有效期，不得短于远端写入超时
func SubmitLockTTL(configured, remoteTimeout time.Duration) time.Duration {
	floor := remoteTimeout + submitLockMargin
	if configured < floor {
		return floor
	}
	return configured
}

// RedisFormSessionStore Redis 实现，多实例部署时共享会话
type RedisFormSessionStore struct {
	ttl     time.Duration
	lockTTL time.Duration
}

// NewRedisFormSessionStore 创建 Redis 会话存储
func NewRedisFormSessionStore(ttl, lockTTL time.Duration) *RedisFormSessionStore {
	return &RedisFormSessionStore{ttl: ttl, lockTTL: lockTTL}
}

func (s *RedisFormSessionStore) Get(ctx context.Context, id string) (*cache.FormSession, bool, error) {
	return cache.GetFormSession(ctx, id)
}

func (s *RedisFormSessionStore) Save(ctx context.Context, session *cache.FormSession) error {
	return cache.SetFormSession(ctx, session, s.ttl)
}

func (s *RedisFormSessionStore) Update(ctx context.Context, id string, fn func(*cache.FormSession) error) (*cache.FormSession, error) {
	session, err := cache.UpdateFormSession(ctx, id, s.ttl, fn)
	switch {
	case errors.Is(err, cache.ErrFormSubmitLocked):
		return nil, ErrSubmissionInProgress
	case errors.Is(err, cache.ErrFormSessionMissing), errors.Is(err, cache.ErrCacheDisabled):
		return nil, ErrFormSessionNotFound
	}
	return session, err
}

func (s *RedisFormSessionStore) Delete(ctx context.Context, id string) error {
	return cache.DeleteFormSession(ctx, id)
}

func (s *RedisFormSessionStore) TryLock(ctx context.Context, id string) (string, bool, error) {
	token := uuid.NewString()
	ok, err := cache.AcquireFormSubmitLock(ctx, id, token, s.lockTTL)
	if err != nil || !ok {
		return "", false, err
	}
	return token, true, nil
}

func (s *RedisFormSessionStore) Locked(ctx context.Context, id string) (bool, error) {
	return cache.FormSubmitLocked(ctx, id)
}

func (s *RedisFormSessionStore) SaveLocked(ctx context.Context, session *cache.FormSession, token string) (bool, error) {
	return cache.SaveFormSessionLocked(ctx, session, token, s.ttl)
}

func (s *RedisFormSessionStore) Unlock(ctx context.Context, id, token string) error {
	_, err := cache.ReleaseFormSubmitLock(ctx, id, token)
	return err
}

type memoryFormEntry struct {
	session   cache.FormSession
	expiresAt time.Time
	lockToken string
}

func (e *memoryFormEntry) locked() bool {
	return e.lockToken != ""
}

// MemoryFormSessionStore 进程内实现，Redis 未启用时使用
type MemoryFormSessionStore struct {
	mu      sync.Mutex
	entries map[string]*memoryFormEntry
	ttl     time.Duration
	max     int
	now     func() time.Time
}

// NewMemoryFormSessionStore 创建进程内会话存储
func NewMemoryFormSessionStore(ttl time.Duration, maxSessions int) *MemoryFormSessionStore {
	if maxSessions <= 0 {
		maxSessions = 10000
	}
	return &MemoryFormSessionStore{
		entries: make(map[string]*memoryFormEntry),
		ttl:     ttl,
		max:     maxSessions,
		now:     time.Now,
	}
}

func (s *MemoryFormSessionStore) Get(_ context.Context, id string) (*cache.FormSession, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.liveEntry(id)
	if !ok {
		return nil, false, nil
	}
	session := entry.session
	session.State = session.State.Clone()
	return &session, true, nil
}

func (s *MemoryFormSessionStore) Save(_ context.Context, session *cache.FormSession) error {
	if session == nil || session.ID == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.liveEntry(session.ID)
	if !ok {
		s.evictLocked()
		entry = &memoryFormEntry{}
		s.entries[session.ID] = entry
	}
	entry.session = *session
	entry.session.State = session.State.Clone()
	entry.expiresAt = s.now().Add(s.ttl)
	return nil
}

func (s *MemoryFormSessionStore) Update(_ context.Context, id string, fn func(*cache.FormSession) error) (*cache.FormSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.liveEntry(id)
	if !ok {
		return nil, ErrFormSessionNotFound
	}
	if entry.locked() {
		return nil, ErrSubmissionInProgress
	}
	session := entry.session
	session.State = session.State.Clone()
	if err := fn(&session); err != nil {
		return nil, err
	}
	entry.session = session
	entry.session.State = session.State.Clone()
	entry.expiresAt = s.now().Add(s.ttl)
	return &session, nil
}

func (s *MemoryFormSessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
	return nil
}

func (s *MemoryFormSessionStore) TryLock(_ context.Context, id string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.liveEntry(id)
	if !ok || entry.locked() {
		return "", false, nil
	}
	entry.lockToken = uuid.NewString()
	return entry.lockToken, true, nil
}

func (s *MemoryFormSessionStore) Locked(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.liveEntry(id)
	return ok && entry.locked(), nil
}

func (s *MemoryFormSessionStore) SaveLocked(_ context.Context, session *cache.FormSession, token string) (bool, error) {
	if session == nil || token == "" {
		return false, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[session.ID]
	if !ok || entry.lockToken != token {
		return false, nil
	}
	entry.session = *session
	entry.session.State = session.State.Clone()
	entry.expiresAt = s.now().Add(s.ttl)
	return true, nil
}

func (s *MemoryFormSessionStore) Unlock(_ context.Context, id, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, ok := s.entries[id]; ok && entry.lockToken == token {
		entry.lockToken = ""
	}
	return nil
}

// Len 当前会话数
func (s *MemoryFormSessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *MemoryFormSessionStore) liveEntry(id string) (*memoryFormEntry, bool) {
	entry, ok := s.entries[id]
	if !ok {
		return nil, false
	}
	if s.ttl > 0 && !s.now().Before(entry.expiresAt) && !entry.locked() {
		delete(s.entries, id)
		return nil, false
	}
	return entry, true
}

// evictLocked 先清理过期会话，仍超限时淘汰最早过期的未锁定会话
func (s *MemoryFormSessionStore) evictLocked() {
	if len(s.entries) < s.max {
		return
	}
	now := s.now()
	for id, entry := range s.entries {
		if !entry.locked() && !now.Before(entry.expiresAt) {
			delete(s.entries, id)
		}
	}
	overflow := len(s.entries) - s.max + 1
	if overflow <= 0 {
		return
	}
	candidates := make([]string, 0, len(s.entries))
	for id, entry := range s.entries {
		if !entry.locked() {
			candidates = append(candidates, id)
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		return s.entries[candidates[i]].expiresAt.Before(s.entries[candidates[j]].expiresAt)
	})
	for i := 0; i < overflow && i < len(candidates); i++ {
		delete(s.entries, candidates[i])
	}
}
