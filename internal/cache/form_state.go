package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/afiliados-next/internal/form"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrCacheDisabled Redis 未启用
	ErrCacheDisabled = errors.New("cache disabled")
	// ErrFormSessionMissing 会话不存在或已过期
	ErrFormSessionMissing = errors.New("form session missing")
	// ErrFormSubmitLocked 会话正在提交
	ErrFormSubmitLocked = errors.New("form session submit locked")
	// ErrFormSessionConflict 乐观锁重试耗尽
	ErrFormSessionConflict = errors.New("form session update conflict")
)

const formUpdateMaxRetries = 5

// 仅当锁仍属于 token 持有者时释放
var releaseFormLockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// 仅当锁仍属于 token 持有者时写入会话
var saveFormIfOwnerScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) ~= ARGV[1] then
	return 0
end
local ttl = tonumber(ARGV[3])
if ttl > 0 then
	redis.call("SET", KEYS[2], ARGV[2], "PX", ttl)
else
	redis.call("SET", KEYS[2], ARGV[2])
end
return 1
`)

// FormSession 表单会话快照
type FormSession struct {
	ID        string     `json:"id"`
	Locale    string     `json:"locale"`
	State     form.State `json:"state"`
	CreatedAt int64      `json:"created_at"`
	UpdatedAt int64      `json:"updated_at"`
}

func formStateKey(id string) string {
	return fmt.Sprintf("form:%s", strings.TrimSpace(id))
}

func formLockKey(id string) string {
	return fmt.Sprintf("form:%s:lock", strings.TrimSpace(id))
}

// GetFormSession 读取表单会话，不存在返回 false
func GetFormSession(ctx context.Context, id string) (*FormSession, bool, error) {
	if !Enabled() {
		return nil, false, ErrCacheDisabled
	}
	if strings.TrimSpace(id) == "" {
		return nil, false, nil
	}
	var session FormSession
	hit, err := GetJSON(ctx, formStateKey(id), &session)
	if err != nil || !hit {
		return nil, false, err
	}
	normalizeFormSession(&session)
	return &session, true, nil
}

func normalizeFormSession(session *FormSession) {
	if session.State.Errors == nil {
		session.State.Errors = form.Errors{}
	}
}

// SetFormSession 写入表单会话并刷新过期时间
func SetFormSession(ctx context.Context, session *FormSession, ttl time.Duration) error {
	if !Enabled() {
		return ErrCacheDisabled
	}
	if session == nil || strings.TrimSpace(session.ID) == "" {
		return nil
	}
	return SetJSON(ctx, formStateKey(session.ID), session, ttl)
}

// DeleteFormSession 删除表单会话及其提交锁
func DeleteFormSession(ctx context.Context, id string) error {
	if !Enabled() {
		return ErrCacheDisabled
	}
	if err := Del(ctx, formLockKey(id)); err != nil {
		return err
	}
	return Del(ctx, formStateKey(id))
}

// UpdateFormSession 在提交锁不存在时原子修改会话
// 使用 WATCH 监视会话与锁，期间任一变化则重试，fn 可能被调用多次
func UpdateFormSession(ctx context.Context, id string, ttl time.Duration, fn func(*FormSession) error) (*FormSession, error) {
	if !Enabled() {
		return nil, ErrCacheDisabled
	}
	if strings.TrimSpace(id) == "" {
		return nil, ErrFormSessionMissing
	}
	stateKey := buildKey(formStateKey(id))
	lockKey := buildKey(formLockKey(id))

	var updated *FormSession
	txf := func(tx *redis.Tx) error {
		locked, err := tx.Exists(ctx, lockKey).Result()
		if err != nil {
			return err
		}
		if locked > 0 {
			return ErrFormSubmitLocked
		}
		raw, err := tx.Get(ctx, stateKey).Bytes()
		if errors.Is(err, redis.Nil) {
			return ErrFormSessionMissing
		}
		if err != nil {
			return err
		}
		var session FormSession
		if err := json.Unmarshal(raw, &session); err != nil {
			return err
		}
		normalizeFormSession(&session)
		if err := fn(&session); err != nil {
			return err
		}
		payload, err := json.Marshal(&session)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, stateKey, payload, ttl)
			return nil
		})
		if err != nil {
			return err
		}
		updated = &session
		return nil
	}

	for attempt := 0; attempt < formUpdateMaxRetries; attempt++ {
		err := redisClient.Watch(ctx, txf, stateKey, lockKey)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return updated, nil
	}
	return nil, ErrFormSessionConflict
}

// AcquireFormSubmitLock 以 token 抢占提交锁，已被占用返回 false
func AcquireFormSubmitLock(ctx context.Context, id, token string, ttl time.Duration) (bool, error) {
	if !Enabled() {
		return false, ErrCacheDisabled
	}
	return SetNX(ctx, formLockKey(id), token, ttl)
}

// FormSubmitLocked 是否处于提交中
func FormSubmitLocked(ctx context.Context, id string) (bool, error) {
	if !Enabled() {
		return false, ErrCacheDisabled
	}
	return Exists(ctx, formLockKey(id))
}

// SaveFormSessionLocked 持锁写入会话，锁已过期或易主时返回 false
func SaveFormSessionLocked(ctx context.Context, session *FormSession, token string, ttl time.Duration) (bool, error) {
	if !Enabled() {
		return false, ErrCacheDisabled
	}
	if session == nil || strings.TrimSpace(session.ID) == "" {
		return false, nil
	}
	payload, err := json.Marshal(session)
	if err != nil {
		return false, err
	}
	keys := []string{buildKey(formLockKey(session.ID)), buildKey(formStateKey(session.ID))}
	res, err := saveFormIfOwnerScript.Run(ctx, redisClient, keys, token, payload, ttl.Milliseconds()).Int64()
	if err != nil {
		return false, err
	}
	return res == 1, nil
}

// ReleaseFormSubmitLock 释放自己持有的提交锁，返回是否真正释放
func ReleaseFormSubmitLock(ctx context.Context, id, token string) (bool, error) {
	if !Enabled() {
		return false, ErrCacheDisabled
	}
	res, err := releaseFormLockScript.Run(ctx, redisClient, []string{buildKey(formLockKey(id))}, token).Int64()
	if err != nil {
		return false, err
	}
	return res == 1, nil
}
