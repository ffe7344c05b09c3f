package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/afiliados-next/internal/cache"
	"github.com/afiliados-next/internal/form"
	"github.com/afiliados-next/internal/logger"

	"github.com/google/uuid"
)

// FormSessionService 服务端表单状态
// 浏览器每次字段变更都经由 UpdateField 归一化，提交时以会话为单位加锁
type FormSessionService struct {
	store     FormSessionStore
	affiliate *AffiliateService
	now       func() time.Time
}

// NewFormSessionService 创建表单会话服务
func NewFormSessionService(store FormSessionStore, affiliate *AffiliateService) *FormSessionService {
	return &FormSessionService{
		store:     store,
		affiliate: affiliate,
		now:       time.Now,
	}
}

// Create 新建空表单会话
func (s *FormSessionService) Create(ctx context.Context, locale string) (*cache.FormSession, error) {
	now := s.now().Unix()
	session := &cache.FormSession{
		ID:        uuid.NewString(),
		Locale:    strings.TrimSpace(locale),
		State:     form.NewState(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormSessionSave, err)
	}
	return session, nil
}

// Get 读取会话，提交中的会话 Submitting 为 true
func (s *FormSessionService) Get(ctx context.Context, id string) (*cache.FormSession, error) {
	session, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	locked, err := s.store.Locked(ctx, session.ID)
	if err != nil {
		return nil, err
	}
	session.State.Submitting = locked
	return session, nil
}

// UpdateField 归一化并写入单个字段；提交中拒绝修改
// 锁检查与写入由存储在同一原子步骤内完成
func (s *FormSessionService) UpdateField(ctx context.Context, id, rawField, value string) (*cache.FormSession, error) {
	field, ok := form.ParseField(rawField)
	if !ok {
		return nil, ErrFormFieldInvalid
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrFormSessionNotFound
	}
	session, err := s.store.Update(ctx, id, func(session *cache.FormSession) error {
		session.State = session.State.With(field, value)
		session.UpdatedAt = s.now().Unix()
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrFormSessionNotFound) || errors.Is(err, ErrSubmissionInProgress) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrFormSessionSave, err)
	}
	return session, nil
}

// Submit 抢占会话提交锁后执行提交，同一会话同时只允许一次提交
// 加锁后重新读取会话，提交的是锁定时刻的最新值
// 返回的 error 为提交结果分类（见 AffiliateService.Submit）或会话错误
func (s *FormSessionService) Submit(ctx context.Context, id string, meta SubmitMeta) (*cache.FormSession, error) {
	if _, err := s.load(ctx, id); err != nil {
		return nil, err
	}
	id = strings.TrimSpace(id)
	token, acquired, err := s.store.TryLock(ctx, id)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, ErrSubmissionInProgress
	}
	defer func() {
		// 请求被取消时仍需释放锁
		if unlockErr := s.store.Unlock(context.WithoutCancel(ctx), id, token); unlockErr != nil {
			logger.Warnw("form_session_unlock_failed", "session_id", id, "error", unlockErr)
		}
	}()

	session, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	state, submitErr := s.affiliate.Submit(ctx, session.State, meta)
	session.State = state
	session.UpdatedAt = s.now().Unix()
	saved, err := s.store.SaveLocked(context.WithoutCancel(ctx), session, token)
	switch {
	case err != nil:
		logger.Warnw("form_session_save_failed", "session_id", id, "error", err)
	case !saved:
		logger.Warnw("form_session_lock_lost", "session_id", id)
	}
	return session, submitErr
}

func (s *FormSessionService) load(ctx context.Context, id string) (*cache.FormSession, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrFormSessionNotFound
	}
	session, ok, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, cache.ErrCacheDisabled) {
			return nil, ErrFormSessionNotFound
		}
		return nil, err
	}
	if !ok || session == nil {
		return nil, ErrFormSessionNotFound
	}
	return session, nil
}
