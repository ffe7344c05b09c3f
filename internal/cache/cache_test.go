package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/afiliados-next/internal/form"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func setupTestRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	Use(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "test")
	t.Cleanup(func() {
		_ = Close()
		Use(nil, "")
	})
	return mr
}

func TestDisabledCacheIsNoop(t *testing.T) {
	Use(nil, "")
	if Enabled() {
		t.Fatalf("cache should be disabled")
	}
	if err := SetJSON(context.Background(), "k", 1, time.Minute); err != nil {
		t.Fatalf("disabled SetJSON should be noop, got %v", err)
	}
	if _, _, err := GetFormSession(context.Background(), "x"); !errors.Is(err, ErrCacheDisabled) {
		t.Fatalf("want ErrCacheDisabled got %v", err)
	}
}

func TestFormSessionRoundTripAndTTL(t *testing.T) {
	mr := setupTestRedis(t)
	ctx := context.Background()

	state := form.NewState().With(form.FieldCURP, "gomc800101hdfnrl09")
	state.Errors[form.FieldPhone] = form.MsgPhoneInvalid
	session := &FormSession{ID: "abc", Locale: "es-MX", State: state}
	if err := SetFormSession(ctx, session, 10*time.Minute); err != nil {
		t.Fatalf("set session failed: %v", err)
	}

	if !mr.Exists("test:form:abc") {
		t.Fatalf("expected prefixed key test:form:abc")
	}
	if ttl := mr.TTL("test:form:abc"); ttl != 10*time.Minute {
		t.Fatalf("ttl want 10m got %s", ttl)
	}

	got, ok, err := GetFormSession(ctx, "abc")
	if err != nil || !ok {
		t.Fatalf("get session failed: ok=%v err=%v", ok, err)
	}
	if got.State.Values.CURP != "GOMC800101HDFNRL09" {
		t.Fatalf("unexpected curp: %s", got.State.Values.CURP)
	}
	if got.State.Error(form.FieldPhone) != form.MsgPhoneInvalid {
		t.Fatalf("errors not persisted: %v", got.State.Errors)
	}

	mr.FastForward(11 * time.Minute)
	if _, ok, _ := GetFormSession(ctx, "abc"); ok {
		t.Fatalf("session should expire")
	}
}

func TestFormSubmitLockOwnership(t *testing.T) {
	mr := setupTestRedis(t)
	ctx := context.Background()

	ok, err := AcquireFormSubmitLock(ctx, "abc", "first", time.Minute)
	if err != nil || !ok {
		t.Fatalf("first acquire want true got %v err=%v", ok, err)
	}
	ok, err = AcquireFormSubmitLock(ctx, "abc", "second", time.Minute)
	if err != nil || ok {
		t.Fatalf("second acquire want false got %v err=%v", ok, err)
	}
	locked, err := FormSubmitLocked(ctx, "abc")
	if err != nil || !locked {
		t.Fatalf("lock should be visible, got %v err=%v", locked, err)
	}

	mr.FastForward(2 * time.Minute)
	ok, err = AcquireFormSubmitLock(ctx, "abc", "second", time.Minute)
	if err != nil || !ok {
		t.Fatalf("acquire after expiry want true got %v err=%v", ok, err)
	}
	released, err := ReleaseFormSubmitLock(ctx, "abc", "first")
	if err != nil || released {
		t.Fatalf("stale token must not release, got %v err=%v", released, err)
	}
	if got, _ := mr.Get("test:form:abc:lock"); got != "second" {
		t.Fatalf("lock owner want second got %q", got)
	}
	released, err = ReleaseFormSubmitLock(ctx, "abc", "second")
	if err != nil || !released {
		t.Fatalf("owner release want true got %v err=%v", released, err)
	}
}

func TestSaveFormSessionLockedRequiresOwner(t *testing.T) {
	setupTestRedis(t)
	ctx := context.Background()

	session := &FormSession{ID: "abc", State: form.NewState().With(form.FieldSection, "12")}
	if _, err := AcquireFormSubmitLock(ctx, "abc", "owner", time.Minute); err != nil {
		t.Fatalf("acquire failed: %v", err)
	}
	saved, err := SaveFormSessionLocked(ctx, session, "intruder", time.Minute)
	if err != nil || saved {
		t.Fatalf("foreign token want false got %v err=%v", saved, err)
	}
	if _, ok, _ := GetFormSession(ctx, "abc"); ok {
		t.Fatalf("foreign token must not write the session")
	}
	saved, err = SaveFormSessionLocked(ctx, session, "owner", time.Minute)
	if err != nil || !saved {
		t.Fatalf("owner save want true got %v err=%v", saved, err)
	}
	got, ok, _ := GetFormSession(ctx, "abc")
	if !ok || got.State.Values.Section != "12" {
		t.Fatalf("owner save not persisted: %+v", got)
	}
}

func TestUpdateFormSessionRefusesWhileLocked(t *testing.T) {
	setupTestRedis(t)
	ctx := context.Background()

	if err := SetFormSession(ctx, &FormSession{ID: "abc", State: form.NewState()}, time.Minute); err != nil {
		t.Fatalf("set session failed: %v", err)
	}
	updated, err := UpdateFormSession(ctx, "abc", time.Minute, func(session *FormSession) error {
		session.State = session.State.With(form.FieldFullName, "ana")
		return nil
	})
	if err != nil || updated.State.Values.FullName != "ANA" {
		t.Fatalf("update want ANA got %+v err=%v", updated, err)
	}

	if _, err := AcquireFormSubmitLock(ctx, "abc", "owner", time.Minute); err != nil {
		t.Fatalf("acquire failed: %v", err)
	}
	_, err = UpdateFormSession(ctx, "abc", time.Minute, func(session *FormSession) error {
		session.State = session.State.With(form.FieldFullName, "luis")
		return nil
	})
	if !errors.Is(err, ErrFormSubmitLocked) {
		t.Fatalf("want ErrFormSubmitLocked got %v", err)
	}
	if _, err := UpdateFormSession(ctx, "missing", time.Minute, func(*FormSession) error { return nil }); !errors.Is(err, ErrFormSessionMissing) {
		t.Fatalf("want ErrFormSessionMissing got %v", err)
	}
}

func TestUpdateFormSessionRetriesWhenLockTakenMidway(t *testing.T) {
	setupTestRedis(t)
	ctx := context.Background()

	if err := SetFormSession(ctx, &FormSession{ID: "abc", State: form.NewState()}, time.Minute); err != nil {
		t.Fatalf("set session failed: %v", err)
	}
	calls := 0
	_, err := UpdateFormSession(ctx, "abc", time.Minute, func(session *FormSession) error {
		calls++
		if calls == 1 {
			// 提交方在读取之后、写入之前拿到锁
			if ok, err := AcquireFormSubmitLock(ctx, "abc", "submitter", time.Minute); err != nil || !ok {
				t.Fatalf("acquire inside update failed: ok=%v err=%v", ok, err)
			}
		}
		session.State = session.State.With(form.FieldFullName, "ana maria")
		return nil
	})
	if !errors.Is(err, ErrFormSubmitLocked) {
		t.Fatalf("want ErrFormSubmitLocked got %v", err)
	}
	got, ok, _ := GetFormSession(ctx, "abc")
	if !ok || got.State.Values.FullName != "" {
		t.Fatalf("interleaved update must not be written: %+v", got)
	}
}
