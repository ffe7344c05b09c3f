package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/afiliados-next/internal/constants"
	"github.com/afiliados-next/internal/form"
	"github.com/afiliados-next/internal/models"
	"github.com/afiliados-next/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type fakeAffiliateRepo struct {
	mu      sync.Mutex
	err     error
	calls   int
	created []models.Affiliate
	block   chan struct{}
	entered chan struct{}
}

func (r *fakeAffiliateRepo) Create(ctx context.Context, affiliate *models.Affiliate) error {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()
	if r.entered != nil {
		r.entered <- struct{}{}
	}
	if r.block != nil {
		select {
		case <-r.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if r.err != nil {
		return r.err
	}
	r.mu.Lock()
	r.created = append(r.created, *affiliate)
	r.mu.Unlock()
	return nil
}

func (r *fakeAffiliateRepo) Driver() string {
	return constants.StoreDriverPostgrest
}

func (r *fakeAffiliateRepo) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func setupAuditService(t *testing.T) (*RegistrationAuditService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.AutoMigrate(db, ""); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	return NewRegistrationAuditService(repository.NewRegistrationLogRepository(db)), db
}

func filledState() form.State {
	return form.NewState().
		With(form.FieldCURP, "gomc800101hdfnrl09").
		With(form.FieldSection, "12").
		With(form.FieldFullName, "maria gomez").
		With(form.FieldPromoter, "juan perez").
		With(form.FieldAffiliator, "ana lopez").
		With(form.FieldPhone, "55 1234 5678")
}

func TestSubmitSuccessClearsFormAndWritesAudit(t *testing.T) {
	audit, db := setupAuditService(t)
	repo := &fakeAffiliateRepo{}
	svc := NewAffiliateService(repo, audit, nil, time.Second)

	state := filledState()
	state.Success = "stale"
	got, err := svc.Submit(context.Background(), state, SubmitMeta{ClientIP: "1.2.3.4", RequestID: "req-1"})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if got.Values != (form.Values{}) {
		t.Fatalf("fields should be cleared, got %+v", got.Values)
	}
	if got.Success != form.MsgSubmitSuccess || got.Submitting || got.HasErrors() {
		t.Fatalf("unexpected state: %+v", got)
	}
	if len(repo.created) != 1 || repo.created[0].CURP != "GOMC800101HDFNRL09" || repo.created[0].Phone != "5512345678" {
		t.Fatalf("unexpected created rows: %+v", repo.created)
	}

	var log models.RegistrationLog
	if err := db.First(&log).Error; err != nil {
		t.Fatalf("audit log not written: %v", err)
	}
	if log.PhoneMasked != "******5678" || log.RequestID != "req-1" || log.StoreDriver != constants.StoreDriverPostgrest {
		t.Fatalf("unexpected audit log: %+v", log)
	}
}

func TestSubmitValidationSkipsRemote(t *testing.T) {
	repo := &fakeAffiliateRepo{}
	svc := NewAffiliateService(repo, nil, nil, 0)

	state := filledState().With(form.FieldSection, "12345").With(form.FieldPhone, "551234567")
	got, err := svc.Submit(context.Background(), state, SubmitMeta{})
	if !errors.Is(err, ErrAffiliateValidation) {
		t.Fatalf("want ErrAffiliateValidation got %v", err)
	}
	if repo.callCount() != 0 {
		t.Fatalf("remote must not be called on validation failure")
	}
	if got.Error(form.FieldSection) != form.MsgSectionInvalid || got.Error(form.FieldPhone) != form.MsgPhoneInvalid {
		t.Fatalf("unexpected errors: %v", got.Errors)
	}
	if got.Error(form.FieldCURP) != "" {
		t.Fatalf("valid curp should have no error")
	}
	if got.Values.Section != "12345" || got.Submitting {
		t.Fatalf("values should be kept and flag cleared: %+v", got)
	}
}

func TestSubmitDuplicateKeepsFields(t *testing.T) {
	repo := &fakeAffiliateRepo{err: repository.ErrDuplicateKey}
	svc := NewAffiliateService(repo, nil, nil, 0)

	before := filledState()
	before.Errors[form.FieldPhone] = form.MsgPhoneInvalid
	got, err := svc.Submit(context.Background(), before, SubmitMeta{})
	if !errors.Is(err, ErrAffiliateDuplicate) {
		t.Fatalf("want ErrAffiliateDuplicate got %v", err)
	}
	if got.Values != before.Values {
		t.Fatalf("fields should be kept: %+v", got.Values)
	}
	if len(got.Errors) != 1 || got.Error(form.FieldCURP) != form.MsgCURPDuplicate {
		t.Fatalf("only curp error expected, got %v", got.Errors)
	}
	if got.Success != "" || got.Submitting {
		t.Fatalf("unexpected flags: %+v", got)
	}
}

func TestSubmitGenericFailure(t *testing.T) {
	repo := &fakeAffiliateRepo{err: errors.New("connection reset")}
	svc := NewAffiliateService(repo, nil, nil, 0)

	before := filledState()
	got, err := svc.Submit(context.Background(), before, SubmitMeta{})
	if !errors.Is(err, ErrAffiliateSubmitFailed) {
		t.Fatalf("want ErrAffiliateSubmitFailed got %v", err)
	}
	if repo.callCount() != 1 {
		t.Fatalf("remote should be called exactly once, got %d", repo.callCount())
	}
	if got.Values != before.Values {
		t.Fatalf("fields should be kept")
	}
	if len(got.Errors) != 1 || got.Error(form.FieldForm) != form.MsgSubmitFailed {
		t.Fatalf("only generic error expected, got %v", got.Errors)
	}
	if got.Submitting {
		t.Fatalf("submitting flag should be cleared")
	}
}

func TestSubmitTimeoutIsGenericFailure(t *testing.T) {
	repo := &fakeAffiliateRepo{block: make(chan struct{})}
	svc := NewAffiliateService(repo, nil, nil, 20*time.Millisecond)

	got, err := svc.Submit(context.Background(), filledState(), SubmitMeta{})
	if !errors.Is(err, ErrAffiliateSubmitFailed) {
		t.Fatalf("want ErrAffiliateSubmitFailed got %v", err)
	}
	if got.Error(form.FieldForm) != form.MsgSubmitFailed || got.Error(form.FieldCURP) != "" {
		t.Fatalf("timeout should be generic failure: %v", got.Errors)
	}
}

func TestRegistrationAuditRejectsEmptyCURP(t *testing.T) {
	audit, _ := setupAuditService(t)
	if err := audit.Record(queuePayload("")); !errors.Is(err, ErrAuditPayloadInvalid) {
		t.Fatalf("want ErrAuditPayloadInvalid got %v", err)
	}
	if err := audit.Record(queuePayload("GOMC800101HDFNRL09")); err != nil {
		t.Fatalf("record failed: %v", err)
	}
	logs, total, err := audit.List(repository.RegistrationLogListFilter{})
	if err != nil || total != 1 || len(logs) != 1 {
		t.Fatalf("list want 1 row got total=%d err=%v", total, err)
	}
	if logs[0].RegisteredAt.IsZero() {
		t.Fatalf("registered_at should default to now")
	}
	if logs[0].BirthDate == nil || logs[0].BirthDate.Format("2006-01-02") != "1980-01-01" {
		t.Fatalf("birth date want 1980-01-01 got %v", logs[0].BirthDate)
	}
	if logs[0].Sex != "H" || logs[0].StateCode != "DF" {
		t.Fatalf("decoded curp fields want H/DF got %s/%s", logs[0].Sex, logs[0].StateCode)
	}
}

func TestRegistrationAuditKeepsSexWhenBirthDateImpossible(t *testing.T) {
	audit, _ := setupAuditService(t)
	if err := audit.Record(queuePayload("GOMC800231HDFNRL09")); err != nil {
		t.Fatalf("record failed: %v", err)
	}
	logs, _, err := audit.List(repository.RegistrationLogListFilter{})
	if err != nil || len(logs) != 1 {
		t.Fatalf("list want 1 row got %d err=%v", len(logs), err)
	}
	if logs[0].BirthDate != nil {
		t.Fatalf("impossible date should stay empty, got %v", logs[0].BirthDate)
	}
	if logs[0].Sex != "H" || logs[0].StateCode != "DF" {
		t.Fatalf("sex/state want H/DF got %s/%s", logs[0].Sex, logs[0].StateCode)
	}
}
