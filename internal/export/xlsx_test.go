package export

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/afiliados-next/internal/models"
	"github.com/afiliados-next/internal/repository"

	"github.com/xuri/excelize/v2"
)

type pagedLister struct {
	rows    []models.RegistrationLog
	filters []repository.RegistrationLogListFilter
	err     error
}

func (l *pagedLister) List(filter repository.RegistrationLogListFilter) ([]models.RegistrationLog, int64, error) {
	l.filters = append(l.filters, filter)
	if l.err != nil {
		return nil, 0, l.err
	}
	start := (filter.Page - 1) * filter.PageSize
	if start >= len(l.rows) {
		return nil, int64(len(l.rows)), nil
	}
	end := start + filter.PageSize
	if end > len(l.rows) {
		end = len(l.rows)
	}
	return l.rows[start:end], int64(len(l.rows)), nil
}

func TestWriteRegistrationLogs(t *testing.T) {
	registeredAt := time.Date(2026, 3, 5, 14, 30, 0, 0, time.UTC)
	logs := []models.RegistrationLog{
		{
			CURP:         "GOMC800101HDFNRL09",
			Section:      "0012",
			Promoter:     "JUAN",
			Affiliator:   "ANA",
			PhoneMasked:  "******5678",
			ClientIP:     "10.0.0.1",
			RequestID:    "req-1",
			RegisteredAt: registeredAt,
		},
	}

	var buf bytes.Buffer
	summary := []repository.RegistrationDailySummary{{Day: "2026-03-05", Promoter: "JUAN", Total: 1}}
	if err := WriteRegistrationLogs(&buf, logs, summary, time.UTC); err != nil {
		t.Fatalf("write xlsx failed: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open xlsx failed: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	if err != nil {
		t.Fatalf("read rows failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows want 2 got %d", len(rows))
	}
	if rows[0][0] != "CURP" || len(rows[0]) != len(RegistrationHeader) {
		t.Fatalf("unexpected header: %v", rows[0])
	}
	if rows[1][1] != "0012" {
		t.Fatalf("section should keep leading zeros, got %q", rows[1][1])
	}
	if rows[1][5] != "2026-03-05 14:30:00" {
		t.Fatalf("unexpected registered_at cell: %q", rows[1][5])
	}
	if sheets := f.GetSheetList(); len(sheets) != 2 || sheets[0] != SheetName || sheets[1] != SummarySheetName {
		t.Fatalf("unexpected sheets: %v", sheets)
	}
	summaryRows, err := f.GetRows(SummarySheetName)
	if err != nil {
		t.Fatalf("read summary failed: %v", err)
	}
	if len(summaryRows) != 2 || summaryRows[1][0] != "2026-03-05" || summaryRows[1][2] != "1" {
		t.Fatalf("unexpected summary rows: %v", summaryRows)
	}
}

func TestWriteRegistrationLogsWithoutSummary(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteRegistrationLogs(&buf, nil, nil, time.UTC); err != nil {
		t.Fatalf("write empty xlsx failed: %v", err)
	}
	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open xlsx failed: %v", err)
	}
	defer f.Close()
	if sheets := f.GetSheetList(); len(sheets) != 1 {
		t.Fatalf("summary sheet should be skipped, got %v", sheets)
	}
	rows, err := f.GetRows(SheetName)
	if err != nil {
		t.Fatalf("read rows failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("only header expected, got %d rows", len(rows))
	}
}

func TestCollectRegistrationLogsPaginates(t *testing.T) {
	lister := &pagedLister{}
	for i := 0; i < 5; i++ {
		lister.rows = append(lister.rows, models.RegistrationLog{ID: uint(i + 1)})
	}

	got, err := CollectRegistrationLogs(lister, repository.RegistrationLogListFilter{PageSize: 2, Promoter: "JUAN"})
	if err != nil {
		t.Fatalf("collect failed: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("collected want 5 got %d", len(got))
	}
	if len(lister.filters) != 3 {
		t.Fatalf("pages want 3 got %d", len(lister.filters))
	}
	if lister.filters[2].Page != 3 || lister.filters[2].Promoter != "JUAN" {
		t.Fatalf("filter not carried across pages: %+v", lister.filters[2])
	}
}

func TestCollectRegistrationLogsError(t *testing.T) {
	boom := errors.New("db down")
	if _, err := CollectRegistrationLogs(&pagedLister{err: boom}, repository.RegistrationLogListFilter{}); !errors.Is(err, boom) {
		t.Fatalf("expected lister error, got %v", err)
	}
}

func TestParseDateRange(t *testing.T) {
	from, to, err := ParseDateRange("2026-01-01", "2026-01-31", time.UTC)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if !from.Equal(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected from: %s", from)
	}
	if !to.Equal(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("to should be exclusive next day, got %s", to)
	}

	if from, to, err := ParseDateRange("", "", time.UTC); err != nil || from != nil || to != nil {
		t.Fatalf("empty range should be open, got %v %v %v", from, to, err)
	}
	if _, _, err := ParseDateRange("2026-13-01", "", time.UTC); err == nil {
		t.Fatalf("invalid month should fail")
	}
	if _, _, err := ParseDateRange("2026-02-02", "2026-02-01", time.UTC); err == nil {
		t.Fatalf("inverted range should fail")
	}
}
