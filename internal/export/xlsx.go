package export

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/afiliados-next/internal/models"
	"github.com/afiliados-next/internal/repository"

	"github.com/xuri/excelize/v2"
)

// 导出工作表名
const (
	SheetName        = "Afiliados"
	SummarySheetName = "Resumen"
)

const (
	dateLayout      = "2006-01-02"
	timeLayout      = "2006-01-02 15:04:05"
	defaultPageSize = 500
)

// RegistrationHeader 导出表头
var RegistrationHeader = []string{
	"CURP",
	"SECCIÓN",
	"PROMOTOR@",
	"AFILIADOR@",
	"TELÉFONO",
	"FECHA DE REGISTRO",
	"IP",
	"REQUEST ID",
}

var columnWidths = []float64{22, 10, 28, 28, 14, 20, 16, 38}

// SummaryHeader 汇总表头
var SummaryHeader = []string{"FECHA", "PROMOTOR@", "REGISTROS"}

var summaryColumnWidths = []float64{14, 28, 12}

// RegistrationLogLister 审计日志分页查询
type RegistrationLogLister interface {
	List(filter repository.RegistrationLogListFilter) ([]models.RegistrationLog, int64, error)
}

// ParseDateRange 解析 YYYY-MM-DD 日期区间，to 包含当天
func ParseDateRange(from, to string, loc *time.Location) (*time.Time, *time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	var start, end *time.Time
	if text := strings.TrimSpace(from); text != "" {
		parsed, err := time.ParseInLocation(dateLayout, text, loc)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid from date %q: %w", text, err)
		}
		start = &parsed
	}
	if text := strings.TrimSpace(to); text != "" {
		parsed, err := time.ParseInLocation(dateLayout, text, loc)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid to date %q: %w", text, err)
		}
		next := parsed.AddDate(0, 0, 1)
		end = &next
	}
	if start != nil && end != nil && !start.Before(*end) {
		return nil, nil, errors.New("from date must not be after to date")
	}
	return start, end, nil
}

// CollectRegistrationLogs 按页读取全部符合条件的日志
func CollectRegistrationLogs(lister RegistrationLogLister, filter repository.RegistrationLogListFilter) ([]models.RegistrationLog, error) {
	if lister == nil {
		return nil, errors.New("registration log lister is nil")
	}
	if filter.PageSize <= 0 {
		filter.PageSize = defaultPageSize
	}
	filter.Page = 1

	var result []models.RegistrationLog
	for {
		rows, total, err := lister.List(filter)
		if err != nil {
			return nil, err
		}
		result = append(result, rows...)
		if len(rows) < filter.PageSize || int64(len(result)) >= total {
			return result, nil
		}
		filter.Page++
	}
}

// WriteRegistrationLogs 生成登记日志 xlsx 并写入 w；summary 为空时不生成汇总表
func WriteRegistrationLogs(w io.Writer, logs []models.RegistrationLog, summary []repository.RegistrationDailySummary, loc *time.Location) error {
	if loc == nil {
		loc = time.Local
	}
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(SheetName)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("delete default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	if err := writeHeader(f, SheetName, RegistrationHeader, columnWidths, headerStyle); err != nil {
		return err
	}
	for i, log := range logs {
		// 选区与电话按文本写入，保留前导零
		row := []interface{}{
			log.CURP,
			log.Section,
			log.Promoter,
			log.Affiliator,
			log.PhoneMasked,
			log.RegisteredAt.In(loc).Format(timeLayout),
			log.ClientIP,
			log.RequestID,
		}
		if err := writeRow(f, SheetName, i+2, row); err != nil {
			return err
		}
	}

	if len(summary) > 0 {
		if _, err := f.NewSheet(SummarySheetName); err != nil {
			return fmt.Errorf("create summary sheet: %w", err)
		}
		if err := writeHeader(f, SummarySheetName, SummaryHeader, summaryColumnWidths, headerStyle); err != nil {
			return err
		}
		for i, item := range summary {
			if err := writeRow(f, SummarySheetName, i+2, []interface{}{item.Day, item.Promoter, item.Total}); err != nil {
				return err
			}
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

func writeHeader(f *excelize.File, sheet string, headers []string, widths []float64, style int) error {
	if err := writeRow(f, sheet, 1, toRow(headers)); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return fmt.Errorf("set header style: %w", err)
	}
	for col, width := range widths {
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, name, name, width); err != nil {
			return fmt.Errorf("set column width: %w", err)
		}
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, rowNumber int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNumber)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, rowNumber, err)
	}
	return nil
}

func toRow(values []string) []interface{} {
	row := make([]interface{}, len(values))
	for i, value := range values {
		row[i] = value
	}
	return row
}
