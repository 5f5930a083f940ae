package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/xiaodeng873/CareApp/internal/careslot"
	"github.com/xiaodeng873/CareApp/internal/model"
	"github.com/xiaodeng873/CareApp/internal/repository"
)

// ErrExportGenerateFail 產生 Excel 失敗
var ErrExportGenerateFail = errors.New("產生 Excel 檔案失敗")

// ExportService 匯出業務介面
//
// 說明：
//   - 匯出院友一週（星期一至星期日）的照護表為 .xlsx
//   - 列為固定時段，欄為日期；格內為記錄摘要、逾時或空白
//   - 以 bytes.Buffer 回傳，由 Handler 設定回應標頭
type ExportService interface {
	ExportCareWeek(ctx context.Context, residentID int64, ct careslot.CareType, date string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo         *repository.Repository
	clock        careslot.Clock
	facilityName string
	logger       *zap.Logger
}

// NewExportService 建立 ExportService 實例
func NewExportService(repo *repository.Repository, clock careslot.Clock, facilityName string, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, clock: clock, facilityName: facilityName, logger: logger}
}

var weekdayNames = [7]string{"一", "二", "三", "四", "五", "六", "日"}

// ═══════════════════════════════════════════════════════════
// ExportCareWeek 匯出一週照護表
// ═══════════════════════════════════════════════════════════
//
// 版面：
//   - 第 1 列：院舍名稱 床號 姓名 照護類型 日期區間
//   - 第 2 列：時段 | (轉身另有 建議體位) | 一 10/12 ... 日 10/18
//   - 之後每個時段一列
//
// 回傳值：buf（Excel 內容）, filename（建議檔名）, error

func (s *exportService) ExportCareWeek(ctx context.Context, residentID int64, ct careslot.CareType, date string) (*bytes.Buffer, string, error) {
	now := s.clock.Now()

	anchor := careslot.Today(now)
	if date != "" {
		d, err := careslot.ParseDate(date)
		if err != nil {
			return nil, "", ErrInvalidDate
		}
		anchor = d
	}
	week := careslot.WeekOf(anchor)

	// 1. 院友
	res, err := s.repo.Resident.GetByID(ctx, residentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrResidentNotFound
		}
		s.logger.Error("查詢院友失敗", zap.Int64("resident_id", residentID), zap.Error(err))
		return nil, "", backendErr(err)
	}

	// 2. 當週記錄
	records, err := s.repo.CareRecord.ListByRange(ctx, ct, residentID, week[0], week[6])
	if err != nil {
		s.logger.Error("查詢照護記錄失敗", zap.Int64("resident_id", residentID), zap.Error(err))
		return nil, "", backendErr(err)
	}
	grid := careslot.BuildGrid(ct, week, now, asSlotRecords(records))

	// 3. 產生 Excel
	f := excelize.NewFile()
	defer f.Close()

	sheetName := ct.Label() + "記錄"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	firstDateCol := 2
	if ct == careslot.CarePosition {
		firstDateCol = 3
	}
	lastCol := firstDateCol + len(week) - 1

	f.SetColWidth(sheetName, "A", "A", 12)
	if ct == careslot.CarePosition {
		f.SetColWidth(sheetName, "B", "B", 10)
	}
	f.SetColWidth(sheetName, colName(firstDateCol-1), colName(lastCol-1), 20)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	overdueStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Color: "#C00000"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#FCE4E4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	doneStyle, _ := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", WrapText: true},
	})

	// 標題列
	title := strings.TrimSpace(fmt.Sprintf("%s %s %s %s記錄 (%s ~ %s)",
		s.facilityName, res.BedCode, res.DisplayName, ct.Label(), week[0], week[6]))
	f.SetCellValue(sheetName, "A1", title)
	f.MergeCell(sheetName, "A1", cell(colName(lastCol-1), 1))
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	// 表頭
	f.SetCellValue(sheetName, cell("A", 2), "時段")
	if ct == careslot.CarePosition {
		f.SetCellValue(sheetName, cell("B", 2), "建議體位")
	}
	for i, d := range week {
		f.SetCellValue(sheetName, cell(colName(firstDateCol-1+i), 2),
			fmt.Sprintf("%s %d/%d", weekdayNames[i], int(d.Month), d.Day))
	}
	f.SetCellStyle(sheetName, "A2", cell(colName(lastCol-1), 2), headerStyle)

	// 資料列
	row := 3
	for _, gr := range grid.Rows {
		f.SetCellValue(sheetName, cell("A", row), gr.Slot)
		if ct == careslot.CarePosition {
			f.SetCellValue(sheetName, cell("B", row), gr.SuggestedPosition)
		}
		for i, c := range gr.Cells {
			ref := cell(colName(firstDateCol-1+i), row)
			switch c.Status.Kind {
			case careslot.StatusCompleted:
				f.SetCellValue(sheetName, ref, recordSummary(c.Status.Record))
				f.SetCellStyle(sheetName, ref, ref, doneStyle)
			case careslot.StatusOverdue:
				f.SetCellValue(sheetName, ref, "逾時")
				f.SetCellStyle(sheetName, ref, ref, overdueStyle)
			}
		}
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("寫入 Excel 失敗", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("%s_%s_%s.xlsx", res.BedCode, ct.Label(), week[0])
	return buf, filename, nil
}

// recordSummary 格內文字：記錄內容 + 記錄者
func recordSummary(rec careslot.Record) string {
	var detail string
	switch r := rec.(type) {
	case *model.PatrolRound:
		detail = shortTime(r.PatrolTime)
	case *model.DiaperChangeRecord:
		var parts []string
		if r.HasUrine {
			parts = append(parts, "小便"+deref(r.UrineAmount))
		}
		if r.HasStool {
			parts = append(parts, "大便"+deref(r.StoolColor)+deref(r.StoolTexture)+deref(r.StoolAmount))
		}
		if r.HasNone {
			parts = append(parts, "無")
		}
		detail = strings.Join(parts, "/")
	case *model.PositionChangeRecord:
		detail = r.Position
	case *model.RestraintObservationRecord:
		detail = r.ObservationStatus + " " + shortTime(r.ObservationTime)
	}

	if cr, ok := rec.(model.CareRecord); ok && cr.RecorderName() != "" {
		return detail + "\n" + cr.RecorderName()
	}
	return detail
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// ── 輔助函式 ──

// colName 0 起算的欄位序號轉為 A、B、C…
func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
