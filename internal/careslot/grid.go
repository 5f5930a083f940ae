package careslot

import "time"

// GridCell 表格中一格：某日期的某個時段
type GridCell struct {
	Date   Date
	Status SlotStatus
}

// GridRow 表格中一列：一個時段橫跨所有日期
type GridRow struct {
	Slot      string
	SlotIndex int
	// SuggestedPosition 只在轉身類型填入
	SuggestedPosition string
	Cells             []GridCell
}

// Grid 時段 × 日期 的狀態表
type Grid struct {
	CareType CareType
	Dates    []Date
	Rows     []GridRow
}

// BuildGrid 依固定時段順序建表，每格呼叫 StatusOf。
// 未知類型屬於程式錯誤（經 SlotsFor panic）。
func BuildGrid(ct CareType, dates []Date, now time.Time, records []Record) Grid {
	slots := SlotsFor(ct)
	grid := Grid{
		CareType: ct,
		Dates:    append([]Date(nil), dates...),
		Rows:     make([]GridRow, 0, len(slots)),
	}
	for i, slot := range slots {
		row := GridRow{
			Slot:      slot,
			SlotIndex: i,
			Cells:     make([]GridCell, 0, len(dates)),
		}
		if ct == CarePosition {
			row.SuggestedPosition = SuggestedPosition(i)
		}
		for _, d := range dates {
			row.Cells = append(row.Cells, GridCell{
				Date:   d,
				Status: StatusOf(ct, d, slot, now, records),
			})
		}
		grid.Rows = append(grid.Rows, row)
	}
	return grid
}

// Summary 統計各狀態的格數
func (g Grid) Summary() map[StatusKind]int {
	out := map[StatusKind]int{
		StatusPending:   0,
		StatusCompleted: 0,
		StatusOverdue:   0,
	}
	for _, row := range g.Rows {
		for _, cell := range row.Cells {
			out[cell.Status.Kind]++
		}
	}
	return out
}
