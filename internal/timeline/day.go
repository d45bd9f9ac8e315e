package timeline

import (
	"fmt"

	"github.com/sysu-ecnc-dev/production-timeline/backend/internal/domain"
	"github.com/sysu-ecnc-dev/production-timeline/backend/internal/scheduler"
	"github.com/sysu-ecnc-dev/production-timeline/backend/internal/slot"
)

type CellKind string

const (
	CellEmpty          CellKind = "empty"
	CellAssignment     CellKind = "assignment"
	CellAssignmentSpan CellKind = "assignment_span"
	CellBookOut        CellKind = "bookout"
	CellBookOutSpan    CellKind = "bookout_span"
)

// Cell 只有起始格子会带上完整的卡片数据，被跨越的格子只标记类型
type Cell struct {
	Slot       int                `json:"slot"`
	Label      string             `json:"label"`
	Kind       CellKind           `json:"kind"`
	Assignment *domain.Assignment `json:"assignment,omitempty"`
	BookOut    *domain.BookOut    `json:"bookOut,omitempty"`
}

type LineView struct {
	Line  int    `json:"line"`
	Cells []Cell `json:"cells"`
}

type DayView struct {
	Board string     `json:"board"`
	View  slot.View  `json:"view"`
	Date  slot.Date  `json:"date"`
	Lines []LineView `json:"lines"`
}

// Day 生成某一天的渲染模型，整张图来自同一个快照
func (b *Board) Day(date slot.Date) DayView {
	cur := b.state.Load()

	dv := DayView{
		Board: b.name,
		View:  b.view,
		Date:  date,
		Lines: make([]LineView, 0, slot.LineCount),
	}

	for line := 0; line < slot.LineCount; line++ {
		cells := make([]Cell, slot.PerDay)
		for s := range cells {
			cells[s] = Cell{Slot: s, Label: slot.Label(s), Kind: CellEmpty}
		}

		for _, a := range cur.lineAssignments(b.view, date, line) {
			card := a
			cells[a.Start].Kind = CellAssignment
			cells[a.Start].Assignment = &card
			for s := a.Start + 1; s < a.End() && s < slot.PerDay; s++ {
				cells[s].Kind = CellAssignmentSpan
			}
		}
		for _, bo := range cur.lineBookOuts(b.view, date, line) {
			card := bo
			cells[bo.Start].Kind = CellBookOut
			cells[bo.Start].BookOut = &card
			for s := bo.Start + 1; s < bo.End() && s < slot.PerDay; s++ {
				cells[s].Kind = CellBookOutSpan
			}
		}

		dv.Lines = append(dv.Lines, LineView{Line: line, Cells: cells})
	}

	return dv
}

// Verify 检查所有线路上的占用是否两两不重叠
func (b *Board) Verify() error {
	cur := b.state.Load()

	type dayLine struct {
		date slot.Date
		line int
	}
	groups := make(map[dayLine][]scheduler.Interval)
	for key, a := range cur.assignments {
		if key != a.Key() {
			return fmt.Errorf("订单 %s 的存储键与起始格子不一致", a.OrderID)
		}
		if a.Duration < 1 || a.End() > slot.PerDay {
			return fmt.Errorf("订单 %s 的时长越界", a.OrderID)
		}
		k := dayLine{a.Date, a.Line}
		groups[k] = append(groups[k], scheduler.Interval{Owner: a.OrderID, Start: a.Start, Duration: a.Duration})
	}
	for _, bo := range cur.bookOuts {
		if bo.Duration < 1 || bo.End() > slot.PerDay {
			return fmt.Errorf("停机时段 %s 的时长越界", bo.ID)
		}
		k := dayLine{bo.Date, bo.Line}
		groups[k] = append(groups[k], scheduler.Interval{Owner: bookOutOwner(bo.ID), Start: bo.Start, Duration: bo.Duration})
	}

	for k, ivs := range groups {
		for i := 0; i < len(ivs); i++ {
			for j := i + 1; j < len(ivs); j++ {
				if scheduler.Overlap(ivs[i].Start, ivs[i].End(), ivs[j].Start, ivs[j].End()) {
					return fmt.Errorf("%s 线路 %d 上 %s 与 %s 重叠", k.date, k.line, ivs[i].Owner, ivs[j].Owner)
				}
			}
		}
	}

	if len(cur.byOrder) != len(cur.assignments) {
		return fmt.Errorf("订单索引数量 %d 与排产数量 %d 不一致", len(cur.byOrder), len(cur.assignments))
	}
	return nil
}
