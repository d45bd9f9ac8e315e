package timeline

import (
	"maps"

	"github.com/sysu-ecnc-dev/production-timeline/backend/internal/domain"
	"github.com/sysu-ecnc-dev/production-timeline/backend/internal/scheduler"
	"github.com/sysu-ecnc-dev/production-timeline/backend/internal/slot"
)

// snapshot 一经发布便不再修改，写操作都在 clone 出来的副本上进行
type snapshot struct {
	assignments map[slot.Key]domain.Assignment // 键为起始格子
	byOrder     map[string]slot.Key
	bookOuts    map[string]domain.BookOut
}

func newSnapshot() *snapshot {
	return &snapshot{
		assignments: make(map[slot.Key]domain.Assignment),
		byOrder:     make(map[string]slot.Key),
		bookOuts:    make(map[string]domain.BookOut),
	}
}

func (s *snapshot) clone() *snapshot {
	return &snapshot{
		assignments: maps.Clone(s.assignments),
		byOrder:     maps.Clone(s.byOrder),
		bookOuts:    maps.Clone(s.bookOuts),
	}
}

func (s *snapshot) assignmentOf(orderID string) (domain.Assignment, bool) {
	key, ok := s.byOrder[orderID]
	if !ok {
		return domain.Assignment{}, false
	}
	a, ok := s.assignments[key]
	return a, ok
}

func (s *snapshot) putAssignment(a domain.Assignment) {
	s.removeAssignment(a.OrderID)
	s.assignments[a.Key()] = a
	s.byOrder[a.OrderID] = a.Key()
}

func (s *snapshot) removeAssignment(orderID string) bool {
	key, ok := s.byOrder[orderID]
	if !ok {
		return false
	}
	delete(s.assignments, key)
	delete(s.byOrder, orderID)
	return true
}

// lineAssignments 按起始格子顺序返回某条线路当天的排产
func (s *snapshot) lineAssignments(view slot.View, date slot.Date, line int) []domain.Assignment {
	var out []domain.Assignment
	for st := 0; st < slot.PerDay; st++ {
		if a, ok := s.assignments[slot.KeyOf(view, date, line, st)]; ok {
			out = append(out, a)
		}
	}
	return out
}

func (s *snapshot) lineBookOuts(view slot.View, date slot.Date, line int) []domain.BookOut {
	var out []domain.BookOut
	for _, b := range s.bookOuts {
		if b.View == view && b.Date == date && b.Line == line {
			out = append(out, b)
		}
	}
	return out
}

func bookOutOwner(id string) string {
	return "bookout:" + id
}

func assignmentBlockers(as []domain.Assignment) []scheduler.Interval {
	out := make([]scheduler.Interval, 0, len(as))
	for _, a := range as {
		out = append(out, scheduler.Interval{Owner: a.OrderID, Start: a.Start, Duration: a.Duration})
	}
	return out
}

func bookOutBlockers(bs []domain.BookOut) []scheduler.Interval {
	out := make([]scheduler.Interval, 0, len(bs))
	for _, b := range bs {
		out = append(out, scheduler.Interval{Owner: bookOutOwner(b.ID), Start: b.Start, Duration: b.Duration})
	}
	return out
}
