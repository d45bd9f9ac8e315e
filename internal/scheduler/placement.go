package scheduler

import "github.com/sysu-ecnc-dev/production-timeline/backend/internal/slot"

// Interval 是某条线路某一天上的一段占用，Owner 用于排除自身
type Interval struct {
	Owner    string
	Start    int
	Duration int
}

func (iv Interval) End() int {
	return iv.Start + iv.Duration
}

// Overlap 判断两个左闭右开区间是否相交
func Overlap(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && bStart < aEnd
}

// IsOccupied 当 [start, start+duration) 越界或与其他占用相交时返回 true
// exclude 为空表示不排除任何占用
func IsOccupied(blockers []Interval, start, duration int, exclude string) bool {
	if duration < 1 || start < 0 || start+duration > slot.PerDay {
		return true
	}
	for _, b := range blockers {
		if exclude != "" && b.Owner == exclude {
			continue
		}
		if Overlap(start, start+duration, b.Start, b.End()) {
			return true
		}
	}
	return false
}

// FindNextAvailable 先从 start 向后找，找不到再从 start-1 向前找
// 前后距离相同时取向后的一侧
func FindNextAvailable(blockers []Interval, start, duration int, exclude string) (int, bool) {
	if duration < 1 || duration > slot.PerDay {
		return 0, false
	}

	for s := max(start, 0); s <= slot.PerDay-duration; s++ {
		if !IsOccupied(blockers, s, duration, exclude) {
			return s, true
		}
	}

	for s := min(start-1, slot.PerDay-duration); s >= 0; s-- {
		if !IsOccupied(blockers, s, duration, exclude) {
			return s, true
		}
	}

	return 0, false
}

// FirstOverlap 返回第一个与区间相交的占用
func FirstOverlap(blockers []Interval, start, duration int, exclude string) (Interval, bool) {
	for _, b := range blockers {
		if exclude != "" && b.Owner == exclude {
			continue
		}
		if Overlap(start, start+duration, b.Start, b.End()) {
			return b, true
		}
	}
	return Interval{}, false
}
