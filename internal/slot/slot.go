package slot

import (
	"fmt"
	"time"
)

const (
	PerDay       = 18 // 8:00 - 17:00
	Minutes      = 30
	DayStartHour = 8
	LineCount    = 5
)

// View 标识一组排产线路，目前只有印刷线
type View string

const (
	ViewPrinters View = "printers"
)

func ParseView(s string) (View, error) {
	switch View(s) {
	case ViewPrinters:
		return ViewPrinters, nil
	default:
		return "", fmt.Errorf("未知的视图 %q", s)
	}
}

// Key 是排产格子的复合键，存储时使用起始格子
type Key struct {
	View View
	Date Date
	Line int
	Slot int
}

func KeyOf(view View, date Date, line, slot int) Key {
	return Key{View: view, Date: date, Line: line, Slot: slot}
}

func ValidLine(line int) bool {
	return line >= 0 && line < LineCount
}

func ValidSlot(slot int) bool {
	return slot >= 0 && slot < PerDay
}

// Label 把格子序号转换成展示用的时间，例如 0 -> "8am"，5 -> "10:30am"
// PerDay 本身表示一天的结束时间
func Label(slot int) string {
	minutes := DayStartHour*60 + slot*Minutes
	hour, minute := minutes/60, minutes%60

	suffix := "am"
	if hour >= 12 {
		suffix = "pm"
	}
	h12 := hour % 12
	if h12 == 0 {
		h12 = 12
	}

	if minute == 0 {
		return fmt.Sprintf("%d%s", h12, suffix)
	}
	return fmt.Sprintf("%d:%02d%s", h12, minute, suffix)
}

func RangeLabel(start, duration int) string {
	return Label(start) + " - " + Label(start+duration)
}

// StartTime 返回格子在某一天的开始时刻
func StartTime(date Date, slot int, loc *time.Location) time.Time {
	return date.In(loc).Add(time.Duration(DayStartHour*60+slot*Minutes) * time.Minute)
}

// SlotsForMinutes 向上取整到半小时，至少占一个格子
func SlotsForMinutes(minutes int) int {
	if minutes <= 0 {
		return 1
	}
	return (minutes + Minutes - 1) / Minutes
}

// ClampDuration 保证 start+duration 不超过一天的格子数
func ClampDuration(start, duration int) int {
	if start+duration > PerDay {
		return PerDay - start
	}
	return duration
}
