package domain

import "github.com/sysu-ecnc-dev/production-timeline/backend/internal/slot"

// Assignment 表示一个订单在时间轴上的位置，只持有订单 ID
type Assignment struct {
	OrderID  string    `json:"orderID"`
	View     slot.View `json:"view"`
	Date     slot.Date `json:"date"`
	Line     int       `json:"line"`
	Start    int       `json:"start"`
	Duration int       `json:"duration"`
}

// End 返回占用区间的开区间终点
func (a Assignment) End() int {
	return a.Start + a.Duration
}

func (a Assignment) Key() slot.Key {
	return slot.KeyOf(a.View, a.Date, a.Line, a.Start)
}

func (a Assignment) Covers(s int) bool {
	return s >= a.Start && s < a.End()
}

func (a Assignment) TimeLabel() string {
	return slot.RangeLabel(a.Start, a.Duration)
}

// BookOut 是某条线路某一天内不可排产的时间段
type BookOut struct {
	ID       string    `json:"id"`
	View     slot.View `json:"view"`
	Date     slot.Date `json:"date"`
	Line     int       `json:"line"`
	Start    int       `json:"start"`
	Duration int       `json:"duration"`
	Reason   string    `json:"reason"`
}

func (b BookOut) End() int {
	return b.Start + b.Duration
}

func (b BookOut) Covers(s int) bool {
	return s >= b.Start && s < b.End()
}

func (b BookOut) TimeLabel() string {
	return slot.RangeLabel(b.Start, b.Duration)
}

// DefaultBookOutSlots 快捷创建时默认占用一小时
const DefaultBookOutSlots = 2
