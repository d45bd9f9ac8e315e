package interaction

import "math"

// Rect 是时间轴网格在页面上的位置
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// PointerMapper 把指针位置换算成格子序号
type PointerMapper interface {
	SlotAt(pointerY float64, grid Rect, slotCount int) int
}

// GridMapper 假设所有格子等高
type GridMapper struct{}

func (GridMapper) SlotAt(pointerY float64, grid Rect, slotCount int) int {
	if slotCount <= 0 || grid.Height <= 0 {
		return 0
	}

	rowHeight := grid.Height / float64(slotCount)
	s := int(math.Floor((pointerY - grid.Top) / rowHeight))
	return max(0, min(s, slotCount-1))
}
