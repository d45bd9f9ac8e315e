package utils

import (
	"fmt"

	"github.com/sysu-ecnc-dev/production-timeline/backend/internal/domain"
	"github.com/sysu-ecnc-dev/production-timeline/backend/internal/scheduler"
	"github.com/sysu-ecnc-dev/production-timeline/backend/internal/slot"
)

// ValidateBookOutWindows 在导入前检查一批停机时段，错误信息中的序号从 1 开始
func ValidateBookOutWindows(bos []domain.BookOut) error {
	// 检查每一个时段是否落在当天范围内
	for i, bo := range bos {
		if !slot.ValidLine(bo.Line) {
			return fmt.Errorf("第 %d 个停机时段的线路 %d 不存在", i+1, bo.Line)
		}
		if !slot.ValidSlot(bo.Start) {
			return fmt.Errorf("第 %d 个停机时段的起始格子 %d 越界", i+1, bo.Start)
		}
		if bo.Duration < 1 || bo.Start+bo.Duration > slot.PerDay {
			return fmt.Errorf("第 %d 个停机时段的时长 %d 越界", i+1, bo.Duration)
		}
	}

	// 检查同一天同一线路上的时段是否冲突
	for i := 0; i < len(bos); i++ {
		for j := i + 1; j < len(bos); j++ {
			a, b := bos[i], bos[j]
			if a.Date != b.Date || a.Line != b.Line {
				continue
			}
			if scheduler.Overlap(a.Start, a.End(), b.Start, b.End()) {
				return fmt.Errorf("第 %d 个和第 %d 个停机时段之间的时间冲突", i+1, j+1)
			}
		}
	}
	return nil
}
