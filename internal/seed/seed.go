package seed

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/sysu-ecnc-dev/production-timeline/backend/internal/domain"
	"github.com/sysu-ecnc-dev/production-timeline/backend/internal/slot"
	"github.com/sysu-ecnc-dev/production-timeline/backend/internal/utils"
)

// Header 停机时段 CSV 的表头，线路从 1 开始编号，开始时间形如 "10:30"，时长以分钟计
var Header = []string{"日期", "线路", "开始时间", "时长", "原因"}

type BookOutCreator interface {
	CreateBookOut(date slot.Date, line, start, duration int, reason string) (domain.BookOut, error)
}

// ReadBookOuts 解析 CSV 并检查各行之间是否冲突
func ReadBookOuts(r io.Reader) ([]domain.BookOut, error) {
	reader := csv.NewReader(r)

	// 读取表头
	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("读取表头失败: %w", err)
	}
	col := make(map[string]int, len(headers))
	for i, h := range headers {
		col[strings.TrimSpace(h)] = i
	}
	for _, h := range Header {
		if _, ok := col[h]; !ok {
			return nil, fmt.Errorf("没有找到 %s 列", h)
		}
	}

	// 读取数据
	var bos []domain.BookOut
	for row := 2; ; row++ {
		record, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("读取文件失败: %w", err)
		}

		bo, err := parseRow(record, col)
		if err != nil {
			return nil, fmt.Errorf("第 %d 行: %w", row, err)
		}
		bos = append(bos, bo)
	}

	if err := utils.ValidateBookOutWindows(bos); err != nil {
		return nil, err
	}
	return bos, nil
}

func parseRow(record []string, col map[string]int) (domain.BookOut, error) {
	field := func(name string) string {
		return strings.TrimSpace(record[col[name]])
	}

	date, err := slot.ParseDate(field("日期"))
	if err != nil {
		return domain.BookOut{}, fmt.Errorf("日期格式错误: %w", err)
	}

	line, err := strconv.Atoi(field("线路"))
	if err != nil {
		return domain.BookOut{}, fmt.Errorf("线路格式错误: %w", err)
	}

	start, err := ParseSlot(field("开始时间"))
	if err != nil {
		return domain.BookOut{}, err
	}

	minutes, err := strconv.Atoi(field("时长"))
	if err != nil || minutes <= 0 {
		return domain.BookOut{}, fmt.Errorf("时长格式错误: %q", field("时长"))
	}

	return domain.BookOut{
		View:     slot.ViewPrinters,
		Date:     date,
		Line:     line - 1,
		Start:    start,
		Duration: slot.SlotsForMinutes(minutes),
		Reason:   field("原因"),
	}, nil
}

// ParseSlot 把 "10:30" 这样的时间转换成格子序号，必须正好落在半点或整点
func ParseSlot(s string) (int, error) {
	s = strings.ReplaceAll(s, "：", ":")
	hh, mm, ok := strings.Cut(s, ":")
	if !ok {
		return 0, fmt.Errorf("开始时间格式错误: %q", s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil {
		return 0, fmt.Errorf("开始时间格式错误: %q", s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil {
		return 0, fmt.Errorf("开始时间格式错误: %q", s)
	}

	offset := h*60 + m - slot.DayStartHour*60
	if offset < 0 || offset%slot.Minutes != 0 || !slot.ValidSlot(offset/slot.Minutes) {
		return 0, fmt.Errorf("开始时间 %q 不在可排产的格子上", s)
	}
	return offset / slot.Minutes, nil
}

// WriteBookOuts 按 ReadBookOuts 能读取的格式输出
func WriteBookOuts(w io.Writer, bos []domain.BookOut) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(Header); err != nil {
		return err
	}

	sorted := slices.Clone(bos)
	slices.SortFunc(sorted, func(a, b domain.BookOut) int {
		switch {
		case a.Date != b.Date:
			if a.Date.Before(b.Date) {
				return -1
			}
			return 1
		case a.Line != b.Line:
			return a.Line - b.Line
		default:
			return a.Start - b.Start
		}
	})

	for _, bo := range sorted {
		minutes := slot.DayStartHour*60 + bo.Start*slot.Minutes
		record := []string{
			bo.Date.String(),
			strconv.Itoa(bo.Line + 1),
			fmt.Sprintf("%02d:%02d", minutes/60, minutes%60),
			strconv.Itoa(bo.Duration * slot.Minutes),
			bo.Reason,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// SeedBookOuts 把停机时段写入看板，返回成功写入的数量
func SeedBookOuts(board BookOutCreator, bos []domain.BookOut) int {
	cnt := 0
	for _, bo := range bos {
		if _, err := board.CreateBookOut(bo.Date, bo.Line, bo.Start, bo.Duration, bo.Reason); err != nil {
			slog.Error("插入停机时段失败", "date", bo.Date.String(), "line", bo.Line, "slot", bo.Start, "error", err)
			continue
		}
		cnt++
	}
	return cnt
}

// SeedBookOutsFromFile 读取文件并写入所有看板
func SeedBookOutsFromFile(path string, boards ...BookOutCreator) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("打开文件失败: %w", err)
	}
	defer file.Close()

	bos, err := ReadBookOuts(file)
	if err != nil {
		return err
	}

	for _, b := range boards {
		cnt := SeedBookOuts(b, bos)
		slog.Info("插入停机时段完成", "count", cnt, "total", len(bos))
	}
	return nil
}
