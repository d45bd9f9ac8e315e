package main

import (
	"encoding/json"
	"flag"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/sysu-ecnc-dev/production-timeline/backend/internal/domain"
	"github.com/sysu-ecnc-dev/production-timeline/backend/internal/ids"
	"github.com/sysu-ecnc-dev/production-timeline/backend/internal/seed"
	"github.com/sysu-ecnc-dev/production-timeline/backend/internal/slot"
	"github.com/sysu-ecnc-dev/production-timeline/backend/internal/utils"
)

func main() {
	var op int
	var n int
	var date string
	var randomSeed int64
	var file string

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 输出随机订单, 2: 输出随机停机时段 CSV, 3: 校验停机时段 CSV)")
	flag.IntVar(&n, "n", 5, "要生成的记录数量")
	flag.StringVar(&date, "date", "", "停机时段所在日期，默认为今天")
	flag.Int64Var(&randomSeed, "seed", 0, "随机数种子，为 0 时使用当前时间")
	flag.StringVar(&file, "file", "", "要校验的 CSV 文件")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if randomSeed == 0 {
		randomSeed = time.Now().UnixNano()
	}
	r := rand.New(rand.NewSource(randomSeed))

	day := slot.DateOf(time.Now())
	if date != "" {
		d, err := slot.ParseDate(date)
		if err != nil {
			logger.Error("日期格式错误", slog.String("date", date), slog.String("error", err.Error()))
			os.Exit(1)
		}
		day = d
	}

	switch op {
	case 0:
		logger.Error("未指定操作")
	case 1:
		if n <= 0 {
			logger.Error("请输入合法的订单数量")
			return
		}
		gen := utils.NewMockGenerator(r, ids.NewCounter("ORD-", 1001), day)
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(gen.Orders(n)); err != nil {
			logger.Error("无法输出订单", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case 2:
		if n <= 0 {
			logger.Error("请输入合法的停机时段数量")
			return
		}
		// 与已有时段冲突的随机结果直接丢弃，最多尝试 n*10 次
		bos := make([]domain.BookOut, 0, n)
		for i := 0; i < n*10 && len(bos) < n; i++ {
			candidate := append(bos, utils.GenerateRandomBookOut(r, day))
			if err := utils.ValidateBookOutWindows(candidate); err != nil {
				continue
			}
			bos = candidate
		}
		if err := seed.WriteBookOuts(os.Stdout, bos); err != nil {
			logger.Error("无法输出停机时段", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("生成停机时段成功", slog.Int("count", len(bos)))
	case 3:
		if file == "" {
			logger.Error("请通过 -file 指定要校验的文件")
			return
		}
		f, err := os.Open(file)
		if err != nil {
			logger.Error("打开文件失败", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer f.Close()

		bos, err := seed.ReadBookOuts(f)
		if err != nil {
			logger.Error("校验失败", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("校验通过", slog.Int("count", len(bos)))
	default:
		logger.Error("指定的操作非法")
	}
}
