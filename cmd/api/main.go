package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/production-timeline/backend/internal/catalog"
	"github.com/sysu-ecnc-dev/production-timeline/backend/internal/config"
	"github.com/sysu-ecnc-dev/production-timeline/backend/internal/handler"
	"github.com/sysu-ecnc-dev/production-timeline/backend/internal/handoff"
	"github.com/sysu-ecnc-dev/production-timeline/backend/internal/ids"
	"github.com/sysu-ecnc-dev/production-timeline/backend/internal/seed"
	"github.com/sysu-ecnc-dev/production-timeline/backend/internal/slot"
	"github.com/sysu-ecnc-dev/production-timeline/backend/internal/timeline"
	"github.com/sysu-ecnc-dev/production-timeline/backend/internal/utils"
)

func main() {
	/**********************************************
	 * 创建 logger
	 **********************************************/
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	/**********************************************
	 * 加载配置
	 **********************************************/
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法加载配置文件", "error", err)
		return
	}

	/**********************************************
	 * 连接 rabbitmq
	 **********************************************/
	conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
	if err != nil {
		logger.Error("无法连接到 rabbitmq", "error", err)
		return
	}
	defer conn.Close()

	// 建立通道
	ch, err := conn.Channel()
	if err != nil {
		logger.Error("无法建立通道", "error", err)
		return
	}
	defer ch.Close()

	// 声明队列
	_, err = ch.QueueDeclare(
		"email_queue",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		logger.Error("无法声明队列", "error", err)
		return
	}

	/**********************************************
	 * 连接 redis
	 **********************************************/
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       0,
	})
	defer rdb.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Redis.ConnectTimeout)*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Error("无法连接到 redis", "error", err)
		return
	}

	store := handoff.NewRedisStore(rdb, time.Duration(cfg.Handoff.TTL)*time.Second)

	/**********************************************
	 * 生成演示订单
	 **********************************************/
	randomSeed := cfg.Timeline.RandomSeed
	if randomSeed == 0 {
		randomSeed = time.Now().UnixNano()
	}
	now := time.Now()
	gen := utils.NewMockGenerator(rand.New(rand.NewSource(randomSeed)), ids.NewCounter("ORD-", 1001), slot.DateOf(now))

	cat := catalog.New(gen, cfg.Timeline.InitialOrders, cfg.Timeline.InitialPurchaseOrders, now,
		catalog.WithLoadMoreDelay(time.Duration(cfg.Timeline.LoadMoreDelay)*time.Millisecond),
		catalog.WithPageSize(cfg.Timeline.PageSize),
		catalog.WithLogger(logger),
	)

	/**********************************************
	 * 创建看板
	 **********************************************/
	boards := []*timeline.Board{
		timeline.NewBoard(handler.BoardTimeline, ids.NewUUID(), timeline.WithLogger(logger)),
		timeline.NewBoard(handler.BoardReceiving, ids.NewUUID(), timeline.WithLogger(logger)),
	}

	if cfg.Timeline.SeedBookOuts != "" {
		creators := make([]seed.BookOutCreator, 0, len(boards))
		for _, b := range boards {
			creators = append(creators, b)
		}
		if err := seed.SeedBookOutsFromFile(cfg.Timeline.SeedBookOuts, creators...); err != nil {
			logger.Error("无法导入停机时段", "path", cfg.Timeline.SeedBookOuts, "error", err)
			return
		}
	}

	/**********************************************
	 * 创建 handler
	 **********************************************/
	handler, err := handler.NewHandler(cfg, cat, boards, ch, store)
	if err != nil {
		logger.Error("无法创建 handler", "error", err)
		return
	}
	handler.RegisterRoutes()

	/**********************************************
	 * 启动 HTTP 服务器
	 **********************************************/
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      handler.Mux,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("正在启动服务器...", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("无法启动服务器", slog.String("error", err.Error()))
			return
		}
	}()

	<-quit
	logger.Info("正在关闭服务器...")

	ctx, cancel = context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("关闭服务器失败", slog.String("error", err.Error()))
	}
	logger.Info("服务器已成功关闭")
}
