package config

import (
	"errors"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	Server      struct {
		Port            string `env:"PORT" envDefault:"3000"`
		ReadTimeout     int    `env:"READ_TIMEOUT" envDefault:"10"`
		WriteTimeout    int    `env:"WRITE_TIMEOUT" envDefault:"15"`
		IdleTimeout     int    `env:"IDLE_TIMEOUT" envDefault:"60"`
		ShutdownTimeout int    `env:"SHUTDOWN_TIMEOUT" envDefault:"10"`
	} `envPrefix:"SERVER_"`
	Timeline struct {
		LoadMoreDelay         int    `env:"LOAD_MORE_DELAY" envDefault:"800"` // 毫秒
		PageSize              int    `env:"PAGE_SIZE" envDefault:"10"`
		InitialOrders         int    `env:"INITIAL_ORDERS" envDefault:"20"`
		InitialPurchaseOrders int    `env:"INITIAL_PURCHASE_ORDERS" envDefault:"8"`
		SeedBookOuts          string `env:"SEED_BOOKOUTS"`
		RandomSeed            int64  `env:"RANDOM_SEED"` // 0 表示使用当前时间
	} `envPrefix:"TIMELINE_"`
	Email struct {
		InquiryRecipient string `env:"INQUIRY_RECIPIENT,required"`
		SMTP             struct {
			Username    string `env:"USERNAME,required"`
			Password    string `env:"PASSWORD,required"`
			Host        string `env:"HOST,required"`
			Port        int    `env:"PORT" envDefault:"465"`
			DialTimeout int    `env:"DIAL_TIMEOUT" envDefault:"10"`
		} `envPrefix:"SMTP_"`
	} `envPrefix:"EMAIL_"`
	RabbitMQ struct {
		DSN            string `env:"DSN,required"`
		PublishTimeout int    `env:"PUBLISH_TIMEOUT" envDefault:"10"`
	} `envPrefix:"RABBITMQ_"`
	Redis struct {
		Host             string `env:"HOST" envDefault:"localhost"`
		Port             int    `env:"PORT" envDefault:"6379"`
		Password         string `env:"PASSWORD"`
		ConnectTimeout   int    `env:"CONNECT_TIMEOUT" envDefault:"10"`
		OperationTimeout int    `env:"OPERATION_TIMEOUT" envDefault:"5"`
	} `envPrefix:"REDIS_"`
	Handoff struct {
		TTL int `env:"TTL" envDefault:"600"` // 秒
	} `envPrefix:"HANDOFF_"`
}

// 依次尝试的 .env 位置，已经存在的环境变量不会被覆盖
var dotEnvPaths = []string{".env", "../.env"}

func LoadConfig() (*Config, error) {
	for _, p := range dotEnvPaths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return nil, err
		}
		break
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		aggErr := env.AggregateError{}
		if ok := errors.As(err, &aggErr); ok {
			// 只返回第一个错误使得日志更清晰
			return nil, aggErr.Errors[0]
		}
		return nil, err
	}

	return cfg, nil
}
