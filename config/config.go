package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 服务全局配置
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Exchange ExchangeConfig `mapstructure:"exchange"`
	Order    OrderConfig    `mapstructure:"order"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Sentry   SentryConfig   `mapstructure:"sentry"`
	Trace    TraceConfig    `mapstructure:"trace"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
	Mode string `mapstructure:"mode"` // debug / release
}

type DatabaseConfig struct {
	DSN string `mapstructure:"dsn"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"` // 为空则仅用进程内汇率快照
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// ExchangeConfig 汇率缓存配置
type ExchangeConfig struct {
	ProviderURL  string        `mapstructure:"provider_url"`
	BaseCurrency string        `mapstructure:"base_currency"`
	TTL          time.Duration `mapstructure:"ttl"`
	FetchTimeout time.Duration `mapstructure:"fetch_timeout"`
	FallbackRate float64       `mapstructure:"fallback_rate"` // 美元/基准货币
}

type OrderConfig struct {
	// StrictProgression 为 true 时只允许 Pending→Confirmed→Shipped→Delivered 顺序推进
	StrictProgression bool `mapstructure:"strict_progression"`
	AuditQueueSize    int  `mapstructure:"audit_queue_size"`
	AuditWorkers      int  `mapstructure:"audit_workers"`
}

type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
}

type SentryConfig struct {
	DSN string `mapstructure:"dsn"`
}

type TraceConfig struct {
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
}

// Load 读取配置：默认值 < 配置文件 < AGX_ 环境变量
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.dsn", "host=localhost user=postgres password=postgres dbname=agexport port=5432 sslmode=disable")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("exchange.provider_url", "https://open.er-api.com/v6/latest/USD")
	v.SetDefault("exchange.base_currency", "INR")
	v.SetDefault("exchange.ttl", "4h")
	v.SetDefault("exchange.fetch_timeout", "5s")
	v.SetDefault("exchange.fallback_rate", 0.012)
	v.SetDefault("order.strict_progression", false)
	v.SetDefault("order.audit_queue_size", 10000)
	v.SetDefault("order.audit_workers", 2)
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("sentry.dsn", "")
	v.SetDefault("trace.otlp_endpoint", "")

	v.SetEnvPrefix("AGX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// 配置文件可选，找不到时仅靠默认值和环境变量
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
