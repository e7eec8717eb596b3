package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the server configuration, loaded from balanco.yaml and
// BALANCO_* environment variables.
type Config struct {
	HTTP      HTTPConfig      `mapstructure:"http"`
	GRPC      GRPCConfig      `mapstructure:"grpc"`
	MySQL     MySQLConfig     `mapstructure:"mysql"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Broadcast BroadcastConfig `mapstructure:"broadcast"`
	Queue     QueueConfig     `mapstructure:"queue"`
}

type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
}

type GRPCConfig struct {
	Addr string `mapstructure:"addr"`
}

type MySQLConfig struct {
	DSN             string `mapstructure:"dsn"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime_minutes"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	PoolSize int    `mapstructure:"pool_size"`
}

type BroadcastConfig struct {
	// HeartbeatSeconds is the interval between heartbeat events on a
	// progress stream.
	HeartbeatSeconds int `mapstructure:"heartbeat_seconds"`
	// ActivityWindowMinutes is the staleness window for "active in the
	// last N minutes" dashboard metrics.
	ActivityWindowMinutes int `mapstructure:"activity_window_minutes"`
}

type QueueConfig struct {
	Concurrency          int    `mapstructure:"concurrency"`
	RetryIntervalSeconds int    `mapstructure:"retry_interval_seconds"`
	MaxAttempts          int    `mapstructure:"max_attempts"`
	BacklogPath          string `mapstructure:"backlog_path"`
}

func (c MySQLConfig) ConnLifetime() time.Duration {
	return time.Duration(c.ConnMaxLifetime) * time.Minute
}

func (c BroadcastConfig) Heartbeat() time.Duration {
	return time.Duration(c.HeartbeatSeconds) * time.Second
}

func (c BroadcastConfig) ActivityWindow() time.Duration {
	return time.Duration(c.ActivityWindowMinutes) * time.Minute
}

func (c QueueConfig) RetryInterval() time.Duration {
	return time.Duration(c.RetryIntervalSeconds) * time.Second
}

func SetDefaults() {
	viper.SetDefault("http.addr", ":8080")
	viper.SetDefault("grpc.addr", ":50051")
	viper.SetDefault("mysql.dsn", "root:root@tcp(localhost:3306)/balanco?parseTime=true")
	viper.SetDefault("mysql.max_open_conns", 50)
	viper.SetDefault("mysql.max_idle_conns", 25)
	viper.SetDefault("mysql.conn_max_lifetime_minutes", 5)
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.pool_size", 100)
	viper.SetDefault("broadcast.heartbeat_seconds", 30)
	viper.SetDefault("broadcast.activity_window_minutes", 5)
	viper.SetDefault("queue.concurrency", 3)
	viper.SetDefault("queue.retry_interval_seconds", 5)
	viper.SetDefault("queue.max_attempts", 5)
	viper.SetDefault("queue.backlog_path", "backlog.json")
}

func Load() (*Config, error) {
	SetDefaults()

	viper.SetConfigName("balanco")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.config/balanco")
	viper.SetEnvPrefix("BALANCO")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.MySQL.DSN == "" {
		return errors.New("mysql.dsn is required")
	}
	if c.Redis.Addr == "" {
		return errors.New("redis.addr is required")
	}
	if c.Broadcast.HeartbeatSeconds <= 0 {
		return errors.New("broadcast.heartbeat_seconds must be positive")
	}
	if c.Broadcast.ActivityWindowMinutes <= 0 {
		return errors.New("broadcast.activity_window_minutes must be positive")
	}
	return nil
}
