package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = "ALLOC"

type Config struct {
	App   AppConfig
	HTTP  HTTPConfig
	GRPC  GRPCConfig
	MySQL MySQLConfig
	Redis RedisConfig
}

type AppConfig struct {
	Env      string `envconfig:"ALLOC_APP_ENV" default:"development"`
	Name     string `envconfig:"ALLOC_APP_NAME" default:"batch-allocation"`
	LogLevel string `envconfig:"ALLOC_LOG_LEVEL" default:"info"`
}

type HTTPConfig struct {
	Addr            string        `envconfig:"ALLOC_HTTP_ADDR" default:":8080"`
	ShutdownTimeout time.Duration `envconfig:"ALLOC_HTTP_SHUTDOWN_TIMEOUT" default:"5s"`
}

type GRPCConfig struct {
	Addr string `envconfig:"ALLOC_GRPC_ADDR" default:":50051"`
}

type MySQLConfig struct {
	DSN             string        `envconfig:"ALLOC_MYSQL_DSN" default:"root:root@tcp(localhost:3306)/allocation?parseTime=true"`
	MaxOpenConns    int           `envconfig:"ALLOC_MYSQL_MAX_OPEN_CONNS" default:"50"`
	MaxIdleConns    int           `envconfig:"ALLOC_MYSQL_MAX_IDLE_CONNS" default:"25"`
	ConnMaxLifetime time.Duration `envconfig:"ALLOC_MYSQL_CONN_MAX_LIFETIME" default:"5m"`
}

type RedisConfig struct {
	Addr          string        `envconfig:"ALLOC_REDIS_ADDR" default:"localhost:6379"`
	PoolSize      int           `envconfig:"ALLOC_REDIS_POOL_SIZE" default:"100"`
	AllocationTTL time.Duration `envconfig:"ALLOC_REDIS_ALLOCATION_TTL" default:"24h"`
}

// Load reads ALLOC_* environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}
