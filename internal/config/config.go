package config

import (
	"fmt"
	"log/slog"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Catalog sources
const (
	CatalogSourceFile     = "file"
	CatalogSourcePostgres = "postgres"
	CatalogSourceMinio    = "minio"
)

type Config struct {
	Server    ServerConfig
	Log       LogConfig
	WebSocket WebSocketConfig
	Redis     RedisConfig
	Kafka     KafkaConfig
	Catalog   CatalogConfig
}

var (
	ConfigInstance *Config
	configErr      error
	once           sync.Once
)

type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// Addr returns host:port for http.Server
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, s.Port)
}

type LogConfig struct {
	Level  string
	Format string
}

type WebSocketConfig struct {
	ReadBufferSize  int
	WriteBufferSize int
	SendBuffer      int
	MaxMessageSize  int64
	PongWait        time.Duration
	AllowedOrigins  []string

	// Upgrade attempts per client IP per RateWindow; 0 disables the limit
	RateLimit  int
	RateWindow time.Duration
}

// RedisConfig is optional: an empty URL disables the presence mirror and rate limit
type RedisConfig struct {
	URL          string
	MaxRetries   int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolSize     int
	MinIdleConns int
	QueueSize    int
}

func (r RedisConfig) Enabled() bool {
	return r.URL != ""
}

// KafkaConfig is optional: no brokers disables the audit stream
type KafkaConfig struct {
	Brokers   []string
	Topic     string
	QueueSize int
}

func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0 && k.Topic != ""
}

type CatalogConfig struct {
	Source      string
	File        string
	DatabaseURL string
	MinIO       MinIOConfig
}

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Prefix    string
	UseSSL    bool
}

// LoadConfig loads the process configuration once and returns the shared instance
func LoadConfig() (*Config, error) {
	once.Do(func() {
		// Load .env file
		if err := godotenv.Load(); err != nil {
			slog.Debug("No .env file found, using environment variables")
		}
		ConfigInstance, configErr = Load()
	})
	return ConfigInstance, configErr
}

// Load reads configuration from the environment into a fresh Config
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Host:            v.GetString("WHITEBOARD_HOST"),
			Port:            v.GetString("WHITEBOARD_PORT"),
			ReadTimeout:     v.GetDuration("WHITEBOARD_READ_TIMEOUT"),
			WriteTimeout:    v.GetDuration("WHITEBOARD_WRITE_TIMEOUT"),
			IdleTimeout:     v.GetDuration("WHITEBOARD_IDLE_TIMEOUT"),
			ShutdownTimeout: v.GetDuration("WHITEBOARD_SHUTDOWN_TIMEOUT"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: strings.ToLower(v.GetString("LOG_FORMAT")),
		},
		WebSocket: WebSocketConfig{
			ReadBufferSize:  v.GetInt("WS_READ_BUFFER_SIZE"),
			WriteBufferSize: v.GetInt("WS_WRITE_BUFFER_SIZE"),
			SendBuffer:      v.GetInt("WS_SEND_BUFFER"),
			MaxMessageSize:  v.GetInt64("WS_MAX_MESSAGE_SIZE"),
			PongWait:        v.GetDuration("WS_PONG_WAIT"),
			AllowedOrigins:  splitList(v.GetString("ALLOWED_ORIGINS")),
			RateLimit:       v.GetInt("WS_RATE_LIMIT"),
			RateWindow:      v.GetDuration("WS_RATE_WINDOW"),
		},
		Redis: RedisConfig{
			URL:          v.GetString("REDIS_URL"),
			MaxRetries:   v.GetInt("REDIS_MAX_RETRIES"),
			DialTimeout:  v.GetDuration("REDIS_DIAL_TIMEOUT"),
			ReadTimeout:  v.GetDuration("REDIS_READ_TIMEOUT"),
			WriteTimeout: v.GetDuration("REDIS_WRITE_TIMEOUT"),
			PoolSize:     v.GetInt("REDIS_POOL_SIZE"),
			MinIdleConns: v.GetInt("REDIS_MIN_IDLE_CONNS"),
			QueueSize:    v.GetInt("REDIS_QUEUE_SIZE"),
		},
		Kafka: KafkaConfig{
			Brokers:   splitList(v.GetString("KAFKA_BROKERS")),
			Topic:     v.GetString("KAFKA_TOPIC"),
			QueueSize: v.GetInt("KAFKA_QUEUE_SIZE"),
		},
		Catalog: CatalogConfig{
			Source:      strings.ToLower(v.GetString("CATALOG_SOURCE")),
			File:        v.GetString("CATALOG_FILE"),
			DatabaseURL: v.GetString("DATABASE_URL"),
			MinIO: MinIOConfig{
				Endpoint:  v.GetString("MINIO_ENDPOINT"),
				AccessKey: v.GetString("MINIO_ACCESS_KEY"),
				SecretKey: v.GetString("MINIO_SECRET_KEY"),
				Bucket:    v.GetString("MINIO_BUCKET"),
				Prefix:    v.GetString("MINIO_PREFIX"),
				UseSSL:    v.GetBool("MINIO_USE_SSL"),
			},
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("WHITEBOARD_HOST", "")
	v.SetDefault("WHITEBOARD_PORT", "8080")
	v.SetDefault("WHITEBOARD_READ_TIMEOUT", 30*time.Second)
	v.SetDefault("WHITEBOARD_WRITE_TIMEOUT", 30*time.Second)
	v.SetDefault("WHITEBOARD_IDLE_TIMEOUT", 60*time.Second)
	v.SetDefault("WHITEBOARD_SHUTDOWN_TIMEOUT", 10*time.Second)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")

	v.SetDefault("WS_READ_BUFFER_SIZE", 1024)
	v.SetDefault("WS_WRITE_BUFFER_SIZE", 1024)
	v.SetDefault("WS_SEND_BUFFER", 256)
	v.SetDefault("WS_MAX_MESSAGE_SIZE", 64*1024)
	v.SetDefault("WS_PONG_WAIT", 60*time.Second)
	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("WS_RATE_LIMIT", 30)
	v.SetDefault("WS_RATE_WINDOW", time.Minute)

	v.SetDefault("REDIS_URL", "")
	v.SetDefault("REDIS_MAX_RETRIES", 3)
	v.SetDefault("REDIS_POOL_SIZE", 100)
	v.SetDefault("REDIS_MIN_IDLE_CONNS", 10)
	v.SetDefault("REDIS_DIAL_TIMEOUT", 5*time.Second)
	v.SetDefault("REDIS_READ_TIMEOUT", 3*time.Second)
	v.SetDefault("REDIS_WRITE_TIMEOUT", 3*time.Second)
	v.SetDefault("REDIS_QUEUE_SIZE", 1024)

	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("KAFKA_TOPIC", "whiteboard.operations")
	v.SetDefault("KAFKA_QUEUE_SIZE", 1024)

	v.SetDefault("CATALOG_SOURCE", CatalogSourceFile)
	v.SetDefault("CATALOG_FILE", "configs/templates.yaml")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("MINIO_ENDPOINT", "")
	v.SetDefault("MINIO_ACCESS_KEY", "")
	v.SetDefault("MINIO_SECRET_KEY", "")
	v.SetDefault("MINIO_BUCKET", "whiteboard-templates")
	v.SetDefault("MINIO_PREFIX", "")
	v.SetDefault("MINIO_USE_SSL", false)
}

// Validate checks settings that cannot be defaulted
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("WHITEBOARD_PORT is required")
	}
	if c.WebSocket.PongWait <= 0 {
		return fmt.Errorf("WS_PONG_WAIT must be positive, got %s", c.WebSocket.PongWait)
	}
	if c.WebSocket.RateLimit > 0 && c.WebSocket.RateWindow <= 0 {
		return fmt.Errorf("WS_RATE_WINDOW must be positive when WS_RATE_LIMIT is set")
	}

	switch c.Catalog.Source {
	case CatalogSourceFile:
		if c.Catalog.File == "" {
			return fmt.Errorf("CATALOG_FILE is required for the file catalog")
		}
	case CatalogSourcePostgres:
		if c.Catalog.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres catalog")
		}
	case CatalogSourceMinio:
		if c.Catalog.MinIO.Endpoint == "" || c.Catalog.MinIO.Bucket == "" {
			return fmt.Errorf("MINIO_ENDPOINT and MINIO_BUCKET are required for the minio catalog")
		}
	default:
		return fmt.Errorf("unknown CATALOG_SOURCE %q", c.Catalog.Source)
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
