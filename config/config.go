package config

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"foodiego/internal/catalog"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	DataModeMock   = "mock"
	DataModeRemote = "remote"

	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

type Config struct {
	HTTP    HTTPConfig    `mapstructure:"http"`
	Data    DataConfig    `mapstructure:"data"`
	Remote  RemoteConfig  `mapstructure:"remote"`
	Mock    MockConfig    `mapstructure:"mock"`
	Catalog CatalogConfig `mapstructure:"catalog"`
	Store   StoreConfig   `mapstructure:"store"`
	Redis   RedisConfig   `mapstructure:"redis"`
	DB      DBConfig      `mapstructure:"db"`
	Kafka   KafkaConfig   `mapstructure:"kafka"`
	QR      QRConfig      `mapstructure:"qr"`
	Log     LogConfig     `mapstructure:"log"`
}

type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
}

type DataConfig struct {
	Mode string `mapstructure:"mode"`
}

type RemoteConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type MockConfig struct {
	DelayEnabled bool `mapstructure:"delay_enabled"`
}

type CatalogConfig struct {
	Restaurants        int `mapstructure:"restaurants"`
	ItemsPerRestaurant int `mapstructure:"items_per_restaurant"`
}

type StoreConfig struct {
	Driver string `mapstructure:"driver"`
}

type RedisConfig struct {
	Host     string        `mapstructure:"host"`
	Port     string        `mapstructure:"port"`
	Password string        `mapstructure:"password"`
	TTL      time.Duration `mapstructure:"ttl"`
}

func (c RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}

type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
}

func (c DBConfig) DSN() string {
	return "host=" + c.Host + " port=" + c.Port + " user=" + c.User +
		" password=" + c.Password + " dbname=" + c.Name + " sslmode=disable"
}

type KafkaConfig struct {
	Broker      string `mapstructure:"broker"`
	OrdersTopic string `mapstructure:"orders_topic"`
}

type QRConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

type LogConfig struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

var defaults = map[string]any{
	"http.addr":                    ":8080",
	"data.mode":                    DataModeMock,
	"remote.base_url":              "https://localhost:8000",
	"remote.timeout":               10 * time.Second,
	"mock.delay_enabled":           true,
	"catalog.restaurants":          catalog.DefaultRestaurantCount,
	"catalog.items_per_restaurant": catalog.DefaultItemsPerRestaurant,
	"store.driver":                 StoreMemory,
	"redis.host":                   "localhost",
	"redis.port":                   "6379",
	"redis.password":               "",
	"redis.ttl":                    time.Duration(0),
	"db.host":                      "localhost",
	"db.port":                      "5432",
	"db.name":                      "foodiego",
	"db.user":                      "postgres",
	"db.password":                  "",
	"kafka.broker":                 "",
	"kafka.orders_topic":           "orders",
	"qr.base_url":                  "http://localhost:8080",
	"log.level":                    "info",
	"log.encoding":                 "json",
}

// Load reads the optional env files, then the environment. Keys map to
// upper-case variables with dots replaced by underscores, e.g. redis.host is
// REDIS_HOST.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Data.Mode {
	case DataModeMock, DataModeRemote:
	default:
		return fmt.Errorf("invalid DATA_MODE %q", c.Data.Mode)
	}
	switch c.Store.Driver {
	case StoreMemory, StoreRedis, StorePostgres:
	default:
		return fmt.Errorf("invalid STORE_DRIVER %q", c.Store.Driver)
	}
	if c.Catalog.Restaurants < 0 || c.Catalog.ItemsPerRestaurant < 0 {
		return errors.New("catalog sizes must not be negative")
	}
	return nil
}

func MustInitPostgres(cfg DBConfig, logger *zap.Logger) *sql.DB {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err = db.Ping(); err != nil {
		logger.Fatal("Failed to ping database", zap.Error(err))
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	return db
}

func MustInitRedis(cfg RedisConfig, logger *zap.Logger) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}

	return client
}

func NewKafkaWriter(cfg KafkaConfig) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Broker),
		Topic:                  cfg.OrdersTopic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}
}
