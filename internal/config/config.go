package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

const (
	BrokerNone     = "none"
	BrokerKafka    = "kafka"
	BrokerRabbitMQ = "rabbitmq"
)

type Config struct {
	HTTP     HTTP     `yaml:"http"`
	Postgres Postgres `yaml:"postgres"`
	Redis    Redis    `yaml:"redis"`
	Mongo    Mongo    `yaml:"mongo"`
	Broker   Broker   `yaml:"broker"`
	Pricing  Pricing  `yaml:"pricing"`
	Log      Log      `yaml:"log"`
}

type HTTP struct {
	Port               string        `yaml:"port"`
	RequestTimeout     time.Duration `yaml:"request_timeout"`
	ReadTimeout        time.Duration `yaml:"read_timeout"`
	WriteTimeout       time.Duration `yaml:"write_timeout"`
	IdleTimeout        time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout    time.Duration `yaml:"shutdown_timeout"`
	MaxRequestBodySize int64         `yaml:"max_request_body_size"`
}

type Postgres struct {
	Host              string `yaml:"host"`
	Port              int    `yaml:"port"`
	User              string `yaml:"user"`
	Password          string `yaml:"password"`
	DBName            string `yaml:"dbname"`
	MigrationsDirPath string `yaml:"migrations_path"`
	MaxConns          int32  `yaml:"max_conns"`
	MinConns          int32  `yaml:"min_conns"`
}

// Redis is optional; an empty Addr disables the menu cache.
type Redis struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

// Mongo is optional; an empty URI disables the review endpoints.
type Mongo struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
}

type Broker struct {
	Kind         string        `yaml:"kind"`
	KafkaBrokers []string      `yaml:"kafka_brokers"`
	Topic        string        `yaml:"topic"`
	RabbitURL    string        `yaml:"rabbit_url"`
	Exchange     string        `yaml:"exchange"`
	PollInterval time.Duration `yaml:"poll_interval"`
	BatchSize    int           `yaml:"batch_size"`
}

type Pricing struct {
	TaxRate string `yaml:"tax_rate"`
}

type Log struct {
	Level string `yaml:"level"`
}

func Default() *Config {
	return &Config{
		HTTP: HTTP{
			Port:               "8080",
			RequestTimeout:     30 * time.Second,
			ReadTimeout:        10 * time.Second,
			WriteTimeout:       10 * time.Second,
			IdleTimeout:        60 * time.Second,
			ShutdownTimeout:    10 * time.Second,
			MaxRequestBodySize: 1 << 20, // 1MB
		},
		Postgres: Postgres{
			Host:              "localhost",
			Port:              5432,
			User:              "postgres",
			Password:          "postgres",
			DBName:            "sandwich_shop",
			MigrationsDirPath: "./internal/repository/migrations",
			MaxConns:          25,
			MinConns:          4,
		},
		Redis: Redis{TTL: 10 * time.Minute},
		Mongo: Mongo{Database: "sandwich_shop"},
		Broker: Broker{
			Kind:         BrokerNone,
			Topic:        "sandwich-orders",
			Exchange:     "orders_topic",
			PollInterval: time.Second,
			BatchSize:    100,
		},
		Pricing: Pricing{TaxRate: "0.07"},
		Log:     Log{Level: "info"},
	}
}

// Load reads the optional YAML file at path over the defaults, then applies
// environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	var errs []error

	envString(&cfg.HTTP.Port, "HTTP_PORT")
	errs = append(errs, envDuration(&cfg.HTTP.RequestTimeout, "HTTP_REQUEST_TIMEOUT"))

	envString(&cfg.Postgres.Host, "DB_HOST")
	errs = append(errs, envInt(&cfg.Postgres.Port, "DB_PORT"))
	envString(&cfg.Postgres.User, "DB_USER")
	envString(&cfg.Postgres.Password, "DB_PASSWORD")
	envString(&cfg.Postgres.DBName, "DB_NAME")
	envString(&cfg.Postgres.MigrationsDirPath, "MIGRATIONS_PATH")

	envString(&cfg.Redis.Addr, "REDIS_ADDR")
	envString(&cfg.Redis.Password, "REDIS_PASSWORD")

	envString(&cfg.Mongo.URI, "MONGO_URI")
	envString(&cfg.Mongo.Database, "MONGO_DATABASE")

	envString(&cfg.Broker.Kind, "BROKER_KIND")
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.Broker.KafkaBrokers = strings.Split(v, ",")
	}
	envString(&cfg.Broker.Topic, "KAFKA_TOPIC")
	envString(&cfg.Broker.RabbitURL, "RABBITMQ_URL")

	envString(&cfg.Pricing.TaxRate, "TAX_RATE")
	envString(&cfg.Log.Level, "LOG_LEVEL")

	return errors.Join(errs...)
}

func (c *Config) Validate() error {
	if port, err := strconv.Atoi(c.HTTP.Port); err != nil || port <= 0 || port > 65535 {
		return fmt.Errorf("invalid http port %q", c.HTTP.Port)
	}
	if c.Postgres.Port <= 0 || c.Postgres.Port > 65535 {
		return fmt.Errorf("invalid postgres port %d", c.Postgres.Port)
	}

	rate, err := c.TaxRate()
	if err != nil {
		return err
	}
	if rate.IsNegative() || rate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return fmt.Errorf("tax rate must be in [0, 1), got %s", rate)
	}

	switch c.Broker.Kind {
	case BrokerNone:
	case BrokerKafka:
		if len(c.Broker.KafkaBrokers) == 0 {
			return errors.New("kafka broker kind requires at least one broker address")
		}
	case BrokerRabbitMQ:
		if c.Broker.RabbitURL == "" {
			return errors.New("rabbitmq broker kind requires rabbit_url")
		}
	default:
		return fmt.Errorf("unknown broker kind %q", c.Broker.Kind)
	}
	return nil
}

func (c *Config) TaxRate() (decimal.Decimal, error) {
	rate, err := decimal.NewFromString(c.Pricing.TaxRate)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid tax rate %q: %w", c.Pricing.TaxRate, err)
	}
	return rate, nil
}

func envString(dst *string, key string) {
	if value := os.Getenv(key); value != "" {
		*dst = value
	}
}

func envInt(dst *int, key string) error {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = n
	return nil
}

func envDuration(dst *time.Duration, key string) error {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = d
	return nil
}
