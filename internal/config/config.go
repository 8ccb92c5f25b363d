package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
)

const envPrefix = "GATEWAY_"

var DefaultConfig = []byte(`
server:
  host: "0.0.0.0"
  port: "8080"
  shutdown_timeout: 30s

logger:
  level: "info"
  encoding: "json"

database:
  driver: "memory"
  dsn: ""

redis:
  enabled: false
  addr: "localhost:6379"
  password: ""
  db: 0

kafka:
  enabled: false
  brokers:
    - "localhost:9092"
  suspension_topic: "topup.suspensions"
  resolution_topic: "topup.resolutions"
  consumer_group: "topup-gateway"
  records_per_poll: 100

eventbus:
  channel_buffer: 1000
  workers: 2
  max_retries: 5

validation:
  bank_codes:
    - "012"
    - "015"
    - "016"
    - "017"
    - "018"
    - "019"
    - "020"
    - "021"
    - "054"
    - "055"
    - "056"
    - "057"
    - "062"

# seed populates the memory store; the postgres store is provisioned out of band.
seed:
  payment_channels: ["59"]
  clients: []

operators:
  mci:
    id: 1
    enabled: true
    base_url: "http://localhost:9001"
    timeout: 30s
    amount:
      denominations: [10000, 20000, 50000, 100000, 200000, 500000, 1000000]
  mtn:
    id: 2
    enabled: true
    base_url: "http://localhost:9002"
    timeout: 30s
    amount:
      min: 1000
    vendors:
      infotech:
        name: "infotech"
      mtn:
        name: "mtn"
  jiring:
    id: 3
    enabled: true
    base_url: "http://localhost:9003"
    timeout: 30s
    amount:
      min: 1000
      max: 10000000
  rightel:
    id: 4
    enabled: true
    base_url: "http://localhost:9004"
    timeout: 30s
    amount:
      min: 10000
      step: 10000
`)

type Config struct {
	Server     ServerConfig              `koanf:"server"`
	Logger     LoggerConfig              `koanf:"logger"`
	Database   DatabaseConfig            `koanf:"database"`
	Redis      RedisConfig               `koanf:"redis"`
	Kafka      KafkaConfig               `koanf:"kafka"`
	EventBus   EventBusConfig            `koanf:"eventbus"`
	Validation ValidationConfig          `koanf:"validation"`
	Seed       SeedConfig                `koanf:"seed"`
	Operators  map[string]OperatorConfig `koanf:"operators"`
}

type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            string        `koanf:"port"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

type LoggerConfig struct {
	Level    string `koanf:"level"`
	Encoding string `koanf:"encoding"`
}

type DatabaseConfig struct {
	Driver string `koanf:"driver"`
	DSN    string `koanf:"dsn"`
}

type RedisConfig struct {
	Enabled  bool   `koanf:"enabled"`
	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
}

type KafkaConfig struct {
	Enabled         bool     `koanf:"enabled"`
	Brokers         []string `koanf:"brokers"`
	SuspensionTopic string   `koanf:"suspension_topic"`
	ResolutionTopic string   `koanf:"resolution_topic"`
	ConsumerGroup   string   `koanf:"consumer_group"`
	RecordsPerPoll  int      `koanf:"records_per_poll"`
}

type EventBusConfig struct {
	ChannelBuffer int `koanf:"channel_buffer"`
	Workers       int `koanf:"workers"`
	MaxRetries    int `koanf:"max_retries"`
}

type ValidationConfig struct {
	BankCodes []string `koanf:"bank_codes"`
}

type SeedConfig struct {
	PaymentChannels []string           `koanf:"payment_channels"`
	Clients         []SeedClientConfig `koanf:"clients"`
}

type SeedClientConfig struct {
	ID               int64    `koanf:"id"`
	Username         string   `koanf:"username"`
	PasswordHash     string   `koanf:"password_hash"`
	AllowedAddresses []string `koanf:"allowed_addresses"`
}

type OperatorConfig struct {
	ID       int           `koanf:"id"`
	Enabled  bool          `koanf:"enabled"`
	BaseURL  string        `koanf:"base_url"`
	Username string        `koanf:"username"`
	Password string        `koanf:"password"`
	Timeout  time.Duration `koanf:"timeout"`
	Amount   AmountConfig  `koanf:"amount"`

	// Vendors holds per-vendor credential sets, keyed by vendor name (MTN).
	Vendors map[string]VendorConfig `koanf:"vendors"`
}

type VendorConfig struct {
	BaseURL  string `koanf:"base_url"`
	Username string `koanf:"username"`
	Password string `koanf:"password"`
	Name     string `koanf:"name"`
}

type AmountConfig struct {
	Min           int64   `koanf:"min"`
	Max           int64   `koanf:"max"`
	Step          int64   `koanf:"step"`
	Denominations []int64 `koanf:"denominations"`
}

// Load merges the embedded defaults, the optional yaml file at path and
// GATEWAY_ prefixed environment variables, in that order. A .env file in the
// working directory is loaded into the environment first.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment and defaults")
	}

	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(DefaultConfig), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load default config: %w", err)
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
			}
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// envKey maps GATEWAY_KAFKA__SUSPENSION_TOPIC to kafka.suspension_topic.
func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "__", ".")
}

func (c *Config) Validate() error {
	var errs []error
	add := func(field, msg string) {
		errs = append(errs, fmt.Errorf("%s: %s", field, msg))
	}

	if c.Server.Port == "" {
		add("server.port", "cannot be empty")
	}
	if c.Logger.Level == "" {
		add("logger.level", "cannot be empty")
	}

	switch c.Database.Driver {
	case "memory":
	case "postgres":
		if c.Database.DSN == "" {
			add("database.dsn", "cannot be empty for postgres")
		}
	default:
		add("database.driver", "must be memory or postgres")
	}

	if c.Redis.Enabled && c.Redis.Addr == "" {
		add("redis.addr", "cannot be empty")
	}

	if c.Kafka.Enabled {
		if len(c.Kafka.Brokers) == 0 {
			add("kafka.brokers", "cannot be empty")
		}
		if c.Kafka.SuspensionTopic == "" {
			add("kafka.suspension_topic", "cannot be empty")
		}
		if c.Kafka.ResolutionTopic == "" {
			add("kafka.resolution_topic", "cannot be empty")
		}
	}

	if len(c.Validation.BankCodes) == 0 {
		add("validation.bank_codes", "cannot be empty")
	}

	ids := make(map[int]string)
	for name, op := range c.Operators {
		if op.ID <= 0 {
			add("operators."+name+".id", "must be positive")
		} else if other, dup := ids[op.ID]; dup {
			add("operators."+name+".id", "duplicates operators."+other)
		}
		ids[op.ID] = name

		if op.Enabled && op.BaseURL == "" && len(op.Vendors) == 0 {
			add("operators."+name+".base_url", "cannot be empty")
		}
	}

	return errors.Join(errs...)
}
