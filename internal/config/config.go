// Package config lê a configuração da linha de comando.
package config

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"
)

const (
	StorageFile     = "file"
	StoragePostgres = "postgres"
	StorageRedis    = "redis"

	EventsMemory = "memory"
	EventsRedis  = "redis"
	EventsKafka  = "kafka"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	DataFile     string
	Storage      string
	DSN          string
	RedisAddr    string
	RedisPrefix  string
	Events       string
	EventsTopic  string
	KafkaBrokers []string
	LogLevel     string
	LogOutput    string
	Help         bool
}

func Default() Config {
	return Config{
		DataFile:    "bus_data.txt",
		Storage:     StorageFile,
		RedisAddr:   "localhost:6379",
		RedisPrefix: "bus-reservation",
		Events:      EventsMemory,
		EventsTopic: "bus-reservation.tickets",
		LogLevel:    "warn",
		LogOutput:   "stderr",
	}
}

// NewFlagSet registra as flags sobre cfg; os valores atuais de cfg são os padrões.
func NewFlagSet(name string, cfg *Config) *pflag.FlagSet {
	flagSet := pflag.NewFlagSet(name, pflag.ContinueOnError)
	flagSet.StringVar(&cfg.DataFile, "file", cfg.DataFile, "path of the bus data file (storage=file)")
	flagSet.StringVar(&cfg.Storage, "storage", cfg.Storage, "where buses are persisted: file, postgres or redis")
	flagSet.StringVar(&cfg.DSN, "dsn", cfg.DSN, "PostgreSQL connection string (storage=postgres)")
	flagSet.StringVar(&cfg.RedisAddr, "redis-addr", cfg.RedisAddr, "Redis address (storage=redis or events=redis)")
	flagSet.StringVar(&cfg.RedisPrefix, "redis-prefix", cfg.RedisPrefix, "Redis key prefix (storage=redis)")
	flagSet.StringVar(&cfg.Events, "events", cfg.Events, "where ticket events are published: memory, redis or kafka")
	flagSet.StringVar(&cfg.EventsTopic, "events-topic", cfg.EventsTopic, "topic or stream for ticket events")
	flagSet.StringSliceVar(&cfg.KafkaBrokers, "kafka-brokers", cfg.KafkaBrokers, "comma-separated Kafka brokers (events=kafka)")
	flagSet.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn or error")
	flagSet.StringVar(&cfg.LogOutput, "log-output", cfg.LogOutput, "log destination: stderr, stdout or a file path")
	flagSet.BoolVarP(&cfg.Help, "help", "h", false, "show help")
	return flagSet
}

// Parse lê args (sem o nome do programa). Com --help devolve cfg.Help=true e nenhum erro.
func Parse(name string, args []string, usage io.Writer) (Config, error) {
	cfg := Default()
	flagSet := NewFlagSet(name, &cfg)
	flagSet.SetOutput(usage)

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			cfg.Help = true
			return cfg, nil
		}
		return Config{}, err
	}

	if cfg.Help {
		fmt.Fprintf(usage, "Usage of %s:\n%s", name, flagSet.FlagUsages())
		return cfg, nil
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Storage {
	case StorageFile:
		if strings.TrimSpace(c.DataFile) == "" {
			return fmt.Errorf("%w: --file must not be empty", ErrInvalidConfig)
		}
	case StoragePostgres:
		if c.DSN == "" {
			return fmt.Errorf("%w: --dsn is required with --storage=postgres", ErrInvalidConfig)
		}
	case StorageRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("%w: --redis-addr is required with --storage=redis", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown storage %q", ErrInvalidConfig, c.Storage)
	}

	switch c.Events {
	case EventsMemory:
	case EventsRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("%w: --redis-addr is required with --events=redis", ErrInvalidConfig)
		}
	case EventsKafka:
		if len(c.KafkaBrokers) == 0 {
			return fmt.Errorf("%w: --kafka-brokers is required with --events=kafka", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown events publisher %q", ErrInvalidConfig, c.Events)
	}

	return nil
}

// NeedsRedis indica se algum componente usa o cliente Redis.
func (c Config) NeedsRedis() bool {
	return c.Storage == StorageRedis || c.Events == EventsRedis
}
