package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ErrMissingWebhookSecret is returned when no Paystack secret key is configured.
var ErrMissingWebhookSecret = errors.New("paystack.secret_key is required")

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMongo    = "mongo"
)

// Config is the fully materialized service configuration
type Config struct {
	Server     ServerConfig
	Paystack   PaystackConfig
	Store      StoreConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Mongo      MongoConfig
	JWT        JWTConfig
	Settlement SettlementConfig
	RateLimit  RateLimitConfig
	Log        LogConfig
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type PaystackConfig struct {
	SecretKey       string
	SignatureHeader string
}

type StoreConfig struct {
	Driver string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DSN renders the lib/pq connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// URL renders the postgres:// form golang-migrate expects.
func (c DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode)
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

func (c RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}

// MongoConfig points at a replica set; settlement uses multi-document
// transactions.
type MongoConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type JWTConfig struct {
	SecretKey string
}

type SettlementConfig struct {
	CacheTTL time.Duration
}

type RateLimitConfig struct {
	RPS   float64
	Burst int
}

type LogConfig struct {
	Level    string
	Encoding string
}

var envBindings = map[string]string{
	"server.port":               "PORT",
	"server.read_timeout":       "SERVER_READ_TIMEOUT",
	"server.write_timeout":      "SERVER_WRITE_TIMEOUT",
	"server.idle_timeout":       "SERVER_IDLE_TIMEOUT",
	"paystack.secret_key":       "PAYSTACK_SECRET_KEY",
	"paystack.signature_header": "PAYSTACK_SIGNATURE_HEADER",
	"store.driver":              "STORE_DRIVER",
	"database.host":             "DATABASE_HOST",
	"database.port":             "DATABASE_PORT",
	"database.user":             "DATABASE_USER",
	"database.password":         "DATABASE_PASSWORD",
	"database.name":             "DATABASE_NAME",
	"database.ssl_mode":         "DATABASE_SSL_MODE",
	"redis.host":                "REDIS_HOST",
	"redis.port":                "REDIS_PORT",
	"redis.password":            "REDIS_PASSWORD",
	"redis.db":                  "REDIS_DB",
	"mongo.uri":                 "MONGO_URI",
	"mongo.database":            "MONGO_DATABASE",
	"jwt.secret_key":            "JWT_SECRET_KEY",
	"settlement.cache_ttl":      "SETTLEMENT_CACHE_TTL",
	"ratelimit.rps":             "RATE_LIMIT_RPS",
	"ratelimit.burst":           "RATE_LIMIT_BURST",
	"log.level":                 "LOG_LEVEL",
	"log.encoding":              "LOG_ENCODING",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)

	v.SetDefault("paystack.signature_header", "x-paystack-signature")
	v.SetDefault("store.driver", StoreDriverPostgres)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.name", "arigopay")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", time.Minute*5)

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", "6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("mongo.database", "arigopay")
	v.SetDefault("mongo.timeout", 10*time.Second)

	v.SetDefault("settlement.cache_ttl", 24*time.Hour)
	v.SetDefault("ratelimit.rps", 10.0)
	v.SetDefault("ratelimit.burst", 20)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "json")
}

// New builds a viper instance reading the optional config file (".env" when
// empty) with environment variables taking precedence.
func New(configFile string) *viper.Viper {
	v := viper.New()
	if configFile == "" {
		configFile = ".env"
	}
	v.SetConfigFile(configFile)
	v.SetConfigType("env")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}
	setDefaults(v)

	return v
}

// Load reads configuration from configFile and the environment. A missing
// config file is not an error.
func Load(configFile string) (*Config, error) {
	v := New(configFile)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	// .env files yield flat keys (PAYSTACK_SECRET_KEY -> paystack_secret_key);
	// fold them onto the dotted keys. Get still prefers the environment.
	for key, env := range envBindings {
		flat := strings.ToLower(env)
		if v.InConfig(flat) {
			v.Set(key, v.Get(flat))
		}
	}
	return FromViper(v), nil
}

// FromViper materializes a Config from an already populated viper instance.
func FromViper(v *viper.Viper) *Config {
	return &Config{
		Server: ServerConfig{
			Port:         v.GetString("server.port"),
			ReadTimeout:  v.GetDuration("server.read_timeout"),
			WriteTimeout: v.GetDuration("server.write_timeout"),
			IdleTimeout:  v.GetDuration("server.idle_timeout"),
		},
		Paystack: PaystackConfig{
			SecretKey:       v.GetString("paystack.secret_key"),
			SignatureHeader: v.GetString("paystack.signature_header"),
		},
		Store: StoreConfig{
			Driver: strings.ToLower(v.GetString("store.driver")),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("database.host"),
			Port:            v.GetString("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			Name:            v.GetString("database.name"),
			SSLMode:         v.GetString("database.ssl_mode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetDuration("database.conn_max_lifetime"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("redis.host"),
			Port:     v.GetString("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Mongo: MongoConfig{
			URI:      v.GetString("mongo.uri"),
			Database: v.GetString("mongo.database"),
			Timeout:  v.GetDuration("mongo.timeout"),
		},
		JWT: JWTConfig{
			SecretKey: v.GetString("jwt.secret_key"),
		},
		Settlement: SettlementConfig{
			CacheTTL: v.GetDuration("settlement.cache_ttl"),
		},
		RateLimit: RateLimitConfig{
			RPS:   v.GetFloat64("ratelimit.rps"),
			Burst: v.GetInt("ratelimit.burst"),
		},
		Log: LogConfig{
			Level:    v.GetString("log.level"),
			Encoding: v.GetString("log.encoding"),
		},
	}
}

// Validate checks the settings the server cannot start without.
func (c *Config) Validate() error {
	if c.Paystack.SecretKey == "" {
		return ErrMissingWebhookSecret
	}
	switch c.Store.Driver {
	case StoreDriverPostgres, StoreDriverMongo:
	default:
		return fmt.Errorf("unsupported store.driver %q", c.Store.Driver)
	}
	return nil
}
