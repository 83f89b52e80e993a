// Package config собирает настройки из YAML-файла, .env и переменных окружения.
// Окружение имеет приоритет над файлом.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"tendersdz/internal/session"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Хранилища сессии
const (
	BackendFile     = "file"
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

const (
	DefaultAPIBaseURL    = "http://localhost:8000"
	DefaultServerAddress = "127.0.0.1:8080"
	DefaultKeyPrefix     = "tendersdz"
)

type Config struct {
	APIBaseURL    string         `yaml:"api_base_url"`
	ServerAddress string         `yaml:"server_address"`
	Session       SessionConfig  `yaml:"session"`
	Postgres      PostgresConfig `yaml:"postgres"`
	Redis         RedisConfig    `yaml:"redis"`
	Log           LogConfig      `yaml:"log"`
}

type SessionConfig struct {
	Backend   string `yaml:"backend"`
	File      string `yaml:"file"`
	KeyPrefix string `yaml:"key_prefix"`
}

type PostgresConfig struct {
	Conn string `yaml:"conn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default возвращает настройки по умолчанию
func Default() Config {
	return Config{
		APIBaseURL:    DefaultAPIBaseURL,
		ServerAddress: DefaultServerAddress,
		Session: SessionConfig{
			Backend:   BackendFile,
			KeyPrefix: DefaultKeyPrefix,
		},
		Redis: RedisConfig{Addr: "localhost:6379"},
		Log:   LogConfig{Level: "info", Format: "text"},
	}
}

// Load читает .env (если есть), затем YAML-файл path (или TENDERS_CONFIG),
// затем переменные окружения
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()
	if path == "" {
		path = os.Getenv("TENDERS_CONFIG")
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.fill(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), c); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	setString(&c.APIBaseURL, "TENDERS_API_BASE_URL")
	setString(&c.ServerAddress, "SERVER_ADDRESS")
	setString(&c.Session.Backend, "SESSION_BACKEND")
	setString(&c.Session.File, "SESSION_FILE")
	setString(&c.Session.KeyPrefix, "SESSION_KEY_PREFIX")
	setString(&c.Postgres.Conn, "POSTGRES_CONN")
	setString(&c.Redis.Addr, "REDIS_ADDR")
	setString(&c.Redis.Password, "REDIS_PASSWORD")
	setString(&c.Log.Level, "LOG_LEVEL")
	setString(&c.Log.Format, "LOG_FORMAT")

	if v := os.Getenv("REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("REDIS_DB must be an integer: %w", err)
		}
		c.Redis.DB = n
	}
	return nil
}

// fill подставляет значения, зависящие от окружения пользователя
func (c *Config) fill() error {
	c.Session.Backend = strings.ToLower(strings.TrimSpace(c.Session.Backend))
	c.APIBaseURL = strings.TrimRight(c.APIBaseURL, "/")
	if c.Session.Backend == BackendFile && c.Session.File == "" {
		path, err := session.DefaultPath()
		if err != nil {
			return err
		}
		c.Session.File = path
	}
	return nil
}

// Validate проверяет согласованность настроек
func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return errors.New("api base url is not set")
	}
	switch c.Session.Backend {
	case BackendFile, BackendMemory, BackendRedis:
	case BackendPostgres:
		if c.Postgres.Conn == "" {
			return errors.New("POSTGRES_CONN env variable is not set")
		}
	default:
		return fmt.Errorf("unknown session backend %q", c.Session.Backend)
	}
	return nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}
