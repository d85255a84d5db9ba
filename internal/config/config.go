package config

import (
	"flag"
	"fmt"
	"github.com/ilyakaznacheev/cleanenv"
	"os"
	"time"
)

type Config struct {
	Env        string     `yaml:"env" env:"ENV" env-default:"local"`
	Storage    Storage    `yaml:"storage"`
	Database   Database   `yaml:"database"`
	HTTPServer HTTPServer `yaml:"http_server"`
	Registrar  Registrar  `yaml:"registrar"`
	RateLimit  RateLimit  `yaml:"rate_limit"`
	Redis      Redis      `yaml:"redis"`
}

type Storage struct {
	// Driver is one of "postgres", "sqlite" or "memory".
	Driver     string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"postgres"`
	SQLitePath string `yaml:"sqlite_path" env:"SQLITE_PATH" env-default:"./storage/registrar.db"`
}

type Database struct {
	Host     string `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	Port     int    `yaml:"port" env:"DB_PORT" env-default:"5432"`
	User     string `yaml:"user" env:"DB_USER" env-default:"postgres"`
	Password string `yaml:"password" env:"DB_PASSWORD"`
	DBName   string `yaml:"dbname" env:"DB_NAME" env-default:"registrar"`
	SSLMode  string `yaml:"sslmode" env:"DB_SSLMODE" env-default:"disable"`
}

type HTTPServer struct {
	Address     string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:8080"`
	Timeout     time.Duration `yaml:"timeout" env-default:"4s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

type Registrar struct {
	DefaultCapacity int           `yaml:"default_capacity" env-default:"30"`
	ListCacheTTL    time.Duration `yaml:"list_cache_ttl" env-default:"1m"`
}

type RateLimit struct {
	Enabled      bool          `yaml:"enabled" env:"RATE_LIMIT_ENABLED" env-default:"true"`
	RPS          float64       `yaml:"rps" env-default:"5"`
	Burst        int           `yaml:"burst" env-default:"10"`
	IdleTTL      time.Duration `yaml:"idle_ttl" env-default:"15m"`
	CleanupEvery time.Duration `yaml:"cleanup_every" env-default:"2m"`
}

type Redis struct {
	Enabled  bool          `yaml:"enabled" env:"REDIS_ENABLED" env-default:"false"`
	Address  string        `yaml:"address" env:"REDIS_ADDRESS" env-default:"localhost:6379"`
	Password string        `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int           `yaml:"db" env-default:"0"`
	Prefix   string        `yaml:"prefix" env-default:"registrar:stats"`
	TTL      time.Duration `yaml:"ttl" env-default:"24h"`
}

func MustLoad() *Config {
	path := fetchConfigPath()
	if path == "" {
		panic("config path is empty")
	}

	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}

	return cfg
}

func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", path)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if cfg.Registrar.DefaultCapacity <= 0 {
		return nil, fmt.Errorf("registrar.default_capacity must be positive, got %d", cfg.Registrar.DefaultCapacity)
	}

	return &cfg, nil
}

// fetchConfigPath fetches config path from command line flag or environment variable.
// Priority: flag > env > default.
// Default value is empty string.
func fetchConfigPath() string {
	var res string

	flag.StringVar(&res, "config", "", "path to config file")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}

	return res
}
