package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Debug     bool    `yaml:"debug" env:"DEBUG"`
	AppSecret string  `yaml:"app_secret" env:"APP_SECRET" env-required:"true"`
	Log       Log     `yaml:"log"`
	Limiter   Limiter `yaml:"limiter"`
	Server    Server  `yaml:"server"`
	API       API     `yaml:"api"`
	Storage   Storage `yaml:"storage"`
	Cookies   Cookies `yaml:"cookies"`
	Tasks     Tasks   `yaml:"tasks"`
}

type Log struct {
	// File enables rotated file output instead of stdout when not empty.
	File       string `yaml:"file" env:"LOG_FILE"`
	MaxSizeMB  int    `yaml:"max_size_mb" env-default:"100"`
	MaxBackups int    `yaml:"max_backups" env-default:"3"`
	MaxAgeDays int    `yaml:"max_age_days" env-default:"30"`
}

type Limiter struct {
	Enabled bool    `yaml:"enabled"`
	Rps     float64 `yaml:"rps" env-default:"20"`
	Burst   int     `yaml:"burst" env-default:"5"`
}

type Server struct {
	Port string `yaml:"port" env:"PORT" env-default:"3000"`
	Host string `yaml:"host" env-default:"localhost"`

	ReadTimeout     time.Duration `yaml:"read_timeout" env-default:"5s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env-default:"10s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env-default:"10s"`
}

// API describes the remote movie social network service.
type API struct {
	BaseURL      string `yaml:"base_url" env:"API_URL" env-default:"http://localhost:5001"`
	ImageBaseURL string `yaml:"image_base_url" env-default:"https://image.tmdb.org/t/p"`
	PopularQuery string `yaml:"popular_query" env-default:"marvel"`
	PopularLimit int    `yaml:"popular_limit" env-default:"12"`

	// Zero keeps the transport defaults.
	Timeout time.Duration `yaml:"timeout" env-default:"0s"`
}

type Storage struct {
	Driver          string        `yaml:"driver" env:"STORAGE_DRIVER" env-default:"sqlite"`
	Dsn             string        `yaml:"dsn" env:"STORAGE_DSN" env-default:"search_cache.db"`
	MaxConns        int           `yaml:"max_conns" env-default:"10"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env-default:"10m"`
	// Cached searches untouched for longer than Retention are pruned.
	Retention time.Duration `yaml:"retention" env-default:"720h"`
}

type Cookies struct {
	Secure bool          `yaml:"secure" env:"COOKIE_SECURE"`
	MaxAge time.Duration `yaml:"max_age" env-default:"720h"`
}

type Tasks struct {
	MaxWorkers   int `yaml:"max_workers" env-default:"2"`
	MaxQueueSize int `yaml:"max_queue_size" env-default:"64"`
}

func MustLoad(configPath string) *Config {
	var cfg Config
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic(fmt.Errorf("config file %s not found", configPath))
	}
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		panic(err)
	}
	// env-required only checks that APP_SECRET is set, not that it is non-blank.
	if strings.TrimSpace(cfg.AppSecret) == "" {
		panic(errors.New("app secret must not be empty"))
	}

	return &cfg
}
