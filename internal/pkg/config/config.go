package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	API     APIConfig
	News    NewsConfig
	Geo     GeoConfig
	Refresh RefreshConfig
	Storage StorageConfig
	Ops     OpsConfig
}

type APIConfig struct {
	BaseURL string        `env:"API_BASE_URL, default=https://nagappon-server.onrender.com/api"`
	Timeout time.Duration `env:"API_TIMEOUT,  default=15s"`
}

type NewsConfig struct {
	BaseURL  string `env:"NEWS_BASE_URL,  default=https://newsapi.org"`
	APIKey   string `env:"NEWS_API_KEY"`
	Query    string `env:"NEWS_QUERY,     default=waste management OR garbage disposal"`
	Language string `env:"NEWS_LANGUAGE,  default=tl"`
	PageSize int    `env:"NEWS_PAGE_SIZE, default=3"`
}

type GeoConfig struct {
	DirectionsURL   string  `env:"DIRECTIONS_BASE_URL, default=https://api.mapbox.com"`
	DirectionsToken string  `env:"DIRECTIONS_TOKEN"`
	FixedLatitude   float64 `env:"FIXED_LATITUDE,      default=13.6218"`
	FixedLongitude  float64 `env:"FIXED_LONGITUDE,     default=123.1948"`
	LocationGranted bool    `env:"LOCATION_GRANTED,    default=true"`
}

type RefreshConfig struct {
	Interval time.Duration `env:"REFRESH_INTERVAL, default=30s"`
}

// StorageConfig selects where session state lives: a local sealed file
// (default) or a Redis instance.
type StorageConfig struct {
	Backend string `env:"STORAGE_BACKEND,      default=file"`
	Path    string `env:"STORAGE_PATH,         default=.nagaclean/session.json"`
	SealKey string `env:"STORAGE_SEAL_KEY_HEX"`
	Redis   RedisConfig
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type OpsConfig struct {
	Port string `env:"OPS_PORT, default=8081"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
