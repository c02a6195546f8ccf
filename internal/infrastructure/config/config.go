package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	Mongo MongoConfig
	Redis RedisConfig
	Geo   GeoConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=josetsu"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// GeoConfig holds the base URLs of the external lookup collaborators.
type GeoConfig struct {
	GeocodeBaseURL string        `env:"GEOCODE_BASE_URL, default=https://nominatim.openstreetmap.org"`
	PostalBaseURL  string        `env:"POSTAL_BASE_URL,  default=https://zipcloud.ibsnet.co.jp"`
	RouteBaseURL   string        `env:"ROUTE_BASE_URL,   default=https://router.project-osrm.org"`
	Timeout        time.Duration `env:"GEO_TIMEOUT,      default=5s"`
	// RefreshWorkers sizes the geocode refresh worker pool.
	RefreshWorkers int `env:"GEO_REFRESH_WORKERS, default=4"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
