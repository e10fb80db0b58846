package config

import (
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort string `env:"SERVER_PORT" envDefault:"8080"`

	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER" envDefault:"postgres"`
	DBPassword string `env:"DB_PASSWORD"`
	DBName     string `env:"DB_NAME" envDefault:"reservations"`
	DBSSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`

	// RabbitURL is optional; events are not published without it.
	RabbitURL string `env:"RABBITMQ_URL"`

	// RedisAddr is optional; day listings are not cached without it.
	RedisAddr     string        `env:"REDIS_ADDR"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
	CacheTTL      time.Duration `env:"CACHE_TTL" envDefault:"30s"`
	CachePrefix   string        `env:"CACHE_PREFIX" envDefault:"reservations"`

	Timezone      string `env:"RESTAURANT_TIMEZONE" envDefault:"Local"`
	OpensAt       string `env:"OPENS_AT" envDefault:"10:30"`
	ClosesAt      string `env:"CLOSES_AT" envDefault:"21:30"`
	ClosedWeekday string `env:"CLOSED_WEEKDAY" envDefault:"tuesday"`
}

func (c Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

// Parse reads the environment, after loading .env if one exists.
func Parse() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

func Load() Config {
	cfg, err := Parse()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}
