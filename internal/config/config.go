// Package config reads server and CLI settings from the environment, with an
// optional .env file in the working directory.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const EnvLocal = "local"

type Config struct {
	Env        string `env:"ENV" env-default:"local"`
	HTTP       HTTPConfig
	Storage    StorageConfig
	Security   SecConfig
	Simulation SimConfig
	Log        LogConfig
}

type HTTPConfig struct {
	Port       uint16        `env:"HTTP_PORT" env-default:"8080"`
	Timeout    time.Duration `env:"HTTP_TIMEOUT" env-default:"30s"`
	StaticPath string        `env:"STATIC_PATH" env-default:"./static"`
}

type StorageConfig struct {
	// Driver is one of sqlite, redis or memory.
	Driver        string `env:"STORAGE_DRIVER" env-default:"sqlite"`
	DBPath        string `env:"DB_PATH" env-default:"./data/autorug.db"`
	RedisAddr     string `env:"REDIS_ADDR" env-default:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" env-default:"0"`
}

type SecConfig struct {
	JWTSecret  string        `env:"JWT_SECRET"`
	TokenTTL   time.Duration `env:"JWT_TTL" env-default:"24h"`
	BcryptCost int           `env:"BCRYPT_COST" env-default:"10"`
}

type SimConfig struct {
	CreationDelay  time.Duration `env:"SIM_CREATION_DELAY" env-default:"3s"`
	WalletDelayMin time.Duration `env:"SIM_WALLET_DELAY_MIN" env-default:"3s"`
	WalletDelayMax time.Duration `env:"SIM_WALLET_DELAY_MAX" env-default:"4s"`
	RemovalMin     time.Duration `env:"SIM_REMOVAL_DELAY_MIN" env-default:"2s"`
	RemovalMax     time.Duration `env:"SIM_REMOVAL_DELAY_MAX" env-default:"4s"`
}

type LogConfig struct {
	Level  string `env:"LOG_LEVEL" env-default:"info"`
	Format string `env:"LOG_FORMAT" env-default:"text"`
}

// Load reads the configuration and validates it.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, reading from environment variables")
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment variables: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// MustLoad is Load that exits the process on error.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	return cfg
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case "sqlite", "redis", "memory":
	default:
		return fmt.Errorf("STORAGE_DRIVER must be sqlite, redis or memory, got %q", c.Storage.Driver)
	}

	s := c.Simulation
	if s.CreationDelay < 0 || s.WalletDelayMin < 0 || s.RemovalMin < 0 {
		return errors.New("simulated delays must not be negative")
	}
	if s.WalletDelayMax < s.WalletDelayMin || s.RemovalMax < s.RemovalMin {
		return errors.New("simulated delay maximums must not be below their minimums")
	}
	return nil
}

// RequireJWTSecret makes sure a signing secret is set. Outside the local
// environment a missing secret is an error; locally a random one is generated,
// so tokens do not survive a restart.
func (c *Config) RequireJWTSecret() error {
	if c.Security.JWTSecret != "" {
		return nil
	}
	if c.Env != EnvLocal {
		return errors.New("JWT_SECRET is required")
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Errorf("failed to generate JWT secret: %w", err)
	}
	c.Security.JWTSecret = hex.EncodeToString(buf)
	slog.Warn("JWT_SECRET not set, using a random secret for this run")
	return nil
}
