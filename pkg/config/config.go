package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

const defaultEnvFile = "./configs/.env"

var (
	once     sync.Once
	instance *Config
)

type Config struct {
}

// New loads the env file named by ENV_FILE (./configs/.env by default) once.
// A missing file is not an error: the process environment is used as is.
func New() *Config {
	once.Do(func() {
		path := os.Getenv("ENV_FILE")
		if path == "" {
			path = defaultEnvFile
		}
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				slog.Warn("env file not found, using process environment", slog.String("path", path))
			} else {
				slog.Error("loading envs error", slog.String("path", path), slog.String("error", err.Error()))
			}
		}
		instance = &Config{}
	})
	return instance
}

func (c *Config) GetString(key string) string {
	return os.Getenv(key)
}

func (c *Config) GetStringOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func (c *Config) GetDurationOr(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("invalid duration in config, using default", slog.String("key", key), slog.String("value", v))
		return def
	}
	return d
}

// Location resolves CALENDAR_TIMEZONE. Empty or "Local" means the server zone.
func (c *Config) Location() (*time.Location, error) {
	name := c.GetString("CALENDAR_TIMEZONE")
	if name == "" || name == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(name)
}
