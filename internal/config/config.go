package config

import (
	"os"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Port          string `yaml:"port"`
	DBDriver      string `yaml:"db_driver"`
	DBDSN         string `yaml:"db_dsn"`
	SessionSecret string `yaml:"session_secret"`
	AllowedOrigin string `yaml:"allowed_origin"`
}

// Default returns the configuration used when no config file is present:
// a local sqlite database, matching the development setup.
func Default() *Config {
	cfg := &Config{
		Port:     "8080",
		DBDriver: "sqlite3",
		DBDSN:    "solar.db",
	}
	cfg.applyEnv()
	return cfg
}

// Load reads a YAML config file. Environment variables (PORT, DB_DRIVER,
// DB_DSN, SESSION_SECRET, ALLOWED_ORIGIN) override file values.
func Load(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	config.applyEnv()
	return &config, nil
}

func (c *Config) applyEnv() {
	c.Port = getEnv("PORT", c.Port)
	c.DBDriver = getEnv("DB_DRIVER", c.DBDriver)
	c.DBDSN = getEnv("DB_DSN", c.DBDSN)
	c.SessionSecret = getEnv("SESSION_SECRET", c.SessionSecret)
	c.AllowedOrigin = getEnv("ALLOWED_ORIGIN", c.AllowedOrigin)
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}
