package config

import (
	"bytes"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds the run settings that can come from a file or the environment.
type Config struct {
	Cipher CipherConfig `json:"cipher" yaml:"cipher"`
	Log    LogConfig    `json:"log" yaml:"log"`
}

type CipherConfig struct {
	Key      string `json:"key" yaml:"key"`
	Mode     string `json:"mode" yaml:"mode"`
	IV       string `json:"iv" yaml:"iv"`
	Parallel bool   `json:"parallel" yaml:"parallel"`
	Workers  int    `json:"workers" yaml:"workers"`
}

type LogConfig struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"`
}

func Default() *Config {
	return &Config{
		Cipher: CipherConfig{
			Mode: "ECB",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads a YAML file over the defaults and then applies environment overrides.
// An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := cfg.decode(data); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) decode(data []byte) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return dec.Decode(c)
}

func (c *Config) applyEnv() {
	c.Cipher.Key = getEnv("SDES_KEY", c.Cipher.Key)
	c.Cipher.Mode = getEnv("SDES_MODE", c.Cipher.Mode)
	c.Cipher.IV = getEnv("SDES_IV", c.Cipher.IV)
	c.Cipher.Workers = getEnvInt("SDES_WORKERS", c.Cipher.Workers)
	c.Log.Level = getEnv("SDES_LOG_LEVEL", c.Log.Level)
}

func (c *Config) Validate() error {
	if c.Cipher.Workers < 0 {
		return fmt.Errorf("cipher.workers must not be negative, got %d", c.Cipher.Workers)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
