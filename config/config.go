package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Addr            string        `yaml:"addr"`
	SubmitDelay     time.Duration `yaml:"submit_delay"`
	TransitionDelay time.Duration `yaml:"transition_delay"`
	DemoEmail       string        `yaml:"demo_email"`
	HomePath        string        `yaml:"home_path"`
	SessionTTL      time.Duration `yaml:"session_ttl"`
	SessionCookie   string        `yaml:"session_cookie"`
}

func Default() Config {
	return Config{
		Addr:            ":8080",
		SubmitDelay:     1500 * time.Millisecond,
		TransitionDelay: 300 * time.Millisecond,
		DemoEmail:       "demo@cinebook.com",
		HomePath:        "/home",
		SessionTTL:      30 * time.Minute,
		SessionCookie:   "mb_view",
	}
}

// Load reads .env (if present), then the YAML file named by
// MOVIEBOOK_CONFIG (if set), then plain environment overrides.
func Load(logger *log.Logger) (Config, error) {
	if logger == nil {
		logger = log.Default()
	}
	if err := godotenv.Load(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load .env: %w", err)
		}
		logger.Println("[config] no .env file, using environment")
	}

	cfg := Default()
	if path := os.Getenv("MOVIEBOOK_CONFIG"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.mergeEnv(os.Getenv); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) mergeEnv(getenv func(string) string) error {
	strs := map[string]*string{
		"ADDR":           &c.Addr,
		"DEMO_EMAIL":     &c.DemoEmail,
		"HOME_PATH":      &c.HomePath,
		"SESSION_COOKIE": &c.SessionCookie,
	}
	for key, dst := range strs {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}

	durs := map[string]*time.Duration{
		"SUBMIT_DELAY":     &c.SubmitDelay,
		"TRANSITION_DELAY": &c.TransitionDelay,
		"SESSION_TTL":      &c.SessionTTL,
	}
	for key, dst := range durs {
		v := getenv(key)
		if v == "" {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = d
	}
	return nil
}
