// Package config loads server settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Addr           string
	AllowedOrigins []string
	EngineTimeout  time.Duration
	DefaultSkill   int
	MaxDepth       int
	LogLevel       string
}

func Default() Config {
	return Config{
		Addr:           ":3000",
		AllowedOrigins: []string{"http://localhost:5173"},
		EngineTimeout:  10 * time.Second,
		DefaultSkill:   800,
		MaxDepth:       3,
		LogLevel:       "info",
	}
}

// Load starts from Default and applies any CHESS_* variables that are set.
func Load() (Config, error) {
	return load(os.LookupEnv)
}

func load(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	if v, ok := lookup("CHESS_ADDR"); ok && v != "" {
		cfg.Addr = v
	}
	if v, ok := lookup("CHESS_ALLOWED_ORIGINS"); ok && v != "" {
		cfg.AllowedOrigins = nil
		for _, origin := range strings.Split(v, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
			}
		}
	}
	if v, ok := lookup("CHESS_ENGINE_TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return cfg, fmt.Errorf("CHESS_ENGINE_TIMEOUT: invalid duration %q", v)
		}
		cfg.EngineTimeout = d
	}
	if v, ok := lookup("CHESS_DEFAULT_SKILL"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return cfg, fmt.Errorf("CHESS_DEFAULT_SKILL: invalid rating %q", v)
		}
		cfg.DefaultSkill = n
	}
	if v, ok := lookup("CHESS_MAX_DEPTH"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return cfg, fmt.Errorf("CHESS_MAX_DEPTH: invalid depth %q", v)
		}
		cfg.MaxDepth = n
	}
	if v, ok := lookup("CHESS_LOG_LEVEL"); ok && v != "" {
		switch strings.ToLower(v) {
		case "trace", "debug", "info", "warn", "error":
			cfg.LogLevel = strings.ToLower(v)
		default:
			return cfg, fmt.Errorf("CHESS_LOG_LEVEL: unknown level %q", v)
		}
	}
	return cfg, nil
}
