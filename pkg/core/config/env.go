package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Env holds the settings read from the environment.
type Env struct {
	DatabaseURL string `env:"DATABASE_URL"`
	StartYear   int    `env:"SIMULATION_START_YEAR"`
	Years       int    `env:"SIMULATION_YEARS" envDefault:"30"`
	LogPrefix   string `env:"SIMULATION_LOG_PREFIX" envDefault:""`
}

// LoadEnv loads the first existing .env file among paths, then parses the
// environment. A missing .env file is not an error.
func LoadEnv(paths ...string) (Env, error) {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return Env{}, fmt.Errorf("load %s: %w", p, err)
		}
		break
	}

	var e Env
	if err := env.Parse(&e); err != nil {
		return Env{}, fmt.Errorf("parse env: %w", err)
	}
	if e.Years < 0 {
		return Env{}, fmt.Errorf("SIMULATION_YEARS cannot be negative, got %d", e.Years)
	}
	return e, nil
}
