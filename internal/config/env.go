package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Env is the process-level configuration taken from the environment.
type Env struct {
	DataDir   string `env:"ODEKIT_DATA"`
	LogLevel  string `env:"ODEKIT_LOG_LEVEL" envDefault:"warn"`
	LogFormat string `env:"ODEKIT_LOG_FORMAT" envDefault:"text"`
}

// LoadEnv reads the given dotenv files (".env" when none are named) into
// the process environment, then parses Env. Missing files are ignored and
// variables already set in the environment win.
func LoadEnv(files ...string) (Env, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Env{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg Env
	if err := env.Parse(&cfg); err != nil {
		return Env{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
