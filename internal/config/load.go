package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type LoadOptions struct {
	ExplicitPath string
	WorkingDir   string
	Env          map[string]string
}

type fileConfig struct {
	Version     *int         `yaml:"version"`
	Defaults    fileDefaults `yaml:"defaults"`
	Directories *[]string    `yaml:"directories"`
}

type fileDefaults struct {
	Threads *int    `yaml:"threads"`
	Remote  *string `yaml:"remote"`
}

func Load(opts LoadOptions) (Config, error) {
	cfg := DefaultConfig()

	cwd := opts.WorkingDir
	if strings.TrimSpace(cwd) == "" {
		wd, err := os.Getwd()
		if err != nil {
			return Config{}, fmt.Errorf("resolve working directory: %w", err)
		}
		cwd = wd
	}

	env := opts.Env
	if env == nil {
		env = osEnvMap()
	}

	if explicit := strings.TrimSpace(opts.ExplicitPath); explicit != "" {
		if err := mergeFile(&cfg, explicit, true); err != nil {
			return Config{}, err
		}
	} else {
		userPath, err := UserConfigPath()
		if err != nil {
			return Config{}, err
		}
		if err := mergeFile(&cfg, userPath, false); err != nil {
			return Config{}, err
		}

		if err := mergeFile(&cfg, ProjectConfigPath(cwd), false); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnvOverrides(&cfg, env); err != nil {
		return Config{}, err
	}

	normalize(&cfg)
	return cfg, nil
}

func mergeFile(cfg *Config, path string, required bool) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return nil
		}
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("config file does not exist: %s", path)
		}
		return fmt.Errorf("read config file %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(payload, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if fc.Version != nil {
		cfg.Version = *fc.Version
	}
	if fc.Defaults.Threads != nil {
		cfg.Defaults.Threads = *fc.Defaults.Threads
	}
	if fc.Defaults.Remote != nil {
		cfg.Defaults.Remote = strings.TrimSpace(*fc.Defaults.Remote)
	}
	if fc.Directories != nil {
		cfg.Directories = append([]string{}, (*fc.Directories)...)
	}

	return nil
}

func applyEnvOverrides(cfg *Config, env map[string]string) error {
	if raw, ok := env["GROPPY_THREADS"]; ok && strings.TrimSpace(raw) != "" {
		threads, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("GROPPY_THREADS must be an integer: %q", raw)
		}
		cfg.Defaults.Threads = threads
	}

	if raw, ok := env["GROPPY_REMOTE"]; ok && strings.TrimSpace(raw) != "" {
		cfg.Defaults.Remote = strings.TrimSpace(raw)
	}

	return nil
}

func normalize(cfg *Config) {
	dirs := make([]string, 0, len(cfg.Directories))
	for _, dir := range cfg.Directories {
		trimmed := strings.TrimSpace(dir)
		if trimmed == "" {
			continue
		}
		dirs = append(dirs, trimmed)
	}
	cfg.Directories = dirs
}

func osEnvMap() map[string]string {
	result := map[string]string{}
	for _, pair := range os.Environ() {
		pieces := strings.SplitN(pair, "=", 2)
		if len(pieces) == 2 {
			result[pieces[0]] = pieces[1]
		}
	}
	return result
}
