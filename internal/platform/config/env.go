package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// envSource answers key lookups with the precedence used everywhere in this
// package: explicit map, then process environment, then the .env file.
type envSource struct {
	overrides map[string]string
	useOSEnv  bool
	dotenv    map[string]string
}

func newEnvSource(o loaderOptions) (envSource, error) {
	dotenv, err := parseDotEnvFile(o.envFile)
	if err != nil {
		return envSource{}, err
	}
	return envSource{
		overrides: o.envMap,
		useOSEnv:  o.useSystemEnv,
		dotenv:    dotenv,
	}, nil
}

func (s envSource) lookup(key string) (string, bool) {
	if value, ok := s.overrides[key]; ok {
		return value, true
	}
	if s.useOSEnv {
		if value, ok := os.LookupEnv(key); ok {
			return value, true
		}
	}
	value, ok := s.dotenv[key]
	return value, ok
}

// str returns the value for key, or fallback when unset or blank.
func (s envSource) str(key, fallback string) string {
	if value, ok := s.lookup(key); ok && value != "" {
		return value
	}
	return fallback
}

// dur parses a time.Duration value, keeping fallback on absence or bad input.
func (s envSource) dur(key string, fallback time.Duration) time.Duration {
	value, ok := s.lookup(key)
	if !ok || value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

// flag parses a boolean, accepting the usual spellings.
func (s envSource) flag(key string, fallback bool) bool {
	value, ok := s.lookup(key)
	if !ok || value == "" {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	}
	return fallback
}

// merged flattens every source into one map, lowest precedence first.
func (s envSource) merged() map[string]string {
	values := make(map[string]string, len(s.dotenv)+len(s.overrides))
	for key, value := range s.dotenv {
		values[key] = value
	}
	if s.useOSEnv {
		for _, entry := range os.Environ() {
			key, value, ok := strings.Cut(entry, "=")
			if !ok || strings.TrimSpace(key) == "" {
				continue
			}
			values[strings.TrimSpace(key)] = value
		}
	}
	for key, value := range s.overrides {
		values[key] = value
	}
	return values
}

// parseDotEnvFile reads KEY=VALUE lines; comments, blanks, and an optional
// "export " prefix are tolerated. A missing file is not an error.
func parseDotEnvFile(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}

	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: unable to read %s: %w", path, err)
	}
	defer file.Close()

	values := make(map[string]string)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimSpace(strings.TrimPrefix(line, "export "))
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		values[key] = strings.Trim(strings.TrimSpace(value), `"'`)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("config: failed parsing %s: %w", path, err)
	}
	return values, nil
}
