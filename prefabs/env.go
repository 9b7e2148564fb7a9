package prefabs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const envPrefix = "BUGBASH_"

// LoadEnv loads .env style files into the process environment. Missing
// files are skipped; variables already set win.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("prefabs: load env %s: %w", f, err)
		}
	}
	return nil
}

// ReadEnvFile parses a .env file without touching the environment.
func ReadEnvFile(path string) (map[string]string, error) {
	vals, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("prefabs: read env %s: %w", path, err)
	}
	return vals, nil
}

// ApplyEnv overrides tuning values from BUGBASH_* variables. lookup
// defaults to os.LookupEnv.
func ApplyEnv(t Tuning, lookup func(string) (string, bool)) (Tuning, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	floats := []struct {
		key string
		dst *float64
	}{
		{"BUG_SIZE", &t.Bug.Size},
		{"BUG_SPEED", &t.Bug.Speed},
		{"MAX_TILT", &t.Bug.MaxTilt},
		{"AIM_SPEED", &t.Aim.Speed},
		{"DEAD_ZONE", &t.Aim.DeadZone},
	}
	for _, f := range floats {
		raw, ok := lookup(envPrefix + f.key)
		if !ok || strings.TrimSpace(raw) == "" {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return t, fmt.Errorf("prefabs: env %s%s: %w", envPrefix, f.key, err)
		}
		*f.dst = v
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"DWELL_MIN_MS", &t.Bug.DwellMinMS},
		{"DWELL_MAX_MS", &t.Bug.DwellMaxMS},
	}
	for _, i := range ints {
		raw, ok := lookup(envPrefix + i.key)
		if !ok || strings.TrimSpace(raw) == "" {
			continue
		}
		v, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return t, fmt.Errorf("prefabs: env %s%s: %w", envPrefix, i.key, err)
		}
		*i.dst = v
	}

	if raw, ok := lookup(envPrefix + "HUNTER"); ok && strings.TrimSpace(raw) != "" {
		t.ActiveHunter = strings.TrimSpace(raw)
	}

	return t, t.Validate()
}

// MapLookup adapts a map from ReadEnvFile to ApplyEnv.
func MapLookup(vals map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := vals[k]
		return v, ok
	}
}
