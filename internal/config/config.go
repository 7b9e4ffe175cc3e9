package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config describes the application level configuration loaded from json.
type Config struct {
	RomsRoot       string         `json:"roms_root"`
	CollectionsDir string         `json:"collections_dir"`
	ThemesDir      string         `json:"themes_dir"`
	SettingsDB     string         `json:"settings_db"`
	MameDat        string         `json:"mame_dat"`
	FBNeoDat       string         `json:"fbneo_dat"`
	NonGameSystems []string       `json:"non_game_systems"`
	PinnedSystem   string         `json:"pinned_system"`
	Systems        []SystemConfig `json:"systems"`
	S3             S3Config       `json:"s3"`
}

// SystemConfig is one entry of the systems list.
type SystemConfig struct {
	Name       string           `json:"name"`
	FullName   string           `json:"full_name"`
	Path       string           `json:"path"`
	Extensions []string         `json:"extensions"`
	Command    string           `json:"command"`
	Platforms  []string         `json:"platforms"`
	Theme      string           `json:"theme"`
	Emulators  []EmulatorConfig `json:"emulators"`
}

type EmulatorConfig struct {
	Name  string   `json:"name"`
	Cores []string `json:"cores"`
}

// S3Config holds the options for accessing the object store used to back up
// custom collections.
type S3Config struct {
	Host            string `json:"host"`
	Bucket          string `json:"bucket"`
	Region          string `json:"region"`
	AccessKeyID     string `json:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key"`
	SessionToken    string `json:"session_token"`
	ForcePathStyle  bool   `json:"force_path_style"`
	Prefix          string `json:"prefix"`
}

// Enabled reports whether a backup target is configured.
func (c S3Config) Enabled() bool {
	return c.Host != "" && c.Bucket != ""
}

// LoadFirst tries to load configuration from the given paths, returning the
// first successfully decoded configuration. If none of the paths contain a
// readable config, an error is returned.
func LoadFirst(paths ...string) (*Config, error) {
	var lastErr error
	for _, path := range paths {
		if path == "" {
			continue
		}
		cfg, err := Load(path)
		if errors.Is(err, os.ErrNotExist) {
			lastErr = err
			continue
		}
		if err != nil {
			return nil, err
		}
		return cfg, nil
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("config not found in paths: %v", paths)
	}
	return nil, lastErr
}

// Load reads configuration from a single json file path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.CollectionsDir == "" && c.RomsRoot != "" {
		c.CollectionsDir = filepath.Join(c.RomsRoot, ".collections")
	}
	if c.SettingsDB == "" && c.CollectionsDir != "" {
		c.SettingsDB = filepath.Join(c.CollectionsDir, "settings.db")
	}
	for i := range c.Systems {
		sys := &c.Systems[i]
		if sys.FullName == "" {
			sys.FullName = sys.Name
		}
		if sys.Path == "" && c.RomsRoot != "" {
			sys.Path = filepath.Join(c.RomsRoot, sys.Name)
		}
		for j, ext := range sys.Extensions {
			ext = strings.ToLower(strings.TrimSpace(ext))
			if ext != "" && !strings.HasPrefix(ext, ".") {
				ext = "." + ext
			}
			sys.Extensions[j] = ext
		}
	}
}

// Validate performs basic validation of the configuration.
func (c *Config) Validate() error {
	if c.RomsRoot == "" {
		return errors.New("config.roms_root must be set")
	}
	if len(c.Systems) == 0 {
		return errors.New("config.systems must not be empty")
	}
	seen := make(map[string]struct{}, len(c.Systems))
	for i, sys := range c.Systems {
		if sys.Name == "" {
			return fmt.Errorf("config.systems[%d].name must be set", i)
		}
		key := strings.ToLower(sys.Name)
		if _, ok := seen[key]; ok {
			return fmt.Errorf("config.systems[%d]: duplicate system %s", i, sys.Name)
		}
		seen[key] = struct{}{}
		if len(sys.Extensions) == 0 {
			return fmt.Errorf("config.systems[%d].extensions must not be empty", i)
		}
	}
	if c.S3.Host != "" && c.S3.Bucket == "" {
		return errors.New("config.s3.bucket must be set")
	}
	return nil
}

// IsGameSystem reports whether the named system holds games.
func (c *Config) IsGameSystem(name string) bool {
	for _, n := range c.NonGameSystems {
		if strings.EqualFold(n, name) {
			return false
		}
	}
	return true
}
