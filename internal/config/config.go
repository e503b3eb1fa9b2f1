// Package config loads the agent configuration: defaults, then an optional
// TOML file, then environment variables.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds everything a single run needs. All fields except Token and
// Repository have working defaults.
type Config struct {
	// Token is the platform credential. Falls back to GITHUB_TOKEN.
	Token string `koanf:"token"`

	// Repository is the owner/name slug. Falls back to GITHUB_REPOSITORY.
	Repository string `koanf:"repository"`

	StagingBranch    string `koanf:"staging_branch"`
	ProductionBranch string `koanf:"production_branch"`

	// AbandonedTimeout is the inactivity threshold in days.
	AbandonedTimeout int `koanf:"abandoned_timeout"`

	CheckConflicts bool `koanf:"check_conflicts"`

	// ConflictCheckInterval (minutes) is only meaningful to the external
	// scheduler; it is accepted and validated but unused within a run.
	ConflictCheckInterval int `koanf:"conflict_check_interval"`

	// TeamID enables team notifications when non-empty.
	TeamID string `koanf:"team_id"`
}

// LoadConfig loads the configuration from a file
func LoadConfig(configPath string) (*Config, error) {
	var k = koanf.New(".")

	// Set up default configuration
	k.Load(confmap.Provider(map[string]interface{}{
		"staging_branch":          "staging",
		"production_branch":       "main",
		"abandoned_timeout":       30,
		"check_conflicts":         false,
		"conflict_check_interval": 60,
		"team_id":                 "",
	}, "."), nil)

	// Load from TOML file if it exists
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), toml.Parser()); err != nil {
			return nil, fmt.Errorf("error loading config: %w", err)
		}
	} else {
		defaultPaths := []string{"./prlabeler.toml", "$HOME/.prlabeler.toml"}
		for _, path := range defaultPaths {
			path = os.ExpandEnv(path)
			if _, err := os.Stat(path); err == nil {
				if err := k.Load(file.Provider(path), toml.Parser()); err == nil {
					break
				}
			}
		}
	}

	// Load from environment variables with prefix PRLABELER_
	k.Load(env.Provider("PRLABELER_", ".", func(s string) string {
		return strings.Replace(
			strings.ToLower(strings.TrimPrefix(s, "PRLABELER_")), "__", ".", -1)
	}), nil)

	var config Config
	if err := k.Unmarshal("", &config); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// The Actions runtime provides both of these; explicit config wins.
	if config.Token == "" {
		config.Token = os.Getenv("GITHUB_TOKEN")
	}
	if config.Repository == "" {
		config.Repository = os.Getenv("GITHUB_REPOSITORY")
	}

	return &config, nil
}

// InitConfig initializes a new configuration file
func InitConfig(configPath string) error {
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("configuration file already exists at %s", configPath)
	}

	sampleConfig := `# prlabeler configuration

# Platform credential. Usually supplied via GITHUB_TOKEN instead.
# token = "ghp_..."

# Repository slug. Usually supplied via GITHUB_REPOSITORY instead.
# repository = "org/repo"

staging_branch = "staging"
production_branch = "main"

# Days of inactivity before an open PR is marked abandoned.
abandoned_timeout = 30

check_conflicts = false
conflict_check_interval = 60

# Team handle to @-mention; empty disables team notifications.
team_id = ""
`

	return os.WriteFile(configPath, []byte(sampleConfig), 0644)
}

// Validate validates the configuration
func Validate(config *Config) error {
	if config.Token == "" {
		return fmt.Errorf("token is required (set token or GITHUB_TOKEN)")
	}

	if config.Repository == "" {
		return fmt.Errorf("repository is required (set repository or GITHUB_REPOSITORY)")
	}
	if !strings.Contains(config.Repository, "/") {
		return fmt.Errorf("repository must be an owner/name slug, got %q", config.Repository)
	}

	if config.AbandonedTimeout <= 0 {
		return fmt.Errorf("abandoned_timeout must be a positive number of days, got %d", config.AbandonedTimeout)
	}

	if config.ConflictCheckInterval <= 0 {
		return fmt.Errorf("conflict_check_interval must be a positive number of minutes, got %d", config.ConflictCheckInterval)
	}

	return nil
}
