// Package config loads tagkb settings with Viper.
//
// Sources, lowest precedence first: built-in defaults, ~/.tagkb/config.toml,
// an explicit --config file, then TAGKB_* environment variables
// (TAGKB_ENGINE_MAX_TAG_LENGTH overrides engine.max_tag_length).
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pbaille/tagkb/internal/errors"
	"github.com/pbaille/tagkb/internal/tagindex"
)

// Config is the full host configuration.
type Config struct {
	Database   DatabaseConfig `mapstructure:"database"`
	Engine     EngineConfig   `mapstructure:"engine"`
	Query      QueryConfig    `mapstructure:"query"`
	Log        LogConfig      `mapstructure:"log"`
	Categories []CategorySeed `mapstructure:"categories"`
	AutoTag    AutoTagConfig  `mapstructure:"autotag"`
}

// DatabaseConfig locates the SQLite snapshot store.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// EngineConfig mirrors tagindex.Settings.
type EngineConfig struct {
	CaseSensitive   bool `mapstructure:"case_sensitive"`
	MaxTagLength    int  `mapstructure:"max_tag_length"`
	EnableHierarchy bool `mapstructure:"enable_hierarchy"`
	EnableSynonyms  bool `mapstructure:"enable_synonyms"`
}

// QueryConfig holds query defaults used by the CLI.
type QueryConfig struct {
	Limit           int  `mapstructure:"limit"`
	IncludeChildren bool `mapstructure:"include_children"`
}

// LogConfig selects logger output.
type LogConfig struct {
	JSON  bool   `mapstructure:"json"`
	Level string `mapstructure:"level"`
}

// CategorySeed is a category registered when a fresh index is created.
type CategorySeed struct {
	Name        string `mapstructure:"name"`
	Description string `mapstructure:"description"`
}

// AutoTagConfig maps a tag to the tags implied by it.
type AutoTagConfig struct {
	Enabled bool                `mapstructure:"enabled"`
	Rules   map[string][]string `mapstructure:"rules"`
}

// DefaultDir is the per-user directory for the database and config file.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".tagkb"
	}
	return filepath.Join(home, ".tagkb")
}

// Load reads configuration. An empty path only consults the user config
// file, which may be absent; an explicit path must exist.
func Load(path string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix("TAGKB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigType("toml")
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config file %s", path)
		}
	} else {
		userConfig := filepath.Join(DefaultDir(), "config.toml")
		if _, err := os.Stat(userConfig); err == nil {
			v.SetConfigFile(userConfig)
			if err := v.ReadInConfig(); err != nil {
				return nil, errors.Wrapf(err, "read config file %s", userConfig)
			}
		}
	}

	return LoadWithViper(v)
}

// LoadWithViper unmarshals and validates configuration from v.
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the engine cannot honour.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return errors.NewInvalidInputf("database.path must be set")
	}
	if c.Engine.MaxTagLength <= 0 {
		return errors.NewInvalidInputf("engine.max_tag_length must be positive, got %d", c.Engine.MaxTagLength)
	}
	if c.Query.Limit < 0 {
		return errors.NewInvalidInputf("query.limit must not be negative, got %d", c.Query.Limit)
	}
	for i, seed := range c.Categories {
		if strings.TrimSpace(seed.Name) == "" {
			return errors.NewInvalidInputf("categories[%d] has no name", i)
		}
	}
	return nil
}

// EngineOptions turns the engine section into tagindex options.
func (c *Config) EngineOptions(logger *zap.SugaredLogger) []tagindex.Option {
	return []tagindex.Option{
		tagindex.WithCaseSensitive(c.Engine.CaseSensitive),
		tagindex.WithMaxTagLength(c.Engine.MaxTagLength),
		tagindex.WithHierarchy(c.Engine.EnableHierarchy),
		tagindex.WithSynonyms(c.Engine.EnableSynonyms),
		tagindex.WithLogger(logger),
	}
}

// AutoTagger builds the engine hook from the configured rules. It returns nil
// when auto-tagging is disabled or no rules are set.
func (c *Config) AutoTagger(norm tagindex.Normalizer) tagindex.AutoTagFunc[string] {
	if !c.AutoTag.Enabled || len(c.AutoTag.Rules) == 0 {
		return nil
	}
	rules := make(map[string][]string, len(c.AutoTag.Rules))
	for tag, implied := range c.AutoTag.Rules {
		key := norm.Normalize(tag)
		rules[key] = append(rules[key], implied...)
	}
	return func(_ string, tag string) []string {
		return rules[tag]
	}
}
