// Package config loads persistent-gen settings from .persistent-gen.yaml,
// PERSISTENT_GEN_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"go/token"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"persistent-generator/internal/analyze"
	"persistent-generator/internal/common"
	"persistent-generator/internal/gen"
	"persistent-generator/internal/plan"
)

const (
	// FileName is the config file looked up in the working directory.
	FileName = ".persistent-gen.yaml"
	// EnvPrefix prefixes environment variables, e.g. PERSISTENT_GEN_WITH_PREFIX.
	EnvPrefix = "PERSISTENT_GEN"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid configuration")

// Config represents the persistent-gen configuration.
type Config struct {
	WithPrefix   string   `mapstructure:"with_prefix"`
	UpdatePrefix string   `mapstructure:"update_prefix"`
	OutputSuffix string   `mapstructure:"output_suffix"`
	Tag          string   `mapstructure:"tag"`
	Directive    string   `mapstructure:"directive"`
	Receiver     string   `mapstructure:"receiver"`
	Comments     bool     `mapstructure:"comments"`
	Goimports    bool     `mapstructure:"goimports"`
	BuildTags    []string `mapstructure:"build_tags"`
}

// flagKeys maps config keys to the flags that override them.
var flagKeys = map[string]string{
	"build_tags": "tags",
	"goimports":  "goimports",
	"receiver":   "receiver",
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		WithPrefix:   "With",
		UpdatePrefix: "Update",
		OutputSuffix: "_persistent.go",
		Tag:          "persistent",
		Directive:    "persistent:derive",
		Comments:     true,
	}
}

// Load reads the configuration. An explicit path must exist; otherwise
// FileName is looked up in dir and silently skipped when absent. Flags in fs
// that were set on the command line take precedence over everything else.
func Load(path, dir string, fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	def := Default()
	v.SetDefault("with_prefix", def.WithPrefix)
	v.SetDefault("update_prefix", def.UpdatePrefix)
	v.SetDefault("output_suffix", def.OutputSuffix)
	v.SetDefault("tag", def.Tag)
	v.SetDefault("directive", def.Directive)
	v.SetDefault("receiver", def.Receiver)
	v.SetDefault("comments", def.Comments)
	v.SetDefault("goimports", def.Goimports)
	v.SetDefault("build_tags", []string{})

	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		if dir == "" {
			dir = "."
		}

		v.SetConfigName(strings.TrimSuffix(FileName, ".yaml"))
		for _, p := range searchPaths(dir) {
			v.AddConfigPath(p)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if fs != nil {
		for key, name := range flagKeys {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found - use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// searchPaths returns dir and its parents up to the enclosing module root,
// nearest first. go generate runs in the package directory, so a config file
// at the module root applies to every package.
func searchPaths(dir string) []string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return []string{dir}
	}

	var paths []string
	for {
		paths = append(paths, abs)

		if _, err := os.Stat(filepath.Join(abs, "go.mod")); err == nil {
			return paths
		}

		parent := filepath.Dir(abs)
		if parent == abs {
			// Not inside a module: only dir itself is searched.
			return paths[:1]
		}
		abs = parent
	}
}

// Validate checks that the configuration produces compilable code.
func (c *Config) Validate() error {
	for key, prefix := range map[string]string{"with_prefix": c.WithPrefix, "update_prefix": c.UpdatePrefix} {
		if !token.IsIdentifier(common.UpperFirst(prefix)) {
			return fmt.Errorf("%w: %s must be an identifier, got %q", ErrInvalid, key, prefix)
		}
	}

	if common.UpperFirst(c.WithPrefix) == common.UpperFirst(c.UpdatePrefix) {
		return fmt.Errorf("%w: with_prefix and update_prefix must differ, both are %q", ErrInvalid, c.WithPrefix)
	}

	switch {
	case !strings.HasSuffix(c.OutputSuffix, ".go"):
		return fmt.Errorf("%w: output_suffix must end in .go, got %q", ErrInvalid, c.OutputSuffix)
	case strings.HasSuffix(c.OutputSuffix, "_test.go"):
		return fmt.Errorf("%w: output_suffix must not name a test file, got %q", ErrInvalid, c.OutputSuffix)
	case strings.ContainsAny(c.OutputSuffix, `/\`):
		return fmt.Errorf("%w: output_suffix must not contain a path separator, got %q", ErrInvalid, c.OutputSuffix)
	}

	if c.Receiver != "" && !token.IsIdentifier(c.Receiver) {
		return fmt.Errorf("%w: receiver must be an identifier, got %q", ErrInvalid, c.Receiver)
	}

	if strings.HasPrefix(c.Directive, "//") || strings.ContainsAny(c.Directive, " \t") {
		return fmt.Errorf("%w: directive must be written without // and spaces, got %q", ErrInvalid, c.Directive)
	}

	for _, tag := range c.BuildTags {
		if tag == "" || strings.ContainsAny(tag, " \t,") {
			return fmt.Errorf("%w: invalid build tag %q", ErrInvalid, tag)
		}
	}

	return nil
}

// AnalyzeOptions returns the loader options for packages resolved in dir.
func (c *Config) AnalyzeOptions(dir string, log *zap.Logger) analyze.Options {
	return analyze.Options{
		Dir:       dir,
		BuildTags: c.BuildTags,
		Tag:       c.Tag,
		Directive: c.Directive,
		Logger:    log,
	}
}

// PlanConfig returns the method naming configuration.
func (c *Config) PlanConfig() plan.Config {
	return plan.Config{
		WithPrefix:   c.WithPrefix,
		UpdatePrefix: c.UpdatePrefix,
		Receiver:     c.Receiver,
	}
}

// GeneratorConfig returns the generator configuration. output overrides the
// file name of a single generated record.
func (c *Config) GeneratorConfig(output string, log *zap.Logger) gen.GeneratorConfig {
	return gen.GeneratorConfig{
		OutputSuffix:     c.OutputSuffix,
		Output:           output,
		GenerateComments: c.Comments,
		BuildTags:        c.BuildTags,
		Goimports:        c.Goimports,
		Logger:           log,
	}
}
