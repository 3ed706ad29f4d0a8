package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"stubgen/internal/canon"
)

// Config represents the complete configuration.
type Config struct {
	TypeMappings map[string]string `yaml:"typeMappings" json:"typeMappings"`
	Options      Options           `yaml:"options" json:"options"`
}

// Options represents build and emit options.
type Options struct {
	Directive       string        `yaml:"directive" json:"directive"`
	OutputDir       string        `yaml:"outputDir" json:"outputDir"`
	Namespace       string        `yaml:"namespace" json:"namespace"`
	IncludeTypes    []string      `yaml:"includeTypes" json:"includeTypes"`
	ExcludeTypes    []string      `yaml:"excludeTypes" json:"excludeTypes"`
	Ignore          IgnoreOptions `yaml:"ignore" json:"ignore"`
	ServiceTemplate string        `yaml:"serviceTemplate" json:"serviceTemplate"`
	EmitServices    bool          `yaml:"emitServices" json:"emitServices"`
	EmitIndex       bool          `yaml:"emitIndex" json:"emitIndex"`
}

// IgnoreOptions extends the builtin ignore policies. Entries ending in "*"
// match by prefix.
type IgnoreOptions struct {
	Broad  []string `yaml:"broad" json:"broad"`
	Narrow []string `yaml:"narrow" json:"narrow"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		TypeMappings: DefaultTypeMappings(),
		Options:      DefaultOptions(),
	}
}

// LoadFile loads configuration from a file (YAML or JSON based on extension).
// Values present in the file override the current ones; absent values keep
// their defaults.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "reading config file")
	}

	loaded := c.clone()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, loaded); err != nil {
			return errors.Wrap(err, "parsing YAML config")
		}
	case ".json":
		if err := json.Unmarshal(data, loaded); err != nil {
			return errors.Wrap(err, "parsing JSON config")
		}
	default:
		// Try YAML first, then JSON
		if err := yaml.Unmarshal(data, loaded); err != nil {
			loaded = c.clone()
			if err := json.Unmarshal(data, loaded); err != nil {
				return errors.WithHint(errors.New("unable to parse config as YAML or JSON"),
					"use a .yaml or .json extension to get a precise parse error")
			}
		}
	}

	canonical := make(map[string]string, len(loaded.TypeMappings))
	for k, v := range loaded.TypeMappings {
		canonical[canon.Canonicalize(k)] = v
	}
	loaded.TypeMappings = canonical
	*c = *loaded
	return nil
}

func (c *Config) clone() *Config {
	out := *c
	out.TypeMappings = make(map[string]string, len(c.TypeMappings))
	for k, v := range c.TypeMappings {
		out.TypeMappings[k] = v
	}
	out.Options.IncludeTypes = append([]string(nil), c.Options.IncludeTypes...)
	out.Options.ExcludeTypes = append([]string(nil), c.Options.ExcludeTypes...)
	out.Options.Ignore.Broad = append([]string(nil), c.Options.Ignore.Broad...)
	out.Options.Ignore.Narrow = append([]string(nil), c.Options.Ignore.Narrow...)
	return &out
}

// MapType maps a canonical Go type name to its TypeScript spelling.
func (c *Config) MapType(goType string) (string, bool) {
	mapped, ok := c.TypeMappings[canon.Canonicalize(goType)]
	return mapped, ok
}

// BroadPolicy returns the builtin broad policy extended with configured
// entries.
func (c *Config) BroadPolicy() *canon.Policy {
	return canon.Broad(c.Options.Ignore.Broad...)
}

// NarrowPolicy returns the builtin narrow policy extended with configured
// entries.
func (c *Config) NarrowPolicy() *canon.Policy {
	return canon.Narrow(c.Options.Ignore.Narrow...)
}

// ShouldIncludeType checks if a type should be emitted. Names in the include
// and exclude lists match either the canonical name or its short form.
func (c *Config) ShouldIncludeType(name string) bool {
	matches := func(list []string) bool {
		for _, t := range list {
			if t == name || t == canon.Short(name) {
				return true
			}
		}
		return false
	}

	// Check include list (if specified, type must be in it)
	if len(c.Options.IncludeTypes) > 0 && !matches(c.Options.IncludeTypes) {
		return false
	}
	return !matches(c.Options.ExcludeTypes)
}
