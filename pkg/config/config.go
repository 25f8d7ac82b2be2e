// Package config loads the masking rule set: built-in rules merged
// with an optional user rules file, plus the service enable switch.
package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"unicode/utf8"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"

	"github.com/codeready-toolchain/sensmask/pkg/mask"
)

// EnabledEnvVar switches masking on or off externally. Unset or
// unparseable values mean enabled.
const EnabledEnvVar = "SENSMASK_ENABLED"

// Rule is one entry of the rules file: how values under a given field
// or key name get masked.
type Rule struct {
	Strategy string `yaml:"strategy"`
	Char     string `yaml:"char,omitempty"`
	Masker   string `yaml:"masker,omitempty"`
}

// RulesYAML represents the complete rules file structure.
type RulesYAML struct {
	Rules map[string]Rule `yaml:"rules"`
}

// Config is the object returned by Initialize and used to wire the
// engine and the HTTP facade.
type Config struct {
	rulesPath string

	// Enabled reflects the external switch at startup.
	Enabled bool

	// Rules maps field and key names to masking descriptors, ready
	// for mask.NewRuleResolver.
	Rules map[string]mask.FieldDescriptor
}

// RulesPath returns the rules file path the configuration was loaded
// from, or "" when only built-in rules are active.
func (c *Config) RulesPath() string {
	return c.rulesPath
}

// Initialize loads, validates, and returns ready-to-use configuration.
//
// Steps performed:
//  1. Read the rules file, when present
//  2. Expand environment variables
//  3. Parse YAML
//  4. Merge built-in + user rules (user overrides built-in)
//  5. Validate each rule, skipping invalid entries with a warning
//  6. Read the enable switch from the environment
func Initialize(_ context.Context, rulesPath string) (*Config, error) {
	log := slog.With("rules_path", rulesPath)
	log.Info("Initializing configuration")

	merged := RulesYAML{Rules: builtinRules()}

	user, found, err := loadRulesFile(rulesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load rules file: %w", err)
	}
	if found {
		if err := mergo.Merge(&merged, user, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("failed to merge rules: %w", err)
		}
	} else {
		log.Info("Rules file not found, using built-in rules only")
		rulesPath = ""
	}

	rules := make(map[string]mask.FieldDescriptor, len(merged.Rules))
	for name, rule := range merged.Rules {
		d, err := rule.descriptor()
		if err != nil {
			// Invalid entries are skipped, never fatal: one bad rule
			// must not take masking down for the rest.
			log.Warn("Skipping invalid rule", "rule", name, "error", err)
			continue
		}
		rules[name] = d
	}

	cfg := &Config{
		rulesPath: rulesPath,
		Enabled:   enabledFromEnv(),
		Rules:     rules,
	}
	log.Info("Configuration initialized successfully",
		"rules", len(cfg.Rules),
		"enabled", cfg.Enabled)
	return cfg, nil
}

// loadRulesFile reads and parses the rules file. A missing file is not
// an error: found reports whether the file existed.
func loadRulesFile(path string) (RulesYAML, bool, error) {
	var out RulesYAML
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return out, false, nil
	}
	if err != nil {
		return out, false, err
	}
	data = ExpandEnv(data)
	if err := yaml.Unmarshal(data, &out); err != nil {
		return out, false, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return out, true, nil
}

// descriptor validates the rule and converts it to engine form.
func (r Rule) descriptor() (mask.FieldDescriptor, error) {
	strategy := mask.Strategy(r.Strategy)
	if r.Strategy == "" {
		strategy = mask.StrategyFull
	}
	if !strategy.IsValid() {
		return mask.FieldDescriptor{}, fmt.Errorf("unknown strategy %q", r.Strategy)
	}
	if strategy == mask.StrategyCustom && r.Masker == "" {
		return mask.FieldDescriptor{}, fmt.Errorf("custom strategy requires a masker name")
	}

	maskChar := mask.DefaultMaskChar
	if r.Char != "" {
		c, size := utf8.DecodeRuneInString(r.Char)
		if c == utf8.RuneError || size != len(r.Char) {
			return mask.FieldDescriptor{}, fmt.Errorf("mask char must be a single character, got %q", r.Char)
		}
		maskChar = c
	}

	return mask.FieldDescriptor{
		Sensitive: true,
		Strategy:  strategy,
		MaskChar:  maskChar,
		Masker:    r.Masker,
	}, nil
}

// enabledFromEnv reads the enable switch. The default is on: masking
// must be opted out of, not into.
func enabledFromEnv() bool {
	raw, ok := os.LookupEnv(EnabledEnvVar)
	if !ok {
		return true
	}
	enabled, err := strconv.ParseBool(raw)
	if err != nil {
		slog.Warn("Unparseable enable switch, masking stays on",
			"var", EnabledEnvVar, "value", raw)
		return true
	}
	return enabled
}
