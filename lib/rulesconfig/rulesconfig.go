// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package rulesconfig loads an optional, human-edited manifest of the
// known extraction-rule keys: an operator-facing companion to the
// settings rows the rule/category scripts themselves live in. It lets
// rule/list attach a human-readable description to each
// "<app><type>_rule" key without requiring the description to be
// smuggled into the script text.
//
// The manifest is optional: a workspace with no rules.yaml simply has
// no descriptions, and rule/list reports an empty description.
package rulesconfig

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest is the parsed contents of rules.yaml.
type Manifest struct {
	Rules []RuleDescription `yaml:"rules"`
}

// RuleDescription documents one known "<app><type>_rule" settings key.
type RuleDescription struct {
	Key         string `yaml:"key"`
	App         string `yaml:"app"`
	Type        int    `yaml:"type"`
	Description string `yaml:"description"`
}

// Load reads and parses path. A missing file is not an error: it
// returns an empty Manifest, since the manifest is optional.
func Load(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Manifest{}, nil
		}
		return Manifest{}, fmt.Errorf("rulesconfig: reading %s: %w", path, err)
	}

	var manifest Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return Manifest{}, fmt.Errorf("rulesconfig: parsing %s: %w", path, err)
	}
	return manifest, nil
}

// Describe returns the description configured for key, or "" if the
// manifest has no entry for it.
func (m Manifest) Describe(key string) string {
	for _, rule := range m.Rules {
		if rule.Key == key {
			return rule.Description
		}
	}
	return ""
}
