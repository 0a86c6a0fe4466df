package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fenilsonani/declutter/internal/classifier"
)

// RulesDocument is the portable JSON shape for sharing rule sets and
// exclusion lists between installations.
type RulesDocument struct {
	Version         int               `json:"version"`
	CustomRules     []classifier.Rule `json:"customRules"`
	ExcludedFolders []string          `json:"excludedFolders"`
}

// ExportRules writes the config's rules and exclusions as a JSON document.
func (c *Config) ExportRules(path string) error {
	doc := RulesDocument{
		Version:         c.Version,
		CustomRules:     c.CustomRules,
		ExcludedFolders: c.ExcludedFolders,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode rules document: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write rules document: %w", err)
	}
	return nil
}

// ImportRules reads a JSON rules document and merges it into the config,
// replacing the current rules and exclusions.
func (c *Config) ImportRules(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read rules document: %w", err)
	}

	var doc RulesDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse rules document: %w", err)
	}
	if doc.Version <= 0 {
		return fmt.Errorf("rules document version must be >= 1")
	}
	for i, rule := range doc.CustomRules {
		if err := rule.Validate(); err != nil {
			return fmt.Errorf("imported rule %d: %w", i, err)
		}
	}

	c.CustomRules = doc.CustomRules
	c.ExcludedFolders = doc.ExcludedFolders
	return nil
}
