package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/fenilsonani/declutter/internal/catalog"
	"github.com/fenilsonani/declutter/internal/classifier"
)

func TestGetDefault(t *testing.T) {
	cfg := GetDefault()

	if cfg.Version != CurrentVersion {
		t.Errorf("Version = %d, want %d", cfg.Version, CurrentVersion)
	}
	if len(cfg.CustomRules) != 0 {
		t.Errorf("default must have no custom rules, got %d", len(cfg.CustomRules))
	}

	excluded := make(map[string]bool)
	for _, name := range cfg.ExcludedFolders {
		excluded[name] = true
	}
	if !excluded["node_modules"] || !excluded[".git"] {
		t.Errorf("default exclusions = %v", cfg.ExcludedFolders)
	}
	if cfg.Classifier.Enabled {
		t.Error("external classifier must be off by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config must validate: %v", err)
	}
}

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Version != CurrentVersion {
		t.Errorf("Version = %d", cfg.Version)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	original := GetDefault()
	original.CustomRules = []classifier.Rule{
		{ID: "r1", Type: classifier.RuleKeyword, Pattern: "invoice", Category: catalog.CategoryDocuments},
	}
	original.ExcludedFolders = []string{"vendor"}
	original.Classifier = ClassifierConfig{
		Enabled:        true,
		APIKey:         "sk-test",
		Model:          "gpt-4o-mini",
		TimeoutSeconds: 30,
	}

	if err := Save(original, configPath); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(loaded.CustomRules) != 1 || loaded.CustomRules[0].Pattern != "invoice" {
		t.Errorf("CustomRules = %+v", loaded.CustomRules)
	}
	if len(loaded.ExcludedFolders) != 1 || loaded.ExcludedFolders[0] != "vendor" {
		t.Errorf("ExcludedFolders = %v", loaded.ExcludedFolders)
	}
	if !loaded.Classifier.Enabled || loaded.Classifier.APIKey != "sk-test" || loaded.Classifier.TimeoutSeconds != 30 {
		t.Errorf("Classifier = %+v", loaded.Classifier)
	}
}

func TestLoadInvalidConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("version: 0\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(configPath); err == nil {
		t.Fatal("expected validation error for version 0")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"zero version", func(c *Config) { c.Version = 0 }, true},
		{"bad rule", func(c *Config) {
			c.CustomRules = []classifier.Rule{{Type: classifier.RuleKeyword, Pattern: ""}}
		}, true},
		{"empty exclusion", func(c *Config) { c.ExcludedFolders = []string{" "} }, true},
		{"path exclusion", func(c *Config) { c.ExcludedFolders = []string{"a/b"} }, true},
		{"negative timeout", func(c *Config) { c.Classifier.TimeoutSeconds = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := GetDefault()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// =============================================================================
// Rules document import and export
// =============================================================================

func TestExportImportRulesRoundTrip(t *testing.T) {
	docPath := filepath.Join(t.TempDir(), "rules.json")

	source := GetDefault()
	source.CustomRules = []classifier.Rule{
		{ID: "r1", Type: classifier.RuleExtension, Pattern: "psd", Category: catalog.CategoryImages},
	}
	source.ExcludedFolders = []string{"vendor", "dist"}

	if err := source.ExportRules(docPath); err != nil {
		t.Fatalf("ExportRules: %v", err)
	}

	target := GetDefault()
	if err := target.ImportRules(docPath); err != nil {
		t.Fatalf("ImportRules: %v", err)
	}

	if len(target.CustomRules) != 1 || target.CustomRules[0].Pattern != "psd" {
		t.Errorf("CustomRules = %+v", target.CustomRules)
	}
	if len(target.ExcludedFolders) != 2 || target.ExcludedFolders[0] != "vendor" {
		t.Errorf("ExcludedFolders = %v", target.ExcludedFolders)
	}
}

func TestExportRulesDocumentShape(t *testing.T) {
	docPath := filepath.Join(t.TempDir(), "rules.json")

	source := GetDefault()
	source.CustomRules = []classifier.Rule{
		{ID: "r1", Type: classifier.RuleKeyword, Pattern: "tax", Category: catalog.CategoryDocuments},
	}
	if err := source.ExportRules(docPath); err != nil {
		t.Fatalf("ExportRules: %v", err)
	}

	data, err := os.ReadFile(docPath)
	if err != nil {
		t.Fatal(err)
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("document is not valid JSON: %v", err)
	}
	for _, key := range []string{"version", "customRules", "excludedFolders"} {
		if _, ok := doc[key]; !ok {
			t.Errorf("document missing key %q", key)
		}
	}
}

func TestImportRulesRejectsInvalid(t *testing.T) {
	docPath := filepath.Join(t.TempDir(), "rules.json")

	tests := []struct {
		name    string
		content string
	}{
		{"bad version", `{"version":0,"customRules":[],"excludedFolders":[]}`},
		{"bad rule", `{"version":1,"customRules":[{"id":"x","type":"glob","pattern":"*","category":"Documents"}],"excludedFolders":[]}`},
		{"not json", `nope`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := os.WriteFile(docPath, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			cfg := GetDefault()
			if err := cfg.ImportRules(docPath); err == nil {
				t.Error("expected import error")
			}
		})
	}
}
