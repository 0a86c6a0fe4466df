// Package classifier assigns a category to every scanned file. Resolution
// runs in two passes: user-defined rules first (keyword rules before
// extension rules), then a batch call to an external classifier for the
// files still unknown, with a fixed extension table as the last local
// fallback so classification always completes.
package classifier

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/fenilsonani/declutter/internal/catalog"
)

// RuleType distinguishes the two rule matching strategies.
type RuleType string

const (
	RuleKeyword   RuleType = "keyword"
	RuleExtension RuleType = "extension"
)

// Rule is a user-authored classification rule. Keyword rules match
// case-insensitively as a substring of the file's base name; extension
// rules match the normalized extension exactly.
type Rule struct {
	ID       string           `json:"id" yaml:"id"`
	Type     RuleType         `json:"type" yaml:"type"`
	Pattern  string           `json:"pattern" yaml:"pattern"`
	Category catalog.Category `json:"category" yaml:"category"`
}

// NewRule builds a rule with a fresh identifier.
func NewRule(ruleType RuleType, pattern string, category catalog.Category) Rule {
	return Rule{
		ID:       uuid.NewString(),
		Type:     ruleType,
		Pattern:  strings.TrimSpace(pattern),
		Category: category,
	}
}

// Validate checks the rule for structural problems.
func (r Rule) Validate() error {
	if r.Type != RuleKeyword && r.Type != RuleExtension {
		return fmt.Errorf("unknown rule type: %q", r.Type)
	}
	if strings.TrimSpace(r.Pattern) == "" {
		return fmt.Errorf("rule pattern must not be empty")
	}
	if !r.Category.Valid() {
		return fmt.Errorf("unknown rule category: %q", r.Category)
	}
	return nil
}

// Matches reports whether the rule applies to the given record.
func (r Rule) Matches(record *catalog.FileRecord) bool {
	switch r.Type {
	case RuleKeyword:
		return strings.Contains(strings.ToLower(record.Name), strings.ToLower(r.Pattern))
	case RuleExtension:
		return record.Extension != "" && record.Extension == normalizeExtension(r.Pattern)
	default:
		return false
	}
}

// ApplyRules evaluates keyword rules in declaration order, then extension
// rules in declaration order; the first match wins. Keyword rules go first
// because they are the more specific of the two.
func ApplyRules(rules []Rule, record *catalog.FileRecord) (catalog.Category, bool) {
	for _, rule := range rules {
		if rule.Type == RuleKeyword && rule.Matches(record) {
			return rule.Category, true
		}
	}
	for _, rule := range rules {
		if rule.Type == RuleExtension && rule.Matches(record) {
			return rule.Category, true
		}
	}
	return catalog.CategoryUnknown, false
}

// normalizeExtension lower-cases a pattern and strips a leading dot so
// "EXE", "exe" and ".exe" all match the same extension.
func normalizeExtension(pattern string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(pattern)), ".")
}
