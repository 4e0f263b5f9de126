package permission

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
)

// Rule is a declarative permission rule with glob pattern matching.
type Rule struct {
	Pattern  string   // doublestar glob on tool name, e.g. "todo_*"
	Decision Decision // Allow or Deny
}

func (r Rule) validate() error {
	if !doublestar.ValidatePattern(r.Pattern) {
		return fmt.Errorf("invalid pattern %q", r.Pattern)
	}
	return nil
}

// DenyRules builds one Deny rule per pattern.
func DenyRules(patterns ...string) []Rule {
	rules := make([]Rule, len(patterns))
	for i, p := range patterns {
		rules[i] = Rule{Pattern: p, Decision: Deny}
	}
	return rules
}

// MatchRules evaluates rules against a tool name.
// Deny rules take precedence over allow rules.
// Returns (decision, matched). If no rule matches, matched is false.
func MatchRules(rules []Rule, toolName string) (Decision, bool) {
	var hasAllow bool

	for _, r := range rules {
		ok, err := doublestar.Match(r.Pattern, toolName)
		if err != nil || !ok {
			continue
		}
		if r.Decision == Deny {
			return Deny, true
		}
		hasAllow = true
	}

	if hasAllow {
		return Allow, true
	}
	return Allow, false
}
