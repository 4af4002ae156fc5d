package chat

import "regexp"

// RuleFamily groups rules by the phrasing they recognise. It is informational
// only: the intent of a query comes from a keyword scan of the whole text.
type RuleFamily string

const (
	FamilyCurrent  RuleFamily = "current"
	FamilyForecast RuleFamily = "forecast"
	FamilyHistory  RuleFamily = "history"
	FamilyGeneric  RuleFamily = "generic"
)

// PatternRule is one recognition pattern. Any of its capture groups may hold
// the location; the classifier picks the last non-empty one.
type PatternRule struct {
	Name    string
	Family  RuleFamily
	Pattern *regexp.Regexp
}

// Catalog is an ordered, read-only list of rules. The first rule that matches wins.
type Catalog struct {
	rules []PatternRule
}

// Rules returns a copy of the rules in evaluation order.
func (c *Catalog) Rules() []PatternRule {
	out := make([]PatternRule, len(c.rules))
	copy(out, c.rules)
	return out
}

// Len returns the number of rules.
func (c *Catalog) Len() int {
	return len(c.rules)
}

// NewCatalog compiles the given rules in order. It panics on an invalid
// pattern, so it is meant for static rule sets.
func NewCatalog(defs ...RuleDef) *Catalog {
	rules := make([]PatternRule, 0, len(defs))
	for _, d := range defs {
		rules = append(rules, PatternRule{
			Name:    d.Name,
			Family:  d.Family,
			Pattern: regexp.MustCompile(d.Pattern),
		})
	}
	return &Catalog{rules: rules}
}

// RuleDef is the uncompiled form of a PatternRule.
type RuleDef struct {
	Name    string
	Family  RuleFamily
	Pattern string
}

// Specific phrasings must stay ahead of the generic ones or they are never reached.
var defaultRuleDefs = []RuleDef{
	// Current weather
	{"current", FamilyCurrent, `(?i)(want to know the\s+(current|today'?s?|)\s*weather of|current\s*weather of|weather in)\s+([A-Za-z\s]+)(?:\s*right now| today| currently)?\??`},

	// Forecast
	{"forecast-whats", FamilyForecast, `(?i)what'?s?\s+the\s+weather forecast\s+(?:in|for|of)\s+([A-Za-z\s]+)\??`},
	{"forecast-tomorrow", FamilyForecast, `(?i)what about the\s+tomorrow\s+weather\s+(?:in|for|of)\s+([A-Za-z\s]+)\??`},
	{"forecast-after-days", FamilyForecast, `(?i)let me know the\s+weather\s+(?:in|of)\s+([A-Za-z\s]+)\s+after\s+\d+\s+days\??`},
	{"forecast-show", FamilyForecast, `(?i)show me the\s+weather forecast\s+(?:in|for|of)\s+([A-Za-z\s]+)\??`},

	// Weather history
	{"history-whats", FamilyHistory, `(?i)(what'?s?\s+the\s+weather\s+history\s+of)\s+([A-Za-z\s]+)\??`},
	{"history-of", FamilyHistory, `(?i)(weather\s+history\s+of|for|in)\s+([A-Za-z\s]+)\??`},
	{"history-show", FamilyHistory, `(?i)show me the\s+(?:historical|history)\s+weather\s+(?:in|for|of)\s+([A-Za-z\s]+)\??`},
	{"history-whats-historical", FamilyHistory, `(?i)(what'?s?\s+the\s+(?:weather\s+history|historical\s+weather)\s+of|for)\s+([A-Za-z\s]+)\??`},
	{"history-days-ago", FamilyHistory, `(?i)let me know the\s+weather\s+(?:in|of)\s+([A-Za-z\s]+)\s+\d+\s+days+ago\??`},
	{"history-historical", FamilyHistory, `(?i)(historical\s+weather\s+of|for|in)\s+([A-Za-z\s]+)\??`},

	// Basic weather query; the intent keywords decide current/forecast/history.
	{"generic", FamilyGeneric, `(?i)(what'?s?\s+the\s+weather in)\s+([A-Za-z\s]+)\??`},
}

// DefaultCatalog is the process-wide rule set. It is never mutated after init
// and is safe to share between goroutines.
var DefaultCatalog = NewCatalog(defaultRuleDefs...)
