package chat

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/i474232898/weather-chat/internal/weather"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  Classification
	}{
		{"weather in", "weather in Paris", Weather{Location: "Paris", Intent: weather.IntentCurrent}},
		{"forecast for", "what's the weather forecast for Tokyo?", Weather{Location: "Tokyo", Intent: weather.IntentForecast}},
		{"historical weather", "show me the historical weather in Rome", Weather{Location: "Rome", Intent: weather.IntentHistory}},
		{"joke", "tell me a joke", General{}},
		{"empty", "", General{}},
		{"whitespace", "  \t\n ", General{}},
		{"current weather of", "I want to know the current weather of London", Weather{Location: "London", Intent: weather.IntentCurrent}},
		{"trailing right now", "weather in New York right now", Weather{Location: "New York", Intent: weather.IntentCurrent}},
		{"trailing today", "weather in Berlin today", Weather{Location: "Berlin", Intent: weather.IntentCurrent}},
		{"trailing currently", "current weather of Madrid currently?", Weather{Location: "Madrid", Intent: weather.IntentCurrent}},
		{"case insensitive", "WEATHER IN OSLO", Weather{Location: "OSLO", Intent: weather.IntentCurrent}},
		{"tomorrow", "what about the tomorrow weather in Lisbon?", Weather{Location: "Lisbon", Intent: weather.IntentForecast}},
		{"after days", "let me know the weather of Vienna after 3 days", Weather{Location: "Vienna", Intent: weather.IntentForecast}},
		{"history of", "what's the weather history of Cairo?", Weather{Location: "Cairo", Intent: weather.IntentHistory}},
		{"history weather for", "show me the history weather for Athens", Weather{Location: "Athens", Intent: weather.IntentHistory}},
		{"generic whats", "what's the weather in Dublin?", Weather{Location: "Dublin", Intent: weather.IntentCurrent}},
		{"qualifier only", "weather in today", General{}},
		{"earlier groups ignored", "what's the weather for today", General{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.query)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("Classify(%q) mismatch (-want +got):\n%s", tt.query, diff)
			}
		})
	}
}

func TestClassifyForecastKeywordWins(t *testing.T) {
	queries := []string{
		"weather in Paris tomorrow",
		"show me the historical weather forecast in Rome",
		"weather in Seoul after the rain",
		"what's the weather history of Lima forecast",
	}
	for _, q := range queries {
		got, ok := Classify(q).(Weather)
		if assert.True(t, ok, "expected weather classification for %q", q) {
			assert.Equal(t, weather.IntentForecast, got.Intent, q)
		}
	}
}

func TestClassifyFirstRuleWins(t *testing.T) {
	// Both rules match; the earlier one decides the location.
	catalog := NewCatalog(
		RuleDef{Name: "first", Family: FamilyCurrent, Pattern: `(?i)weather in\s+([A-Za-z]+)`},
		RuleDef{Name: "second", Family: FamilyGeneric, Pattern: `(?i)weather in\s+([A-Za-z\s]+)`},
	)
	got := NewClassifier(catalog).Classify("weather in Buenos Aires")
	assert.Equal(t, Weather{Location: "Buenos", Intent: weather.IntentCurrent}, got)

	reversed := NewCatalog(
		RuleDef{Name: "second", Family: FamilyGeneric, Pattern: `(?i)weather in\s+([A-Za-z\s]+)`},
		RuleDef{Name: "first", Family: FamilyCurrent, Pattern: `(?i)weather in\s+([A-Za-z]+)`},
	)
	got = NewClassifier(reversed).Classify("weather in Buenos Aires")
	assert.Equal(t, Weather{Location: "Buenos Aires", Intent: weather.IntentCurrent}, got)
}

func TestClassifyEmptyLocationDoesNotFallThrough(t *testing.T) {
	// The first rule matches with only a qualifier; the second would give a
	// location but is never consulted.
	catalog := NewCatalog(
		RuleDef{Name: "qualifier", Family: FamilyCurrent, Pattern: `(?i)weather (today)`},
		RuleDef{Name: "city", Family: FamilyGeneric, Pattern: `(?i)weather today in ([A-Za-z]+)`},
	)
	got := NewClassifier(catalog).Classify("weather today in Rome")
	assert.Equal(t, General{}, got)
}

func TestClassifyUsesLastNonEmptyGroup(t *testing.T) {
	catalog := NewCatalog(
		RuleDef{Name: "multi", Family: FamilyHistory, Pattern: `(?i)(history of)\s+([A-Za-z]+)?\s*(in [A-Za-z]+)?`},
	)
	c := NewClassifier(catalog)

	assert.Equal(t, Weather{Location: "in Oslo", Intent: weather.IntentHistory}, c.Classify("history of Norway in Oslo"))
	assert.Equal(t, Weather{Location: "Norway", Intent: weather.IntentHistory}, c.Classify("history of Norway"))
}

func TestCleanLocation(t *testing.T) {
	tests := map[string]string{
		"Paris":               "Paris",
		"  Paris  ":           "Paris",
		"Paris right now":     "Paris",
		"Paris Today":         "Paris",
		"New York currently ": "New York",
		"today":               "",
		"":                    "",
	}
	for in, want := range tests {
		assert.Equal(t, want, CleanLocation(in), "CleanLocation(%q)", in)
	}
}

func TestCleanLocationIdempotent(t *testing.T) {
	inputs := []string{"Paris", "New York", "San Francisco today", "Rio right now", "totodayday", "  Lagos currently"}
	for _, in := range inputs {
		once := CleanLocation(in)
		assert.Equal(t, once, CleanLocation(once), "not idempotent for %q", in)
	}
}

func TestDetectIntent(t *testing.T) {
	assert.Equal(t, weather.IntentForecast, DetectIntent("FORECAST please"))
	assert.Equal(t, weather.IntentForecast, DetectIntent("history of tomorrow"))
	assert.Equal(t, weather.IntentHistory, DetectIntent("Historical data"))
	assert.Equal(t, weather.IntentHistory, DetectIntent("two days ago"))
	assert.Equal(t, weather.IntentCurrent, DetectIntent("weather in Paris"))
}

func TestDefaultCatalogOrder(t *testing.T) {
	rules := DefaultCatalog.Rules()
	if assert.Equal(t, 12, DefaultCatalog.Len()) {
		assert.Equal(t, "current", rules[0].Name)
		assert.Equal(t, FamilyGeneric, rules[len(rules)-1].Family)
	}

	// Rules returns a copy.
	rules[0].Name = "changed"
	assert.Equal(t, "current", DefaultCatalog.Rules()[0].Name)
}
