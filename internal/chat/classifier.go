package chat

import (
	"regexp"
	"strings"

	"github.com/i474232898/weather-chat/internal/common"
	"github.com/i474232898/weather-chat/internal/weather"
)

// Classification is the result of classifying a query: either General or Weather.
type Classification interface {
	isClassification()
	Kind() Kind
}

// Kind names a Classification variant.
type Kind string

const (
	KindGeneral Kind = "general"
	KindWeather Kind = "weather"
)

// General marks a query that is not about weather.
type General struct{}

func (General) isClassification() {}
func (General) Kind() Kind        { return KindGeneral }

// Weather marks a weather query. Location is never empty.
type Weather struct {
	Location string         `json:"location"`
	Intent   weather.Intent `json:"weather_type"`
}

func (Weather) isClassification() {}
func (Weather) Kind() Kind        { return KindWeather }

var (
	forecastKeywords = []string{"forecast", "tomorrow", "after"}
	historyKeywords  = []string{"history", "historical", "ago"}

	trailingQualifiers = regexp.MustCompile(`(?i)\s*(right now|today|currently)\s*`)
)

// Classifier applies a Catalog to query text. It holds no mutable state.
type Classifier struct {
	catalog *Catalog
}

// NewClassifier returns a Classifier over catalog, or DefaultCatalog when nil.
func NewClassifier(catalog *Catalog) *Classifier {
	if catalog == nil {
		catalog = DefaultCatalog
	}
	return &Classifier{catalog: catalog}
}

// Classify returns Weather for the first rule that matches text with a usable
// location, and General otherwise. When the first matching rule yields an
// empty location the result is General; later rules are not tried. Only the
// last non-empty capture group is considered: earlier groups of the same match
// are not consulted when it cleans to empty.
func (c *Classifier) Classify(text string) Classification {
	if strings.TrimSpace(text) == "" {
		return General{}
	}

	for _, rule := range c.catalog.rules {
		groups := rule.Pattern.FindStringSubmatch(text)
		if groups == nil {
			continue
		}

		location := CleanLocation(lastNonEmptyGroup(groups[1:]))
		if location == "" {
			return General{}
		}
		return Weather{
			Location: location,
			Intent:   DetectIntent(text),
		}
	}

	return General{}
}

// Classify uses DefaultCatalog.
func Classify(text string) Classification {
	return defaultClassifier.Classify(text)
}

var defaultClassifier = NewClassifier(DefaultCatalog)

func lastNonEmptyGroup(groups []string) string {
	for i := len(groups) - 1; i >= 0; i-- {
		if groups[i] != "" {
			return groups[i]
		}
	}
	return ""
}

// CleanLocation strips "right now", "today" and "currently" and trims the
// result. Removal is repeated until nothing changes, so cleaning an already
// clean location returns it unchanged.
func CleanLocation(raw string) string {
	s := strings.TrimSpace(raw)
	for {
		next := strings.TrimSpace(trailingQualifiers.ReplaceAllString(s, ""))
		if next == s {
			return s
		}
		s = next
	}
}

// DetectIntent scans the whole query for temporal keywords. Forecast keywords
// take precedence over history keywords.
func DetectIntent(text string) weather.Intent {
	switch {
	case common.HasAnyFold(text, forecastKeywords...):
		return weather.IntentForecast
	case common.HasAnyFold(text, historyKeywords...):
		return weather.IntentHistory
	default:
		return weather.IntentCurrent
	}
}
