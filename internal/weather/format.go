package weather

import (
	"fmt"
	"strconv"

	"github.com/tidwall/gjson"
)

// ParseReport extracts the fields needed for the reply sentence from an
// OpenWeather payload. Current weather is a single object; forecast and
// history payloads carry a "list" whose first entry is used.
func ParseReport(location string, intent Intent, payload []byte) (Report, error) {
	if !gjson.ValidBytes(payload) {
		return Report{}, fmt.Errorf("%w: payload is not valid json", ErrUpstreamFetch)
	}
	root := gjson.ParseBytes(payload)

	entry := root
	switch intent {
	case IntentCurrent:
	case IntentForecast, IntentHistory:
		entry = root.Get("list.0")
		if !entry.Exists() {
			return Report{}, fmt.Errorf("%w: %s payload has no entries", ErrUpstreamFetch, intent)
		}
	default:
		return Report{}, ErrInvalidIntent
	}

	desc := entry.Get("weather.0.description")
	temp := entry.Get("main.temp")
	if !desc.Exists() || !temp.Exists() {
		return Report{}, fmt.Errorf("%w: payload is missing description or temperature", ErrUpstreamFetch)
	}

	r := Report{
		Location:       location,
		Intent:         intent,
		Description:    desc.String(),
		Temperature:    temp.Float(),
		RawTemperature: temp.Raw,
	}
	if intent == IntentForecast {
		r.Timestamp = entry.Get("dt_txt").String()
	}
	return r, nil
}

// Sentence renders the report with the fixed template for its intent.
func (r Report) Sentence() string {
	temp := r.RawTemperature
	if temp == "" {
		temp = strconv.FormatFloat(r.Temperature, 'f', -1, 64)
	}
	switch r.Intent {
	case IntentForecast:
		return fmt.Sprintf("The weather forecast for %s on %s is %s with a temperature of %s°C.", r.Location, r.Timestamp, r.Description, temp)
	case IntentHistory:
		return fmt.Sprintf("The weather in %s was %s with a temperature of %s°C.", r.Location, r.Description, temp)
	default:
		return fmt.Sprintf("The current weather in %s is %s with a temperature of %s°C.", r.Location, r.Description, temp)
	}
}
