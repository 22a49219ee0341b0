package eventboard

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"
)

// DateLayout is the ISO-8601 local datetime layout of event dates.
const DateLayout = "2006-01-02T15:04:05"

// dateLayouts are the date forms accepted from the model, most specific
// first. Offsets are dropped: event dates are local wall-clock times.
var dateLayouts = []string{
	DateLayout,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// eventResponse is the shape of the model's answer. Summary is accepted as
// an alias for description because the prompt names the field both ways.
type eventResponse struct {
	Name           *string  `json:"event_name"`
	DateStart      *string  `json:"event_date_start"`
	DateEnd        *string  `json:"event_date_end"`
	Location       *string  `json:"location"`
	Organizer      *string  `json:"organizer"`
	TargetAudience *string  `json:"target_audience"`
	Description    *string  `json:"description"`
	Summary        *string  `json:"summary"`
	SourceType     *string  `json:"source_type"`
	SourceData     *string  `json:"source_data"`
	Tags           []string `json:"tags"`
}

var knownKeys = []string{
	"event_name",
	"event_date_start",
	"event_date_end",
	"location",
	"organizer",
	"target_audience",
	"description",
	"summary",
	"source_type",
	"source_data",
	"tags",
}

// ParseEvent decodes a model answer into an Event.
//
// The answer must be a single JSON object. Keys outside the event schema are
// ignored and reported as warnings. Strings are trimmed and empty or "null"
// values become nil. Tags are trimmed and prefixed with "#". Dates that are
// not ISO-8601 are dropped with a warning, as is an end before the start.
//
// The returned event has no source fields set; callers inject them.
func ParseEvent(text string) (*Event, []string, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &fields); err != nil {
		return nil, nil, Errorf(EINVALID, "model response is not a JSON object: %v", err)
	}
	if fields == nil {
		return nil, nil, Errorf(EINVALID, "model response is not a JSON object: null")
	}

	var warnings []string
	for _, key := range sortedKeys(fields) {
		if !slices.Contains(knownKeys, key) {
			warnings = append(warnings, fmt.Sprintf("unexpected key %q in model response", key))
		}
	}

	var resp eventResponse
	if err := json.Unmarshal([]byte(text), &resp); err != nil {
		return nil, nil, Errorf(EINVALID, "invalid event in model response: %v", err)
	}

	event := &Event{
		Name:           cleanString(resp.Name),
		Location:       cleanString(resp.Location),
		Organizer:      cleanString(resp.Organizer),
		TargetAudience: cleanString(resp.TargetAudience),
		Description:    cleanString(resp.Description),
		Tags:           NormalizeTags(resp.Tags),
	}
	if event.Description == nil {
		event.Description = cleanString(resp.Summary)
	}

	start, startTime, warning := normalizeDate("event_date_start", resp.DateStart)
	if warning != "" {
		warnings = append(warnings, warning)
	}
	end, endTime, warning := normalizeDate("event_date_end", resp.DateEnd)
	if warning != "" {
		warnings = append(warnings, warning)
	}
	if start != nil && end != nil && endTime.Before(startTime) {
		warnings = append(warnings, fmt.Sprintf("event_date_end %s is before event_date_start %s, dropped", *end, *start))
		end = nil
	}
	event.DateStart = start
	event.DateEnd = end

	return event, warnings, nil
}

// NormalizeTags trims tags, drops empty ones and prefixes each with "#".
// The result is never nil.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || tag == "#" {
			continue
		}
		if !strings.HasPrefix(tag, "#") {
			tag = "#" + tag
		}
		out = append(out, tag)
	}
	return out
}

// ParseDate parses an event date in any accepted ISO-8601 form.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, Errorf(EINVALID, "invalid date %q", s)
}

func normalizeDate(field string, value *string) (*string, time.Time, string) {
	s := cleanString(value)
	if s == nil {
		return nil, time.Time{}, ""
	}
	t, err := ParseDate(*s)
	if err != nil {
		return nil, time.Time{}, fmt.Sprintf("%s %q is not an ISO-8601 datetime, dropped", field, *s)
	}
	// Keep the wall clock and drop any offset.
	local := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
	formatted := local.Format(DateLayout)
	return &formatted, local, ""
}

func cleanString(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" || strings.EqualFold(v, "null") {
		return nil
	}
	return &v
}

func sortedKeys(m map[string]json.RawMessage) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
