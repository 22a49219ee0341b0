package eventboard

import (
	"bytes"
	"encoding/json"
)

// SourceType identifies which kind of input an event was extracted from.
type SourceType string

// SourceType constants.
const (
	SourceImage SourceType = "image"
	SourceURL   SourceType = "url"
)

// Source identifies the input of a single extraction run.
type Source struct {
	Type SourceType

	// Data is the image file path or the page URL.
	Data string
}

// Event is the structured metadata extracted for one event.
// Unknown values are nil, never empty strings.
type Event struct {
	Name           *string    `json:"event_name"`
	DateStart      *string    `json:"event_date_start"`
	DateEnd        *string    `json:"event_date_end"`
	Location       *string    `json:"location"`
	Organizer      *string    `json:"organizer"`
	TargetAudience *string    `json:"target_audience"`
	Description    *string    `json:"description"`
	SourceType     SourceType `json:"source_type"`
	SourceData     string     `json:"source_data"`
	Tags           []string   `json:"tags"`

	// Error is set only on records produced by a failed extraction.
	Error string `json:"error,omitempty"`
}

// NewEvent returns an empty event for the given source.
func NewEvent(src Source) *Event {
	return &Event{
		SourceType: src.Type,
		SourceData: src.Data,
		Tags:       []string{},
	}
}

// Validate returns an error if the event contains invalid fields.
func (e *Event) Validate() error {
	switch e.SourceType {
	case SourceImage, SourceURL:
	default:
		return Errorf(EINVALID, "invalid event source type %q", e.SourceType)
	}
	if e.SourceData == "" {
		return Errorf(EINVALID, "event source data required")
	}
	return nil
}

// MarshalJSON encodes the event, writing a nil tag list as [].
func (e Event) MarshalJSON() ([]byte, error) {
	type event Event
	if e.Tags == nil {
		e.Tags = []string{}
	}
	return json.Marshal(event(e))
}

// MarshalEvent encodes an event as indented UTF-8 JSON followed by a
// newline. Non-ASCII and HTML characters are written literally.
func MarshalEvent(e *Event) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(e); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExtractionStatus reports whether an extraction produced a real record.
type ExtractionStatus string

// ExtractionStatus constants.
const (
	ExtractionSucceeded ExtractionStatus = "succeeded"
	ExtractionDegraded  ExtractionStatus = "degraded"
)

// Extraction is the result of asking the model about one source.
// Event is always set: a degraded extraction carries an all-null record
// whose Error field describes the failure, so both outcomes can be written.
type Extraction struct {
	Status ExtractionStatus
	Event  *Event

	// Err is the failure behind a degraded extraction.
	Err error

	// Warnings lists problems found while normalizing the model's answer,
	// such as unexpected keys or malformed dates.
	Warnings []string
}

// Succeeded returns a successful extraction for event.
func Succeeded(event *Event, warnings []string) *Extraction {
	return &Extraction{
		Status:   ExtractionSucceeded,
		Event:    event,
		Warnings: warnings,
	}
}

// Degraded returns a failed extraction for src. The record keeps the source
// fields and reports err in its error field.
func Degraded(src Source, err error) *Extraction {
	if err == nil {
		err = Errorf(EINTERNAL, "extraction failed")
	}
	event := NewEvent(src)
	event.Error = ErrorMessage(err)
	return &Extraction{
		Status: ExtractionDegraded,
		Event:  event,
		Err:    err,
	}
}

// OK reports whether the extraction succeeded.
func (x *Extraction) OK() bool {
	return x.Status == ExtractionSucceeded
}
