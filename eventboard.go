// Package eventboard extracts structured event metadata from event flyers
// and event web pages. The loaded content is handed to a large language
// model together with a fixed extraction prompt, the model's JSON answer is
// parsed into an Event, and the Event is written to a JSON file.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., gemini/, goquery/, rod/).
package eventboard
