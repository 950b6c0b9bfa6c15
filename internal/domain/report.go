package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Range is a min/max pair inside a report's prediction blocks.
type Range struct {
	Min float64 `bson:"min" json:"min"`
	Max float64 `bson:"max" json:"max"`
}

// ReportFields is the structured portion of a generation response. The
// prediction naming is kept for downstream compatibility; the content
// describes observed ranges, not forecasts.
type ReportFields struct {
	Prediction12h map[string]Range `bson:"prediction_12h" json:"prediction_12h"`
	Prediction24h map[string]Range `bson:"prediction_24h" json:"prediction_24h"`
	Reasoning     string           `bson:"reasoning" json:"reasoning"`
	Confidence    float64          `bson:"confidence" json:"confidence"`
}

// ReportDocument is one document in the "weather_predictions" collection.
// Documents are insert-only: a forced regeneration writes a new document
// rather than updating the old one.
type ReportDocument struct {
	ID        string    `bson:"_id" json:"id"`
	Date      string    `bson:"date" json:"date"`
	Location  string    `bson:"location" json:"location"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`

	ReportFields `bson:",inline"`
}

// NewReportDocument assembles a storable report from generation output,
// assigning the document ID and creation timestamp. CreatedAt comes from the
// package clock so tests can freeze it via SetClock.
func NewReportDocument(date, location string, fields ReportFields) ReportDocument {
	if fields.Prediction12h == nil {
		fields.Prediction12h = map[string]Range{}
	}
	if fields.Prediction24h == nil {
		fields.Prediction24h = map[string]Range{}
	}
	return ReportDocument{
		ID:           uuid.NewString(),
		Date:         date,
		Location:     location,
		CreatedAt:    clock.Now().UTC(),
		ReportFields: fields,
	}
}

// ParseReportFields decodes the JSON payload produced by the generation API
// into typed report fields.
//
// The parse is lenient about shape in the ways the generation API has
// historically misbehaved: a top-level array is accepted when its first
// element is the report object, and absent fields default to empty maps, an
// empty string, and zero confidence. It is strict about types: a field that
// is present but not of the expected type fails with ErrMalformedResponse,
// as does any payload that is not ultimately a JSON object.
func ParseReportFields(raw []byte) (ReportFields, error) {
	payload := bytes.TrimSpace(raw)
	if len(payload) == 0 {
		return ReportFields{}, fmt.Errorf("%w: empty payload", ErrMalformedResponse)
	}

	if payload[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(payload, &items); err != nil {
			return ReportFields{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
		if len(items) == 0 {
			return ReportFields{}, fmt.Errorf("%w: empty array payload", ErrMalformedResponse)
		}
		payload = bytes.TrimSpace(items[0])
	}

	if len(payload) == 0 || payload[0] != '{' {
		return ReportFields{}, fmt.Errorf("%w: payload is not a JSON object", ErrMalformedResponse)
	}

	var fields ReportFields
	if err := json.Unmarshal(payload, &fields); err != nil {
		return ReportFields{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if fields.Prediction12h == nil {
		fields.Prediction12h = map[string]Range{}
	}
	if fields.Prediction24h == nil {
		fields.Prediction24h = map[string]Range{}
	}
	return fields, nil
}

// ScheduleInfo describes the generation schedule. Field names match the
// source system's wire format.
type ScheduleInfo struct {
	NextPrediction    string `json:"next_prediction"`
	ScheduleFrequency string `json:"schedule_frequency"`
	LastPrediction    string `json:"last_prediction,omitempty"`
}
