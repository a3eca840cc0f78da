// Package domain defines the OpenADR 3.0 wire objects served by the VTN.
//
// Field names follow the OpenADR REST binding (camelCase JSON). Timestamps
// are server-assigned; content structs carry everything a client may write.
package domain

import "time"

// ValuesMap associates one or more values with a type. E.g. a type of PRICE
// carries a single float value.
type ValuesMap struct {
	Type   string `json:"type" validate:"required,min=1,max=128"`
	Values []any  `json:"values"`
}

// Point is a pair of floats, typically a point on a 2-dimensional grid.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Target tags an object for grouping, e.g. {type:"GROUP", values:["g1"]}.
// Listing filters and visibility rules match on it.
type Target struct {
	Type   string `json:"type" validate:"required,min=1,max=128"`
	Values []any  `json:"values"`
}

// StringValues returns the target values that are strings. Filter matching
// compares values as exact strings.
func (t Target) StringValues() []string {
	out := make([]string, 0, len(t.Values))
	for _, v := range t.Values {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// IntervalPeriod defines the temporal aspects of an interval or set of
// intervals. Durations are ISO 8601 strings; "P9999Y" may indicate infinity.
type IntervalPeriod struct {
	Start          time.Time `json:"start"`
	Duration       *string   `json:"duration,omitempty"`
	RandomizeStart *string   `json:"randomizeStart,omitempty"`
}

// Interval is a temporal window with a list of payload valuesMaps. The id is
// client-generated and not a sequence number.
type Interval struct {
	ID             int32           `json:"id"`
	IntervalPeriod *IntervalPeriod `json:"intervalPeriod,omitempty"`
	Payloads       []ValuesMap     `json:"payloads" validate:"dive"`
}
