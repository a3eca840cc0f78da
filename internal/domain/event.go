package domain

import "time"

// Event is a time-bounded instance within a program carrying payloads such
// as prices. Priority: smaller value wins; nil sorts last.
type Event struct {
	ID                   string    `json:"id"`
	CreatedDateTime      time.Time `json:"createdDateTime"`
	ModificationDateTime time.Time `json:"modificationDateTime"`

	EventContent
}

// EventContent is the client-writable part of an event.
type EventContent struct {
	ObjectType         string              `json:"objectType,omitempty" validate:"omitempty,eq=EVENT"`
	ProgramID          string              `json:"programID" validate:"required,identifier"`
	EventName          *string             `json:"eventName,omitempty" validate:"omitempty,min=1,max=128"`
	Priority           *int64              `json:"priority,omitempty" validate:"omitempty,gte=0"`
	Targets            []Target            `json:"targets,omitempty" validate:"dive"`
	ReportDescriptors  []ReportDescriptor  `json:"reportDescriptors,omitempty"`
	PayloadDescriptors []PayloadDescriptor `json:"payloadDescriptors,omitempty"`
	IntervalPeriod     *IntervalPeriod     `json:"intervalPeriod,omitempty"`
	Intervals          []Interval          `json:"intervals" validate:"required,min=1,dive"`
}

// ReportDescriptor tells a VEN what to report back for an event.
type ReportDescriptor struct {
	PayloadType      string   `json:"payloadType" validate:"required,min=1,max=128"`
	ReadingType      *string  `json:"readingType,omitempty"`
	Units            *string  `json:"units,omitempty"`
	Targets          []Target `json:"targets,omitempty" validate:"dive"`
	Aggregate        bool     `json:"aggregate"`
	StartInterval    int32    `json:"startInterval"`
	NumIntervals     int32    `json:"numIntervals"`
	HistorySec       int32    `json:"historySec"`
	Frequency        int32    `json:"frequency"`
	RepeatCount      int32    `json:"repeat"`
	ReportingDisable bool     `json:"disableReporting"`
}
