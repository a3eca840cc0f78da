package domain

import "time"

// Report carries measurements or telemetry posted by a VEN for a program
// and, optionally, a specific event.
type Report struct {
	ID                   string    `json:"id"`
	CreatedDateTime      time.Time `json:"createdDateTime"`
	ModificationDateTime time.Time `json:"modificationDateTime"`

	ReportContent
}

// ReportContent is the client-writable part of a report. ClientName
// identifies the authoring VEN by its ven_name.
type ReportContent struct {
	ObjectType         string                    `json:"objectType,omitempty" validate:"omitempty,eq=REPORT"`
	ProgramID          string                    `json:"programID" validate:"required,identifier"`
	EventID            *string                   `json:"eventID,omitempty" validate:"omitempty,identifier"`
	ClientName         string                    `json:"clientName" validate:"required,min=1,max=128"`
	ReportName         *string                   `json:"reportName,omitempty" validate:"omitempty,min=1,max=128"`
	PayloadDescriptors []ReportPayloadDescriptor `json:"payloadDescriptors,omitempty"`
	Resources          []ReportResource          `json:"resources" validate:"required,dive"`
}

// ReportPayloadDescriptor provides context for interpreting report payloads.
type ReportPayloadDescriptor struct {
	ObjectType  string   `json:"objectType,omitempty"`
	PayloadType string   `json:"payloadType" validate:"required,min=1,max=128"`
	ReadingType *string  `json:"readingType,omitempty"`
	Units       *string  `json:"units,omitempty"`
	Accuracy    *float64 `json:"accuracy,omitempty"`
	Confidence  *int32   `json:"confidence,omitempty"`
}

// ReportResource is one reporting resource's interval data within a report.
type ReportResource struct {
	ResourceName   string          `json:"resourceName" validate:"required,min=1,max=128"`
	IntervalPeriod *IntervalPeriod `json:"intervalPeriod,omitempty"`
	Intervals      []Interval      `json:"intervals" validate:"required,min=1,dive"`
}
