package domain

import "time"

// Program is a demand-response scheme, e.g. dynamic pricing.
type Program struct {
	ID                   string    `json:"id"`
	CreatedDateTime      time.Time `json:"createdDateTime"`
	ModificationDateTime time.Time `json:"modificationDateTime"`

	ProgramContent
}

// ProgramContent is the client-writable part of a program.
type ProgramContent struct {
	ObjectType          string               `json:"objectType,omitempty" validate:"omitempty,eq=PROGRAM"`
	ProgramName         string               `json:"programName" validate:"required,min=1,max=128"`
	ProgramLongName     *string              `json:"programLongName,omitempty"`
	RetailerName        *string              `json:"retailerName,omitempty"`
	IntervalPeriod      *IntervalPeriod      `json:"intervalPeriod,omitempty"`
	ProgramDescriptions []ProgramDescription `json:"programDescriptions,omitempty"`
	PayloadDescriptors  []PayloadDescriptor  `json:"payloadDescriptors,omitempty"`
	Attributes          []ValuesMap          `json:"attributes,omitempty" validate:"dive"`
	Targets             []Target             `json:"targets,omitempty" validate:"dive"`

	// BusinessID names the owning business. Null means the program is
	// globally visible and writable only by privileged callers.
	BusinessID *string `json:"businessId,omitempty" validate:"omitempty,identifier"`
}

// ProgramDescription is a human-oriented pointer to program documentation.
type ProgramDescription struct {
	URL string `json:"URL" validate:"required,url"`
}

// PayloadDescriptor provides context for interpreting interval payloads.
type PayloadDescriptor struct {
	ObjectType  string  `json:"objectType,omitempty"`
	PayloadType string  `json:"payloadType" validate:"required,min=1,max=128"`
	Units       *string `json:"units,omitempty"`
	Currency    *string `json:"currency,omitempty"`
}
