package domain

import "time"

// Ven is a client with the VEN role, typically a device or controller.
type Ven struct {
	ID                   string    `json:"id"`
	CreatedDateTime      time.Time `json:"createdDateTime"`
	ModificationDateTime time.Time `json:"modificationDateTime"`

	VenContent

	// Resources is populated on reads; resources are managed through their
	// own sub-endpoints.
	Resources []Resource `json:"resources,omitempty"`
}

// VenContent is the client-writable part of a VEN. VenName may be the
// identifier provisioned during program enrollment.
type VenContent struct {
	ObjectType string      `json:"objectType,omitempty" validate:"omitempty,eq=VEN"`
	VenName    string      `json:"venName" validate:"required,min=1,max=128"`
	Attributes []ValuesMap `json:"attributes,omitempty" validate:"dive"`
	Targets    []Target    `json:"targets,omitempty" validate:"dive"`
}
