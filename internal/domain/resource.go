package domain

import "time"

// Resource is an energy device or system subject to control by a VEN. It is
// strictly contained in its VEN and deleted with it.
type Resource struct {
	ID                   string    `json:"id"`
	VenID                string    `json:"venID"`
	CreatedDateTime      time.Time `json:"createdDateTime"`
	ModificationDateTime time.Time `json:"modificationDateTime"`

	ResourceContent
}

// ResourceContent is the client-writable part of a resource.
type ResourceContent struct {
	ObjectType   string      `json:"objectType,omitempty" validate:"omitempty,eq=RESOURCE"`
	ResourceName string      `json:"resourceName" validate:"required,min=1,max=128"`
	Attributes   []ValuesMap `json:"attributes,omitempty" validate:"dive"`
	Targets      []Target    `json:"targets,omitempty" validate:"dive"`
}
