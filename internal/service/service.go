// Package service orchestrates the API operations: validate the body,
// consult the authorization policy, dispatch to storage, and map errors.
// Policy decisions live in the policy package only; services feed it the
// object state it needs.
package service

import (
	"context"

	"github.com/openleadr/openleadr-go/internal/domain"
	"github.com/openleadr/openleadr-go/internal/policy"
	"github.com/openleadr/openleadr-go/internal/repository"
)

// ProgramStore is the program storage contract.
type ProgramStore interface {
	List(ctx context.Context, vis policy.Visibility, filter *domain.TargetFilter, page domain.Pagination) ([]domain.Program, error)
	Get(ctx context.Context, vis policy.Visibility, id string) (*domain.Program, error)
	Create(ctx context.Context, content domain.ProgramContent, boundVenIDs []string) (*domain.Program, error)
	Update(ctx context.Context, id string, content domain.ProgramContent, boundVenIDs []string) (*domain.Program, error)
	Delete(ctx context.Context, id string) error
}

// EventStore is the event storage contract.
type EventStore interface {
	List(ctx context.Context, vis policy.Visibility, filter repository.EventFilter, page domain.Pagination) ([]domain.Event, error)
	Get(ctx context.Context, vis policy.Visibility, id string) (*domain.Event, error)
	Create(ctx context.Context, content domain.EventContent) (*domain.Event, error)
	Update(ctx context.Context, id string, content domain.EventContent) (*domain.Event, error)
	Delete(ctx context.Context, id string) error
}

// ReportStore is the report storage contract.
type ReportStore interface {
	List(ctx context.Context, vis policy.Visibility, filter repository.ReportFilter, page domain.Pagination) ([]domain.Report, error)
	Get(ctx context.Context, vis policy.Visibility, id string) (*domain.Report, error)
	Create(ctx context.Context, content domain.ReportContent) (*domain.Report, error)
	Update(ctx context.Context, id string, content domain.ReportContent) (*domain.Report, error)
	Delete(ctx context.Context, id string) error
}

// VenStore is the VEN storage contract.
type VenStore interface {
	List(ctx context.Context, vis policy.Visibility, filter repository.VenFilter, page domain.Pagination) ([]domain.Ven, error)
	Get(ctx context.Context, vis policy.Visibility, id string) (*domain.Ven, error)
	Create(ctx context.Context, content domain.VenContent) (*domain.Ven, error)
	Update(ctx context.Context, id string, content domain.VenContent) (*domain.Ven, error)
	Delete(ctx context.Context, id string) error
	NamesByIDs(ctx context.Context, ids []string) ([]string, error)
	IDsByNames(ctx context.Context, names []string) (ids []string, missing []string, err error)
}

// ResourceStore is the resource storage contract, scoped by owning VEN.
type ResourceStore interface {
	List(ctx context.Context, venID string, filter repository.ResourceFilter, page domain.Pagination) ([]domain.Resource, error)
	Get(ctx context.Context, venID, id string) (*domain.Resource, error)
	Create(ctx context.Context, venID string, content domain.ResourceContent) (*domain.Resource, error)
	Update(ctx context.Context, venID, id string, content domain.ResourceContent) (*domain.Resource, error)
	Delete(ctx context.Context, venID, id string) error
}

// UserStore is the user storage contract.
type UserStore interface {
	List(ctx context.Context, page domain.Pagination) ([]domain.User, error)
	Get(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, content domain.UserContent) (*domain.User, error)
	Update(ctx context.Context, id string, content domain.UserContent) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}

// CredentialStore is the credential write contract.
type CredentialStore interface {
	Add(ctx context.Context, userID, clientID, secretHash string) error
	Delete(ctx context.Context, userID, clientID string) error
}

// Stores bundles the storage contracts the services depend on.
type Stores struct {
	Programs    ProgramStore
	Events      EventStore
	Reports     ReportStore
	Vens        VenStore
	Resources   ResourceStore
	Users       UserStore
	Credentials CredentialStore
}

// Services bundles one service per resource.
type Services struct {
	Programs  *ProgramService
	Events    *EventService
	Reports   *ReportService
	Vens      *VenService
	Resources *ResourceService
	Users     *UserService
}

// New wires the services over the given stores.
func New(stores Stores) *Services {
	return &Services{
		Programs:  &ProgramService{programs: stores.Programs, vens: stores.Vens},
		Events:    &EventService{events: stores.Events, programs: stores.Programs},
		Reports:   &ReportService{reports: stores.Reports, programs: stores.Programs, events: stores.Events, vens: stores.Vens},
		Vens:      &VenService{vens: stores.Vens, resources: stores.Resources},
		Resources: &ResourceService{resources: stores.Resources, vens: stores.Vens},
		Users:     &UserService{users: stores.Users, credentials: stores.Credentials},
	}
}

// venNameTargetType is the target type that enrolls VENs into a program.
const venNameTargetType = "VEN_NAME"

// venNameTargets extracts the VEN names named by VEN_NAME targets.
func venNameTargets(targets []domain.Target) []string {
	var names []string
	for _, t := range targets {
		if t.Type == venNameTargetType {
			names = append(names, t.StringValues()...)
		}
	}
	return names
}
