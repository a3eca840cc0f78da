package service

import (
	"context"

	"github.com/openleadr/openleadr-go/internal/auth"
	"github.com/openleadr/openleadr-go/internal/domain"
	"github.com/openleadr/openleadr-go/internal/policy"
	"github.com/openleadr/openleadr-go/internal/pkg/errors"
	"github.com/openleadr/openleadr-go/internal/repository"
)

// EventService serves the event CRUD operations. Events inherit visibility
// and write authority from their parent program.
type EventService struct {
	events   EventStore
	programs ProgramStore
}

// List returns the caller-visible events.
func (s *EventService) List(ctx context.Context, caller auth.Caller, filter repository.EventFilter, page domain.Pagination) ([]domain.Event, error) {
	return s.events.List(ctx, policy.EventRead(caller), filter, page)
}

// Get returns one visible event.
func (s *EventService) Get(ctx context.Context, caller auth.Caller, id string) (*domain.Event, error) {
	if err := domain.ValidateIdentifier(id); err != nil {
		return nil, err
	}
	return s.events.Get(ctx, policy.EventRead(caller), id)
}

// Create validates the body, checks write authority on the parent program,
// and stores the event. A program the caller cannot see counts as missing.
func (s *EventService) Create(ctx context.Context, caller auth.Caller, content domain.EventContent) (*domain.Event, error) {
	if err := domain.Validate(content); err != nil {
		return nil, err
	}
	program, err := s.parentProgram(ctx, caller, content.ProgramID)
	if err != nil {
		return nil, err
	}
	if err := policy.EventWrite(caller, program.BusinessID); err != nil {
		return nil, err
	}
	return s.events.Create(ctx, content)
}

// Update rewrites a visible event, re-checking authority against both the
// stored parent program and the submitted one.
func (s *EventService) Update(ctx context.Context, caller auth.Caller, id string, content domain.EventContent) (*domain.Event, error) {
	if err := domain.ValidateIdentifier(id); err != nil {
		return nil, err
	}
	if err := domain.Validate(content); err != nil {
		return nil, err
	}
	existing, err := s.events.Get(ctx, policy.EventRead(caller), id)
	if err != nil {
		return nil, err
	}
	current, err := s.parentProgram(ctx, caller, existing.ProgramID)
	if err != nil {
		return nil, err
	}
	if err := policy.EventWrite(caller, current.BusinessID); err != nil {
		return nil, err
	}
	if content.ProgramID != existing.ProgramID {
		next, err := s.parentProgram(ctx, caller, content.ProgramID)
		if err != nil {
			return nil, err
		}
		if err := policy.EventWrite(caller, next.BusinessID); err != nil {
			return nil, err
		}
	}
	return s.events.Update(ctx, id, content)
}

// Delete removes a visible event the caller may write.
func (s *EventService) Delete(ctx context.Context, caller auth.Caller, id string) error {
	if err := domain.ValidateIdentifier(id); err != nil {
		return err
	}
	existing, err := s.events.Get(ctx, policy.EventRead(caller), id)
	if err != nil {
		return err
	}
	program, err := s.parentProgram(ctx, caller, existing.ProgramID)
	if err != nil {
		return err
	}
	if err := policy.EventWrite(caller, program.BusinessID); err != nil {
		return err
	}
	return s.events.Delete(ctx, id)
}

// parentProgram loads the referenced program under the caller's visibility;
// a hidden or absent program is a referential failure.
func (s *EventService) parentProgram(ctx context.Context, caller auth.Caller, programID string) (*domain.Program, error) {
	program, err := s.programs.Get(ctx, policy.ProgramRead(caller), programID)
	if err != nil {
		if errors.IsKind(err, errors.KindNotFound) {
			return nil, errors.Unprocessable("referenced program does not exist")
		}
		return nil, err
	}
	return program, nil
}
