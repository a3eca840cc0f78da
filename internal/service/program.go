package service

import (
	"context"
	"strings"

	"github.com/openleadr/openleadr-go/internal/auth"
	"github.com/openleadr/openleadr-go/internal/domain"
	"github.com/openleadr/openleadr-go/internal/policy"
	"github.com/openleadr/openleadr-go/internal/pkg/errors"
)

// ProgramService serves the program CRUD operations. Programs carrying
// VEN_NAME targets are enrolled against the named VENs; the bindings drive
// VEN-side visibility.
type ProgramService struct {
	programs ProgramStore
	vens     VenStore
}

// List returns the caller-visible programs.
func (s *ProgramService) List(ctx context.Context, caller auth.Caller, filter *domain.TargetFilter, page domain.Pagination) ([]domain.Program, error) {
	return s.programs.List(ctx, policy.ProgramRead(caller), filter, page)
}

// Get returns one visible program.
func (s *ProgramService) Get(ctx context.Context, caller auth.Caller, id string) (*domain.Program, error) {
	if err := domain.ValidateIdentifier(id); err != nil {
		return nil, err
	}
	return s.programs.Get(ctx, policy.ProgramRead(caller), id)
}

// Create validates, authorizes, and stores a new program.
func (s *ProgramService) Create(ctx context.Context, caller auth.Caller, content domain.ProgramContent) (*domain.Program, error) {
	if err := domain.Validate(content); err != nil {
		return nil, err
	}
	if err := policy.ProgramWrite(caller, content.BusinessID); err != nil {
		return nil, err
	}
	venIDs, err := s.resolveBindings(ctx, content.Targets)
	if err != nil {
		return nil, err
	}
	return s.programs.Create(ctx, content, venIDs)
}

// Update rewrites a visible program. Write authority is checked against the
// stored owner and again against the submitted owner, so an update cannot
// move the program out of the caller's businesses.
func (s *ProgramService) Update(ctx context.Context, caller auth.Caller, id string, content domain.ProgramContent) (*domain.Program, error) {
	if err := domain.ValidateIdentifier(id); err != nil {
		return nil, err
	}
	if err := domain.Validate(content); err != nil {
		return nil, err
	}
	existing, err := s.programs.Get(ctx, policy.ProgramRead(caller), id)
	if err != nil {
		return nil, err
	}
	if err := policy.ProgramWrite(caller, existing.BusinessID); err != nil {
		return nil, err
	}
	if err := policy.ProgramWrite(caller, content.BusinessID); err != nil {
		return nil, err
	}
	venIDs, err := s.resolveBindings(ctx, content.Targets)
	if err != nil {
		return nil, err
	}
	return s.programs.Update(ctx, id, content, venIDs)
}

// Delete removes a visible program the caller may write.
func (s *ProgramService) Delete(ctx context.Context, caller auth.Caller, id string) error {
	if err := domain.ValidateIdentifier(id); err != nil {
		return err
	}
	existing, err := s.programs.Get(ctx, policy.ProgramRead(caller), id)
	if err != nil {
		return err
	}
	if err := policy.ProgramWrite(caller, existing.BusinessID); err != nil {
		return err
	}
	return s.programs.Delete(ctx, id)
}

// resolveBindings maps VEN_NAME targets to VEN ids. Naming an unknown VEN
// is a referential failure.
func (s *ProgramService) resolveBindings(ctx context.Context, targets []domain.Target) ([]string, error) {
	names := venNameTargets(targets)
	if len(names) == 0 {
		return nil, nil
	}
	ids, missing, err := s.vens.IDsByNames(ctx, names)
	if err != nil {
		return nil, err
	}
	if len(missing) > 0 {
		return nil, errors.Unprocessable("unknown VEN names in targets: " + strings.Join(missing, ", "))
	}
	return ids, nil
}
