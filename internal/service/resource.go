package service

import (
	"context"

	"github.com/openleadr/openleadr-go/internal/auth"
	"github.com/openleadr/openleadr-go/internal/domain"
	"github.com/openleadr/openleadr-go/internal/policy"
	"github.com/openleadr/openleadr-go/internal/repository"
)

// ResourceService serves resources under a VEN. Every operation first
// checks access to the parent VEN; a VEN outside the caller's visibility
// looks missing.
type ResourceService struct {
	resources ResourceStore
	vens      VenStore
}

// checkVen verifies access to and existence of the parent VEN.
func (s *ResourceService) checkVen(ctx context.Context, caller auth.Caller, venID string, write bool) error {
	if err := domain.ValidateIdentifier(venID); err != nil {
		return err
	}
	var err error
	if write {
		err = policy.ResourceWrite(caller, venID)
	} else {
		err = policy.ResourceRead(caller, venID)
	}
	if err != nil {
		return err
	}
	vis, err := policy.VenRead(caller)
	if err != nil {
		return err
	}
	_, err = s.vens.Get(ctx, vis, venID)
	return err
}

// List returns the VEN's resources.
func (s *ResourceService) List(ctx context.Context, caller auth.Caller, venID string, filter repository.ResourceFilter, page domain.Pagination) ([]domain.Resource, error) {
	if err := s.checkVen(ctx, caller, venID, false); err != nil {
		return nil, err
	}
	return s.resources.List(ctx, venID, filter, page)
}

// Get returns one resource of the VEN.
func (s *ResourceService) Get(ctx context.Context, caller auth.Caller, venID, id string) (*domain.Resource, error) {
	if err := domain.ValidateIdentifier(id); err != nil {
		return nil, err
	}
	if err := s.checkVen(ctx, caller, venID, false); err != nil {
		return nil, err
	}
	return s.resources.Get(ctx, venID, id)
}

// Create stores a new resource under the VEN.
func (s *ResourceService) Create(ctx context.Context, caller auth.Caller, venID string, content domain.ResourceContent) (*domain.Resource, error) {
	if err := domain.Validate(content); err != nil {
		return nil, err
	}
	if err := s.checkVen(ctx, caller, venID, true); err != nil {
		return nil, err
	}
	return s.resources.Create(ctx, venID, content)
}

// Update rewrites a resource of the VEN.
func (s *ResourceService) Update(ctx context.Context, caller auth.Caller, venID, id string, content domain.ResourceContent) (*domain.Resource, error) {
	if err := domain.ValidateIdentifier(id); err != nil {
		return nil, err
	}
	if err := domain.Validate(content); err != nil {
		return nil, err
	}
	if err := s.checkVen(ctx, caller, venID, true); err != nil {
		return nil, err
	}
	return s.resources.Update(ctx, venID, id, content)
}

// Delete removes a resource from the VEN.
func (s *ResourceService) Delete(ctx context.Context, caller auth.Caller, venID, id string) error {
	if err := domain.ValidateIdentifier(id); err != nil {
		return err
	}
	if err := s.checkVen(ctx, caller, venID, true); err != nil {
		return err
	}
	return s.resources.Delete(ctx, venID, id)
}
