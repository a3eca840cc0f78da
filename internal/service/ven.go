package service

import (
	"context"

	"github.com/openleadr/openleadr-go/internal/auth"
	"github.com/openleadr/openleadr-go/internal/domain"
	"github.com/openleadr/openleadr-go/internal/policy"
	"github.com/openleadr/openleadr-go/internal/repository"
)

// VenService serves the VEN CRUD operations. A VEN caller sees only itself;
// business callers and VEN managers see every VEN.
type VenService struct {
	vens      VenStore
	resources ResourceStore
}

// List returns the caller-visible VENs.
func (s *VenService) List(ctx context.Context, caller auth.Caller, filter repository.VenFilter, page domain.Pagination) ([]domain.Ven, error) {
	vis, err := policy.VenRead(caller)
	if err != nil {
		return nil, err
	}
	return s.vens.List(ctx, vis, filter, page)
}

// Get returns one visible VEN with its resources attached.
func (s *VenService) Get(ctx context.Context, caller auth.Caller, id string) (*domain.Ven, error) {
	if err := domain.ValidateIdentifier(id); err != nil {
		return nil, err
	}
	vis, err := policy.VenRead(caller)
	if err != nil {
		return nil, err
	}
	ven, err := s.vens.Get(ctx, vis, id)
	if err != nil {
		return nil, err
	}
	// Attachment is unpaginated: page through the store until a short page
	// so VENs with more than one page of resources come back whole.
	var resources []domain.Resource
	for skip := int64(0); ; skip += domain.MaxLimit {
		batch, err := s.resources.List(ctx, id, repository.ResourceFilter{},
			domain.Pagination{Skip: skip, Limit: domain.MaxLimit})
		if err != nil {
			return nil, err
		}
		resources = append(resources, batch...)
		if int64(len(batch)) < domain.MaxLimit {
			break
		}
	}
	ven.Resources = resources
	return ven, nil
}

// Create stores a new VEN.
func (s *VenService) Create(ctx context.Context, caller auth.Caller, content domain.VenContent) (*domain.Ven, error) {
	if err := domain.Validate(content); err != nil {
		return nil, err
	}
	if err := policy.VenWrite(caller); err != nil {
		return nil, err
	}
	return s.vens.Create(ctx, content)
}

// Update rewrites a visible VEN.
func (s *VenService) Update(ctx context.Context, caller auth.Caller, id string, content domain.VenContent) (*domain.Ven, error) {
	if err := domain.ValidateIdentifier(id); err != nil {
		return nil, err
	}
	if err := domain.Validate(content); err != nil {
		return nil, err
	}
	if err := policy.VenWrite(caller); err != nil {
		return nil, err
	}
	vis, err := policy.VenRead(caller)
	if err != nil {
		return nil, err
	}
	if _, err := s.vens.Get(ctx, vis, id); err != nil {
		return nil, err
	}
	return s.vens.Update(ctx, id, content)
}

// Delete removes a visible VEN; its resources go with it.
func (s *VenService) Delete(ctx context.Context, caller auth.Caller, id string) error {
	if err := domain.ValidateIdentifier(id); err != nil {
		return err
	}
	if err := policy.VenWrite(caller); err != nil {
		return err
	}
	vis, err := policy.VenRead(caller)
	if err != nil {
		return err
	}
	if _, err := s.vens.Get(ctx, vis, id); err != nil {
		return err
	}
	return s.vens.Delete(ctx, id)
}
