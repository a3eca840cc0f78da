package service

import (
	"context"

	"github.com/openleadr/openleadr-go/internal/auth"
	"github.com/openleadr/openleadr-go/internal/domain"
	"github.com/openleadr/openleadr-go/internal/policy"
	"github.com/openleadr/openleadr-go/internal/pkg/errors"
	"github.com/openleadr/openleadr-go/internal/repository"
)

// ReportService serves the report CRUD operations. A report's clientName
// names the authoring VEN; write authority differs for VEN and business
// callers.
type ReportService struct {
	reports  ReportStore
	programs ProgramStore
	events   EventStore
	vens     VenStore
}

// List returns the caller-visible reports.
func (s *ReportService) List(ctx context.Context, caller auth.Caller, filter repository.ReportFilter, page domain.Pagination) ([]domain.Report, error) {
	return s.reports.List(ctx, policy.ReportRead(caller), filter, page)
}

// Get returns one visible report.
func (s *ReportService) Get(ctx context.Context, caller auth.Caller, id string) (*domain.Report, error) {
	if err := domain.ValidateIdentifier(id); err != nil {
		return nil, err
	}
	return s.reports.Get(ctx, policy.ReportRead(caller), id)
}

// Create validates referential integrity and write authority, then stores
// the report.
func (s *ReportService) Create(ctx context.Context, caller auth.Caller, content domain.ReportContent) (*domain.Report, error) {
	if err := s.checkWrite(ctx, caller, content); err != nil {
		return nil, err
	}
	return s.reports.Create(ctx, content)
}

// Update rewrites a visible report, re-checking authority for both the
// stored and the submitted content.
func (s *ReportService) Update(ctx context.Context, caller auth.Caller, id string, content domain.ReportContent) (*domain.Report, error) {
	if err := domain.ValidateIdentifier(id); err != nil {
		return nil, err
	}
	existing, err := s.reports.Get(ctx, policy.ReportRead(caller), id)
	if err != nil {
		return nil, err
	}
	if err := s.checkWrite(ctx, caller, existing.ReportContent); err != nil {
		return nil, err
	}
	if err := s.checkWrite(ctx, caller, content); err != nil {
		return nil, err
	}
	return s.reports.Update(ctx, id, content)
}

// Delete removes a visible report the caller may write.
func (s *ReportService) Delete(ctx context.Context, caller auth.Caller, id string) error {
	if err := domain.ValidateIdentifier(id); err != nil {
		return err
	}
	existing, err := s.reports.Get(ctx, policy.ReportRead(caller), id)
	if err != nil {
		return err
	}
	if err := s.checkWrite(ctx, caller, existing.ReportContent); err != nil {
		return err
	}
	return s.reports.Delete(ctx, id)
}

// checkWrite validates the content, resolves the referenced program and
// event, and applies the report write policy.
func (s *ReportService) checkWrite(ctx context.Context, caller auth.Caller, content domain.ReportContent) error {
	if err := domain.Validate(content); err != nil {
		return err
	}

	program, err := s.programs.Get(ctx, policy.ProgramRead(caller), content.ProgramID)
	if err != nil {
		if errors.IsKind(err, errors.KindNotFound) {
			return errors.Unprocessable("referenced program does not exist")
		}
		return err
	}

	if content.EventID != nil {
		event, err := s.events.Get(ctx, policy.EventRead(caller), *content.EventID)
		if err != nil {
			if errors.IsKind(err, errors.KindNotFound) {
				return errors.Unprocessable("referenced event does not exist")
			}
			return err
		}
		if event.ProgramID != content.ProgramID {
			return errors.Unprocessable("event does not belong to the referenced program")
		}
	}

	venNames, err := s.vens.NamesByIDs(ctx, caller.VenIDs)
	if err != nil {
		return err
	}
	return policy.ReportWrite(caller, content.ClientName, venNames, program.BusinessID)
}
