package service

import (
	"context"

	"github.com/civicpulse/complaint-service/internal/domain"
	"github.com/civicpulse/complaint-service/internal/policy"
	"github.com/civicpulse/complaint-service/internal/repository"
	apperrors "github.com/civicpulse/complaint-service/pkg/util"
)

// ComplaintStats aggregates complaint counts by lifecycle state.
type ComplaintStats struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	InProgress int `json:"inProgress"`
	Resolved   int `json:"resolved"`
}

// QueryService builds role-scoped, ranked complaint views.
type QueryService struct {
	complaints repository.ComplaintRepository
}

// NewQueryService constructs the service.
func NewQueryService(complaints repository.ComplaintRepository) *QueryService {
	return &QueryService{complaints: complaints}
}

// ListAll returns every complaint ranked by priority. Admin only.
func (s *QueryService) ListAll(ctx context.Context, principal *domain.Principal) ([]domain.Complaint, error) {
	if !policy.Can(principal, policy.ActionListAll, nil) {
		return nil, apperrors.NewForbidden("only admins may list all complaints")
	}
	complaints, err := s.complaints.List(ctx, repository.ComplaintFilter{})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	SortByPriority(complaints)
	return nonNil(complaints), nil
}

// ListOwn returns the citizen's own complaints, newest first.
func (s *QueryService) ListOwn(ctx context.Context, principal *domain.Principal) ([]domain.Complaint, error) {
	if !policy.Can(principal, policy.ActionListOwn, nil) {
		return nil, apperrors.NewForbidden("only citizens have their own complaints")
	}
	complaints, err := s.complaints.List(ctx, repository.ComplaintFilter{ReporterID: strPtr(principal.UserID)})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	SortByNewest(complaints)
	return nonNil(complaints), nil
}

// ListAssigned returns the volunteer's assignments as a work queue.
func (s *QueryService) ListAssigned(ctx context.Context, principal *domain.Principal) ([]domain.Complaint, error) {
	if !policy.Can(principal, policy.ActionListAssigned, nil) {
		return nil, apperrors.NewForbidden("only volunteers have assignments")
	}
	complaints, err := s.complaints.List(ctx, repository.ComplaintFilter{AssignedVolunteerID: strPtr(principal.UserID)})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	SortWorkQueue(complaints)
	return nonNil(complaints), nil
}

// Stats counts complaints by status. Missing or empty statuses count as pending;
// unrecognised ones only add to the total.
func (s *QueryService) Stats(ctx context.Context, principal *domain.Principal) (ComplaintStats, error) {
	if !policy.Can(principal, policy.ActionViewStats, nil) {
		return ComplaintStats{}, apperrors.NewForbidden("only admins may view stats")
	}
	counts, err := s.complaints.CountByStatus(ctx)
	if err != nil {
		return ComplaintStats{}, apperrors.MapError(err)
	}

	var stats ComplaintStats
	for status, n := range counts {
		stats.Total += n
		if status.CountsAsPending() {
			stats.Pending += n
			continue
		}
		switch status.Rank() {
		case domain.ComplaintStatusInProgress.Rank():
			stats.InProgress += n
		case domain.ComplaintStatusResolved.Rank():
			stats.Resolved += n
		}
	}
	return stats, nil
}

func nonNil(complaints []domain.Complaint) []domain.Complaint {
	if complaints == nil {
		return []domain.Complaint{}
	}
	return complaints
}
