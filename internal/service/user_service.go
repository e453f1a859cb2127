package service

import (
	"context"
	"errors"
	"strings"

	"github.com/civicpulse/complaint-service/internal/domain"
	"github.com/civicpulse/complaint-service/internal/policy"
	"github.com/civicpulse/complaint-service/internal/repository"
	apperrors "github.com/civicpulse/complaint-service/pkg/util"
)

// UserService implements admin user management.
type UserService struct {
	users      repository.UserRepository
	complaints repository.ComplaintRepository
	now        Clock
}

// NewUserService constructs the service.
func NewUserService(users repository.UserRepository, complaints repository.ComplaintRepository) *UserService {
	return &UserService{users: users, complaints: complaints, now: defaultClock}
}

// ListUsers returns accounts, optionally narrowed to a role.
func (s *UserService) ListUsers(ctx context.Context, principal *domain.Principal, role string) ([]domain.User, error) {
	if !policy.Can(principal, policy.ActionManageUsers, nil) {
		return nil, apperrors.NewForbidden("only admins may manage users")
	}
	filter := repository.UserFilter{}
	if strings.TrimSpace(role) != "" {
		parsed, ok := domain.ParseRole(role)
		if !ok {
			return nil, apperrors.NewValidationError("invalid role", map[string]any{"role": role})
		}
		filter.Role = &parsed
	}
	users, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}

// ListVolunteers returns every volunteer, for assignment pickers.
func (s *UserService) ListVolunteers(ctx context.Context, principal *domain.Principal) ([]domain.User, error) {
	return s.ListUsers(ctx, principal, string(domain.RoleVolunteer))
}

// ChangeRole sets a user's role. Admins cannot change their own role. A volunteer
// still referenced by any complaint keeps the role until every assignment moves.
func (s *UserService) ChangeRole(ctx context.Context, principal *domain.Principal, userID, role string) (*domain.User, error) {
	if !policy.Can(principal, policy.ActionManageUsers, nil) {
		return nil, apperrors.NewForbidden("only admins may manage users")
	}
	parsed, ok := domain.ParseRole(role)
	if !ok {
		return nil, apperrors.NewValidationError("invalid role", map[string]any{"role": role})
	}
	if userID == principal.UserID {
		return nil, apperrors.NewValidationError("admins cannot change their own role", nil)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": userID})
		}
		return nil, apperrors.MapError(err)
	}
	if user.Role == parsed {
		return user, nil
	}
	if user.Role == domain.RoleVolunteer {
		if err := s.ensureNoAssignments(ctx, user.ID); err != nil {
			return nil, err
		}
	}

	now := s.now()
	if err := s.users.UpdateRole(ctx, user.ID, parsed, now); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": userID})
		}
		return nil, apperrors.MapError(err)
	}
	user.Role = parsed
	user.UpdatedAt = now
	return user, nil
}

// ensureNoAssignments refuses to move a volunteer out of the role while complaints
// still point at them, resolved ones included.
func (s *UserService) ensureNoAssignments(ctx context.Context, volunteerID string) error {
	assigned, err := s.complaints.List(ctx, repository.ComplaintFilter{AssignedVolunteerID: &volunteerID})
	if err != nil {
		return apperrors.MapError(err)
	}
	if len(assigned) == 0 {
		return nil
	}
	open := 0
	for _, c := range assigned {
		if c.Status.Rank() != domain.ComplaintStatusResolved.Rank() {
			open++
		}
	}
	return apperrors.NewConflict("volunteer still has assigned complaints", map[string]any{
		"user_id":  volunteerID,
		"assigned": len(assigned),
		"open":     open,
	})
}
