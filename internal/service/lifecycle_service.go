package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/civicpulse/complaint-service/internal/domain"
	"github.com/civicpulse/complaint-service/internal/events"
	"github.com/civicpulse/complaint-service/internal/policy"
	"github.com/civicpulse/complaint-service/internal/repository"
	apperrors "github.com/civicpulse/complaint-service/pkg/util"
)

// LifecycleService validates and applies complaint creation, assignment and status
// transitions. It keeps no state between calls: every operation re-reads the
// complaint before deciding.
type LifecycleService struct {
	complaints    repository.ComplaintRepository
	users         repository.UserRepository
	history       repository.ComplaintHistoryRepository
	dispatcher    events.Dispatcher
	limiter       SubmissionLimiter
	logger        *zap.Logger
	maskForbidden bool
	now           Clock
}

// LifecycleDependencies bundles collaborators for the lifecycle service.
type LifecycleDependencies struct {
	ComplaintRepo repository.ComplaintRepository
	UserRepo      repository.UserRepository
	HistoryRepo   repository.ComplaintHistoryRepository
	Dispatcher    events.Dispatcher
	Limiter       SubmissionLimiter
	Logger        *zap.Logger
	// MaskForbidden reports complaints outside the caller's visibility as not found.
	MaskForbidden bool
	Clock         Clock
}

// ComplaintDraft is the citizen-supplied input for a new complaint.
type ComplaintDraft struct {
	Title       string
	Description string
	Address     string
	Landmark    *string
	Coordinates *domain.Coordinates
	Category    string
	Priority    string
}

// NewLifecycleService constructs the service.
func NewLifecycleService(deps LifecycleDependencies) *LifecycleService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := deps.Clock
	if now == nil {
		now = defaultClock
	}
	return &LifecycleService{
		complaints:    deps.ComplaintRepo,
		users:         deps.UserRepo,
		history:       deps.HistoryRepo,
		dispatcher:    deps.Dispatcher,
		limiter:       deps.Limiter,
		logger:        logger,
		maskForbidden: deps.MaskForbidden,
		now:           now,
	}
}

// Create files a new complaint on behalf of a citizen.
func (s *LifecycleService) Create(ctx context.Context, principal *domain.Principal, draft ComplaintDraft) (*domain.Complaint, error) {
	if !policy.Can(principal, policy.ActionCreateComplaint, nil) {
		return nil, apperrors.NewForbidden("only citizens may file complaints")
	}

	complaint, err := s.buildComplaint(principal, draft)
	if err != nil {
		return nil, err
	}

	if err := s.checkSubmissionLimit(ctx, principal.UserID); err != nil {
		return nil, err
	}

	if err := s.complaints.Create(ctx, complaint); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.recordHistory(ctx, principal, complaint.ID, domain.ChangeTypeCreated, nil, map[string]any{
		"status":   complaint.Status,
		"priority": complaint.Priority,
	})
	publishEvent(ctx, s.dispatcher, s.logger, events.Event{
		Type:        events.EventComplaintCreated,
		ComplaintID: complaint.ID,
		Actor:       actorOf(principal),
		Timestamp:   complaint.CreatedAt,
		Payload: events.ComplaintCreatedPayload{
			Category: complaint.Category,
			Priority: complaint.Priority,
			Title:    complaint.Title,
		},
	})
	return complaint, nil
}

func (s *LifecycleService) buildComplaint(principal *domain.Principal, draft ComplaintDraft) (*domain.Complaint, error) {
	title := strings.TrimSpace(draft.Title)
	description := strings.TrimSpace(draft.Description)
	address := strings.TrimSpace(draft.Address)

	var missing []string
	if title == "" {
		missing = append(missing, "title")
	}
	if description == "" {
		missing = append(missing, "description")
	}
	if address == "" {
		missing = append(missing, "address")
	}
	if len(missing) > 0 {
		return nil, apperrors.NewValidationError("title, description and address are required",
			map[string]any{"missing": missing})
	}

	priority := domain.ComplaintPriorityMedium
	if strings.TrimSpace(draft.Priority) != "" {
		parsed, ok := domain.ParseComplaintPriority(draft.Priority)
		if !ok {
			return nil, apperrors.NewValidationError("invalid priority", map[string]any{
				"priority": draft.Priority,
				"allowed":  []domain.ComplaintPriority{domain.ComplaintPriorityLow, domain.ComplaintPriorityMedium, domain.ComplaintPriorityHigh, domain.ComplaintPriorityCritical},
			})
		}
		priority = parsed
	}

	if draft.Coordinates != nil && !draft.Coordinates.Valid() {
		return nil, apperrors.NewValidationError("coordinates out of range", map[string]any{
			"latitude":  draft.Coordinates.Latitude,
			"longitude": draft.Coordinates.Longitude,
		})
	}

	var landmark *string
	if draft.Landmark != nil && strings.TrimSpace(*draft.Landmark) != "" {
		landmark = strPtr(strings.TrimSpace(*draft.Landmark))
	}
	var coords *domain.Coordinates
	if draft.Coordinates != nil {
		c := *draft.Coordinates
		coords = &c
	}

	now := s.now()
	return &domain.Complaint{
		ID:          uuid.NewString(),
		ReporterID:  principal.UserID,
		Title:       title,
		Description: description,
		Address:     address,
		Landmark:    landmark,
		Coordinates: coords,
		Category:    strings.TrimSpace(draft.Category),
		Priority:    priority,
		Status:      domain.ComplaintStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// checkSubmissionLimit fails open when the limiter backend errors; losing the limit
// briefly is preferred over rejecting every citizen while Redis is down.
func (s *LifecycleService) checkSubmissionLimit(ctx context.Context, reporterID string) error {
	if s.limiter == nil {
		return nil
	}
	allowed, err := s.limiter.Allow(ctx, reporterID)
	if err != nil {
		s.logger.Warn("submission limiter unavailable", zap.String("reporter_id", reporterID), zap.Error(err))
		return nil
	}
	if !allowed {
		return apperrors.NewRateLimited("too many complaints submitted, try again later", nil)
	}
	return nil
}

// AssignVolunteer binds a volunteer to a complaint and moves it to IN_PROGRESS.
// Re-assigning the same volunteer only refreshes updatedAt.
func (s *LifecycleService) AssignVolunteer(ctx context.Context, principal *domain.Principal, complaintID, volunteerID string) (*domain.Complaint, error) {
	if !policy.Can(principal, policy.ActionAssignVolunteer, nil) {
		return nil, apperrors.NewForbidden("only admins may assign volunteers")
	}
	complaint, err := s.complaints.GetByID(ctx, complaintID)
	if err != nil {
		return nil, mapComplaintLookup(err, complaintID)
	}

	volunteerID = strings.TrimSpace(volunteerID)
	if volunteerID == "" {
		return nil, apperrors.NewValidationError("volunteerId required", nil)
	}

	volunteer, err := s.users.GetByID(ctx, volunteerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewValidationError("volunteer not found", map[string]any{"volunteer_id": volunteerID})
		}
		return nil, apperrors.MapError(err)
	}
	if volunteer.Role != domain.RoleVolunteer {
		return nil, apperrors.NewValidationError("user is not a volunteer", map[string]any{
			"volunteer_id": volunteerID,
			"role":         volunteer.Role,
		})
	}

	oldAssignee := complaint.AssignedVolunteerID
	oldStatus := complaint.Status
	complaint.AssignedVolunteerID = strPtr(volunteer.ID)
	complaint.Status = domain.ComplaintStatusInProgress
	complaint.UpdatedAt = s.now()

	if err := s.complaints.Update(ctx, complaint); err != nil {
		return nil, mapComplaintLookup(err, complaintID)
	}

	s.recordHistory(ctx, principal, complaint.ID, domain.ChangeTypeAssignee,
		map[string]any{"assigned_volunteer_id": oldAssignee, "status": oldStatus},
		map[string]any{"assigned_volunteer_id": volunteer.ID, "status": complaint.Status},
	)
	publishEvent(ctx, s.dispatcher, s.logger, events.Event{
		Type:        events.EventComplaintAssigned,
		ComplaintID: complaint.ID,
		Actor:       actorOf(principal),
		Timestamp:   complaint.UpdatedAt,
		Payload: events.ComplaintAssignedPayload{
			OldVolunteerID: oldAssignee,
			VolunteerID:    volunteer.ID,
		},
	})
	return complaint, nil
}

// UpdateStatus moves a complaint to newStatus. Admins may update any complaint, the
// assigned volunteer only their own. Backward moves such as RESOLVED -> PENDING are
// allowed; IN_PROGRESS requires an assignee.
func (s *LifecycleService) UpdateStatus(ctx context.Context, principal *domain.Principal, complaintID, newStatus string) (*domain.Complaint, error) {
	complaint, err := s.complaints.GetByID(ctx, complaintID)
	if err != nil {
		return nil, mapComplaintLookup(err, complaintID)
	}
	if !policy.Can(principal, policy.ActionUpdateStatus, complaint) {
		return nil, s.deny(principal, complaint, "not allowed to update this complaint")
	}

	status, ok := domain.ParseComplaintStatus(newStatus)
	if !ok {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{
			"status":  newStatus,
			"allowed": []domain.ComplaintStatus{domain.ComplaintStatusPending, domain.ComplaintStatusInProgress, domain.ComplaintStatusResolved},
		})
	}
	if status == domain.ComplaintStatusInProgress && complaint.AssignedVolunteerID == nil {
		return nil, apperrors.NewValidationError("assign a volunteer before marking a complaint in progress",
			map[string]any{"complaint_id": complaint.ID})
	}

	oldStatus := complaint.Status
	complaint.Status = status
	complaint.UpdatedAt = s.now()

	if err := s.complaints.Update(ctx, complaint); err != nil {
		return nil, mapComplaintLookup(err, complaintID)
	}

	s.recordHistory(ctx, principal, complaint.ID, domain.ChangeTypeStatus,
		map[string]any{"status": oldStatus},
		map[string]any{"status": status},
	)
	publishEvent(ctx, s.dispatcher, s.logger, events.Event{
		Type:        events.EventComplaintStatusChanged,
		ComplaintID: complaint.ID,
		Actor:       actorOf(principal),
		Timestamp:   complaint.UpdatedAt,
		Payload: events.ComplaintStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: status,
		},
	})
	return complaint, nil
}

// GetByID returns a complaint the principal may view.
func (s *LifecycleService) GetByID(ctx context.Context, principal *domain.Principal, complaintID string) (*domain.Complaint, error) {
	complaint, err := s.complaints.GetByID(ctx, complaintID)
	if err != nil {
		return nil, mapComplaintLookup(err, complaintID)
	}
	if !policy.Can(principal, policy.ActionViewComplaint, complaint) {
		return nil, s.deny(principal, complaint, "not allowed to view this complaint")
	}
	return complaint, nil
}

// History returns the audit trail of a complaint the principal may view.
func (s *LifecycleService) History(ctx context.Context, principal *domain.Principal, complaintID string) ([]domain.ComplaintHistory, error) {
	complaint, err := s.GetByID(ctx, principal, complaintID)
	if err != nil {
		return nil, err
	}
	if s.history == nil {
		return []domain.ComplaintHistory{}, nil
	}
	entries, err := s.history.ListByComplaint(ctx, complaint.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if entries == nil {
		entries = []domain.ComplaintHistory{}
	}
	return entries, nil
}

// deny builds the refusal for a complaint the principal may not act on. With masking
// enabled, complaints the principal cannot even see are reported as missing.
func (s *LifecycleService) deny(principal *domain.Principal, complaint *domain.Complaint, message string) error {
	if s.maskForbidden && !policy.Can(principal, policy.ActionViewComplaint, complaint) {
		return apperrors.NewNotFound("complaint", map[string]any{"complaint_id": complaint.ID})
	}
	return apperrors.NewForbidden(message)
}

// recordHistory appends an audit entry. The mutation has already been committed, so a
// failed write is logged rather than surfaced.
func (s *LifecycleService) recordHistory(ctx context.Context, principal *domain.Principal, complaintID string, change domain.ComplaintChangeType, oldValue, newValue map[string]any) {
	if s.history == nil {
		return
	}
	entry := &domain.ComplaintHistory{
		ID:          uuid.NewString(),
		ComplaintID: complaintID,
		ChangedByID: principal.UserID,
		ChangedBy:   principal.Role,
		ChangeType:  change,
		OldValue:    oldValue,
		NewValue:    newValue,
		CreatedAt:   s.now(),
	}
	if err := s.history.Create(ctx, entry); err != nil {
		s.logger.Warn("failed to record complaint history",
			zap.String("complaint_id", complaintID),
			zap.String("change_type", string(change)),
			zap.Error(err))
	}
}
