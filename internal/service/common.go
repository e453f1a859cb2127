package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/civicpulse/complaint-service/internal/domain"
	"github.com/civicpulse/complaint-service/internal/events"
	"github.com/civicpulse/complaint-service/internal/repository"
	apperrors "github.com/civicpulse/complaint-service/pkg/util"
)

// Clock returns the current time. Services take one so tests can control timestamps.
type Clock func() time.Time

func defaultClock() time.Time {
	return time.Now().UTC()
}

// SubmissionLimiter throttles complaint creation per reporter.
type SubmissionLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

func mapComplaintLookup(err error, complaintID string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewNotFound("complaint", map[string]any{"complaint_id": complaintID})
	}
	return apperrors.MapError(err)
}

func publishEvent(ctx context.Context, dispatcher events.Dispatcher, logger *zap.Logger, event events.Event) {
	if dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if err := dispatcher.Publish(ctx, event); err != nil {
		logger.Warn("event handler failed",
			zap.String("event_type", string(event.Type)),
			zap.String("complaint_id", event.ComplaintID),
			zap.Error(err))
	}
}

func actorOf(principal *domain.Principal) events.Actor {
	return events.Actor{UserID: principal.UserID, Role: principal.Role}
}

func strPtr(s string) *string {
	return &s
}
