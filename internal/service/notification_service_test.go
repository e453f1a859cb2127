package service

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/civicpulse/complaint-service/internal/config"
	"github.com/civicpulse/complaint-service/internal/domain"
	"github.com/civicpulse/complaint-service/internal/events"
	"github.com/civicpulse/complaint-service/internal/observability"
)

func TestNotificationService_FeedsMetrics(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics("test")
	svc := NewNotificationService(dispatcher, zap.NewNop(), metrics, config.NotificationConfig{EmailFrom: "noreply@example.com"})
	svc.RegisterHandlers()
	ctx := context.Background()

	require.NoError(t, dispatcher.Publish(ctx, events.Event{
		Type:    events.EventComplaintCreated,
		Payload: events.ComplaintCreatedPayload{Priority: domain.ComplaintPriorityHigh},
	}))
	require.NoError(t, dispatcher.Publish(ctx, events.Event{
		Type:    events.EventComplaintAssigned,
		Payload: events.ComplaintAssignedPayload{VolunteerID: "vol-1"},
	}))
	require.NoError(t, dispatcher.Publish(ctx, events.Event{
		Type:    events.EventComplaintStatusChanged,
		Payload: events.ComplaintStatusChangedPayload{NewStatus: domain.ComplaintStatusResolved},
	}))

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ComplaintsCreated.WithLabelValues("HIGH")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ComplaintsAssigned))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ComplaintStatusChange.WithLabelValues("RESOLVED")))
}
