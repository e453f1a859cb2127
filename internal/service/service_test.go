package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/civicpulse/complaint-service/internal/domain"
	"github.com/civicpulse/complaint-service/internal/events"
	"github.com/civicpulse/complaint-service/internal/repository/memory"
	apperrors "github.com/civicpulse/complaint-service/pkg/util"
)

// stepClock advances one second per call so successive writes get distinct timestamps.
type stepClock struct {
	mu  sync.Mutex
	cur time.Time
}

func newStepClock() *stepClock {
	return &stepClock{cur: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cur = c.cur.Add(time.Second)
	return c.cur
}

type fixture struct {
	complaints *memory.ComplaintStore
	users      *memory.UserStore
	history    *memory.HistoryStore
	dispatcher events.Dispatcher
	published  []events.Event
	clock      *stepClock
	lifecycle  *LifecycleService
	query      *QueryService
}

func newFixture(t *testing.T, opts ...func(*LifecycleDependencies)) *fixture {
	t.Helper()
	f := &fixture{
		complaints: memory.NewComplaintStore(),
		users:      memory.NewUserStore(),
		history:    memory.NewHistoryStore(),
		dispatcher: events.NewInMemoryDispatcher(),
		clock:      newStepClock(),
	}
	record := func(_ context.Context, e events.Event) error {
		f.published = append(f.published, e)
		return nil
	}
	f.dispatcher.Subscribe(events.EventComplaintCreated, record)
	f.dispatcher.Subscribe(events.EventComplaintAssigned, record)
	f.dispatcher.Subscribe(events.EventComplaintStatusChanged, record)

	deps := LifecycleDependencies{
		ComplaintRepo: f.complaints,
		UserRepo:      f.users,
		HistoryRepo:   f.history,
		Dispatcher:    f.dispatcher,
		Clock:         f.clock.Now,
	}
	for _, opt := range opts {
		opt(&deps)
	}
	f.lifecycle = NewLifecycleService(deps)
	f.query = NewQueryService(f.complaints)
	return f
}

func (f *fixture) addUser(t *testing.T, id string, role domain.Role) *domain.Principal {
	t.Helper()
	now := f.clock.Now()
	require.NoError(t, f.users.Create(context.Background(), &domain.User{
		ID:        id,
		Role:      role,
		Email:     id + "@example.com",
		Name:      id,
		CreatedAt: now,
		UpdatedAt: now,
	}))
	return &domain.Principal{UserID: id, Role: role}
}

func (f *fixture) file(t *testing.T, citizen *domain.Principal, title, priority string) *domain.Complaint {
	t.Helper()
	c, err := f.lifecycle.Create(context.Background(), citizen, ComplaintDraft{
		Title:       title,
		Description: "details",
		Address:     "1 Main St",
		Category:    "roads",
		Priority:    priority,
	})
	require.NoError(t, err)
	return c
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, code, apperrors.CodeOf(err), "unexpected error: %v", err)
}
