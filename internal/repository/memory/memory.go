// Package memory provides in-process repository implementations. They back the
// service when no database is configured and serve as fakes in tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/civicpulse/complaint-service/internal/domain"
	"github.com/civicpulse/complaint-service/internal/repository"
)

// ComplaintStore is a map-backed repository.ComplaintRepository.
type ComplaintStore struct {
	mu         sync.RWMutex
	complaints map[string]domain.Complaint
}

// NewComplaintStore returns an empty store.
func NewComplaintStore() *ComplaintStore {
	return &ComplaintStore{complaints: make(map[string]domain.Complaint)}
}

var _ repository.ComplaintRepository = (*ComplaintStore)(nil)

func (s *ComplaintStore) Create(_ context.Context, complaint *domain.Complaint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.complaints[complaint.ID]; exists {
		return repository.ErrDuplicate
	}
	s.complaints[complaint.ID] = cloneComplaint(*complaint)
	return nil
}

func (s *ComplaintStore) Update(_ context.Context, complaint *domain.Complaint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.complaints[complaint.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored.AssignedVolunteerID = cloneString(complaint.AssignedVolunteerID)
	stored.Status = complaint.Status
	stored.UpdatedAt = complaint.UpdatedAt
	s.complaints[complaint.ID] = stored
	return nil
}

func (s *ComplaintStore) GetByID(_ context.Context, id string) (*domain.Complaint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored, ok := s.complaints[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := cloneComplaint(stored)
	return &c, nil
}

func (s *ComplaintStore) List(_ context.Context, filter repository.ComplaintFilter) ([]domain.Complaint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Complaint, 0, len(s.complaints))
	for _, c := range s.complaints {
		if filter.ReporterID != nil && c.ReporterID != *filter.ReporterID {
			continue
		}
		if filter.AssignedVolunteerID != nil && !c.IsAssignedTo(*filter.AssignedVolunteerID) {
			continue
		}
		result = append(result, cloneComplaint(c))
	}
	// map iteration order is random; keep output deterministic for callers that do not rank.
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (s *ComplaintStore) CountByStatus(_ context.Context) (map[domain.ComplaintStatus]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[domain.ComplaintStatus]int)
	for _, c := range s.complaints {
		counts[c.Status]++
	}
	return counts, nil
}

// Put stores a complaint verbatim, bypassing any validation. Used to seed legacy rows.
func (s *ComplaintStore) Put(complaint domain.Complaint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.complaints[complaint.ID] = cloneComplaint(complaint)
}

// UserStore is a map-backed repository.UserRepository.
type UserStore struct {
	mu    sync.RWMutex
	users map[string]domain.User
}

// NewUserStore returns an empty store.
func NewUserStore() *UserStore {
	return &UserStore{users: make(map[string]domain.User)}
}

var _ repository.UserRepository = (*UserStore)(nil)

func (s *UserStore) Create(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[user.ID]; exists {
		return repository.ErrDuplicate
	}
	for _, u := range s.users {
		if strings.EqualFold(u.Email, user.Email) {
			return repository.ErrDuplicate
		}
	}
	s.users[user.ID] = *user
	return nil
}

func (s *UserStore) GetByID(_ context.Context, id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (s *UserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	email = strings.TrimSpace(email)
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			found := u
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *UserStore) List(_ context.Context, filter repository.UserFilter) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.User, 0, len(s.users))
	for _, u := range s.users {
		if filter.Role != nil && u.Role != *filter.Role {
			continue
		}
		result = append(result, u)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (s *UserStore) UpdateRole(_ context.Context, id string, role domain.Role, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Role = role
	u.UpdatedAt = updatedAt
	s.users[id] = u
	return nil
}

// HistoryStore is a slice-backed repository.ComplaintHistoryRepository.
type HistoryStore struct {
	mu      sync.RWMutex
	entries []domain.ComplaintHistory
}

// NewHistoryStore returns an empty store.
func NewHistoryStore() *HistoryStore {
	return &HistoryStore{}
}

var _ repository.ComplaintHistoryRepository = (*HistoryStore)(nil)

func (s *HistoryStore) Create(_ context.Context, history *domain.ComplaintHistory) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, *history)
	return nil
}

func (s *HistoryStore) ListByComplaint(_ context.Context, complaintID string) ([]domain.ComplaintHistory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.ComplaintHistory
	for _, entry := range s.entries {
		if entry.ComplaintID == complaintID {
			result = append(result, entry)
		}
	}
	return result, nil
}

func cloneComplaint(c domain.Complaint) domain.Complaint {
	c.Landmark = cloneString(c.Landmark)
	c.AssignedVolunteerID = cloneString(c.AssignedVolunteerID)
	if c.Coordinates != nil {
		coords := *c.Coordinates
		c.Coordinates = &coords
	}
	return c
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
