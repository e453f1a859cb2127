package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicpulse/complaint-service/internal/domain"
	apperrors "github.com/civicpulse/complaint-service/pkg/util"
)

func priorities(complaints []domain.Complaint) []domain.ComplaintPriority {
	out := make([]domain.ComplaintPriority, 0, len(complaints))
	for _, c := range complaints {
		out = append(out, c.Priority)
	}
	return out
}

func ids(complaints []domain.Complaint) []string {
	out := make([]string, 0, len(complaints))
	for _, c := range complaints {
		out = append(out, c.ID)
	}
	return out
}

func TestListAll_RankedByPriority(t *testing.T) {
	f := newFixture(t)
	admin := f.addUser(t, "adm-1", domain.RoleAdmin)
	citizen := f.addUser(t, "cit-1", domain.RoleCitizen)
	for _, p := range []string{"LOW", "CRITICAL", "MEDIUM", "HIGH"} {
		f.file(t, citizen, p, p)
	}

	list, err := f.query.ListAll(context.Background(), admin)
	require.NoError(t, err)
	assert.Equal(t, []domain.ComplaintPriority{
		domain.ComplaintPriorityCritical,
		domain.ComplaintPriorityHigh,
		domain.ComplaintPriorityMedium,
		domain.ComplaintPriorityLow,
	}, priorities(list))

	_, err = f.query.ListAll(context.Background(), citizen)
	requireCode(t, err, apperrors.CodeForbidden)
}

func TestSortByPriority_TiesNewestFirstAndUnknownLast(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	list := []domain.Complaint{
		{ID: "old-high", Priority: domain.ComplaintPriorityHigh, CreatedAt: base},
		{ID: "odd", Priority: "WHENEVER", CreatedAt: base.Add(3 * time.Hour)},
		{ID: "new-high", Priority: domain.ComplaintPriorityHigh, CreatedAt: base.Add(time.Hour)},
		{ID: "low", Priority: domain.ComplaintPriorityLow, CreatedAt: base},
	}
	SortByPriority(list)
	assert.Equal(t, []string{"new-high", "old-high", "low", "odd"}, ids(list))
}

func TestSortWorkQueue(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	list := []domain.Complaint{
		{ID: "resolved-critical", Status: domain.ComplaintStatusResolved, Priority: domain.ComplaintPriorityCritical, CreatedAt: base},
		{ID: "pending-high", Status: domain.ComplaintStatusPending, Priority: domain.ComplaintPriorityHigh, CreatedAt: base},
		{ID: "active-low", Status: domain.ComplaintStatusInProgress, Priority: domain.ComplaintPriorityLow, CreatedAt: base},
		{ID: "active-high", Status: domain.ComplaintStatusInProgress, Priority: domain.ComplaintPriorityHigh, CreatedAt: base},
	}
	SortWorkQueue(list)
	assert.Equal(t, []string{"active-high", "active-low", "pending-high", "resolved-critical"}, ids(list))
}

func TestListOwnAndAssigned_Isolation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.addUser(t, "adm-1", domain.RoleAdmin)
	alice := f.addUser(t, "cit-a", domain.RoleCitizen)
	bob := f.addUser(t, "cit-b", domain.RoleCitizen)
	v1 := f.addUser(t, "vol-1", domain.RoleVolunteer)
	v2 := f.addUser(t, "vol-2", domain.RoleVolunteer)

	a1 := f.file(t, alice, "a1", "LOW")
	a2 := f.file(t, alice, "a2", "HIGH")
	b1 := f.file(t, bob, "b1", "")

	own, err := f.query.ListOwn(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, []string{a2.ID, a1.ID}, ids(own))

	own, err = f.query.ListOwn(ctx, bob)
	require.NoError(t, err)
	assert.Equal(t, []string{b1.ID}, ids(own))

	_, err = f.lifecycle.AssignVolunteer(ctx, admin, a1.ID, v1.UserID)
	require.NoError(t, err)
	_, err = f.lifecycle.AssignVolunteer(ctx, admin, b1.ID, v1.UserID)
	require.NoError(t, err)

	assigned, err := f.query.ListAssigned(ctx, v1)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{a1.ID, b1.ID}, ids(assigned))

	none, err := f.query.ListAssigned(ctx, v2)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	_, err = f.query.ListOwn(ctx, v1)
	requireCode(t, err, apperrors.CodeForbidden)
	_, err = f.query.ListAssigned(ctx, alice)
	requireCode(t, err, apperrors.CodeForbidden)
}

func TestStats(t *testing.T) {
	f := newFixture(t)
	admin := f.addUser(t, "adm-1", domain.RoleAdmin)
	citizen := f.addUser(t, "cit-1", domain.RoleCitizen)
	statuses := []domain.ComplaintStatus{
		domain.ComplaintStatusPending, domain.ComplaintStatusPending, domain.ComplaintStatusPending, "",
		domain.ComplaintStatusInProgress, domain.ComplaintStatusInProgress, domain.ComplaintStatusInProgress,
		domain.ComplaintStatusResolved, domain.ComplaintStatusResolved, domain.ComplaintStatusResolved,
	}
	for i, s := range statuses {
		f.complaints.Put(domain.Complaint{
			ID:         fmt.Sprintf("c-%02d", i),
			ReporterID: "cit-1",
			Title:      "t",
			Status:     s,
			Priority:   domain.ComplaintPriorityMedium,
		})
	}

	stats, err := f.query.Stats(context.Background(), admin)
	require.NoError(t, err)
	assert.Equal(t, ComplaintStats{Total: 10, Pending: 4, InProgress: 3, Resolved: 3}, stats)

	_, err = f.query.Stats(context.Background(), citizen)
	requireCode(t, err, apperrors.CodeForbidden)
}

func TestStats_Empty(t *testing.T) {
	f := newFixture(t)
	admin := f.addUser(t, "adm-1", domain.RoleAdmin)
	stats, err := f.query.Stats(context.Background(), admin)
	require.NoError(t, err)
	assert.Equal(t, ComplaintStats{}, stats)
}

// A citizen files, an admin assigns, the volunteer resolves, and every view agrees.
func TestComplaintLifecycleScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	citizen := f.addUser(t, "cit-1", domain.RoleCitizen)
	admin := f.addUser(t, "adm-1", domain.RoleAdmin)
	vol := f.addUser(t, "vol-1", domain.RoleVolunteer)
	otherVol := f.addUser(t, "vol-2", domain.RoleVolunteer)
	otherCitizen := f.addUser(t, "cit-2", domain.RoleCitizen)

	c, err := f.lifecycle.Create(ctx, citizen, ComplaintDraft{
		Title: "Pothole", Description: "Deep one", Address: "Main St", Priority: "High",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ComplaintPriorityHigh, c.Priority)

	stats, err := f.query.Stats(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, ComplaintStats{Total: 1, Pending: 1}, stats)

	_, err = f.lifecycle.GetByID(ctx, otherCitizen, c.ID)
	requireCode(t, err, apperrors.CodeForbidden)

	_, err = f.lifecycle.UpdateStatus(ctx, vol, c.ID, "RESOLVED")
	requireCode(t, err, apperrors.CodeForbidden)

	_, err = f.lifecycle.AssignVolunteer(ctx, admin, c.ID, vol.UserID)
	require.NoError(t, err)

	_, err = f.lifecycle.UpdateStatus(ctx, otherVol, c.ID, "Resolved")
	requireCode(t, err, apperrors.CodeForbidden)

	queue, err := f.query.ListAssigned(ctx, vol)
	require.NoError(t, err)
	require.Len(t, queue, 1)
	assert.Equal(t, domain.ComplaintStatusInProgress, queue[0].Status)

	_, err = f.lifecycle.UpdateStatus(ctx, vol, c.ID, "Resolved")
	require.NoError(t, err)

	own, err := f.query.ListOwn(ctx, citizen)
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, domain.ComplaintStatusResolved, own[0].Status)
	assert.Equal(t, "vol-1", *own[0].AssignedVolunteerID)

	stats, err = f.query.Stats(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, ComplaintStats{Total: 1, Resolved: 1}, stats)

	history, err := f.lifecycle.History(ctx, citizen, c.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, []domain.ComplaintChangeType{
		domain.ChangeTypeCreated, domain.ChangeTypeAssignee, domain.ChangeTypeStatus,
	}, []domain.ComplaintChangeType{history[0].ChangeType, history[1].ChangeType, history[2].ChangeType})
}
