package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/civicpulse/complaint-service/internal/domain"
)

func strPtr(s string) *string { return &s }

func TestCan_Matrix(t *testing.T) {
	citizen := &domain.Principal{UserID: "cit-1", Role: domain.RoleCitizen}
	volunteer := &domain.Principal{UserID: "vol-1", Role: domain.RoleVolunteer}
	admin := &domain.Principal{UserID: "adm-1", Role: domain.RoleAdmin}

	global := []Action{ActionCreateComplaint, ActionListAll, ActionListOwn, ActionListAssigned,
		ActionAssignVolunteer, ActionViewStats, ActionManageUsers}

	want := map[domain.Role]map[Action]bool{
		domain.RoleCitizen: {
			ActionCreateComplaint: true,
			ActionListOwn:         true,
		},
		domain.RoleVolunteer: {
			ActionListAssigned: true,
		},
		domain.RoleAdmin: {
			ActionListAll:         true,
			ActionAssignVolunteer: true,
			ActionViewStats:       true,
			ActionManageUsers:     true,
		},
	}

	for _, p := range []*domain.Principal{citizen, volunteer, admin} {
		for _, action := range global {
			t.Run(string(p.Role)+"/"+string(action), func(t *testing.T) {
				assert.Equal(t, want[p.Role][action], Can(p, action, nil))
			})
		}
	}
}

func TestCan_ViewComplaint(t *testing.T) {
	complaint := &domain.Complaint{ID: "c-1", ReporterID: "cit-1", AssignedVolunteerID: strPtr("vol-1")}

	tests := []struct {
		name      string
		principal *domain.Principal
		want      bool
	}{
		{"reporter", &domain.Principal{UserID: "cit-1", Role: domain.RoleCitizen}, true},
		{"other citizen", &domain.Principal{UserID: "cit-2", Role: domain.RoleCitizen}, false},
		{"assigned volunteer", &domain.Principal{UserID: "vol-1", Role: domain.RoleVolunteer}, true},
		{"other volunteer", &domain.Principal{UserID: "vol-2", Role: domain.RoleVolunteer}, false},
		{"admin", &domain.Principal{UserID: "adm-1", Role: domain.RoleAdmin}, true},
		{"volunteer id used by citizen", &domain.Principal{UserID: "vol-1", Role: domain.RoleCitizen}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Can(tt.principal, ActionViewComplaint, complaint))
		})
	}
}

func TestCan_UpdateStatus(t *testing.T) {
	assigned := &domain.Complaint{ID: "c-1", ReporterID: "cit-1", AssignedVolunteerID: strPtr("vol-1")}
	unassigned := &domain.Complaint{ID: "c-2", ReporterID: "cit-1"}

	assert.True(t, Can(&domain.Principal{UserID: "vol-1", Role: domain.RoleVolunteer}, ActionUpdateStatus, assigned))
	assert.False(t, Can(&domain.Principal{UserID: "vol-2", Role: domain.RoleVolunteer}, ActionUpdateStatus, assigned))
	assert.False(t, Can(&domain.Principal{UserID: "vol-1", Role: domain.RoleVolunteer}, ActionUpdateStatus, unassigned))
	assert.False(t, Can(&domain.Principal{UserID: "cit-1", Role: domain.RoleCitizen}, ActionUpdateStatus, assigned))
	assert.True(t, Can(&domain.Principal{UserID: "adm-1", Role: domain.RoleAdmin}, ActionUpdateStatus, unassigned))
}

func TestCan_DeniesUnknownAndEmptyPrincipals(t *testing.T) {
	complaint := &domain.Complaint{ID: "c-1", ReporterID: "x"}
	assert.False(t, Can(nil, ActionViewComplaint, complaint))
	assert.False(t, Can(&domain.Principal{Role: domain.RoleAdmin}, ActionListAll, nil))
	assert.False(t, Can(&domain.Principal{UserID: "x", Role: "SUPERUSER"}, ActionViewComplaint, complaint))
	assert.False(t, Can(&domain.Principal{UserID: "x", Role: domain.RoleCitizen}, ActionViewComplaint, nil))
}
