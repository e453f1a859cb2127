package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicpulse/complaint-service/internal/domain"
	apperrors "github.com/civicpulse/complaint-service/pkg/util"
)

func TestUserService_ListAndChangeRole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.addUser(t, "adm-1", domain.RoleAdmin)
	citizen := f.addUser(t, "cit-1", domain.RoleCitizen)
	f.addUser(t, "vol-1", domain.RoleVolunteer)
	svc := NewUserService(f.users, f.complaints)

	all, err := svc.ListUsers(ctx, admin, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	vols, err := svc.ListVolunteers(ctx, admin)
	require.NoError(t, err)
	require.Len(t, vols, 1)
	assert.Equal(t, "vol-1", vols[0].ID)

	promoted, err := svc.ChangeRole(ctx, admin, citizen.UserID, "volunteer")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleVolunteer, promoted.Role)

	vols, err = svc.ListVolunteers(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, vols, 2)

	_, err = svc.ListUsers(ctx, citizen, "")
	requireCode(t, err, apperrors.CodeForbidden)
	_, err = svc.ListUsers(ctx, admin, "mayor")
	requireCode(t, err, apperrors.CodeValidation)
	_, err = svc.ChangeRole(ctx, admin, admin.UserID, "citizen")
	requireCode(t, err, apperrors.CodeValidation)
	_, err = svc.ChangeRole(ctx, admin, "ghost", "citizen")
	requireCode(t, err, apperrors.CodeNotFound)
	_, err = svc.ChangeRole(ctx, admin, "vol-1", "superuser")
	requireCode(t, err, apperrors.CodeValidation)
}

func TestUserService_ChangeRoleRefusesAssignedVolunteer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.addUser(t, "adm-1", domain.RoleAdmin)
	citizen := f.addUser(t, "cit-1", domain.RoleCitizen)
	vol := f.addUser(t, "vol-1", domain.RoleVolunteer)
	other := f.addUser(t, "vol-2", domain.RoleVolunteer)
	c := f.file(t, citizen, "Sinkhole", "CRITICAL")
	_, err := f.lifecycle.AssignVolunteer(ctx, admin, c.ID, vol.UserID)
	require.NoError(t, err)
	svc := NewUserService(f.users, f.complaints)

	for _, role := range []string{"citizen", "admin"} {
		_, err = svc.ChangeRole(ctx, admin, vol.UserID, role)
		requireCode(t, err, apperrors.CodeConflict)
	}

	user, err := f.users.GetByID(ctx, vol.UserID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleVolunteer, user.Role)
	stored, err := f.complaints.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsAssignedTo(vol.UserID))
	assert.Equal(t, domain.ComplaintStatusInProgress, stored.Status)

	// resolved work still references the volunteer
	_, err = f.lifecycle.UpdateStatus(ctx, vol, c.ID, "RESOLVED")
	require.NoError(t, err)
	_, err = svc.ChangeRole(ctx, admin, vol.UserID, "citizen")
	requireCode(t, err, apperrors.CodeConflict)

	_, err = f.lifecycle.AssignVolunteer(ctx, admin, c.ID, other.UserID)
	require.NoError(t, err)
	demoted, err := svc.ChangeRole(ctx, admin, vol.UserID, "citizen")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCitizen, demoted.Role)
}
