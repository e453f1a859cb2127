package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicpulse/complaint-service/internal/config"
	"github.com/civicpulse/complaint-service/internal/domain"
	"github.com/civicpulse/complaint-service/internal/repository/memory"
	apperrors "github.com/civicpulse/complaint-service/pkg/util"
)

func newAuthService(allowVolunteers bool) (*AuthService, *memory.UserStore) {
	users := memory.NewUserStore()
	cfg := config.AuthConfig{
		JWTSecret:             "test-secret",
		AccessTokenTTLMinutes: 15,
		BcryptCost:            4,
		AllowVolunteerSignup:  allowVolunteers,
	}
	return NewAuthService(cfg, users), users
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newAuthService(false)
	ctx := context.Background()

	res, err := svc.Register(ctx, RegisterInput{Name: "Asha", Email: "Asha@Example.com", Password: "longenough"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCitizen, res.User.Role)
	assert.Equal(t, "asha@example.com", res.User.Email)
	assert.NotEqual(t, "longenough", res.User.PasswordHash)
	assert.NotEmpty(t, res.Token)

	claims, err := svc.TokenManager().ParseToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, claims.Subject)

	login, err := svc.Login(ctx, "ASHA@example.com", "longenough")
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, login.User.ID)

	_, err = svc.Login(ctx, "asha@example.com", "wrong-password")
	requireCode(t, err, apperrors.CodeUnauthorized)
	_, err = svc.Login(ctx, "nobody@example.com", "longenough")
	requireCode(t, err, apperrors.CodeUnauthorized)

	_, err = svc.Register(ctx, RegisterInput{Name: "Other", Email: "asha@example.com", Password: "longenough"})
	requireCode(t, err, apperrors.CodeConflict)

	me, err := svc.Me(ctx, &domain.Principal{UserID: res.User.ID, Role: domain.RoleCitizen})
	require.NoError(t, err)
	assert.Equal(t, "Asha", me.Name)
}

func TestRegister_Validation(t *testing.T) {
	svc, _ := newAuthService(false)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Email: "a@example.com", Password: "longenough"})
	requireCode(t, err, apperrors.CodeValidation)
	_, err = svc.Register(ctx, RegisterInput{Name: "A", Email: "not-an-email", Password: "longenough"})
	requireCode(t, err, apperrors.CodeValidation)
	_, err = svc.Register(ctx, RegisterInput{Name: "A", Email: "a@example.com", Password: "short"})
	requireCode(t, err, apperrors.CodeValidation)
}

func TestRegister_RoleSelection(t *testing.T) {
	ctx := context.Background()

	closed, _ := newAuthService(false)
	_, err := closed.Register(ctx, RegisterInput{Name: "V", Email: "v@example.com", Password: "longenough", Role: "volunteer"})
	requireCode(t, err, apperrors.CodeValidation)
	_, err = closed.Register(ctx, RegisterInput{Name: "A", Email: "a@example.com", Password: "longenough", Role: "ADMIN"})
	requireCode(t, err, apperrors.CodeValidation)
	_, err = closed.Register(ctx, RegisterInput{Name: "X", Email: "x@example.com", Password: "longenough", Role: "mayor"})
	requireCode(t, err, apperrors.CodeValidation)

	open, _ := newAuthService(true)
	res, err := open.Register(ctx, RegisterInput{Name: "V", Email: "v@example.com", Password: "longenough", Role: "volunteer"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleVolunteer, res.User.Role)
	_, err = open.Register(ctx, RegisterInput{Name: "A", Email: "a@example.com", Password: "longenough", Role: "ADMIN"})
	requireCode(t, err, apperrors.CodeValidation)
}
