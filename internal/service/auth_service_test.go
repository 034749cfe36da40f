package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/edumate/sims-api/internal/auth"
	"github.com/edumate/sims-api/internal/dto"
	"github.com/edumate/sims-api/internal/models"
	"github.com/edumate/sims-api/internal/repository"
)

func newAuthTestService(t *testing.T) AuthService {
	t.Helper()

	db := setupTestDB(t)

	hash, err := auth.HashPassword("correct-horse")
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.User{Username: "active", PasswordHash: hash, Role: models.RoleTeacher, IsActive: true}).Error)
	require.NoError(t, db.Create(&models.User{Username: "disabled", PasswordHash: hash, Role: models.RoleTeacher, IsActive: false}).Error)

	issuer := auth.NewTokenIssuer("access-secret", "refresh-secret", time.Minute, time.Hour)
	return NewAuthService(repository.NewUserRepository(db), issuer, newValidate(), zerolog.Nop())
}

func TestLoginIssuesTokenPair(t *testing.T) {
	svc := newAuthTestService(t)

	response, err := svc.Login(context.Background(), dto.LoginRequest{Username: "active", Password: "correct-horse"})
	require.NoError(t, err)
	require.NotEmpty(t, response.AccessToken)
	require.NotEmpty(t, response.RefreshToken)
	require.Equal(t, 60, response.ExpiresIn)
	require.Equal(t, "active", response.User.Username)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newAuthTestService(t)

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "active", Password: "wrong"})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Username: "nobody", Password: "whatever"})
	require.ErrorIs(t, err, ErrInvalidCredentials, "unknown users look identical to bad passwords")
}

func TestLoginRejectsInactiveAccount(t *testing.T) {
	svc := newAuthTestService(t)

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "disabled", Password: "correct-horse"})
	require.ErrorIs(t, err, ErrAccountInactive)
}

func TestRefreshRoundTrip(t *testing.T) {
	svc := newAuthTestService(t)

	login, err := svc.Login(context.Background(), dto.LoginRequest{Username: "active", Password: "correct-horse"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), dto.RefreshRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	require.NotEmpty(t, refreshed.AccessToken)
	require.Equal(t, login.User.ID, refreshed.User.ID)

	_, err = svc.Refresh(context.Background(), dto.RefreshRequest{RefreshToken: login.AccessToken})
	require.ErrorIs(t, err, ErrInvalidRefresh, "access tokens are signed with a different secret")
}
