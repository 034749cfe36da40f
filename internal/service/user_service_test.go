package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/edumate/sims-api/internal/dto"
	"github.com/edumate/sims-api/internal/models"
	"github.com/edumate/sims-api/internal/repository"
)

func newUserTestService(t *testing.T) (UserService, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	svc := NewUserService(repository.NewUserRepository(db), repository.NewStudentRepository(db), newValidate(), zerolog.Nop())
	return svc, db
}

func TestUserCreateStudentProvisionsProfile(t *testing.T) {
	svc, db := newUserTestService(t)

	created, err := svc.Create(context.Background(), dto.UserCreateRequest{
		Username:  "ST-2025-001",
		FirstName: "Nila",
		Password:  "secret123",
		Role:      "student",
	})
	require.NoError(t, err)
	require.Equal(t, string(models.RoleStudent), created.Role, "role is normalized to upper case")

	var profile models.Student
	require.NoError(t, db.Where("user_id = ?", created.ID).First(&profile).Error)
	require.Equal(t, "ST-2025-001", profile.AdmissionNumber, "admission number mirrors the username")
	require.Equal(t, models.GenderOther, profile.Gender)
	require.Equal(t, "Not Provided", profile.Address)
}

func TestUserCreateNonStudentSkipsProfile(t *testing.T) {
	svc, db := newUserTestService(t)

	created, err := svc.Create(context.Background(), dto.UserCreateRequest{
		Username: "teacher1",
		Password: "secret123",
		Role:     "TEACHER",
	})
	require.NoError(t, err)

	var total int64
	require.NoError(t, db.Model(&models.Student{}).Where("user_id = ?", created.ID).Count(&total).Error)
	require.Zero(t, total)
}

func TestUserCreateRejectsTakenUsernameAndUnknownRole(t *testing.T) {
	svc, _ := newUserTestService(t)

	_, err := svc.Create(context.Background(), dto.UserCreateRequest{Username: "admin1", Password: "secret123", Role: "SUPER_ADMIN"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), dto.UserCreateRequest{Username: "admin1", Password: "secret123", Role: "TEACHER"})
	require.ErrorIs(t, err, ErrUsernameTaken)

	_, err = svc.Create(context.Background(), dto.UserCreateRequest{Username: "other", Password: "secret123", Role: "WIZARD"})
	require.ErrorIs(t, err, ErrUnknownRole)
}

func TestUserUpdateRoleChangeToStudentProvisions(t *testing.T) {
	svc, db := newUserTestService(t)

	created, err := svc.Create(context.Background(), dto.UserCreateRequest{
		Username: "late-enroll",
		Password: "secret123",
		Role:     "PARENT",
	})
	require.NoError(t, err)

	role := "STUDENT"
	_, err = svc.Update(context.Background(), created.ID, dto.UserUpdateRequest{Role: &role})
	require.NoError(t, err)

	var profile models.Student
	require.NoError(t, db.Where("user_id = ?", created.ID).First(&profile).Error)
	require.Equal(t, "late-enroll", profile.AdmissionNumber)
}

func TestUserDeleteBlocksSelf(t *testing.T) {
	svc, _ := newUserTestService(t)

	created, err := svc.Create(context.Background(), dto.UserCreateRequest{
		Username: "soloadmin",
		Password: "secret123",
		Role:     "SCHOOL_ADMIN",
	})
	require.NoError(t, err)

	require.ErrorIs(t, svc.Delete(context.Background(), created.ID, created.ID), ErrSelfDeletion)
	require.NoError(t, svc.Delete(context.Background(), created.ID, created.ID+1))
	require.ErrorIs(t, svc.Delete(context.Background(), created.ID, created.ID+1), ErrUserNotFound)
}
