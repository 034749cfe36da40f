package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/edumate/sims-api/internal/auth"
	"github.com/edumate/sims-api/internal/dto"
	"github.com/edumate/sims-api/internal/models"
	"github.com/edumate/sims-api/internal/repository"
)

func newStudentTestService(t *testing.T) (StudentService, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	svc := NewStudentService(repository.NewStudentRepository(db), repository.NewUserRepository(db), newValidate(), zerolog.Nop())
	return svc, db
}

func TestStudentCreateOpensAccountWithDefaults(t *testing.T) {
	svc, db := newStudentTestService(t)

	created, err := svc.Create(context.Background(), dto.StudentCreateRequest{
		AdmissionNumber: "ADM-2025-07",
		AdmissionDate:   "2025-06-01",
		FirstName:       "Kiran",
		LastName:        "Pillai",
		DateOfBirth:     "2013-02-20",
		Gender:          "F",
		Address:         "4 Lake View",
	})
	require.NoError(t, err)
	require.Equal(t, "Kiran Pillai", created.FullName)

	var account models.User
	require.NoError(t, db.Where("username = ?", "ADM-2025-07").First(&account).Error)
	require.Equal(t, models.RoleStudent, account.Role)
	require.True(t, auth.CheckPassword(account.PasswordHash, "password123"), "blank password falls back to the shared default")
}

func TestStudentCreateRejectsDuplicateAdmission(t *testing.T) {
	svc, _ := newStudentTestService(t)

	payload := dto.StudentCreateRequest{
		AdmissionNumber: "ADM-2025-08",
		AdmissionDate:   "2025-06-01",
		FirstName:       "Tara",
		LastName:        "Nair",
		DateOfBirth:     "2013-02-20",
		Gender:          "F",
		Address:         "4 Lake View",
	}
	_, err := svc.Create(context.Background(), payload)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), payload)
	require.ErrorIs(t, err, ErrAdmissionTaken)
}

func TestStudentGuardianLifecycle(t *testing.T) {
	svc, db := newStudentTestService(t)
	student := seedTestStudent(t, db, "Vikram", "ADM-500", nil, nil)

	guardian, err := svc.AddGuardian(context.Background(), student.ID, dto.GuardianRequest{
		Name:         "Lata",
		Relationship: "Mother",
		PhoneNumber:  "555-0101",
	})
	require.NoError(t, err)

	guardians, err := svc.ListGuardians(context.Background(), student.ID)
	require.NoError(t, err)
	require.Len(t, guardians, 1)

	require.NoError(t, svc.DeleteGuardian(context.Background(), student.ID, guardian.ID))
	require.ErrorIs(t, svc.DeleteGuardian(context.Background(), student.ID, guardian.ID), ErrGuardianNotFound)
}

func TestStudentGuardianUnknownStudent(t *testing.T) {
	svc, _ := newStudentTestService(t)

	_, err := svc.AddGuardian(context.Background(), 999, dto.GuardianRequest{
		Name:         "Lata",
		Relationship: "Mother",
		PhoneNumber:  "555-0101",
	})
	require.ErrorIs(t, err, ErrStudentNotFound)
}
