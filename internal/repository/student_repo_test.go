package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/edumate/sims-api/internal/models"
)

func TestStudentEnsureProfileIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStudentRepository(db)

	user := models.User{Username: "ST-100", PasswordHash: "hashed", Role: models.RoleStudent, IsActive: true}
	require.NoError(t, db.Create(&user).Error)

	profile := models.Student{
		UserID:          user.ID,
		AdmissionNumber: "ST-100",
		AdmissionDate:   testDate(2025, time.January, 6),
		DateOfBirth:     testDate(2025, time.January, 6),
		Gender:          models.GenderOther,
		Address:         "Not Provided",
	}
	first, err := repo.EnsureProfile(context.Background(), &profile)
	require.NoError(t, err)
	require.NotZero(t, first.ID)

	again := models.Student{
		UserID:          user.ID,
		AdmissionNumber: "ST-100-other",
		AdmissionDate:   testDate(2025, time.February, 1),
		DateOfBirth:     testDate(2025, time.February, 1),
		Gender:          models.GenderOther,
		Address:         "Not Provided",
	}
	second, err := repo.EnsureProfile(context.Background(), &again)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID, "a second call must return the existing profile")
	require.Equal(t, "ST-100", second.AdmissionNumber)

	var total int64
	require.NoError(t, db.Model(&models.Student{}).Where("user_id = ?", user.ID).Count(&total).Error)
	require.Equal(t, int64(1), total)
}

func TestStudentCreateWithUserRollsBackOnDuplicateAdmission(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStudentRepository(db)

	seedStudent(t, db, "existing", "ADM-100", nil, nil)

	user := models.User{Username: "fresh", PasswordHash: "hashed", Role: models.RoleStudent, IsActive: true}
	student := models.Student{
		AdmissionNumber: "ADM-100",
		AdmissionDate:   testDate(2024, time.June, 1),
		DateOfBirth:     testDate(2012, time.May, 5),
		Gender:          models.GenderFemale,
		Address:         "12 Hill Road",
	}
	err := repo.CreateWithUser(context.Background(), &user, &student)
	require.Error(t, err)

	var users int64
	require.NoError(t, db.Model(&models.User{}).Where("username = ?", "fresh").Count(&users).Error)
	require.Zero(t, users, "failed student insert must roll back the account")
}

func TestStudentListSearchMatchesNameAndAdmission(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStudentRepository(db)

	alice := seedStudent(t, db, "alice", "ADM-200", nil, nil)
	seedStudent(t, db, "bruno", "ADM-201", nil, nil)

	students, total, err := repo.List(context.Background(), StudentFilter{Search: "ALICE", PageSize: 10})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, alice.ID, students[0].ID)

	students, total, err = repo.List(context.Background(), StudentFilter{Search: "adm-201", PageSize: 10})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, "ADM-201", students[0].AdmissionNumber)

	_, total, err = repo.List(context.Background(), StudentFilter{PageSize: 1, Page: 2})
	require.NoError(t, err)
	require.Equal(t, int64(2), total, "pagination must not affect the total count")
}

func TestStudentDeleteRemovesDependentsAndAccount(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStudentRepository(db)

	student := seedStudent(t, db, "hana", "ADM-300", nil, nil)
	require.NoError(t, db.Create(&models.StudentGuardian{StudentID: student.ID, Name: "Guardian", Relationship: "Mother", PhoneNumber: "555-0100"}).Error)
	require.NoError(t, db.Create(&models.Attendance{StudentID: student.ID, Date: testDate(2025, time.March, 3), Status: models.AttendancePresent}).Error)

	require.NoError(t, repo.Delete(context.Background(), student.ID))

	for name, model := range map[string]interface{}{
		"guardians":  &models.StudentGuardian{},
		"attendance": &models.Attendance{},
	} {
		var total int64
		require.NoError(t, db.Model(model).Where("student_id = ?", student.ID).Count(&total).Error)
		require.Zero(t, total, name)
	}

	var users int64
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", student.UserID).Count(&users).Error)
	require.Zero(t, users, "the backing account must be removed with the profile")
}
