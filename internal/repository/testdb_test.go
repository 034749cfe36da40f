package repository

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/edumate/sims-api/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.AcademicYear{},
		&models.Class{},
		&models.Section{},
		&models.Subject{},
		&models.TeacherSubjectAssignment{},
		&models.Student{},
		&models.StudentGuardian{},
		&models.StudentDocument{},
		&models.Attendance{},
		&models.LeaveApplication{},
		&models.Exam{},
		&models.ExamSchedule{},
		&models.Result{},
	))

	return db
}

func testDate(year int, month time.Month, day int) datatypes.Date {
	return datatypes.Date(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

func seedStudent(t *testing.T, db *gorm.DB, username, admission string, classID, sectionID *uint) models.Student {
	t.Helper()

	user := models.User{
		Username:     username,
		FirstName:    username,
		PasswordHash: "hashed",
		Role:         models.RoleStudent,
		IsActive:     true,
	}
	require.NoError(t, db.Create(&user).Error)

	student := models.Student{
		UserID:          user.ID,
		AdmissionNumber: admission,
		AdmissionDate:   testDate(2024, time.June, 1),
		DateOfBirth:     testDate(2012, time.March, 15),
		Gender:          models.GenderOther,
		Address:         "Not Provided",
		CurrentClassID:  classID,
		SectionID:       sectionID,
	}
	require.NoError(t, db.Create(&student).Error)

	student.User = user
	return student
}
