package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/edumate/sims-api/internal/dto"
	"github.com/edumate/sims-api/internal/models"
	"github.com/edumate/sims-api/internal/repository"
)

type examTestEnv struct {
	svc     ExamService
	db      *gorm.DB
	year    models.AcademicYear
	class   models.Class
	section models.Section
	subject models.Subject
}

func newExamTestEnv(t *testing.T) examTestEnv {
	t.Helper()

	db := setupTestDB(t)
	svc := NewExamService(
		repository.NewExamRepository(db),
		repository.NewAcademicYearRepository(db),
		repository.NewClassRepository(db),
		repository.NewSectionRepository(db),
		repository.NewStudentRepository(db),
		newValidate(),
		zerolog.Nop(),
	)

	env := examTestEnv{svc: svc, db: db}
	env.year = models.AcademicYear{Name: "2024-2025", StartDate: testDate(2024, time.June, 1), EndDate: testDate(2025, time.April, 30), IsActive: true}
	require.NoError(t, db.Create(&env.year).Error)
	env.class = models.Class{Name: "Grade 9", NumericValue: 9}
	require.NoError(t, db.Create(&env.class).Error)
	env.section = models.Section{Name: "A", ClassID: env.class.ID}
	require.NoError(t, db.Create(&env.section).Error)
	env.subject = models.Subject{Name: "Physics", Code: "PHY"}
	require.NoError(t, db.Create(&env.subject).Error)

	return env
}

func TestExamCreateWithSchedules(t *testing.T) {
	env := newExamTestEnv(t)

	exam, err := env.svc.Create(context.Background(), dto.ExamSaveRequest{
		Name:           "Mid Term",
		AcademicYearID: env.year.ID,
		StartDate:      "2024-10-01",
		EndDate:        "2024-10-10",
		Description:    "<img src=x onerror=alert(1)>First half syllabus",
		ExamClassID:    &env.class.ID,
		Schedules: []dto.ExamScheduleInput{
			{SubjectID: env.subject.ID, Date: "2024-10-01", StartTime: "09:00", EndTime: "11:00"},
		},
	})
	require.NoError(t, err)
	require.True(t, exam.IsActive)
	require.Equal(t, "First half syllabus", exam.Description)
	require.Len(t, exam.Schedules, 1)
	require.Equal(t, models.DefaultMaxMarks, exam.Schedules[0].MaxMarks, "missing max marks falls back to the default")
	require.Equal(t, env.class.ID, exam.Schedules[0].ExamClassID)
}

func TestExamCreateSectionMustBelongToClass(t *testing.T) {
	env := newExamTestEnv(t)

	other := models.Class{Name: "Grade 10", NumericValue: 10}
	require.NoError(t, env.db.Create(&other).Error)

	_, err := env.svc.Create(context.Background(), dto.ExamSaveRequest{
		Name:           "Quiz",
		AcademicYearID: env.year.ID,
		StartDate:      "2024-10-01",
		EndDate:        "2024-10-02",
		ExamClassID:    &other.ID,
		SectionID:      &env.section.ID,
	})
	require.ErrorIs(t, err, ErrSectionClassMismatch)
}

func TestExamCreateScheduleValidation(t *testing.T) {
	env := newExamTestEnv(t)

	_, err := env.svc.Create(context.Background(), dto.ExamSaveRequest{
		Name:           "Quiz",
		AcademicYearID: env.year.ID,
		StartDate:      "2024-10-01",
		EndDate:        "2024-10-02",
		ExamClassID:    &env.class.ID,
		Schedules: []dto.ExamScheduleInput{
			{SubjectID: env.subject.ID, Date: "2024-10-01", StartTime: "11:00", EndTime: "09:00"},
		},
	})
	require.ErrorIs(t, err, ErrInvalidTimeRange)

	_, err = env.svc.Create(context.Background(), dto.ExamSaveRequest{
		Name:           "Quiz",
		AcademicYearID: env.year.ID,
		StartDate:      "2024-10-01",
		EndDate:        "2024-10-02",
		Schedules: []dto.ExamScheduleInput{
			{SubjectID: env.subject.ID, Date: "2024-10-01", StartTime: "09:00", EndTime: "11:00"},
		},
	})
	require.ErrorIs(t, err, ErrScheduleNeedsClass)
}

func TestExamListForStudentWithoutClass(t *testing.T) {
	env := newExamTestEnv(t)
	student := seedTestStudent(t, env.db, "Unplaced", "ADM-700", nil, nil)

	exams, err := env.svc.ListForStudent(context.Background(), student.UserID)
	require.NoError(t, err)
	require.Empty(t, exams)
	require.NotNil(t, exams, "a student with no class sees an empty list, not an error")
}

func TestExamUpdateUnknown(t *testing.T) {
	env := newExamTestEnv(t)

	_, err := env.svc.Update(context.Background(), 999, dto.ExamSaveRequest{
		Name:           "Quiz",
		AcademicYearID: env.year.ID,
		StartDate:      "2024-10-01",
		EndDate:        "2024-10-02",
	})
	require.ErrorIs(t, err, ErrExamNotFound)
}
