package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/edumate/sims-api/internal/models"
)

func TestExamSaveWithSchedulesReplacesStoredSet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewExamRepository(db)

	year := models.AcademicYear{Name: "2024-2025", StartDate: testDate(2024, time.June, 1), EndDate: testDate(2025, time.April, 30), IsActive: true}
	require.NoError(t, db.Create(&year).Error)
	class := models.Class{Name: "Grade 8", NumericValue: 8}
	require.NoError(t, db.Create(&class).Error)
	maths := models.Subject{Name: "Mathematics", Code: "MATH"}
	science := models.Subject{Name: "Science", Code: "SCI"}
	english := models.Subject{Name: "English", Code: "ENG"}
	require.NoError(t, db.Create(&maths).Error)
	require.NoError(t, db.Create(&science).Error)
	require.NoError(t, db.Create(&english).Error)

	exam := models.Exam{
		Name:           "Mid Term",
		AcademicYearID: year.ID,
		StartDate:      testDate(2024, time.October, 1),
		EndDate:        testDate(2024, time.October, 10),
		ExamClassID:    &class.ID,
	}
	err := repo.SaveWithSchedules(context.Background(), &exam, []models.ExamSchedule{
		{SubjectID: maths.ID, Date: testDate(2024, time.October, 1), StartTime: "09:00", EndTime: "11:00", MaxMarks: 100},
		{SubjectID: science.ID, Date: testDate(2024, time.October, 2), StartTime: "09:00", EndTime: "11:00", MaxMarks: 100},
	})
	require.NoError(t, err)
	require.NotZero(t, exam.ID)
	require.Len(t, exam.Schedules, 2)

	// Resubmit keeping maths, dropping science, adding english.
	kept := exam.Schedules[0]
	kept.MaxMarks = 80
	err = repo.SaveWithSchedules(context.Background(), &exam, []models.ExamSchedule{
		kept,
		{SubjectID: english.ID, Date: testDate(2024, time.October, 3), StartTime: "09:00", EndTime: "11:00", MaxMarks: 50, ExamClassID: 9999},
	})
	require.NoError(t, err)

	stored, err := repo.GetByID(context.Background(), exam.ID)
	require.NoError(t, err)
	require.Len(t, stored.Schedules, 2)

	subjects := map[uint]models.ExamSchedule{}
	for _, schedule := range stored.Schedules {
		subjects[schedule.SubjectID] = schedule
	}
	require.Contains(t, subjects, maths.ID)
	require.Contains(t, subjects, english.ID)
	require.NotContains(t, subjects, science.ID, "omitted schedule must be removed")
	require.Equal(t, 80.0, subjects[maths.ID].MaxMarks)
	require.Equal(t, class.ID, subjects[english.ID].ExamClassID, "schedule class must follow the parent exam")
}

func TestExamListForStudentScopesBySection(t *testing.T) {
	db := setupTestDB(t)
	repo := NewExamRepository(db)

	year := models.AcademicYear{Name: "2024-2025", StartDate: testDate(2024, time.June, 1), EndDate: testDate(2025, time.April, 30), IsActive: true}
	require.NoError(t, db.Create(&year).Error)
	class := models.Class{Name: "Grade 9", NumericValue: 9}
	require.NoError(t, db.Create(&class).Error)
	sectionA := models.Section{Name: "A", ClassID: class.ID}
	sectionB := models.Section{Name: "B", ClassID: class.ID}
	require.NoError(t, db.Create(&sectionA).Error)
	require.NoError(t, db.Create(&sectionB).Error)

	wholeClass := models.Exam{Name: "Unit Test", AcademicYearID: year.ID, StartDate: testDate(2024, time.September, 1), EndDate: testDate(2024, time.September, 5), ExamClassID: &class.ID}
	sectionOnly := models.Exam{Name: "Section A Quiz", AcademicYearID: year.ID, StartDate: testDate(2024, time.September, 10), EndDate: testDate(2024, time.September, 11), ExamClassID: &class.ID, SectionID: &sectionA.ID}
	require.NoError(t, db.Create(&wholeClass).Error)
	require.NoError(t, db.Create(&sectionOnly).Error)

	exams, err := repo.ListForStudent(context.Background(), class.ID, &sectionA.ID)
	require.NoError(t, err)
	require.Len(t, exams, 2)

	exams, err = repo.ListForStudent(context.Background(), class.ID, &sectionB.ID)
	require.NoError(t, err)
	require.Len(t, exams, 1)
	require.Equal(t, "Unit Test", exams[0].Name)

	exams, err = repo.ListForStudent(context.Background(), class.ID, nil)
	require.NoError(t, err)
	require.Len(t, exams, 1)
	require.Equal(t, "Unit Test", exams[0].Name)
}

func TestExamDeleteRemovesSchedulesAndResults(t *testing.T) {
	db := setupTestDB(t)
	repo := NewExamRepository(db)

	year := models.AcademicYear{Name: "2024-2025", StartDate: testDate(2024, time.June, 1), EndDate: testDate(2025, time.April, 30)}
	require.NoError(t, db.Create(&year).Error)
	class := models.Class{Name: "Grade 7", NumericValue: 7}
	require.NoError(t, db.Create(&class).Error)
	subject := models.Subject{Name: "History", Code: "HIST"}
	require.NoError(t, db.Create(&subject).Error)
	student := seedStudent(t, db, "esha", "ADM-010", &class.ID, nil)

	exam := models.Exam{Name: "Final", AcademicYearID: year.ID, StartDate: testDate(2025, time.March, 1), EndDate: testDate(2025, time.March, 10), ExamClassID: &class.ID}
	require.NoError(t, repo.SaveWithSchedules(context.Background(), &exam, []models.ExamSchedule{
		{SubjectID: subject.ID, Date: testDate(2025, time.March, 1), StartTime: "09:00", EndTime: "11:00", MaxMarks: 100},
	}))
	require.NoError(t, db.Create(&models.Result{ExamID: exam.ID, StudentID: student.ID, SubjectID: subject.ID, MarksObtained: 55, MaxMarks: 100}).Error)

	require.NoError(t, repo.Delete(context.Background(), exam.ID))

	var schedules, results int64
	require.NoError(t, db.Model(&models.ExamSchedule{}).Where("exam_id = ?", exam.ID).Count(&schedules).Error)
	require.NoError(t, db.Model(&models.Result{}).Where("exam_id = ?", exam.ID).Count(&results).Error)
	require.Zero(t, schedules)
	require.Zero(t, results)
}
