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

func newAttendanceTestService(t *testing.T) (AttendanceService, *gorm.DB, models.Class, models.Section) {
	t.Helper()

	db := setupTestDB(t)
	svc := NewAttendanceService(repository.NewAttendanceRepository(db), repository.NewStudentRepository(db), newValidate(), zerolog.Nop())

	class := models.Class{Name: "Grade 4", NumericValue: 4}
	require.NoError(t, db.Create(&class).Error)
	section := models.Section{Name: "A", ClassID: class.ID}
	require.NoError(t, db.Create(&section).Error)

	return svc, db, class, section
}

func TestAttendanceMarkRejectsStudentOutsideRoster(t *testing.T) {
	svc, db, class, section := newAttendanceTestService(t)

	seedTestStudent(t, db, "Inside", "ADM-600", &class.ID, &section.ID)
	outsider := seedTestStudent(t, db, "Outside", "ADM-601", nil, nil)

	_, err := svc.Mark(context.Background(), dto.MarkAttendanceRequest{
		ClassID:   class.ID,
		SectionID: section.ID,
		Date:      "2025-02-10",
		Entries: []dto.AttendanceEntry{
			{StudentID: outsider.ID, Status: "PRESENT"},
		},
	}, 1)
	require.ErrorIs(t, err, ErrStudentNotInRoster)

	var total int64
	require.NoError(t, db.Model(&models.Attendance{}).Count(&total).Error)
	require.Zero(t, total, "nothing is written when a single entry fails")
}

func TestAttendanceMarkOverwritesOnResubmit(t *testing.T) {
	svc, db, class, section := newAttendanceTestService(t)
	student := seedTestStudent(t, db, "Priya", "ADM-602", &class.ID, &section.ID)

	_, err := svc.Mark(context.Background(), dto.MarkAttendanceRequest{
		ClassID:   class.ID,
		SectionID: section.ID,
		Date:      "2025-02-10",
		Entries:   []dto.AttendanceEntry{{StudentID: student.ID, Status: "PRESENT"}},
	}, 7)
	require.NoError(t, err)

	records, err := svc.Mark(context.Background(), dto.MarkAttendanceRequest{
		ClassID:   class.ID,
		SectionID: section.ID,
		Date:      "2025-02-10",
		Entries:   []dto.AttendanceEntry{{StudentID: student.ID, Status: "late", Remarks: "bus delay"}},
	}, 7)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "LATE", records[0].Status, "status is accepted case-insensitively")

	var total int64
	require.NoError(t, db.Model(&models.Attendance{}).Where("student_id = ?", student.ID).Count(&total).Error)
	require.Equal(t, int64(1), total)
}

func TestAttendanceMarkEmptyRoster(t *testing.T) {
	svc, _, class, section := newAttendanceTestService(t)

	_, err := svc.Mark(context.Background(), dto.MarkAttendanceRequest{
		ClassID:   class.ID,
		SectionID: section.ID,
		Date:      "2025-02-10",
		Entries:   []dto.AttendanceEntry{{StudentID: 1, Status: "PRESENT"}},
	}, 1)
	require.ErrorIs(t, err, ErrEmptyRoster)
}

func TestAttendanceReportRejectsMalformedDates(t *testing.T) {
	svc, _, _, _ := newAttendanceTestService(t)

	_, _, err := svc.Report(context.Background(), dto.AttendanceReportFilter{DateFrom: "10-02-2025"})
	require.ErrorIs(t, err, ErrInvalidDate)

	_, _, err = svc.Report(context.Background(), dto.AttendanceReportFilter{DateTo: "not-a-date"})
	require.ErrorIs(t, err, ErrInvalidDate)
}

func TestAttendanceMyAttendanceScopedToCaller(t *testing.T) {
	svc, db, class, section := newAttendanceTestService(t)

	mine := seedTestStudent(t, db, "Mine", "ADM-603", &class.ID, &section.ID)
	other := seedTestStudent(t, db, "Other", "ADM-604", &class.ID, &section.ID)

	_, err := svc.Mark(context.Background(), dto.MarkAttendanceRequest{
		ClassID:   class.ID,
		SectionID: section.ID,
		Date:      "2025-02-11",
		Entries: []dto.AttendanceEntry{
			{StudentID: mine.ID, Status: "ABSENT"},
			{StudentID: other.ID, Status: "PRESENT"},
		},
	}, 1)
	require.NoError(t, err)

	records, err := svc.MyAttendance(context.Background(), mine.UserID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, mine.ID, records[0].StudentID)
	require.Equal(t, "ABSENT", records[0].Status)
}
