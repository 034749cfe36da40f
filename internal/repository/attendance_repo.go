package repository

import (
	"context"
	"errors"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/edumate/sims-api/internal/models"
)

// AttendanceFilter describes the report query options.
type AttendanceFilter struct {
	StudentID *uint
	ClassID   *uint
	SectionID *uint
	DateFrom  *datatypes.Date
	DateTo    *datatypes.Date
	Status    models.AttendanceStatus
	Page      int
	PageSize  int
}

// AttendanceRepository provides access to daily attendance records.
type AttendanceRepository interface {
	UpsertBatch(ctx context.Context, records []models.Attendance) error
	Report(ctx context.Context, filter AttendanceFilter) ([]models.Attendance, int64, error)
	CountForDate(ctx context.Context, date datatypes.Date) (int64, error)
}

type attendanceRepository struct {
	db *gorm.DB
}

// NewAttendanceRepository instantiates a GORM-backed repository.
func NewAttendanceRepository(db *gorm.DB) AttendanceRepository {
	return &attendanceRepository{db: db}
}

// UpsertBatch writes the whole roster in one transaction with explicit
// replace-if-exists semantics on the (student, date) key: an existing
// row for the day is overwritten, never duplicated, and any failure
// rolls back the entire batch.
func (r *attendanceRepository) UpsertBatch(ctx context.Context, records []models.Attendance) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range records {
			record := &records[i]

			var existing models.Attendance
			err := tx.Where("student_id = ? AND date = ?", record.StudentID, record.Date).First(&existing).Error
			switch {
			case err == nil:
				existing.Status = record.Status
				existing.Remarks = record.Remarks
				existing.RecordedByID = record.RecordedByID
				if err := tx.Omit("Student", "RecordedBy").Save(&existing).Error; err != nil {
					return err
				}
				record.ID = existing.ID
			case errors.Is(err, gorm.ErrRecordNotFound):
				if err := tx.Omit("Student", "RecordedBy").Create(record).Error; err != nil {
					return err
				}
			default:
				return err
			}
		}
		return nil
	})
}

func (r *attendanceRepository) Report(ctx context.Context, filter AttendanceFilter) ([]models.Attendance, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Attendance{}).
		Joins("JOIN students ON students.id = attendances.student_id")

	if filter.StudentID != nil {
		query = query.Where("attendances.student_id = ?", *filter.StudentID)
	}
	if filter.ClassID != nil {
		query = query.Where("students.current_class_id = ?", *filter.ClassID)
	}
	if filter.SectionID != nil {
		query = query.Where("students.section_id = ?", *filter.SectionID)
	}
	if filter.DateFrom != nil {
		query = query.Where("attendances.date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("attendances.date <= ?", *filter.DateTo)
	}
	if filter.Status != "" {
		query = query.Where("attendances.status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		query = query.Offset((page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var records []models.Attendance
	err := query.
		Preload("Student").Preload("Student.User").
		Preload("Student.CurrentClass").Preload("Student.Section").
		Order("attendances.date DESC").
		Find(&records).Error
	if err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

func (r *attendanceRepository) CountForDate(ctx context.Context, date datatypes.Date) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Attendance{}).Where("date = ?", date).Count(&total).Error
	return total, err
}
