package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/edumate/sims-api/internal/models"
)

// ExamFilter describes the staff-facing exam list options.
type ExamFilter struct {
	ClassID   *uint
	SectionID *uint
}

// ExamRepository provides access to exams and their schedules.
type ExamRepository interface {
	List(ctx context.Context, filter ExamFilter) ([]models.Exam, error)
	ListForStudent(ctx context.Context, classID uint, sectionID *uint) ([]models.Exam, error)
	ListActive(ctx context.Context) ([]models.Exam, error)
	GetByID(ctx context.Context, id uint) (models.Exam, error)
	SaveWithSchedules(ctx context.Context, exam *models.Exam, schedules []models.ExamSchedule) error
	Delete(ctx context.Context, id uint) error
}

type examRepository struct {
	db *gorm.DB
}

// NewExamRepository instantiates a GORM-backed repository.
func NewExamRepository(db *gorm.DB) ExamRepository {
	return &examRepository{db: db}
}

func scheduleOrder(db *gorm.DB) *gorm.DB {
	return db.Order("exam_schedules.date ASC, exam_schedules.start_time ASC")
}

func (r *examRepository) List(ctx context.Context, filter ExamFilter) ([]models.Exam, error) {
	query := r.db.WithContext(ctx).Model(&models.Exam{})

	if filter.ClassID != nil {
		query = query.Where("exam_class_id = ?", *filter.ClassID)
	}
	if filter.SectionID != nil {
		query = query.Where("section_id = ?", *filter.SectionID)
	}

	var exams []models.Exam
	err := query.
		Preload("Schedules", scheduleOrder).Preload("Schedules.Subject").
		Order("start_date DESC").
		Find(&exams).Error
	if err != nil {
		return nil, err
	}

	return exams, nil
}

// ListForStudent returns the exams visible to a student: scoped to
// their class, with section either unset (whole class) or matching.
func (r *examRepository) ListForStudent(ctx context.Context, classID uint, sectionID *uint) ([]models.Exam, error) {
	query := r.db.WithContext(ctx).Model(&models.Exam{}).Where("exam_class_id = ?", classID)

	if sectionID != nil {
		query = query.Where("section_id IS NULL OR section_id = ?", *sectionID)
	} else {
		query = query.Where("section_id IS NULL")
	}

	var exams []models.Exam
	err := query.Distinct().
		Preload("Schedules", scheduleOrder).Preload("Schedules.Subject").
		Order("start_date DESC").
		Find(&exams).Error
	if err != nil {
		return nil, err
	}

	return exams, nil
}

func (r *examRepository) ListActive(ctx context.Context) ([]models.Exam, error) {
	var exams []models.Exam
	err := r.db.WithContext(ctx).Where("is_active = ?", true).
		Order("start_date DESC").
		Find(&exams).Error
	if err != nil {
		return nil, err
	}

	return exams, nil
}

func (r *examRepository) GetByID(ctx context.Context, id uint) (models.Exam, error) {
	var exam models.Exam
	err := r.db.WithContext(ctx).
		Preload("Schedules", scheduleOrder).Preload("Schedules.Subject").
		First(&exam, id).Error
	if err != nil {
		return models.Exam{}, err
	}

	return exam, nil
}

// SaveWithSchedules persists the exam together with the full schedule
// collection in one transaction. Submitted schedules replace the stored
// set: known IDs update, zero IDs insert, anything absent is removed.
// Every schedule's class is forced to the parent exam's class, whatever
// the caller supplied.
func (r *examRepository) SaveWithSchedules(ctx context.Context, exam *models.Exam, schedules []models.ExamSchedule) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Schedules").Save(exam).Error; err != nil {
			return err
		}

		keep := make([]uint, 0, len(schedules))
		for i := range schedules {
			schedule := &schedules[i]
			schedule.ExamID = exam.ID
			if exam.ExamClassID != nil {
				schedule.ExamClassID = *exam.ExamClassID
			}

			if err := tx.Omit("Subject", "ExamClass").Save(schedule).Error; err != nil {
				return err
			}
			keep = append(keep, schedule.ID)
		}

		cleanup := tx.Where("exam_id = ?", exam.ID)
		if len(keep) > 0 {
			cleanup = cleanup.Where("id NOT IN ?", keep)
		}
		if err := cleanup.Delete(&models.ExamSchedule{}).Error; err != nil {
			return err
		}

		exam.Schedules = schedules
		return nil
	})
}

func (r *examRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("exam_id = ?", id).Delete(&models.ExamSchedule{}).Error; err != nil {
			return err
		}
		if err := tx.Where("exam_id = ?", id).Delete(&models.Result{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.Exam{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
