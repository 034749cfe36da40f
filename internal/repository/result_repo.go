package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/edumate/sims-api/internal/models"
)

// ResultRepository provides access to per-subject exam results.
type ResultRepository interface {
	UpsertBatch(ctx context.Context, results []models.Result) error
	ListByStudent(ctx context.Context, studentID uint) ([]models.Result, error)
	ListByExamAndClass(ctx context.Context, examID, classID uint) ([]models.Result, error)
	GetByID(ctx context.Context, id uint) (models.Result, error)
	Update(ctx context.Context, result *models.Result) error
	Delete(ctx context.Context, id uint) error
}

type resultRepository struct {
	db *gorm.DB
}

// NewResultRepository instantiates a GORM-backed repository.
func NewResultRepository(db *gorm.DB) ResultRepository {
	return &resultRepository{db: db}
}

// UpsertBatch writes the given results in one transaction. A row that
// already exists for the same exam, student and subject is overwritten,
// otherwise a new row is inserted. Any failure rolls back the batch.
func (r *resultRepository) UpsertBatch(ctx context.Context, results []models.Result) error {
	if len(results) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range results {
			entry := &results[i]

			var existing models.Result
			err := tx.Where("exam_id = ? AND student_id = ? AND subject_id = ?",
				entry.ExamID, entry.StudentID, entry.SubjectID).
				First(&existing).Error
			switch {
			case err == nil:
				existing.MarksObtained = entry.MarksObtained
				existing.MaxMarks = entry.MaxMarks
				existing.Remarks = entry.Remarks
				existing.EnteredByID = entry.EnteredByID
				if err := tx.Omit("Exam", "Student", "Subject", "EnteredBy").Save(&existing).Error; err != nil {
					return err
				}
				*entry = existing
			case err == gorm.ErrRecordNotFound:
				if err := tx.Omit("Exam", "Student", "Subject", "EnteredBy").Create(entry).Error; err != nil {
					return err
				}
			default:
				return err
			}
		}
		return nil
	})
}

// ListByStudent returns a student's results ordered by exam start date,
// most recent exam first, subjects alphabetical within an exam.
func (r *resultRepository) ListByStudent(ctx context.Context, studentID uint) ([]models.Result, error) {
	var results []models.Result
	err := r.db.WithContext(ctx).Model(&models.Result{}).
		Joins("JOIN exams ON exams.id = results.exam_id").
		Joins("JOIN subjects ON subjects.id = results.subject_id").
		Where("results.student_id = ?", studentID).
		Preload("Exam").Preload("Subject").
		Order("exams.start_date DESC, subjects.name ASC").
		Find(&results).Error
	if err != nil {
		return nil, err
	}

	return results, nil
}

// ListByExamAndClass returns every result for an exam restricted to
// students of the given class, ordered by student name then subject.
func (r *resultRepository) ListByExamAndClass(ctx context.Context, examID, classID uint) ([]models.Result, error) {
	var results []models.Result
	err := r.db.WithContext(ctx).Model(&models.Result{}).
		Joins("JOIN students ON students.id = results.student_id").
		Joins("JOIN users ON users.id = students.user_id").
		Joins("JOIN subjects ON subjects.id = results.subject_id").
		Where("results.exam_id = ? AND students.current_class_id = ?", examID, classID).
		Preload("Student").Preload("Student.User").Preload("Subject").
		Order("users.first_name ASC, users.last_name ASC, subjects.name ASC").
		Find(&results).Error
	if err != nil {
		return nil, err
	}

	return results, nil
}

func (r *resultRepository) GetByID(ctx context.Context, id uint) (models.Result, error) {
	var result models.Result
	err := r.db.WithContext(ctx).
		Preload("Exam").Preload("Student").Preload("Student.User").Preload("Subject").
		First(&result, id).Error
	if err != nil {
		return models.Result{}, err
	}

	return result, nil
}

func (r *resultRepository) Update(ctx context.Context, result *models.Result) error {
	return r.db.WithContext(ctx).
		Omit("Exam", "Student", "Subject", "EnteredBy").
		Save(result).Error
}

func (r *resultRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Result{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
