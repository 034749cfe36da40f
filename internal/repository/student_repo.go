package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/edumate/sims-api/internal/models"
)

// StudentFilter describes pagination & search options for the student list.
type StudentFilter struct {
	Search   string
	Page     int
	PageSize int
}

// StudentRepository provides access to student records.
type StudentRepository interface {
	List(ctx context.Context, filter StudentFilter) ([]models.Student, int64, error)
	ListBySection(ctx context.Context, sectionID uint) ([]models.Student, error)
	ListByClass(ctx context.Context, classID uint) ([]models.Student, error)
	ListByClassAndSection(ctx context.Context, classID, sectionID uint) ([]models.Student, error)
	GetByID(ctx context.Context, id uint) (models.Student, error)
	GetByUserID(ctx context.Context, userID uint) (models.Student, error)
	CreateWithUser(ctx context.Context, user *models.User, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id uint) error
	EnsureProfile(ctx context.Context, student *models.Student) (models.Student, error)
	Count(ctx context.Context) (int64, error)

	AddGuardian(ctx context.Context, guardian *models.StudentGuardian) error
	ListGuardians(ctx context.Context, studentID uint) ([]models.StudentGuardian, error)
	DeleteGuardian(ctx context.Context, studentID, guardianID uint) error

	AddDocument(ctx context.Context, document *models.StudentDocument) error
	ListDocuments(ctx context.Context, studentID uint) ([]models.StudentDocument, error)
	DeleteDocument(ctx context.Context, studentID, documentID uint) error
}

type studentRepository struct {
	db *gorm.DB
}

// NewStudentRepository constructs a student repository.
func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) List(ctx context.Context, filter StudentFilter) ([]models.Student, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Student{}).
		Joins("JOIN users ON users.id = students.user_id")

	if filter.Search != "" {
		pattern := "%" + strings.ToLower(strings.TrimSpace(filter.Search)) + "%"
		query = query.Where(
			"LOWER(users.first_name) LIKE ? OR LOWER(users.last_name) LIKE ? OR LOWER(students.admission_number) LIKE ?",
			pattern, pattern, pattern,
		)
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

	var students []models.Student
	if err := query.Preload("User").Order("students.admission_number ASC").Find(&students).Error; err != nil {
		return nil, 0, err
	}

	return students, total, nil
}

func (r *studentRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Student{}).Count(&total).Error
	return total, err
}

func (r *studentRepository) ListBySection(ctx context.Context, sectionID uint) ([]models.Student, error) {
	return r.listWhere(ctx, "section_id = ?", sectionID)
}

func (r *studentRepository) ListByClass(ctx context.Context, classID uint) ([]models.Student, error) {
	return r.listWhere(ctx, "current_class_id = ?", classID)
}

func (r *studentRepository) ListByClassAndSection(ctx context.Context, classID, sectionID uint) ([]models.Student, error) {
	var students []models.Student
	err := r.db.WithContext(ctx).
		Where("current_class_id = ? AND section_id = ?", classID, sectionID).
		Preload("User").
		Order("roll_number ASC, admission_number ASC").
		Find(&students).Error
	if err != nil {
		return nil, err
	}

	return students, nil
}

func (r *studentRepository) listWhere(ctx context.Context, condition string, args ...interface{}) ([]models.Student, error) {
	var students []models.Student
	err := r.db.WithContext(ctx).
		Where(condition, args...).
		Preload("User").
		Order("admission_number ASC").
		Find(&students).Error
	if err != nil {
		return nil, err
	}

	return students, nil
}

func (r *studentRepository) GetByID(ctx context.Context, id uint) (models.Student, error) {
	var student models.Student
	err := r.db.WithContext(ctx).
		Preload("User").Preload("CurrentClass").Preload("Section").
		Preload("Guardians").Preload("Documents").
		First(&student, id).Error
	if err != nil {
		return models.Student{}, err
	}

	return student, nil
}

func (r *studentRepository) GetByUserID(ctx context.Context, userID uint) (models.Student, error) {
	var student models.Student
	err := r.db.WithContext(ctx).
		Preload("User").Preload("CurrentClass").Preload("Section").
		Where("user_id = ?", userID).
		First(&student).Error
	if err != nil {
		return models.Student{}, err
	}

	return student, nil
}

// CreateWithUser persists the account and the student row atomically;
// a failure on either side rolls back both, so no orphan student can
// exist without its account.
func (r *studentRepository) CreateWithUser(ctx context.Context, user *models.User, student *models.Student) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}

		student.UserID = user.ID
		return tx.Create(student).Error
	})
}

// Update saves the student row and its loaded user in one transaction.
func (r *studentRepository) Update(ctx context.Context, student *models.Student) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if student.User.ID != 0 {
			if err := tx.Save(&student.User).Error; err != nil {
				return err
			}
		}
		return tx.Omit("User").Save(student).Error
	})
}

func (r *studentRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var student models.Student
		if err := tx.First(&student, id).Error; err != nil {
			return err
		}

		for _, child := range []interface{}{
			&models.StudentGuardian{}, &models.StudentDocument{},
			&models.Attendance{}, &models.Result{},
		} {
			if err := tx.Where("student_id = ?", id).Delete(child).Error; err != nil {
				return err
			}
		}

		if err := tx.Delete(&models.Student{}, id).Error; err != nil {
			return err
		}

		// The account exists solely for the student profile; drop it too.
		return tx.Delete(&models.User{}, student.UserID).Error
	})
}

// EnsureProfile is the idempotent get-or-create used when provisioning
// a student account: repeated calls never duplicate the row.
func (r *studentRepository) EnsureProfile(ctx context.Context, student *models.Student) (models.Student, error) {
	var existing models.Student
	err := r.db.WithContext(ctx).Where("user_id = ?", student.UserID).First(&existing).Error
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Student{}, err
	}

	if err := r.db.WithContext(ctx).Create(student).Error; err != nil {
		return models.Student{}, err
	}

	return *student, nil
}

func (r *studentRepository) AddGuardian(ctx context.Context, guardian *models.StudentGuardian) error {
	return r.db.WithContext(ctx).Create(guardian).Error
}

func (r *studentRepository) ListGuardians(ctx context.Context, studentID uint) ([]models.StudentGuardian, error) {
	var guardians []models.StudentGuardian
	if err := r.db.WithContext(ctx).Where("student_id = ?", studentID).Order("name ASC").Find(&guardians).Error; err != nil {
		return nil, err
	}

	return guardians, nil
}

func (r *studentRepository) DeleteGuardian(ctx context.Context, studentID, guardianID uint) error {
	result := r.db.WithContext(ctx).Where("student_id = ?", studentID).Delete(&models.StudentGuardian{}, guardianID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *studentRepository) AddDocument(ctx context.Context, document *models.StudentDocument) error {
	return r.db.WithContext(ctx).Create(document).Error
}

func (r *studentRepository) ListDocuments(ctx context.Context, studentID uint) ([]models.StudentDocument, error) {
	var documents []models.StudentDocument
	if err := r.db.WithContext(ctx).Where("student_id = ?", studentID).Order("uploaded_at DESC").Find(&documents).Error; err != nil {
		return nil, err
	}

	return documents, nil
}

func (r *studentRepository) DeleteDocument(ctx context.Context, studentID, documentID uint) error {
	result := r.db.WithContext(ctx).Where("student_id = ?", studentID).Delete(&models.StudentDocument{}, documentID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
