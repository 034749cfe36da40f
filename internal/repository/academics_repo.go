package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/edumate/sims-api/internal/models"
)

// ClassRepository defines persistence operations for classes.
type ClassRepository interface {
	List(ctx context.Context) ([]models.Class, error)
	GetByID(ctx context.Context, id uint) (models.Class, error)
	GetDetail(ctx context.Context, id uint) (models.Class, error)
	Create(ctx context.Context, class *models.Class) error
	Update(ctx context.Context, class *models.Class) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
}

type classRepository struct {
	db *gorm.DB
}

// NewClassRepository instantiates a GORM-backed repository.
func NewClassRepository(db *gorm.DB) ClassRepository {
	return &classRepository{db: db}
}

func (r *classRepository) List(ctx context.Context) ([]models.Class, error) {
	var classes []models.Class
	if err := r.db.WithContext(ctx).Order("numeric_value ASC").Find(&classes).Error; err != nil {
		return nil, err
	}

	return classes, nil
}

func (r *classRepository) GetByID(ctx context.Context, id uint) (models.Class, error) {
	var class models.Class
	if err := r.db.WithContext(ctx).First(&class, id).Error; err != nil {
		return models.Class{}, err
	}

	return class, nil
}

func (r *classRepository) GetDetail(ctx context.Context, id uint) (models.Class, error) {
	var class models.Class
	err := r.db.WithContext(ctx).
		Preload("Sections", func(db *gorm.DB) *gorm.DB { return db.Order("sections.name ASC") }).
		Preload("Subjects").
		First(&class, id).Error
	if err != nil {
		return models.Class{}, err
	}

	return class, nil
}

func (r *classRepository) Create(ctx context.Context, class *models.Class) error {
	return r.db.WithContext(ctx).Create(class).Error
}

func (r *classRepository) Update(ctx context.Context, class *models.Class) error {
	return r.db.WithContext(ctx).Save(class).Error
}

// Delete removes the class together with its sections; dependent
// student rows keep their user accounts and fall back to a null class.
func (r *classRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Student{}).Where("current_class_id = ?", id).Update("current_class_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Student{}).Where("section_id IN (SELECT id FROM sections WHERE class_id = ?)", id).Update("section_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("class_id = ?", id).Delete(&models.Section{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.Class{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *classRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Class{}).Count(&total).Error
	return total, err
}

// SectionRepository defines persistence operations for sections.
type SectionRepository interface {
	List(ctx context.Context) ([]models.Section, error)
	ListByClass(ctx context.Context, classID uint) ([]models.Section, error)
	GetByID(ctx context.Context, id uint) (models.Section, error)
	Create(ctx context.Context, section *models.Section) error
	Delete(ctx context.Context, id uint) error
}

type sectionRepository struct {
	db *gorm.DB
}

// NewSectionRepository instantiates a GORM-backed repository.
func NewSectionRepository(db *gorm.DB) SectionRepository {
	return &sectionRepository{db: db}
}

func (r *sectionRepository) List(ctx context.Context) ([]models.Section, error) {
	var sections []models.Section
	if err := r.db.WithContext(ctx).Preload("Class").Order("name ASC").Find(&sections).Error; err != nil {
		return nil, err
	}

	return sections, nil
}

// ListByClass returns the class's sections ordered by name; the lookup
// dedup depends on this ordering to keep the first occurrence.
func (r *sectionRepository) ListByClass(ctx context.Context, classID uint) ([]models.Section, error) {
	var sections []models.Section
	if err := r.db.WithContext(ctx).Where("class_id = ?", classID).Order("name ASC").Find(&sections).Error; err != nil {
		return nil, err
	}

	return sections, nil
}

func (r *sectionRepository) GetByID(ctx context.Context, id uint) (models.Section, error) {
	var section models.Section
	if err := r.db.WithContext(ctx).Preload("Class").First(&section, id).Error; err != nil {
		return models.Section{}, err
	}

	return section, nil
}

func (r *sectionRepository) Create(ctx context.Context, section *models.Section) error {
	return r.db.WithContext(ctx).Create(section).Error
}

func (r *sectionRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Student{}).Where("section_id = ?", id).Update("section_id", nil).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.Section{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// SubjectRepository defines persistence operations for subjects.
type SubjectRepository interface {
	List(ctx context.Context) ([]models.Subject, error)
	ListByClass(ctx context.Context, classID uint) ([]models.Subject, error)
	GetByID(ctx context.Context, id uint) (models.Subject, error)
	Create(ctx context.Context, subject *models.Subject, classIDs []uint) error
	Update(ctx context.Context, subject *models.Subject, classIDs []uint) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
}

type subjectRepository struct {
	db *gorm.DB
}

// NewSubjectRepository instantiates a GORM-backed repository.
func NewSubjectRepository(db *gorm.DB) SubjectRepository {
	return &subjectRepository{db: db}
}

func (r *subjectRepository) List(ctx context.Context) ([]models.Subject, error) {
	var subjects []models.Subject
	if err := r.db.WithContext(ctx).Preload("Classes").Order("name ASC").Find(&subjects).Error; err != nil {
		return nil, err
	}

	return subjects, nil
}

func (r *subjectRepository) ListByClass(ctx context.Context, classID uint) ([]models.Subject, error) {
	var subjects []models.Subject
	err := r.db.WithContext(ctx).
		Joins("JOIN class_subjects ON class_subjects.subject_id = subjects.id").
		Where("class_subjects.class_id = ?", classID).
		Order("subjects.name ASC").
		Find(&subjects).Error
	if err != nil {
		return nil, err
	}

	return subjects, nil
}

func (r *subjectRepository) GetByID(ctx context.Context, id uint) (models.Subject, error) {
	var subject models.Subject
	if err := r.db.WithContext(ctx).Preload("Classes").First(&subject, id).Error; err != nil {
		return models.Subject{}, err
	}

	return subject, nil
}

func (r *subjectRepository) Create(ctx context.Context, subject *models.Subject, classIDs []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(subject).Error; err != nil {
			return err
		}
		return r.replaceClasses(tx, subject, classIDs)
	})
}

func (r *subjectRepository) Update(ctx context.Context, subject *models.Subject, classIDs []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(subject).Error; err != nil {
			return err
		}
		return r.replaceClasses(tx, subject, classIDs)
	})
}

func (r *subjectRepository) replaceClasses(tx *gorm.DB, subject *models.Subject, classIDs []uint) error {
	if classIDs == nil {
		return nil
	}

	classes := make([]models.Class, 0, len(classIDs))
	if len(classIDs) > 0 {
		if err := tx.Find(&classes, classIDs).Error; err != nil {
			return err
		}
		if len(classes) != len(classIDs) {
			return gorm.ErrRecordNotFound
		}
	}

	return tx.Model(subject).Association("Classes").Replace(classes)
}

func (r *subjectRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Subject{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *subjectRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Subject{}).Count(&total).Error
	return total, err
}

// AcademicYearRepository defines persistence operations for academic years.
type AcademicYearRepository interface {
	List(ctx context.Context) ([]models.AcademicYear, error)
	ListActive(ctx context.Context) ([]models.AcademicYear, error)
	GetByID(ctx context.Context, id uint) (models.AcademicYear, error)
	Create(ctx context.Context, year *models.AcademicYear) error
	Update(ctx context.Context, year *models.AcademicYear) error
	Delete(ctx context.Context, id uint) error
}

type academicYearRepository struct {
	db *gorm.DB
}

// NewAcademicYearRepository instantiates a GORM-backed repository.
func NewAcademicYearRepository(db *gorm.DB) AcademicYearRepository {
	return &academicYearRepository{db: db}
}

func (r *academicYearRepository) List(ctx context.Context) ([]models.AcademicYear, error) {
	var years []models.AcademicYear
	if err := r.db.WithContext(ctx).Order("start_date DESC").Find(&years).Error; err != nil {
		return nil, err
	}

	return years, nil
}

func (r *academicYearRepository) ListActive(ctx context.Context) ([]models.AcademicYear, error) {
	var years []models.AcademicYear
	if err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("start_date DESC").Find(&years).Error; err != nil {
		return nil, err
	}

	return years, nil
}

func (r *academicYearRepository) GetByID(ctx context.Context, id uint) (models.AcademicYear, error) {
	var year models.AcademicYear
	if err := r.db.WithContext(ctx).First(&year, id).Error; err != nil {
		return models.AcademicYear{}, err
	}

	return year, nil
}

func (r *academicYearRepository) Create(ctx context.Context, year *models.AcademicYear) error {
	return r.db.WithContext(ctx).Create(year).Error
}

func (r *academicYearRepository) Update(ctx context.Context, year *models.AcademicYear) error {
	return r.db.WithContext(ctx).Save(year).Error
}

func (r *academicYearRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.AcademicYear{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// TeacherAssignmentRepository defines persistence operations for
// teacher-subject assignments.
type TeacherAssignmentRepository interface {
	List(ctx context.Context) ([]models.TeacherSubjectAssignment, error)
	ListByClass(ctx context.Context, classID uint) ([]models.TeacherSubjectAssignment, error)
	GetByID(ctx context.Context, id uint) (models.TeacherSubjectAssignment, error)
	Create(ctx context.Context, assignment *models.TeacherSubjectAssignment) error
	Delete(ctx context.Context, id uint) error
}

type teacherAssignmentRepository struct {
	db *gorm.DB
}

// NewTeacherAssignmentRepository instantiates a GORM-backed repository.
func NewTeacherAssignmentRepository(db *gorm.DB) TeacherAssignmentRepository {
	return &teacherAssignmentRepository{db: db}
}

func (r *teacherAssignmentRepository) List(ctx context.Context) ([]models.TeacherSubjectAssignment, error) {
	var assignments []models.TeacherSubjectAssignment
	err := r.db.WithContext(ctx).
		Preload("Teacher").Preload("Subject").Preload("Section").Preload("Section.Class").
		Find(&assignments).Error
	if err != nil {
		return nil, err
	}

	return assignments, nil
}

func (r *teacherAssignmentRepository) ListByClass(ctx context.Context, classID uint) ([]models.TeacherSubjectAssignment, error) {
	var assignments []models.TeacherSubjectAssignment
	err := r.db.WithContext(ctx).
		Joins("JOIN sections ON sections.id = teacher_subject_assignments.section_id").
		Where("sections.class_id = ?", classID).
		Preload("Teacher").Preload("Subject").Preload("Section").Preload("Section.Class").
		Find(&assignments).Error
	if err != nil {
		return nil, err
	}

	return assignments, nil
}

func (r *teacherAssignmentRepository) GetByID(ctx context.Context, id uint) (models.TeacherSubjectAssignment, error) {
	var assignment models.TeacherSubjectAssignment
	err := r.db.WithContext(ctx).
		Preload("Teacher").Preload("Subject").Preload("Section").Preload("Section.Class").
		First(&assignment, id).Error
	if err != nil {
		return models.TeacherSubjectAssignment{}, err
	}

	return assignment, nil
}

func (r *teacherAssignmentRepository) Create(ctx context.Context, assignment *models.TeacherSubjectAssignment) error {
	return r.db.WithContext(ctx).Create(assignment).Error
}

func (r *teacherAssignmentRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.TeacherSubjectAssignment{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
