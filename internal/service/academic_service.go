package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/edumate/sims-api/internal/dto"
	"github.com/edumate/sims-api/internal/models"
	"github.com/edumate/sims-api/internal/repository"
)

// Academic structure errors returned to the handler layer.
var (
	ErrAcademicYearNotFound = errors.New("academic year not found")
	ErrClassNotFound        = errors.New("class not found")
	ErrSectionNotFound      = errors.New("section not found")
	ErrSubjectNotFound      = errors.New("subject not found")
	ErrAssignmentNotFound   = errors.New("teacher assignment not found")
	ErrInvalidDateRange     = errors.New("end date must not precede start date")
	ErrNotATeacher          = errors.New("assigned user is not a teacher")
	ErrYearInactive         = errors.New("academic year is not active")
	ErrSubjectNotInClass    = errors.New("subject is not taught in the section's class")
)

// AcademicService manages years, classes, sections, subjects and
// teacher assignments.
type AcademicService interface {
	ListYears(ctx context.Context) ([]dto.AcademicYearResponse, error)
	CreateYear(ctx context.Context, payload dto.AcademicYearRequest) (dto.AcademicYearResponse, error)
	UpdateYear(ctx context.Context, id uint, payload dto.AcademicYearRequest) (dto.AcademicYearResponse, error)
	DeleteYear(ctx context.Context, id uint) error

	ListClasses(ctx context.Context) ([]dto.ClassResponse, error)
	GetClassDetail(ctx context.Context, id uint) (dto.ClassDetailResponse, error)
	CreateClass(ctx context.Context, payload dto.ClassRequest) (dto.ClassResponse, error)
	UpdateClass(ctx context.Context, id uint, payload dto.ClassRequest) (dto.ClassResponse, error)
	DeleteClass(ctx context.Context, id uint) error

	CreateSection(ctx context.Context, payload dto.SectionRequest) (dto.SectionResponse, error)
	DeleteSection(ctx context.Context, id uint) error

	ListSubjects(ctx context.Context) ([]dto.SubjectResponse, error)
	CreateSubject(ctx context.Context, payload dto.SubjectRequest) (dto.SubjectResponse, error)
	UpdateSubject(ctx context.Context, id uint, payload dto.SubjectRequest) (dto.SubjectResponse, error)
	DeleteSubject(ctx context.Context, id uint) error

	ListAssignments(ctx context.Context) ([]dto.TeacherAssignmentResponse, error)
	CreateAssignment(ctx context.Context, payload dto.TeacherAssignmentRequest) (dto.TeacherAssignmentResponse, error)
	DeleteAssignment(ctx context.Context, id uint) error
}

type academicService struct {
	years       repository.AcademicYearRepository
	classes     repository.ClassRepository
	sections    repository.SectionRepository
	subjects    repository.SubjectRepository
	assignments repository.TeacherAssignmentRepository
	users       repository.UserRepository
	validator   *validator.Validate
	logger      zerolog.Logger
}

// NewAcademicService constructs the academic structure service.
func NewAcademicService(
	years repository.AcademicYearRepository,
	classes repository.ClassRepository,
	sections repository.SectionRepository,
	subjects repository.SubjectRepository,
	assignments repository.TeacherAssignmentRepository,
	users repository.UserRepository,
	validate *validator.Validate,
	logger zerolog.Logger,
) AcademicService {
	return &academicService{
		years:       years,
		classes:     classes,
		sections:    sections,
		subjects:    subjects,
		assignments: assignments,
		users:       users,
		validator:   validate,
		logger:      logger.With().Str("component", "academic_service").Logger(),
	}
}

func (s *academicService) ListYears(ctx context.Context) ([]dto.AcademicYearResponse, error) {
	years, err := s.years.List(ctx)
	if err != nil {
		return nil, err
	}
	return dto.NewAcademicYearResponseSlice(years), nil
}

func (s *academicService) CreateYear(ctx context.Context, payload dto.AcademicYearRequest) (dto.AcademicYearResponse, error) {
	year, err := s.yearFromPayload(payload)
	if err != nil {
		return dto.AcademicYearResponse{}, err
	}

	if err := s.years.Create(ctx, &year); err != nil {
		return dto.AcademicYearResponse{}, err
	}
	return dto.NewAcademicYearResponse(year), nil
}

func (s *academicService) UpdateYear(ctx context.Context, id uint, payload dto.AcademicYearRequest) (dto.AcademicYearResponse, error) {
	existing, err := s.years.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AcademicYearResponse{}, ErrAcademicYearNotFound
		}
		return dto.AcademicYearResponse{}, err
	}

	year, err := s.yearFromPayload(payload)
	if err != nil {
		return dto.AcademicYearResponse{}, err
	}
	year.ID = existing.ID

	if err := s.years.Update(ctx, &year); err != nil {
		return dto.AcademicYearResponse{}, err
	}
	return dto.NewAcademicYearResponse(year), nil
}

func (s *academicService) DeleteYear(ctx context.Context, id uint) error {
	if err := s.years.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAcademicYearNotFound
		}
		return err
	}
	return nil
}

func (s *academicService) yearFromPayload(payload dto.AcademicYearRequest) (models.AcademicYear, error) {
	if err := s.validator.Struct(payload); err != nil {
		return models.AcademicYear{}, err
	}

	startDate, err := dto.ParseDate(payload.StartDate)
	if err != nil {
		return models.AcademicYear{}, err
	}
	endDate, err := dto.ParseDate(payload.EndDate)
	if err != nil {
		return models.AcademicYear{}, err
	}
	if time.Time(endDate).Before(time.Time(startDate)) {
		return models.AcademicYear{}, ErrInvalidDateRange
	}

	return models.AcademicYear{
		Name:      strings.TrimSpace(payload.Name),
		StartDate: startDate,
		EndDate:   endDate,
		IsActive:  payload.IsActive,
	}, nil
}

func (s *academicService) ListClasses(ctx context.Context) ([]dto.ClassResponse, error) {
	classes, err := s.classes.List(ctx)
	if err != nil {
		return nil, err
	}
	return dto.NewClassResponseSlice(classes), nil
}

func (s *academicService) GetClassDetail(ctx context.Context, id uint) (dto.ClassDetailResponse, error) {
	class, err := s.classes.GetDetail(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ClassDetailResponse{}, ErrClassNotFound
		}
		return dto.ClassDetailResponse{}, err
	}

	assignments, err := s.assignments.ListByClass(ctx, id)
	if err != nil {
		return dto.ClassDetailResponse{}, err
	}

	return dto.ClassDetailResponse{
		ClassResponse: dto.NewClassResponse(class),
		Sections:      dto.NewSectionResponseSlice(class.Sections),
		Subjects:      dto.NewSubjectResponseSlice(class.Subjects),
		Assignments:   dto.NewTeacherAssignmentResponseSlice(assignments),
	}, nil
}

func (s *academicService) CreateClass(ctx context.Context, payload dto.ClassRequest) (dto.ClassResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ClassResponse{}, err
	}

	class := models.Class{
		Name:         strings.TrimSpace(payload.Name),
		NumericValue: payload.NumericValue,
	}
	if err := s.classes.Create(ctx, &class); err != nil {
		return dto.ClassResponse{}, err
	}
	return dto.NewClassResponse(class), nil
}

func (s *academicService) UpdateClass(ctx context.Context, id uint, payload dto.ClassRequest) (dto.ClassResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ClassResponse{}, err
	}

	class, err := s.classes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ClassResponse{}, ErrClassNotFound
		}
		return dto.ClassResponse{}, err
	}

	class.Name = strings.TrimSpace(payload.Name)
	class.NumericValue = payload.NumericValue
	if err := s.classes.Update(ctx, &class); err != nil {
		return dto.ClassResponse{}, err
	}
	return dto.NewClassResponse(class), nil
}

func (s *academicService) DeleteClass(ctx context.Context, id uint) error {
	if err := s.classes.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrClassNotFound
		}
		return err
	}
	return nil
}

func (s *academicService) CreateSection(ctx context.Context, payload dto.SectionRequest) (dto.SectionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SectionResponse{}, err
	}

	if _, err := s.classes.GetByID(ctx, payload.ClassID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SectionResponse{}, ErrClassNotFound
		}
		return dto.SectionResponse{}, err
	}

	if payload.ClassTeacherID != nil {
		teacher, err := s.users.GetByID(ctx, *payload.ClassTeacherID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.SectionResponse{}, ErrUserNotFound
			}
			return dto.SectionResponse{}, err
		}
		if teacher.Role != models.RoleTeacher {
			return dto.SectionResponse{}, ErrNotATeacher
		}
	}

	section := models.Section{
		Name:           strings.ToUpper(strings.TrimSpace(payload.Name)),
		ClassID:        payload.ClassID,
		ClassTeacherID: payload.ClassTeacherID,
	}
	if err := s.sections.Create(ctx, &section); err != nil {
		return dto.SectionResponse{}, err
	}
	return dto.NewSectionResponse(section), nil
}

func (s *academicService) DeleteSection(ctx context.Context, id uint) error {
	if err := s.sections.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSectionNotFound
		}
		return err
	}
	return nil
}

func (s *academicService) ListSubjects(ctx context.Context) ([]dto.SubjectResponse, error) {
	subjects, err := s.subjects.List(ctx)
	if err != nil {
		return nil, err
	}
	return dto.NewSubjectResponseSlice(subjects), nil
}

func (s *academicService) CreateSubject(ctx context.Context, payload dto.SubjectRequest) (dto.SubjectResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SubjectResponse{}, err
	}

	subject := models.Subject{
		Name:       strings.TrimSpace(payload.Name),
		Code:       strings.ToUpper(strings.TrimSpace(payload.Code)),
		IsElective: payload.IsElective,
	}
	if err := s.subjects.Create(ctx, &subject, payload.ClassIDs); err != nil {
		return dto.SubjectResponse{}, err
	}
	return dto.NewSubjectResponse(subject), nil
}

func (s *academicService) UpdateSubject(ctx context.Context, id uint, payload dto.SubjectRequest) (dto.SubjectResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SubjectResponse{}, err
	}

	subject, err := s.subjects.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubjectResponse{}, ErrSubjectNotFound
		}
		return dto.SubjectResponse{}, err
	}

	subject.Name = strings.TrimSpace(payload.Name)
	subject.Code = strings.ToUpper(strings.TrimSpace(payload.Code))
	subject.IsElective = payload.IsElective
	if err := s.subjects.Update(ctx, &subject, payload.ClassIDs); err != nil {
		return dto.SubjectResponse{}, err
	}
	return dto.NewSubjectResponse(subject), nil
}

func (s *academicService) DeleteSubject(ctx context.Context, id uint) error {
	if err := s.subjects.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSubjectNotFound
		}
		return err
	}
	return nil
}

func (s *academicService) ListAssignments(ctx context.Context) ([]dto.TeacherAssignmentResponse, error) {
	assignments, err := s.assignments.List(ctx)
	if err != nil {
		return nil, err
	}
	return dto.NewTeacherAssignmentResponseSlice(assignments), nil
}

// CreateAssignment links a teacher to a subject within a section for a
// year. The assignment only goes through when the user really teaches,
// the year is active and the subject is taught in the section's class.
func (s *academicService) CreateAssignment(ctx context.Context, payload dto.TeacherAssignmentRequest) (dto.TeacherAssignmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.TeacherAssignmentResponse{}, err
	}

	teacher, err := s.users.GetByID(ctx, payload.TeacherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TeacherAssignmentResponse{}, ErrUserNotFound
		}
		return dto.TeacherAssignmentResponse{}, err
	}
	if teacher.Role != models.RoleTeacher {
		return dto.TeacherAssignmentResponse{}, ErrNotATeacher
	}

	year, err := s.years.GetByID(ctx, payload.AcademicYearID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TeacherAssignmentResponse{}, ErrAcademicYearNotFound
		}
		return dto.TeacherAssignmentResponse{}, err
	}
	if !year.IsActive {
		return dto.TeacherAssignmentResponse{}, ErrYearInactive
	}

	section, err := s.sections.GetByID(ctx, payload.SectionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TeacherAssignmentResponse{}, ErrSectionNotFound
		}
		return dto.TeacherAssignmentResponse{}, err
	}

	classSubjects, err := s.subjects.ListByClass(ctx, section.ClassID)
	if err != nil {
		return dto.TeacherAssignmentResponse{}, err
	}
	taught := false
	for _, subject := range classSubjects {
		if subject.ID == payload.SubjectID {
			taught = true
			break
		}
	}
	if !taught {
		return dto.TeacherAssignmentResponse{}, ErrSubjectNotInClass
	}

	assignment := models.TeacherSubjectAssignment{
		TeacherID:      payload.TeacherID,
		SubjectID:      payload.SubjectID,
		SectionID:      payload.SectionID,
		AcademicYearID: payload.AcademicYearID,
	}
	if err := s.assignments.Create(ctx, &assignment); err != nil {
		return dto.TeacherAssignmentResponse{}, err
	}

	created, err := s.assignments.GetByID(ctx, assignment.ID)
	if err != nil {
		return dto.TeacherAssignmentResponse{}, err
	}
	return dto.NewTeacherAssignmentResponse(created), nil
}

func (s *academicService) DeleteAssignment(ctx context.Context, id uint) error {
	if err := s.assignments.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssignmentNotFound
		}
		return err
	}
	return nil
}
