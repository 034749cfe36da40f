package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/edumate/sims-api/internal/dto"
	"github.com/edumate/sims-api/internal/models"
	"github.com/edumate/sims-api/internal/repository"
)

// Examination errors returned to the handler layer.
var (
	ErrExamNotFound         = errors.New("exam not found")
	ErrSectionClassMismatch = errors.New("section does not belong to the exam class")
	ErrInvalidTimeRange     = errors.New("schedule end time must follow start time")
	ErrScheduleNeedsClass   = errors.New("schedules require the exam to target a class")
)

// ExamService manages examinations and their subject schedules.
type ExamService interface {
	List(ctx context.Context, classID, sectionID *uint) ([]dto.ExamResponse, error)
	ListForStudent(ctx context.Context, userID uint) ([]dto.ExamResponse, error)
	Get(ctx context.Context, id uint) (dto.ExamResponse, error)
	Create(ctx context.Context, payload dto.ExamSaveRequest) (dto.ExamResponse, error)
	Update(ctx context.Context, id uint, payload dto.ExamSaveRequest) (dto.ExamResponse, error)
	Delete(ctx context.Context, id uint) error
}

type examService struct {
	exams     repository.ExamRepository
	years     repository.AcademicYearRepository
	classes   repository.ClassRepository
	sections  repository.SectionRepository
	students  repository.StudentRepository
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

// NewExamService constructs the examination service.
func NewExamService(
	exams repository.ExamRepository,
	years repository.AcademicYearRepository,
	classes repository.ClassRepository,
	sections repository.SectionRepository,
	students repository.StudentRepository,
	validate *validator.Validate,
	logger zerolog.Logger,
) ExamService {
	return &examService{
		exams:     exams,
		years:     years,
		classes:   classes,
		sections:  sections,
		students:  students,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "exam_service").Logger(),
	}
}

func (s *examService) List(ctx context.Context, classID, sectionID *uint) ([]dto.ExamResponse, error) {
	exams, err := s.exams.List(ctx, repository.ExamFilter{ClassID: classID, SectionID: sectionID})
	if err != nil {
		return nil, err
	}
	return dto.NewExamResponseSlice(exams), nil
}

// ListForStudent scopes the exam list to the caller's own class: exams
// for the whole class plus those pinned to the student's section.
func (s *examService) ListForStudent(ctx context.Context, userID uint) ([]dto.ExamResponse, error) {
	student, err := s.students.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	if student.CurrentClassID == nil {
		return []dto.ExamResponse{}, nil
	}

	exams, err := s.exams.ListForStudent(ctx, *student.CurrentClassID, student.SectionID)
	if err != nil {
		return nil, err
	}
	return dto.NewExamResponseSlice(exams), nil
}

func (s *examService) Get(ctx context.Context, id uint) (dto.ExamResponse, error) {
	exam, err := s.exams.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ExamResponse{}, ErrExamNotFound
		}
		return dto.ExamResponse{}, err
	}
	return dto.NewExamResponse(exam), nil
}

func (s *examService) Create(ctx context.Context, payload dto.ExamSaveRequest) (dto.ExamResponse, error) {
	return s.save(ctx, nil, payload)
}

func (s *examService) Update(ctx context.Context, id uint, payload dto.ExamSaveRequest) (dto.ExamResponse, error) {
	existing, err := s.exams.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ExamResponse{}, ErrExamNotFound
		}
		return dto.ExamResponse{}, err
	}
	return s.save(ctx, &existing.ID, payload)
}

// save validates the submission and writes the exam together with its
// schedule rows in one transaction. Either everything lands or nothing
// does; a half-saved exam is never visible.
func (s *examService) save(ctx context.Context, id *uint, payload dto.ExamSaveRequest) (dto.ExamResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ExamResponse{}, err
	}

	if _, err := s.years.GetByID(ctx, payload.AcademicYearID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ExamResponse{}, ErrAcademicYearNotFound
		}
		return dto.ExamResponse{}, err
	}

	if payload.ExamClassID != nil {
		if _, err := s.classes.GetByID(ctx, *payload.ExamClassID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.ExamResponse{}, ErrClassNotFound
			}
			return dto.ExamResponse{}, err
		}
	}
	if payload.SectionID != nil {
		section, err := s.sections.GetByID(ctx, *payload.SectionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.ExamResponse{}, ErrSectionNotFound
			}
			return dto.ExamResponse{}, err
		}
		if payload.ExamClassID == nil || section.ClassID != *payload.ExamClassID {
			return dto.ExamResponse{}, ErrSectionClassMismatch
		}
	}
	if len(payload.Schedules) > 0 && payload.ExamClassID == nil {
		return dto.ExamResponse{}, ErrScheduleNeedsClass
	}

	startDate, err := dto.ParseDate(payload.StartDate)
	if err != nil {
		return dto.ExamResponse{}, err
	}
	endDate, err := dto.ParseDate(payload.EndDate)
	if err != nil {
		return dto.ExamResponse{}, err
	}
	if time.Time(endDate).Before(time.Time(startDate)) {
		return dto.ExamResponse{}, ErrInvalidDateRange
	}

	exam := models.Exam{
		Name:           strings.TrimSpace(payload.Name),
		AcademicYearID: payload.AcademicYearID,
		StartDate:      startDate,
		EndDate:        endDate,
		IsActive:       true,
		Description:    strings.TrimSpace(s.sanitizer.Sanitize(payload.Description)),
		ExamClassID:    payload.ExamClassID,
		SectionID:      payload.SectionID,
	}
	if id != nil {
		exam.ID = *id
	}
	if payload.IsActive != nil {
		exam.IsActive = *payload.IsActive
	}

	schedules := make([]models.ExamSchedule, 0, len(payload.Schedules))
	for _, input := range payload.Schedules {
		if input.EndTime <= input.StartTime {
			return dto.ExamResponse{}, ErrInvalidTimeRange
		}
		date, err := dto.ParseDate(input.Date)
		if err != nil {
			return dto.ExamResponse{}, err
		}
		maxMarks := input.MaxMarks
		if maxMarks <= 0 {
			maxMarks = models.DefaultMaxMarks
		}
		schedules = append(schedules, models.ExamSchedule{
			ID:        input.ID,
			SubjectID: input.SubjectID,
			Date:      date,
			StartTime: input.StartTime,
			EndTime:   input.EndTime,
			MaxMarks:  maxMarks,
		})
	}

	if err := s.exams.SaveWithSchedules(ctx, &exam, schedules); err != nil {
		return dto.ExamResponse{}, err
	}

	saved, err := s.exams.GetByID(ctx, exam.ID)
	if err != nil {
		return dto.ExamResponse{}, err
	}

	s.logger.Info().Uint("exam_id", saved.ID).Int("schedules", len(schedules)).Msg("exam saved")
	return dto.NewExamResponse(saved), nil
}

func (s *examService) Delete(ctx context.Context, id uint) error {
	if err := s.exams.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrExamNotFound
		}
		return err
	}
	return nil
}
