package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/edumate/sims-api/internal/dto"
	"github.com/edumate/sims-api/internal/models"
	"github.com/edumate/sims-api/internal/repository"
)

// Result entry errors returned to the handler layer.
var (
	ErrResultNotFound    = errors.New("result not found")
	ErrMarksOutOfRange   = errors.New("marks exceed the schedule maximum")
	ErrStudentNotInClass = errors.New("entry references a student outside the class")
)

// ResultService records and serves per-subject exam marks.
type ResultService interface {
	Enter(ctx context.Context, payload dto.ResultEntryRequest, enteredBy uint) ([]dto.ResultResponse, int, error)
	MyResults(ctx context.Context, userID uint) ([]dto.ExamResultsGroup, error)
	ClassResults(ctx context.Context, examID, classID uint) ([]dto.ResultResponse, error)
	Update(ctx context.Context, id uint, payload dto.ResultUpdateRequest) (dto.ResultResponse, error)
	Delete(ctx context.Context, id uint) (dto.ResultDeletionEcho, error)
}

type resultService struct {
	results   repository.ResultRepository
	exams     repository.ExamRepository
	students  repository.StudentRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewResultService constructs the result entry service.
func NewResultService(results repository.ResultRepository, exams repository.ExamRepository, students repository.StudentRepository, validate *validator.Validate, logger zerolog.Logger) ResultService {
	return &resultService{
		results:   results,
		exams:     exams,
		students:  students,
		validator: validate,
		logger:    logger.With().Str("component", "result_service").Logger(),
	}
}

// Enter records one batch of marks for an exam, class and subject.
// Entries without a marks value are skipped, not zeroed; the second
// return value reports how many were skipped. Re-entering a student's
// marks overwrites the stored row.
func (s *resultService) Enter(ctx context.Context, payload dto.ResultEntryRequest, enteredBy uint) ([]dto.ResultResponse, int, error) {
	if err := s.validator.Struct(payload); err != nil {
		return nil, 0, err
	}

	exam, err := s.exams.GetByID(ctx, payload.ExamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrExamNotFound
		}
		return nil, 0, err
	}

	maxMarks := models.DefaultMaxMarks
	for _, schedule := range exam.Schedules {
		if schedule.SubjectID == payload.SubjectID {
			maxMarks = schedule.MaxMarks
			break
		}
	}

	roster, err := s.students.ListByClass(ctx, payload.ClassID)
	if err != nil {
		return nil, 0, err
	}
	enrolled := make(map[uint]models.Student, len(roster))
	for _, student := range roster {
		enrolled[student.ID] = student
	}

	entered := enteredBy
	skipped := 0
	results := make([]models.Result, 0, len(payload.Entries))
	for _, entry := range payload.Entries {
		if entry.Marks == nil {
			skipped++
			continue
		}

		student, ok := enrolled[entry.StudentID]
		if !ok {
			return nil, 0, fmt.Errorf("student %d: %w", entry.StudentID, ErrStudentNotInClass)
		}
		if *entry.Marks > maxMarks {
			return nil, 0, fmt.Errorf("student %d: %w", entry.StudentID, ErrMarksOutOfRange)
		}

		results = append(results, models.Result{
			ExamID:        payload.ExamID,
			StudentID:     student.ID,
			Student:       student,
			SubjectID:     payload.SubjectID,
			MarksObtained: *entry.Marks,
			MaxMarks:      maxMarks,
			Remarks:       strings.TrimSpace(entry.Remarks),
			EnteredByID:   &entered,
		})
	}

	if err := s.results.UpsertBatch(ctx, results); err != nil {
		return nil, 0, err
	}

	s.logger.Info().
		Uint("exam_id", payload.ExamID).
		Uint("subject_id", payload.SubjectID).
		Int("recorded", len(results)).
		Int("skipped", skipped).
		Msg("results entered")

	return dto.NewResultResponseSlice(results), skipped, nil
}

// MyResults groups the calling student's marks by exam, most recent
// exam first.
func (s *resultService) MyResults(ctx context.Context, userID uint) ([]dto.ExamResultsGroup, error) {
	student, err := s.students.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}

	results, err := s.results.ListByStudent(ctx, student.ID)
	if err != nil {
		return nil, err
	}

	groups := make([]dto.ExamResultsGroup, 0)
	index := make(map[uint]int)
	for _, result := range results {
		position, ok := index[result.ExamID]
		if !ok {
			position = len(groups)
			index[result.ExamID] = position
			groups = append(groups, dto.ExamResultsGroup{
				ExamID:    result.ExamID,
				ExamName:  result.Exam.Name,
				StartDate: dto.FormatDate(result.Exam.StartDate),
			})
		}
		groups[position].Results = append(groups[position].Results, dto.NewResultResponse(result))
	}

	return groups, nil
}

func (s *resultService) ClassResults(ctx context.Context, examID, classID uint) ([]dto.ResultResponse, error) {
	if _, err := s.exams.GetByID(ctx, examID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExamNotFound
		}
		return nil, err
	}

	results, err := s.results.ListByExamAndClass(ctx, examID, classID)
	if err != nil {
		return nil, err
	}
	return dto.NewResultResponseSlice(results), nil
}

func (s *resultService) Update(ctx context.Context, id uint, payload dto.ResultUpdateRequest) (dto.ResultResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ResultResponse{}, err
	}

	result, err := s.results.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ResultResponse{}, ErrResultNotFound
		}
		return dto.ResultResponse{}, err
	}

	if payload.Marks != nil {
		if *payload.Marks > result.MaxMarks {
			return dto.ResultResponse{}, ErrMarksOutOfRange
		}
		result.MarksObtained = *payload.Marks
	}
	if payload.Remarks != nil {
		result.Remarks = strings.TrimSpace(*payload.Remarks)
	}

	if err := s.results.Update(ctx, &result); err != nil {
		return dto.ResultResponse{}, err
	}
	return dto.NewResultResponse(result), nil
}

// Delete removes one result row and echoes the exam and class it
// belonged to, so the client can restore its filtered class view.
func (s *resultService) Delete(ctx context.Context, id uint) (dto.ResultDeletionEcho, error) {
	result, err := s.results.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ResultDeletionEcho{}, ErrResultNotFound
		}
		return dto.ResultDeletionEcho{}, err
	}

	if err := s.results.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ResultDeletionEcho{}, ErrResultNotFound
		}
		return dto.ResultDeletionEcho{}, err
	}

	return dto.ResultDeletionEcho{
		ID:      result.ID,
		ExamID:  result.ExamID,
		ClassID: result.Exam.ExamClassID,
	}, nil
}
