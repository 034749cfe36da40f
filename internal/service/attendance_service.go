package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/edumate/sims-api/internal/dto"
	"github.com/edumate/sims-api/internal/models"
	"github.com/edumate/sims-api/internal/repository"
)

// Attendance errors returned to the handler layer.
var (
	ErrEmptyRoster        = errors.New("no students enrolled in this section")
	ErrStudentNotInRoster = errors.New("entry references a student outside the section")
	ErrInvalidStatus      = errors.New("unknown attendance status")
	ErrInvalidDate        = errors.New("invalid date, expected YYYY-MM-DD")
)

// AttendanceService records daily rosters and produces reports.
type AttendanceService interface {
	Roster(ctx context.Context, classID, sectionID uint) ([]dto.StudentResponse, error)
	Mark(ctx context.Context, payload dto.MarkAttendanceRequest, recordedBy uint) ([]dto.AttendanceResponse, error)
	Report(ctx context.Context, filter dto.AttendanceReportFilter) ([]dto.AttendanceResponse, dto.PaginationMeta, error)
	MyAttendance(ctx context.Context, userID uint) ([]dto.AttendanceResponse, error)
}

type attendanceService struct {
	attendance repository.AttendanceRepository
	students   repository.StudentRepository
	validator  *validator.Validate
	logger     zerolog.Logger
}

// NewAttendanceService constructs the attendance service.
func NewAttendanceService(attendance repository.AttendanceRepository, students repository.StudentRepository, validate *validator.Validate, logger zerolog.Logger) AttendanceService {
	return &attendanceService{
		attendance: attendance,
		students:   students,
		validator:  validate,
		logger:     logger.With().Str("component", "attendance_service").Logger(),
	}
}

func (s *attendanceService) Roster(ctx context.Context, classID, sectionID uint) ([]dto.StudentResponse, error) {
	students, err := s.students.ListByClassAndSection(ctx, classID, sectionID)
	if err != nil {
		return nil, err
	}
	return dto.NewStudentResponseSlice(students), nil
}

// Mark writes one day's roster for a section. Every entry must belong
// to the submitted class and section; one bad entry rejects the whole
// batch before anything is written. Resubmitting a day overwrites the
// earlier statuses instead of duplicating rows.
func (s *attendanceService) Mark(ctx context.Context, payload dto.MarkAttendanceRequest, recordedBy uint) ([]dto.AttendanceResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return nil, err
	}

	date, err := dto.ParseDate(payload.Date)
	if err != nil {
		return nil, err
	}

	roster, err := s.students.ListByClassAndSection(ctx, payload.ClassID, payload.SectionID)
	if err != nil {
		return nil, err
	}
	if len(roster) == 0 {
		return nil, ErrEmptyRoster
	}

	enrolled := make(map[uint]models.Student, len(roster))
	for _, student := range roster {
		enrolled[student.ID] = student
	}

	records := make([]models.Attendance, 0, len(payload.Entries))
	for _, entry := range payload.Entries {
		student, ok := enrolled[entry.StudentID]
		if !ok {
			return nil, fmt.Errorf("student %d: %w", entry.StudentID, ErrStudentNotInRoster)
		}

		status := models.AttendanceStatus(strings.ToUpper(entry.Status))
		if !status.Valid() {
			return nil, ErrInvalidStatus
		}

		recorder := recordedBy
		records = append(records, models.Attendance{
			StudentID:    student.ID,
			Student:      student,
			Date:         date,
			Status:       status,
			Remarks:      strings.TrimSpace(entry.Remarks),
			RecordedByID: &recorder,
		})
	}

	if err := s.attendance.UpsertBatch(ctx, records); err != nil {
		return nil, err
	}

	s.logger.Info().
		Uint("class_id", payload.ClassID).
		Uint("section_id", payload.SectionID).
		Str("date", payload.Date).
		Int("entries", len(records)).
		Msg("attendance marked")

	return dto.NewAttendanceResponseSlice(records), nil
}

func (s *attendanceService) Report(ctx context.Context, filter dto.AttendanceReportFilter) ([]dto.AttendanceResponse, dto.PaginationMeta, error) {
	repoFilter := repository.AttendanceFilter{
		ClassID:   filter.ClassID,
		SectionID: filter.SectionID,
		Page:      normalizePage(filter.Page),
		PageSize:  defaultAttendancePageSize,
	}

	if filter.DateFrom != "" {
		from, err := dto.ParseDate(filter.DateFrom)
		if err != nil {
			return nil, dto.PaginationMeta{}, ErrInvalidDate
		}
		repoFilter.DateFrom = &from
	}
	if filter.DateTo != "" {
		to, err := dto.ParseDate(filter.DateTo)
		if err != nil {
			return nil, dto.PaginationMeta{}, ErrInvalidDate
		}
		repoFilter.DateTo = &to
	}
	if filter.Status != "" {
		status := models.AttendanceStatus(strings.ToUpper(filter.Status))
		if !status.Valid() {
			return nil, dto.PaginationMeta{}, ErrInvalidStatus
		}
		repoFilter.Status = status
	}

	records, total, err := s.attendance.Report(ctx, repoFilter)
	if err != nil {
		return nil, dto.PaginationMeta{}, err
	}

	meta := dto.NewPaginationMeta(repoFilter.Page, repoFilter.PageSize, total)
	return dto.NewAttendanceResponseSlice(records), meta, nil
}

// MyAttendance returns the calling student's own records, newest first.
func (s *attendanceService) MyAttendance(ctx context.Context, userID uint) ([]dto.AttendanceResponse, error) {
	student, err := s.students.GetByUserID(ctx, userID)
	if err != nil {
		return nil, ErrStudentNotFound
	}

	records, _, err := s.attendance.Report(ctx, repository.AttendanceFilter{
		StudentID: &student.ID,
		Page:      1,
		PageSize:  defaultAttendancePageSize,
	})
	if err != nil {
		return nil, err
	}
	return dto.NewAttendanceResponseSlice(records), nil
}
