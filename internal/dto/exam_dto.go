package dto

import (
	"github.com/edumate/sims-api/internal/models"
)

// ExamScheduleInput is one schedule row inside an exam submission. A
// zero ID inserts a new row; a known ID updates it. Whatever class the
// client posts, the saved row's class is forced to the parent exam's.
type ExamScheduleInput struct {
	ID        uint    `json:"id"`
	SubjectID uint    `json:"subject_id" validate:"required"`
	Date      string  `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime string  `json:"start_time" validate:"required,datetime=15:04"`
	EndTime   string  `json:"end_time" validate:"required,datetime=15:04"`
	MaxMarks  float64 `json:"max_marks" validate:"omitempty,gt=0"`
}

// ExamSaveRequest is the transactional exam-plus-schedules submission.
type ExamSaveRequest struct {
	Name           string              `json:"name" validate:"required,max=100"`
	AcademicYearID uint                `json:"academic_year_id" validate:"required"`
	StartDate      string              `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate        string              `json:"end_date" validate:"required,datetime=2006-01-02"`
	IsActive       *bool               `json:"is_active"`
	Description    string              `json:"description"`
	ExamClassID    *uint               `json:"exam_class_id"`
	SectionID      *uint               `json:"section_id"`
	Schedules      []ExamScheduleInput `json:"schedules" validate:"dive"`
}

// ExamScheduleResponse is the serialized exam schedule row.
type ExamScheduleResponse struct {
	ID          uint    `json:"id"`
	ExamID      uint    `json:"exam_id"`
	SubjectID   uint    `json:"subject_id"`
	SubjectName string  `json:"subject_name,omitempty"`
	ExamClassID uint    `json:"exam_class_id"`
	Date        string  `json:"date"`
	StartTime   string  `json:"start_time"`
	EndTime     string  `json:"end_time"`
	MaxMarks    float64 `json:"max_marks"`
}

// NewExamScheduleResponse converts a model into a DTO.
func NewExamScheduleResponse(model models.ExamSchedule) ExamScheduleResponse {
	return ExamScheduleResponse{
		ID:          model.ID,
		ExamID:      model.ExamID,
		SubjectID:   model.SubjectID,
		SubjectName: model.Subject.Name,
		ExamClassID: model.ExamClassID,
		Date:        FormatDate(model.Date),
		StartTime:   model.StartTime,
		EndTime:     model.EndTime,
		MaxMarks:    model.MaxMarks,
	}
}

// ExamResponse is the serialized exam with its schedules.
type ExamResponse struct {
	ID             uint                   `json:"id"`
	Name           string                 `json:"name"`
	AcademicYearID uint                   `json:"academic_year_id"`
	StartDate      string                 `json:"start_date"`
	EndDate        string                 `json:"end_date"`
	IsActive       bool                   `json:"is_active"`
	Description    string                 `json:"description"`
	ExamClassID    *uint                  `json:"exam_class_id"`
	SectionID      *uint                  `json:"section_id"`
	Schedules      []ExamScheduleResponse `json:"schedules"`
}

// NewExamResponse converts a model into a DTO.
func NewExamResponse(model models.Exam) ExamResponse {
	schedules := make([]ExamScheduleResponse, 0, len(model.Schedules))
	for _, schedule := range model.Schedules {
		schedules = append(schedules, NewExamScheduleResponse(schedule))
	}

	return ExamResponse{
		ID:             model.ID,
		Name:           model.Name,
		AcademicYearID: model.AcademicYearID,
		StartDate:      FormatDate(model.StartDate),
		EndDate:        FormatDate(model.EndDate),
		IsActive:       model.IsActive,
		Description:    model.Description,
		ExamClassID:    model.ExamClassID,
		SectionID:      model.SectionID,
		Schedules:      schedules,
	}
}

// NewExamResponseSlice converts a slice of models into DTOs.
func NewExamResponseSlice(exams []models.Exam) []ExamResponse {
	responses := make([]ExamResponse, 0, len(exams))
	for _, exam := range exams {
		responses = append(responses, NewExamResponse(exam))
	}
	return responses
}
