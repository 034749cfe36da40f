package dto

import (
	"github.com/edumate/sims-api/internal/models"
)

// ResultEntry is one student's marks within a batch submission. A nil
// Marks value skips the student entirely; no zero is recorded.
type ResultEntry struct {
	StudentID uint     `json:"student_id" validate:"required"`
	Marks     *float64 `json:"marks" validate:"omitempty,gte=0"`
	Remarks   string   `json:"remarks" validate:"omitempty,max=255"`
}

// ResultEntryRequest is the batch marks payload for one exam/class/subject.
type ResultEntryRequest struct {
	ExamID    uint          `json:"exam_id" validate:"required"`
	ClassID   uint          `json:"class_id" validate:"required"`
	SubjectID uint          `json:"subject_id" validate:"required"`
	Entries   []ResultEntry `json:"entries" validate:"required,min=1,dive"`
}

// ResultUpdateRequest edits a single result row.
type ResultUpdateRequest struct {
	Marks   *float64 `json:"marks" validate:"omitempty,gte=0"`
	Remarks *string  `json:"remarks" validate:"omitempty,max=255"`
}

// ResultDeletionEcho points the client back at the filtered class view
// a deleted result row came from.
type ResultDeletionEcho struct {
	ID      uint  `json:"id"`
	ExamID  uint  `json:"exam_id"`
	ClassID *uint `json:"class_id,omitempty"`
}

// ResultResponse is the serialized result row.
type ResultResponse struct {
	ID            uint    `json:"id"`
	ExamID        uint    `json:"exam_id"`
	StudentID     uint    `json:"student_id"`
	StudentName   string  `json:"student_name,omitempty"`
	SubjectID     uint    `json:"subject_id"`
	SubjectName   string  `json:"subject_name,omitempty"`
	MarksObtained float64 `json:"marks_obtained"`
	MaxMarks      float64 `json:"max_marks"`
	Remarks       string  `json:"remarks"`
}

// NewResultResponse converts a model into a DTO.
func NewResultResponse(model models.Result) ResultResponse {
	return ResultResponse{
		ID:            model.ID,
		ExamID:        model.ExamID,
		StudentID:     model.StudentID,
		StudentName:   model.Student.User.FullName(),
		SubjectID:     model.SubjectID,
		SubjectName:   model.Subject.Name,
		MarksObtained: model.MarksObtained,
		MaxMarks:      model.MaxMarks,
		Remarks:       model.Remarks,
	}
}

// NewResultResponseSlice converts a slice of models into DTOs.
func NewResultResponseSlice(results []models.Result) []ResultResponse {
	responses := make([]ResultResponse, 0, len(results))
	for _, result := range results {
		responses = append(responses, NewResultResponse(result))
	}
	return responses
}

// ExamResultsGroup is one exam's block within the student results view.
type ExamResultsGroup struct {
	ExamID    uint             `json:"exam_id"`
	ExamName  string           `json:"exam_name"`
	StartDate string           `json:"start_date"`
	Results   []ResultResponse `json:"results"`
}
