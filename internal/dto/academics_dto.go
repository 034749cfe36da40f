package dto

import "github.com/edumate/sims-api/internal/models"

// AcademicYearRequest describes the payload for creating or updating an
// academic year.
type AcademicYearRequest struct {
	Name      string `json:"name" validate:"required,max=100"`
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
	IsActive  bool   `json:"is_active"`
}

// AcademicYearResponse is the serialized academic year.
type AcademicYearResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	IsActive  bool   `json:"is_active"`
}

// NewAcademicYearResponse converts a model into a DTO.
func NewAcademicYearResponse(model models.AcademicYear) AcademicYearResponse {
	return AcademicYearResponse{
		ID:        model.ID,
		Name:      model.Name,
		StartDate: FormatDate(model.StartDate),
		EndDate:   FormatDate(model.EndDate),
		IsActive:  model.IsActive,
	}
}

// NewAcademicYearResponseSlice converts a slice of models into DTOs.
func NewAcademicYearResponseSlice(years []models.AcademicYear) []AcademicYearResponse {
	responses := make([]AcademicYearResponse, 0, len(years))
	for _, year := range years {
		responses = append(responses, NewAcademicYearResponse(year))
	}
	return responses
}

// ClassRequest describes the payload for creating or updating a class.
type ClassRequest struct {
	Name         string `json:"name" validate:"required,max=50"`
	NumericValue int    `json:"numeric_value" validate:"required"`
}

// ClassResponse is the serialized class.
type ClassResponse struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	NumericValue int    `json:"numeric_value"`
}

// ClassDetailResponse expands a class with its sections, subjects and
// teacher assignments.
type ClassDetailResponse struct {
	ClassResponse
	Sections    []SectionResponse           `json:"sections"`
	Subjects    []SubjectResponse           `json:"subjects"`
	Assignments []TeacherAssignmentResponse `json:"assignments"`
}

// NewClassResponse converts a model into a DTO.
func NewClassResponse(model models.Class) ClassResponse {
	return ClassResponse{
		ID:           model.ID,
		Name:         model.Name,
		NumericValue: model.NumericValue,
	}
}

// NewClassResponseSlice converts a slice of models into DTOs.
func NewClassResponseSlice(classes []models.Class) []ClassResponse {
	responses := make([]ClassResponse, 0, len(classes))
	for _, class := range classes {
		responses = append(responses, NewClassResponse(class))
	}
	return responses
}

// SectionRequest describes the payload for creating a section.
type SectionRequest struct {
	Name           string `json:"name" validate:"required,max=10"`
	ClassID        uint   `json:"class_id" validate:"required"`
	ClassTeacherID *uint  `json:"class_teacher_id"`
}

// SectionResponse is the serialized section.
type SectionResponse struct {
	ID             uint   `json:"id"`
	Name           string `json:"name"`
	ClassID        uint   `json:"class_id"`
	ClassTeacherID *uint  `json:"class_teacher_id"`
	Label          string `json:"label"`
}

// NewSectionResponse converts a model into a DTO.
func NewSectionResponse(model models.Section) SectionResponse {
	return SectionResponse{
		ID:             model.ID,
		Name:           model.Name,
		ClassID:        model.ClassID,
		ClassTeacherID: model.ClassTeacherID,
		Label:          model.Label(),
	}
}

// NewSectionResponseSlice converts a slice of models into DTOs.
func NewSectionResponseSlice(sections []models.Section) []SectionResponse {
	responses := make([]SectionResponse, 0, len(sections))
	for _, section := range sections {
		responses = append(responses, NewSectionResponse(section))
	}
	return responses
}

// SubjectRequest describes the payload for creating or updating a subject.
type SubjectRequest struct {
	Name       string `json:"name" validate:"required,max=100"`
	Code       string `json:"code" validate:"required,max=20"`
	IsElective bool   `json:"is_elective"`
	ClassIDs   []uint `json:"class_ids"`
}

// SubjectResponse is the serialized subject.
type SubjectResponse struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	Code       string `json:"code"`
	IsElective bool   `json:"is_elective"`
	ClassIDs   []uint `json:"class_ids,omitempty"`
}

// NewSubjectResponse converts a model into a DTO.
func NewSubjectResponse(model models.Subject) SubjectResponse {
	classIDs := make([]uint, 0, len(model.Classes))
	for _, class := range model.Classes {
		classIDs = append(classIDs, class.ID)
	}

	return SubjectResponse{
		ID:         model.ID,
		Name:       model.Name,
		Code:       model.Code,
		IsElective: model.IsElective,
		ClassIDs:   classIDs,
	}
}

// NewSubjectResponseSlice converts a slice of models into DTOs.
func NewSubjectResponseSlice(subjects []models.Subject) []SubjectResponse {
	responses := make([]SubjectResponse, 0, len(subjects))
	for _, subject := range subjects {
		responses = append(responses, NewSubjectResponse(subject))
	}
	return responses
}

// TeacherAssignmentRequest describes the payload for assigning a teacher.
type TeacherAssignmentRequest struct {
	TeacherID      uint `json:"teacher_id" validate:"required"`
	SubjectID      uint `json:"subject_id" validate:"required"`
	SectionID      uint `json:"section_id" validate:"required"`
	AcademicYearID uint `json:"academic_year_id" validate:"required"`
}

// TeacherAssignmentResponse is the serialized teacher assignment.
type TeacherAssignmentResponse struct {
	ID             uint   `json:"id"`
	TeacherID      uint   `json:"teacher_id"`
	TeacherName    string `json:"teacher_name,omitempty"`
	SubjectID      uint   `json:"subject_id"`
	SubjectName    string `json:"subject_name,omitempty"`
	SectionID      uint   `json:"section_id"`
	SectionLabel   string `json:"section_label,omitempty"`
	AcademicYearID uint   `json:"academic_year_id"`
}

// NewTeacherAssignmentResponse converts a model into a DTO.
func NewTeacherAssignmentResponse(model models.TeacherSubjectAssignment) TeacherAssignmentResponse {
	return TeacherAssignmentResponse{
		ID:             model.ID,
		TeacherID:      model.TeacherID,
		TeacherName:    model.Teacher.FullName(),
		SubjectID:      model.SubjectID,
		SubjectName:    model.Subject.Name,
		SectionID:      model.SectionID,
		SectionLabel:   model.Section.Label(),
		AcademicYearID: model.AcademicYearID,
	}
}

// NewTeacherAssignmentResponseSlice converts a slice of models into DTOs.
func NewTeacherAssignmentResponseSlice(assignments []models.TeacherSubjectAssignment) []TeacherAssignmentResponse {
	responses := make([]TeacherAssignmentResponse, 0, len(assignments))
	for _, assignment := range assignments {
		responses = append(responses, NewTeacherAssignmentResponse(assignment))
	}
	return responses
}

// LookupItem is the `{id, name}` shape returned by the cascading
// dropdown lookup endpoints.
type LookupItem struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}
