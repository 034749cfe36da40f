package dto

import (
	"time"

	"github.com/edumate/sims-api/internal/models"
)

// StudentCreateRequest describes the payload for enrolling a student.
// The linked user account is created from the same submission.
type StudentCreateRequest struct {
	AdmissionNumber string `json:"admission_number" validate:"required,max=50"`
	AdmissionDate   string `json:"admission_date" validate:"required,datetime=2006-01-02"`
	RollNumber      *int   `json:"roll_number"`
	FirstName       string `json:"first_name" validate:"required,max=150"`
	LastName        string `json:"last_name" validate:"required,max=150"`
	Email           string `json:"email" validate:"omitempty,email"`
	Password        string `json:"password"`
	DateOfBirth     string `json:"date_of_birth" validate:"required,datetime=2006-01-02"`
	Gender          string `json:"gender" validate:"required,oneof=M F O"`
	BloodGroup      string `json:"blood_group" validate:"omitempty,max=5"`
	Address         string `json:"address" validate:"required"`
	PhoneNumber     string `json:"phone_number" validate:"omitempty,max=15"`
	CurrentClassID  *uint  `json:"current_class_id"`
	SectionID       *uint  `json:"section_id"`
}

// StudentUpdateRequest describes the payload for updating a student.
// Name and email edits flow through to the linked user account.
type StudentUpdateRequest struct {
	FirstName      *string `json:"first_name" validate:"omitempty,max=150"`
	LastName       *string `json:"last_name" validate:"omitempty,max=150"`
	Email          *string `json:"email" validate:"omitempty,email"`
	AdmissionDate  *string `json:"admission_date" validate:"omitempty,datetime=2006-01-02"`
	RollNumber     *int    `json:"roll_number"`
	DateOfBirth    *string `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	Gender         *string `json:"gender" validate:"omitempty,oneof=M F O"`
	BloodGroup     *string `json:"blood_group" validate:"omitempty,max=5"`
	Address        *string `json:"address"`
	PhoneNumber    *string `json:"phone_number" validate:"omitempty,max=15"`
	CurrentClassID *uint   `json:"current_class_id"`
	SectionID      *uint   `json:"section_id"`
}

// StudentResponse is the serialized student record.
type StudentResponse struct {
	ID              uint      `json:"id"`
	UserID          uint      `json:"user_id"`
	FullName        string    `json:"full_name"`
	Email           string    `json:"email"`
	AdmissionNumber string    `json:"admission_number"`
	AdmissionDate   string    `json:"admission_date"`
	RollNumber      *int      `json:"roll_number"`
	DateOfBirth     string    `json:"date_of_birth"`
	Gender          string    `json:"gender"`
	BloodGroup      string    `json:"blood_group"`
	Address         string    `json:"address"`
	PhoneNumber     string    `json:"phone_number"`
	CurrentClassID  *uint     `json:"current_class_id"`
	SectionID       *uint     `json:"section_id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NewStudentResponse converts a model into a DTO.
func NewStudentResponse(model models.Student) StudentResponse {
	return StudentResponse{
		ID:              model.ID,
		UserID:          model.UserID,
		FullName:        model.User.FullName(),
		Email:           model.User.Email,
		AdmissionNumber: model.AdmissionNumber,
		AdmissionDate:   FormatDate(model.AdmissionDate),
		RollNumber:      model.RollNumber,
		DateOfBirth:     FormatDate(model.DateOfBirth),
		Gender:          model.Gender,
		BloodGroup:      model.BloodGroup,
		Address:         model.Address,
		PhoneNumber:     model.PhoneNumber,
		CurrentClassID:  model.CurrentClassID,
		SectionID:       model.SectionID,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}
}

// NewStudentResponseSlice converts a slice of models into DTOs.
func NewStudentResponseSlice(students []models.Student) []StudentResponse {
	responses := make([]StudentResponse, 0, len(students))
	for _, student := range students {
		responses = append(responses, NewStudentResponse(student))
	}
	return responses
}

// GuardianRequest describes the payload for adding a guardian contact.
type GuardianRequest struct {
	Name         string `json:"name" validate:"required,max=100"`
	Relationship string `json:"relationship" validate:"required,max=50"`
	PhoneNumber  string `json:"phone_number" validate:"required,max=15"`
	Email        string `json:"email" validate:"omitempty,email"`
	Occupation   string `json:"occupation" validate:"omitempty,max=100"`
}

// GuardianResponse is the serialized guardian contact.
type GuardianResponse struct {
	ID           uint   `json:"id"`
	StudentID    uint   `json:"student_id"`
	Name         string `json:"name"`
	Relationship string `json:"relationship"`
	PhoneNumber  string `json:"phone_number"`
	Email        string `json:"email"`
	Occupation   string `json:"occupation"`
}

// NewGuardianResponse converts a model into a DTO.
func NewGuardianResponse(model models.StudentGuardian) GuardianResponse {
	return GuardianResponse{
		ID:           model.ID,
		StudentID:    model.StudentID,
		Name:         model.Name,
		Relationship: model.Relationship,
		PhoneNumber:  model.PhoneNumber,
		Email:        model.Email,
		Occupation:   model.Occupation,
	}
}

// NewGuardianResponseSlice converts a slice of models into DTOs.
func NewGuardianResponseSlice(guardians []models.StudentGuardian) []GuardianResponse {
	responses := make([]GuardianResponse, 0, len(guardians))
	for _, guardian := range guardians {
		responses = append(responses, NewGuardianResponse(guardian))
	}
	return responses
}

// DocumentResponse is the serialized student document.
type DocumentResponse struct {
	ID          uint      `json:"id"`
	StudentID   uint      `json:"student_id"`
	Title       string    `json:"title"`
	FileURL     string    `json:"file_url"`
	ContentType string    `json:"content_type"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// NewDocumentResponse converts a model into a DTO.
func NewDocumentResponse(model models.StudentDocument) DocumentResponse {
	return DocumentResponse{
		ID:          model.ID,
		StudentID:   model.StudentID,
		Title:       model.Title,
		FileURL:     model.FileURL,
		ContentType: model.ContentType,
		UploadedAt:  model.UploadedAt,
	}
}

// NewDocumentResponseSlice converts a slice of models into DTOs.
func NewDocumentResponseSlice(documents []models.StudentDocument) []DocumentResponse {
	responses := make([]DocumentResponse, 0, len(documents))
	for _, document := range documents {
		responses = append(responses, NewDocumentResponse(document))
	}
	return responses
}
