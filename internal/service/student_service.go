package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/edumate/sims-api/internal/auth"
	"github.com/edumate/sims-api/internal/dto"
	"github.com/edumate/sims-api/internal/models"
	"github.com/edumate/sims-api/internal/repository"
)

// Student management errors returned to the handler layer.
var (
	ErrStudentNotFound  = errors.New("student not found")
	ErrAdmissionTaken   = errors.New("admission number already in use")
	ErrGuardianNotFound = errors.New("guardian not found")
)

// defaultStudentPassword seeds accounts enrolled without an explicit
// password. Students are prompted to change it on first login.
const defaultStudentPassword = "password123"

// StudentService exposes enrollment and student record management.
type StudentService interface {
	List(ctx context.Context, search string, page int) ([]dto.StudentResponse, dto.PaginationMeta, error)
	Get(ctx context.Context, id uint) (dto.StudentResponse, error)
	GetByUser(ctx context.Context, userID uint) (dto.StudentResponse, error)
	Create(ctx context.Context, payload dto.StudentCreateRequest) (dto.StudentResponse, error)
	Update(ctx context.Context, id uint, payload dto.StudentUpdateRequest) (dto.StudentResponse, error)
	Delete(ctx context.Context, id uint) error

	AddGuardian(ctx context.Context, studentID uint, payload dto.GuardianRequest) (dto.GuardianResponse, error)
	ListGuardians(ctx context.Context, studentID uint) ([]dto.GuardianResponse, error)
	DeleteGuardian(ctx context.Context, studentID, guardianID uint) error
}

type studentService struct {
	students  repository.StudentRepository
	users     repository.UserRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewStudentService constructs the student management service.
func NewStudentService(students repository.StudentRepository, users repository.UserRepository, validate *validator.Validate, logger zerolog.Logger) StudentService {
	return &studentService{
		students:  students,
		users:     users,
		validator: validate,
		logger:    logger.With().Str("component", "student_service").Logger(),
	}
}

func (s *studentService) List(ctx context.Context, search string, page int) ([]dto.StudentResponse, dto.PaginationMeta, error) {
	filter := repository.StudentFilter{
		Search:   strings.TrimSpace(search),
		Page:     normalizePage(page),
		PageSize: defaultStudentPageSize,
	}

	students, total, err := s.students.List(ctx, filter)
	if err != nil {
		return nil, dto.PaginationMeta{}, err
	}

	meta := dto.NewPaginationMeta(filter.Page, filter.PageSize, total)
	return dto.NewStudentResponseSlice(students), meta, nil
}

func (s *studentService) Get(ctx context.Context, id uint) (dto.StudentResponse, error) {
	student, err := s.students.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentResponse{}, ErrStudentNotFound
		}
		return dto.StudentResponse{}, err
	}
	return dto.NewStudentResponse(student), nil
}

func (s *studentService) GetByUser(ctx context.Context, userID uint) (dto.StudentResponse, error) {
	student, err := s.students.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentResponse{}, ErrStudentNotFound
		}
		return dto.StudentResponse{}, err
	}
	return dto.NewStudentResponse(student), nil
}

// Create enrolls a student and opens the linked login account in one
// transaction. The username is the admission number; the password
// falls back to the shared default when the form leaves it blank.
func (s *studentService) Create(ctx context.Context, payload dto.StudentCreateRequest) (dto.StudentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.StudentResponse{}, err
	}

	admissionNumber := strings.TrimSpace(payload.AdmissionNumber)
	if _, err := s.users.GetByUsername(ctx, admissionNumber); err == nil {
		return dto.StudentResponse{}, ErrAdmissionTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.StudentResponse{}, err
	}

	password := payload.Password
	if password == "" {
		password = defaultStudentPassword
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return dto.StudentResponse{}, err
	}

	admissionDate, err := dto.ParseDate(payload.AdmissionDate)
	if err != nil {
		return dto.StudentResponse{}, err
	}
	dateOfBirth, err := dto.ParseDate(payload.DateOfBirth)
	if err != nil {
		return dto.StudentResponse{}, err
	}

	user := models.User{
		Username:     admissionNumber,
		Email:        strings.TrimSpace(payload.Email),
		FirstName:    strings.TrimSpace(payload.FirstName),
		LastName:     strings.TrimSpace(payload.LastName),
		PasswordHash: hash,
		Role:         models.RoleStudent,
		IsActive:     true,
	}
	student := models.Student{
		AdmissionNumber: admissionNumber,
		AdmissionDate:   admissionDate,
		RollNumber:      payload.RollNumber,
		DateOfBirth:     dateOfBirth,
		Gender:          payload.Gender,
		BloodGroup:      strings.TrimSpace(payload.BloodGroup),
		Address:         strings.TrimSpace(payload.Address),
		PhoneNumber:     strings.TrimSpace(payload.PhoneNumber),
		CurrentClassID:  payload.CurrentClassID,
		SectionID:       payload.SectionID,
	}

	if err := s.students.CreateWithUser(ctx, &user, &student); err != nil {
		return dto.StudentResponse{}, err
	}

	student.User = user
	s.logger.Info().Uint("student_id", student.ID).Str("admission_number", admissionNumber).Msg("student enrolled")
	return dto.NewStudentResponse(student), nil
}

func (s *studentService) Update(ctx context.Context, id uint, payload dto.StudentUpdateRequest) (dto.StudentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.StudentResponse{}, err
	}

	student, err := s.students.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentResponse{}, ErrStudentNotFound
		}
		return dto.StudentResponse{}, err
	}

	if payload.FirstName != nil {
		student.User.FirstName = strings.TrimSpace(*payload.FirstName)
	}
	if payload.LastName != nil {
		student.User.LastName = strings.TrimSpace(*payload.LastName)
	}
	if payload.Email != nil {
		student.User.Email = strings.TrimSpace(*payload.Email)
	}
	if payload.AdmissionDate != nil {
		date, err := dto.ParseDate(*payload.AdmissionDate)
		if err != nil {
			return dto.StudentResponse{}, err
		}
		student.AdmissionDate = date
	}
	if payload.RollNumber != nil {
		student.RollNumber = payload.RollNumber
	}
	if payload.DateOfBirth != nil {
		date, err := dto.ParseDate(*payload.DateOfBirth)
		if err != nil {
			return dto.StudentResponse{}, err
		}
		student.DateOfBirth = date
	}
	if payload.Gender != nil {
		student.Gender = *payload.Gender
	}
	if payload.BloodGroup != nil {
		student.BloodGroup = strings.TrimSpace(*payload.BloodGroup)
	}
	if payload.Address != nil {
		student.Address = strings.TrimSpace(*payload.Address)
	}
	if payload.PhoneNumber != nil {
		student.PhoneNumber = strings.TrimSpace(*payload.PhoneNumber)
	}
	if payload.CurrentClassID != nil {
		student.CurrentClassID = payload.CurrentClassID
	}
	if payload.SectionID != nil {
		student.SectionID = payload.SectionID
	}

	if err := s.students.Update(ctx, &student); err != nil {
		return dto.StudentResponse{}, err
	}
	return dto.NewStudentResponse(student), nil
}

func (s *studentService) Delete(ctx context.Context, id uint) error {
	if err := s.students.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStudentNotFound
		}
		return err
	}

	s.logger.Info().Uint("student_id", id).Msg("student removed")
	return nil
}

func (s *studentService) AddGuardian(ctx context.Context, studentID uint, payload dto.GuardianRequest) (dto.GuardianResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.GuardianResponse{}, err
	}

	if _, err := s.students.GetByID(ctx, studentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.GuardianResponse{}, ErrStudentNotFound
		}
		return dto.GuardianResponse{}, err
	}

	guardian := models.StudentGuardian{
		StudentID:    studentID,
		Name:         strings.TrimSpace(payload.Name),
		Relationship: strings.TrimSpace(payload.Relationship),
		PhoneNumber:  strings.TrimSpace(payload.PhoneNumber),
		Email:        strings.TrimSpace(payload.Email),
		Occupation:   strings.TrimSpace(payload.Occupation),
	}
	if err := s.students.AddGuardian(ctx, &guardian); err != nil {
		return dto.GuardianResponse{}, err
	}
	return dto.NewGuardianResponse(guardian), nil
}

func (s *studentService) ListGuardians(ctx context.Context, studentID uint) ([]dto.GuardianResponse, error) {
	if _, err := s.students.GetByID(ctx, studentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}

	guardians, err := s.students.ListGuardians(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return dto.NewGuardianResponseSlice(guardians), nil
}

func (s *studentService) DeleteGuardian(ctx context.Context, studentID, guardianID uint) error {
	if err := s.students.DeleteGuardian(ctx, studentID, guardianID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGuardianNotFound
		}
		return err
	}
	return nil
}
