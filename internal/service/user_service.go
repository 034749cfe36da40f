package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/edumate/sims-api/internal/auth"
	"github.com/edumate/sims-api/internal/dto"
	"github.com/edumate/sims-api/internal/models"
	"github.com/edumate/sims-api/internal/repository"
)

// User management errors returned to the handler layer.
var (
	ErrUserNotFound   = errors.New("user not found")
	ErrUsernameTaken  = errors.New("username already taken")
	ErrUnknownRole    = errors.New("unknown role")
	ErrSelfDeletion   = errors.New("cannot delete own account")
	ErrProfileMissing = errors.New("no student profile for this account")
)

// Placeholder values stamped onto an auto-provisioned student profile
// until an admin completes the record.
const (
	placeholderGender  = models.GenderOther
	placeholderAddress = "Not Provided"
)

// UserService exposes account management and self-service profile use cases.
type UserService interface {
	List(ctx context.Context, role, search string, page int) ([]dto.UserResponse, dto.PaginationMeta, error)
	Get(ctx context.Context, id uint) (dto.UserResponse, error)
	Create(ctx context.Context, payload dto.UserCreateRequest) (dto.UserResponse, error)
	Update(ctx context.Context, id uint, payload dto.UserUpdateRequest) (dto.UserResponse, error)
	Delete(ctx context.Context, id, actorID uint) error
	GetProfile(ctx context.Context, userID uint) (dto.UserResponse, *dto.StudentResponse, error)
	UpdateProfile(ctx context.Context, userID uint, payload dto.ProfileUpdateRequest) (dto.UserResponse, error)
}

type userService struct {
	users     repository.UserRepository
	students  repository.StudentRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewUserService constructs the user management service.
func NewUserService(users repository.UserRepository, students repository.StudentRepository, validate *validator.Validate, logger zerolog.Logger) UserService {
	return &userService{
		users:     users,
		students:  students,
		validator: validate,
		logger:    logger.With().Str("component", "user_service").Logger(),
	}
}

func (s *userService) List(ctx context.Context, role, search string, page int) ([]dto.UserResponse, dto.PaginationMeta, error) {
	filter := repository.UserFilter{
		Role:     strings.ToUpper(strings.TrimSpace(role)),
		Search:   strings.TrimSpace(search),
		Page:     normalizePage(page),
		PageSize: defaultUserPageSize,
	}

	users, total, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, dto.PaginationMeta{}, err
	}

	meta := dto.NewPaginationMeta(filter.Page, filter.PageSize, total)
	return dto.NewUserResponseSlice(users), meta, nil
}

func (s *userService) Get(ctx context.Context, id uint) (dto.UserResponse, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserResponse{}, ErrUserNotFound
		}
		return dto.UserResponse{}, err
	}

	return dto.NewUserResponse(user), nil
}

func (s *userService) Create(ctx context.Context, payload dto.UserCreateRequest) (dto.UserResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.UserResponse{}, err
	}

	role := models.Role(strings.ToUpper(strings.TrimSpace(payload.Role)))
	if !role.Valid() {
		return dto.UserResponse{}, ErrUnknownRole
	}

	username := strings.TrimSpace(payload.Username)
	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return dto.UserResponse{}, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.UserResponse{}, err
	}

	hash, err := auth.HashPassword(payload.Password)
	if err != nil {
		return dto.UserResponse{}, err
	}

	user := models.User{
		Username:     username,
		Email:        strings.TrimSpace(payload.Email),
		FirstName:    strings.TrimSpace(payload.FirstName),
		LastName:     strings.TrimSpace(payload.LastName),
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}
	if payload.IsActive != nil {
		user.IsActive = *payload.IsActive
	}

	if err := s.users.Create(ctx, &user); err != nil {
		return dto.UserResponse{}, err
	}

	if role == models.RoleStudent {
		if err := s.provisionStudent(ctx, user); err != nil {
			s.logger.Error().Err(err).Uint("user_id", user.ID).Msg("failed to provision student profile")
			return dto.UserResponse{}, err
		}
	}

	s.logger.Info().Uint("user_id", user.ID).Str("role", string(role)).Msg("user created")
	return dto.NewUserResponse(user), nil
}

// provisionStudent attaches an empty student profile to a new student
// account so the record exists before an admin fills it in. Defaults
// are placeholders, the admission number mirrors the username.
func (s *userService) provisionStudent(ctx context.Context, user models.User) error {
	today := datatypes.Date(time.Now())
	_, err := s.students.EnsureProfile(ctx, &models.Student{
		UserID:          user.ID,
		AdmissionNumber: user.Username,
		AdmissionDate:   today,
		DateOfBirth:     today,
		Gender:          placeholderGender,
		Address:         placeholderAddress,
	})
	return err
}

func (s *userService) Update(ctx context.Context, id uint, payload dto.UserUpdateRequest) (dto.UserResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.UserResponse{}, err
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserResponse{}, ErrUserNotFound
		}
		return dto.UserResponse{}, err
	}

	wasStudent := user.Role == models.RoleStudent

	if payload.Email != nil {
		user.Email = strings.TrimSpace(*payload.Email)
	}
	if payload.FirstName != nil {
		user.FirstName = strings.TrimSpace(*payload.FirstName)
	}
	if payload.LastName != nil {
		user.LastName = strings.TrimSpace(*payload.LastName)
	}
	if payload.Password != nil {
		hash, err := auth.HashPassword(*payload.Password)
		if err != nil {
			return dto.UserResponse{}, err
		}
		user.PasswordHash = hash
	}
	if payload.Role != nil {
		role := models.Role(strings.ToUpper(strings.TrimSpace(*payload.Role)))
		if !role.Valid() {
			return dto.UserResponse{}, ErrUnknownRole
		}
		user.Role = role
	}
	if payload.IsActive != nil {
		user.IsActive = *payload.IsActive
	}

	if err := s.users.Update(ctx, &user); err != nil {
		return dto.UserResponse{}, err
	}

	if !wasStudent && user.Role == models.RoleStudent {
		if err := s.provisionStudent(ctx, user); err != nil {
			return dto.UserResponse{}, err
		}
	}

	return dto.NewUserResponse(user), nil
}

func (s *userService) Delete(ctx context.Context, id, actorID uint) error {
	if id == actorID {
		return ErrSelfDeletion
	}

	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	s.logger.Info().Uint("user_id", id).Uint("actor_id", actorID).Msg("user deleted")
	return nil
}

func (s *userService) GetProfile(ctx context.Context, userID uint) (dto.UserResponse, *dto.StudentResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserResponse{}, nil, ErrUserNotFound
		}
		return dto.UserResponse{}, nil, err
	}

	var studentResp *dto.StudentResponse
	if user.Role == models.RoleStudent {
		student, err := s.students.GetByUserID(ctx, userID)
		switch {
		case err == nil:
			student.User = user
			resp := dto.NewStudentResponse(student)
			studentResp = &resp
		case errors.Is(err, gorm.ErrRecordNotFound):
			// tolerated: profile may not be provisioned yet
		default:
			return dto.UserResponse{}, nil, err
		}
	}

	return dto.NewUserResponse(user), studentResp, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID uint, payload dto.ProfileUpdateRequest) (dto.UserResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.UserResponse{}, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserResponse{}, ErrUserNotFound
		}
		return dto.UserResponse{}, err
	}

	if payload.Email != nil {
		user.Email = strings.TrimSpace(*payload.Email)
	}
	if payload.FirstName != nil {
		user.FirstName = strings.TrimSpace(*payload.FirstName)
	}
	if payload.LastName != nil {
		user.LastName = strings.TrimSpace(*payload.LastName)
	}

	if err := s.users.Update(ctx, &user); err != nil {
		return dto.UserResponse{}, err
	}

	if payload.CurrentClassID != nil {
		if user.Role != models.RoleStudent {
			return dto.UserResponse{}, ErrProfileMissing
		}
		student, err := s.students.GetByUserID(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.UserResponse{}, ErrProfileMissing
			}
			return dto.UserResponse{}, err
		}
		student.CurrentClassID = payload.CurrentClassID
		if err := s.students.Update(ctx, &student); err != nil {
			return dto.UserResponse{}, err
		}
	}

	return dto.NewUserResponse(user), nil
}
