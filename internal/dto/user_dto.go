package dto

import (
	"time"

	"github.com/edumate/sims-api/internal/models"
)

// LoginRequest carries the credentials posted to the login endpoint.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest carries a refresh token to exchange for a new pair.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// LoginResponse bundles the issued tokens with the account summary.
type LoginResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int          `json:"expires_in"`
	User         UserResponse `json:"user"`
}

// UserCreateRequest describes the payload for creating a user account.
type UserCreateRequest struct {
	Username  string `json:"username" validate:"required,min=3,max=150"`
	Email     string `json:"email" validate:"omitempty,email"`
	FirstName string `json:"first_name" validate:"omitempty,max=150"`
	LastName  string `json:"last_name" validate:"omitempty,max=150"`
	Password  string `json:"password" validate:"required,min=6"`
	Role      string `json:"role" validate:"required"`
	IsActive  *bool  `json:"is_active"`
}

// UserUpdateRequest describes the payload for updating a user account.
type UserUpdateRequest struct {
	Email     *string `json:"email" validate:"omitempty,email"`
	FirstName *string `json:"first_name" validate:"omitempty,max=150"`
	LastName  *string `json:"last_name" validate:"omitempty,max=150"`
	Password  *string `json:"password" validate:"omitempty,min=6"`
	Role      *string `json:"role"`
	IsActive  *bool   `json:"is_active"`
}

// ProfileUpdateRequest is the self-service subset of the user update.
type ProfileUpdateRequest struct {
	Email          *string `json:"email" validate:"omitempty,email"`
	FirstName      *string `json:"first_name" validate:"omitempty,max=150"`
	LastName       *string `json:"last_name" validate:"omitempty,max=150"`
	CurrentClassID *uint   `json:"current_class_id"`
}

// UserResponse is the serialized representation of a user account.
type UserResponse struct {
	ID         uint      `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	FullName   string    `json:"full_name"`
	Role       string    `json:"role"`
	IsActive   bool      `json:"is_active"`
	DateJoined time.Time `json:"date_joined"`
}

// NewUserResponse converts a model into a DTO.
func NewUserResponse(model models.User) UserResponse {
	return UserResponse{
		ID:         model.ID,
		Username:   model.Username,
		Email:      model.Email,
		FirstName:  model.FirstName,
		LastName:   model.LastName,
		FullName:   model.FullName(),
		Role:       string(model.Role),
		IsActive:   model.IsActive,
		DateJoined: model.DateJoined,
	}
}

// NewUserResponseSlice converts a slice of models into DTOs.
func NewUserResponseSlice(users []models.User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, NewUserResponse(user))
	}

	return responses
}
