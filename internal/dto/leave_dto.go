package dto

import (
	"time"

	"github.com/edumate/sims-api/internal/models"
)

// LeaveApplyRequest describes the payload for submitting a leave request.
type LeaveApplyRequest struct {
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
	Reason    string `json:"reason" validate:"required"`
}

// LeaveDecisionRequest carries the approve/reject action.
type LeaveDecisionRequest struct {
	Action string `json:"action" validate:"required,oneof=approve reject"`
}

// LeaveResponse is the serialized leave application.
type LeaveResponse struct {
	ID            uint      `json:"id"`
	UserID        uint      `json:"user_id"`
	ApplicantName string    `json:"applicant_name"`
	StartDate     string    `json:"start_date"`
	EndDate       string    `json:"end_date"`
	Reason        string    `json:"reason"`
	Status        string    `json:"status"`
	ApprovedByID  *uint     `json:"approved_by_id"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewLeaveResponse converts a model into a DTO.
func NewLeaveResponse(model models.LeaveApplication) LeaveResponse {
	return LeaveResponse{
		ID:            model.ID,
		UserID:        model.UserID,
		ApplicantName: model.User.FullName(),
		StartDate:     FormatDate(model.StartDate),
		EndDate:       FormatDate(model.EndDate),
		Reason:        model.Reason,
		Status:        string(model.Status),
		ApprovedByID:  model.ApprovedByID,
		CreatedAt:     model.CreatedAt,
	}
}

// NewLeaveResponseSlice converts a slice of models into DTOs.
func NewLeaveResponseSlice(leaves []models.LeaveApplication) []LeaveResponse {
	responses := make([]LeaveResponse, 0, len(leaves))
	for _, leave := range leaves {
		responses = append(responses, NewLeaveResponse(leave))
	}
	return responses
}
