package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/edumate/sims-api/internal/dto"
	"github.com/edumate/sims-api/internal/models"
	"github.com/edumate/sims-api/internal/repository"
)

func newLeaveTestService(t *testing.T) (LeaveService, *models.User) {
	t.Helper()

	db := setupTestDB(t)
	user := models.User{Username: "applicant", FirstName: "Asha", PasswordHash: "hashed", Role: models.RoleTeacher, IsActive: true}
	require.NoError(t, db.Create(&user).Error)

	svc := NewLeaveService(repository.NewLeaveRepository(db), newValidate(), nil, zerolog.Nop())
	return svc, &user
}

func TestLeaveApplyStartsPendingAndSanitizesReason(t *testing.T) {
	svc, user := newLeaveTestService(t)

	leave, err := svc.Apply(context.Background(), user.ID, dto.LeaveApplyRequest{
		StartDate: "2025-04-01",
		EndDate:   "2025-04-03",
		Reason:    "<script>alert(1)</script>Family function",
	})
	require.NoError(t, err)
	require.Equal(t, string(models.LeavePending), leave.Status)
	require.Equal(t, "Family function", leave.Reason)
	require.Equal(t, "Asha", leave.ApplicantName)
}

func TestLeaveApplyRejectsMarkupOnlyReason(t *testing.T) {
	svc, user := newLeaveTestService(t)

	_, err := svc.Apply(context.Background(), user.ID, dto.LeaveApplyRequest{
		StartDate: "2025-04-01",
		EndDate:   "2025-04-03",
		Reason:    "<b></b>",
	})
	require.ErrorIs(t, err, ErrEmptyReason)
}

func TestLeaveApplyRejectsReversedDates(t *testing.T) {
	svc, user := newLeaveTestService(t)

	_, err := svc.Apply(context.Background(), user.ID, dto.LeaveApplyRequest{
		StartDate: "2025-04-05",
		EndDate:   "2025-04-01",
		Reason:    "trip",
	})
	require.ErrorIs(t, err, ErrInvalidDateRange)
}

func TestLeaveDecisionIsTerminal(t *testing.T) {
	svc, user := newLeaveTestService(t)

	leave, err := svc.Apply(context.Background(), user.ID, dto.LeaveApplyRequest{
		StartDate: "2025-04-01",
		EndDate:   "2025-04-03",
		Reason:    "medical",
	})
	require.NoError(t, err)

	decided, err := svc.Decide(context.Background(), leave.ID, dto.LeaveDecisionRequest{Action: "approve"}, 42)
	require.NoError(t, err)
	require.Equal(t, string(models.LeaveApproved), decided.Status)
	require.NotNil(t, decided.ApprovedByID)
	require.Equal(t, uint(42), *decided.ApprovedByID)

	_, err = svc.Decide(context.Background(), leave.ID, dto.LeaveDecisionRequest{Action: "reject"}, 42)
	require.ErrorIs(t, err, ErrLeaveDecided, "a decided application never changes again")
}

func TestLeaveDecideUnknownApplication(t *testing.T) {
	svc, _ := newLeaveTestService(t)

	_, err := svc.Decide(context.Background(), 999, dto.LeaveDecisionRequest{Action: "approve"}, 42)
	require.ErrorIs(t, err, ErrLeaveNotFound)
}
