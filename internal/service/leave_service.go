package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/edumate/sims-api/internal/dto"
	"github.com/edumate/sims-api/internal/models"
	"github.com/edumate/sims-api/internal/repository"
)

// Leave workflow errors returned to the handler layer.
var (
	ErrLeaveNotFound = errors.New("leave application not found")
	ErrLeaveDecided  = errors.New("leave application already decided")
	ErrEmptyReason   = errors.New("leave reason empty after sanitization")
)

// NATS subjects for leave lifecycle events.
const (
	subjectLeaveApplied = "sims.leaves.applied"
	subjectLeaveDecided = "sims.leaves.decided"
)

// LeaveService runs the leave application workflow. Applications start
// PENDING; approval and rejection are terminal.
type LeaveService interface {
	Apply(ctx context.Context, userID uint, payload dto.LeaveApplyRequest) (dto.LeaveResponse, error)
	ListMine(ctx context.Context, userID uint) ([]dto.LeaveResponse, error)
	ListAll(ctx context.Context) ([]dto.LeaveResponse, error)
	Decide(ctx context.Context, id uint, payload dto.LeaveDecisionRequest, decidedBy uint) (dto.LeaveResponse, error)
}

type leaveEvent struct {
	LeaveID   uint   `json:"leave_id"`
	UserID    uint   `json:"user_id"`
	Status    string `json:"status"`
	DecidedBy *uint  `json:"decided_by,omitempty"`
	SentAt    string `json:"sent_at"`
}

type leaveService struct {
	leaves    repository.LeaveRepository
	validator *validator.Validate
	nats      *nats.Conn
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

// NewLeaveService constructs the leave workflow service. The NATS
// connection may be nil; events are then skipped.
func NewLeaveService(leaves repository.LeaveRepository, validate *validator.Validate, natsConn *nats.Conn, logger zerolog.Logger) LeaveService {
	return &leaveService{
		leaves:    leaves,
		validator: validate,
		nats:      natsConn,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "leave_service").Logger(),
	}
}

func (s *leaveService) Apply(ctx context.Context, userID uint, payload dto.LeaveApplyRequest) (dto.LeaveResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.LeaveResponse{}, err
	}

	startDate, err := dto.ParseDate(payload.StartDate)
	if err != nil {
		return dto.LeaveResponse{}, err
	}
	endDate, err := dto.ParseDate(payload.EndDate)
	if err != nil {
		return dto.LeaveResponse{}, err
	}
	if time.Time(endDate).Before(time.Time(startDate)) {
		return dto.LeaveResponse{}, ErrInvalidDateRange
	}

	reason := strings.TrimSpace(s.sanitizer.Sanitize(payload.Reason))
	if reason == "" {
		return dto.LeaveResponse{}, ErrEmptyReason
	}

	leave := models.LeaveApplication{
		UserID:    userID,
		StartDate: startDate,
		EndDate:   endDate,
		Reason:    reason,
		Status:    models.LeavePending,
	}
	if err := s.leaves.Create(ctx, &leave); err != nil {
		return dto.LeaveResponse{}, err
	}

	created, err := s.leaves.GetByID(ctx, leave.ID)
	if err != nil {
		return dto.LeaveResponse{}, err
	}

	s.publish(subjectLeaveApplied, leaveEvent{
		LeaveID: created.ID,
		UserID:  created.UserID,
		Status:  string(created.Status),
		SentAt:  time.Now().UTC().Format(time.RFC3339),
	})

	return dto.NewLeaveResponse(created), nil
}

func (s *leaveService) ListMine(ctx context.Context, userID uint) ([]dto.LeaveResponse, error) {
	leaves, err := s.leaves.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return dto.NewLeaveResponseSlice(leaves), nil
}

func (s *leaveService) ListAll(ctx context.Context) ([]dto.LeaveResponse, error) {
	leaves, err := s.leaves.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return dto.NewLeaveResponseSlice(leaves), nil
}

// Decide approves or rejects a pending application. A decided
// application never changes again, whoever asks.
func (s *leaveService) Decide(ctx context.Context, id uint, payload dto.LeaveDecisionRequest, decidedBy uint) (dto.LeaveResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.LeaveResponse{}, err
	}

	leave, err := s.leaves.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.LeaveResponse{}, ErrLeaveNotFound
		}
		return dto.LeaveResponse{}, err
	}
	if leave.Status != models.LeavePending {
		return dto.LeaveResponse{}, ErrLeaveDecided
	}

	if payload.Action == "approve" {
		leave.Status = models.LeaveApproved
	} else {
		leave.Status = models.LeaveRejected
	}
	decider := decidedBy
	leave.ApprovedByID = &decider

	if err := s.leaves.Update(ctx, &leave); err != nil {
		return dto.LeaveResponse{}, err
	}

	s.logger.Info().
		Uint("leave_id", leave.ID).
		Str("status", string(leave.Status)).
		Uint("decided_by", decidedBy).
		Msg("leave application decided")

	s.publish(subjectLeaveDecided, leaveEvent{
		LeaveID:   leave.ID,
		UserID:    leave.UserID,
		Status:    string(leave.Status),
		DecidedBy: &decider,
		SentAt:    time.Now().UTC().Format(time.RFC3339),
	})

	return dto.NewLeaveResponse(leave), nil
}

func (s *leaveService) publish(subject string, event leaveEvent) {
	if s.nats == nil {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return
	}
	if err := s.nats.Publish(subject, payload); err != nil {
		s.logger.Warn().Err(err).Str("subject", subject).Msg("failed to publish leave event")
	}
}
