package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/edumate/sims-api/internal/models"
)

// LeaveRepository provides access to leave applications.
type LeaveRepository interface {
	Create(ctx context.Context, leave *models.LeaveApplication) error
	GetByID(ctx context.Context, id uint) (models.LeaveApplication, error)
	ListAll(ctx context.Context) ([]models.LeaveApplication, error)
	ListByUser(ctx context.Context, userID uint) ([]models.LeaveApplication, error)
	Update(ctx context.Context, leave *models.LeaveApplication) error
	CountPending(ctx context.Context) (int64, error)
}

type leaveRepository struct {
	db *gorm.DB
}

// NewLeaveRepository instantiates a GORM-backed repository.
func NewLeaveRepository(db *gorm.DB) LeaveRepository {
	return &leaveRepository{db: db}
}

func (r *leaveRepository) Create(ctx context.Context, leave *models.LeaveApplication) error {
	return r.db.WithContext(ctx).Create(leave).Error
}

func (r *leaveRepository) GetByID(ctx context.Context, id uint) (models.LeaveApplication, error) {
	var leave models.LeaveApplication
	if err := r.db.WithContext(ctx).Preload("User").First(&leave, id).Error; err != nil {
		return models.LeaveApplication{}, err
	}

	return leave, nil
}

func (r *leaveRepository) ListAll(ctx context.Context) ([]models.LeaveApplication, error) {
	var leaves []models.LeaveApplication
	if err := r.db.WithContext(ctx).Preload("User").Order("created_at DESC").Find(&leaves).Error; err != nil {
		return nil, err
	}

	return leaves, nil
}

func (r *leaveRepository) ListByUser(ctx context.Context, userID uint) ([]models.LeaveApplication, error) {
	var leaves []models.LeaveApplication
	err := r.db.WithContext(ctx).Preload("User").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&leaves).Error
	if err != nil {
		return nil, err
	}

	return leaves, nil
}

func (r *leaveRepository) Update(ctx context.Context, leave *models.LeaveApplication) error {
	return r.db.WithContext(ctx).Omit("User").Save(leave).Error
}

func (r *leaveRepository) CountPending(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.LeaveApplication{}).
		Where("status = ?", models.LeavePending).
		Count(&total).Error
	return total, err
}
