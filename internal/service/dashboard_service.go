package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/edumate/sims-api/internal/dto"
	"github.com/edumate/sims-api/internal/models"
	"github.com/edumate/sims-api/internal/repository"
)

const (
	staffDashboardCacheKey = "dashboard:staff:v1"
	adminDashboardCacheKey = "dashboard:admin:v1"
	recentUserLimit        = 5
)

// DashboardService aggregates the counters shown on landing screens.
// Counters are cached briefly; slightly stale numbers are acceptable.
type DashboardService interface {
	StaffDashboard(ctx context.Context) (dto.DashboardResponse, error)
	AdminDashboard(ctx context.Context) (dto.AdminDashboardResponse, error)
}

type dashboardService struct {
	attendance repository.AttendanceRepository
	leaves     repository.LeaveRepository
	users      repository.UserRepository
	students   repository.StudentRepository
	classes    repository.ClassRepository
	subjects   repository.SubjectRepository
	cache      *redis.Client
	ttl        time.Duration
	logger     zerolog.Logger
}

// NewDashboardService constructs the dashboard service. The cache may
// be nil; every request then hits the database.
func NewDashboardService(
	attendance repository.AttendanceRepository,
	leaves repository.LeaveRepository,
	users repository.UserRepository,
	students repository.StudentRepository,
	classes repository.ClassRepository,
	subjects repository.SubjectRepository,
	cache *redis.Client,
	ttl time.Duration,
	logger zerolog.Logger,
) DashboardService {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &dashboardService{
		attendance: attendance,
		leaves:     leaves,
		users:      users,
		students:   students,
		classes:    classes,
		subjects:   subjects,
		cache:      cache,
		ttl:        ttl,
		logger:     logger.With().Str("component", "dashboard_service").Logger(),
	}
}

func (s *dashboardService) StaffDashboard(ctx context.Context) (dto.DashboardResponse, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, staffDashboardCacheKey).Result(); err == nil && cached != "" {
			var response dto.DashboardResponse
			if err := json.Unmarshal([]byte(cached), &response); err == nil {
				return response, nil
			}
		}
	}

	today := datatypes.Date(time.Now())
	marked, err := s.attendance.CountForDate(ctx, today)
	if err != nil {
		return dto.DashboardResponse{}, err
	}
	pending, err := s.leaves.CountPending(ctx)
	if err != nil {
		return dto.DashboardResponse{}, err
	}

	response := dto.DashboardResponse{
		TodayAttendance: marked,
		PendingLeaves:   pending,
	}
	s.store(ctx, staffDashboardCacheKey, response)
	return response, nil
}

func (s *dashboardService) AdminDashboard(ctx context.Context) (dto.AdminDashboardResponse, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, adminDashboardCacheKey).Result(); err == nil && cached != "" {
			var response dto.AdminDashboardResponse
			if err := json.Unmarshal([]byte(cached), &response); err == nil {
				return response, nil
			}
		}
	}

	totalUsers, err := s.users.CountAll(ctx)
	if err != nil {
		return dto.AdminDashboardResponse{}, err
	}
	totalStudents, err := s.students.Count(ctx)
	if err != nil {
		return dto.AdminDashboardResponse{}, err
	}
	totalTeachers, err := s.users.CountByRole(ctx, models.RoleTeacher)
	if err != nil {
		return dto.AdminDashboardResponse{}, err
	}
	totalClasses, err := s.classes.Count(ctx)
	if err != nil {
		return dto.AdminDashboardResponse{}, err
	}
	totalSubjects, err := s.subjects.Count(ctx)
	if err != nil {
		return dto.AdminDashboardResponse{}, err
	}
	recent, err := s.users.ListRecent(ctx, recentUserLimit)
	if err != nil {
		return dto.AdminDashboardResponse{}, err
	}

	response := dto.AdminDashboardResponse{
		TotalUsers:    totalUsers,
		TotalStudents: totalStudents,
		TotalTeachers: totalTeachers,
		TotalClasses:  totalClasses,
		TotalSubjects: totalSubjects,
		RecentUsers:   dto.NewUserResponseSlice(recent),
	}
	s.store(ctx, adminDashboardCacheKey, response)
	return response, nil
}

func (s *dashboardService) store(ctx context.Context, key string, value any) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, payload, s.ttl).Err(); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("failed to cache dashboard")
	}
}
