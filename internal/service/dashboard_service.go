package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/IFRN-SPP/presente/internal/dto"
	"github.com/IFRN-SPP/presente/internal/repository"
)

const recentAttendanceLimit = 5

// DashboardService produces the signed-in user's aggregated overview.
type DashboardService interface {
	GetDashboard(ctx context.Context, userID uint, superuser bool) (dto.DashboardResponse, error)
}

type dashboardService struct {
	activities  repository.ActivityRepository
	attendances repository.AttendanceRepository
	cache       *redis.Client
	cacheTTL    time.Duration
	logger      zerolog.Logger
}

// NewDashboardService builds the dashboard aggregator. cache may be nil,
// in which case every request hits the database.
func NewDashboardService(activities repository.ActivityRepository, attendances repository.AttendanceRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) DashboardService {
	return &dashboardService{
		activities:  activities,
		attendances: attendances,
		cache:       cache,
		cacheTTL:    ttl,
		logger:      logger.With().Str("component", "dashboard_service").Logger(),
	}
}

func (s *dashboardService) GetDashboard(ctx context.Context, userID uint, superuser bool) (dto.DashboardResponse, error) {
	cacheKey := fmt.Sprintf("dashboard:user:%d", userID)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var response dto.DashboardResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				s.logger.Debug().Uint("user_id", userID).Msg("dashboard cache hit")
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read dashboard cache")
		}
	}

	var (
		activityCount int64
		err           error
	)
	if superuser {
		activityCount, err = s.activities.Count(ctx)
	} else {
		activityCount, err = s.activities.CountByOwner(ctx, userID)
	}
	if err != nil {
		return dto.DashboardResponse{}, err
	}

	attendanceCount, err := s.attendances.CountByUser(ctx, userID)
	if err != nil {
		return dto.DashboardResponse{}, err
	}

	recent, err := s.attendances.RecentByUser(ctx, userID, recentAttendanceLimit)
	if err != nil {
		return dto.DashboardResponse{}, err
	}

	recentResponses := make([]dto.AttendanceResponse, 0, len(recent))
	for _, attendance := range recent {
		recentResponses = append(recentResponses, dto.NewAttendanceResponse(attendance, ""))
	}

	response := dto.DashboardResponse{
		ActivityCount:     activityCount,
		AttendanceCount:   attendanceCount,
		RecentAttendances: recentResponses,
	}

	if s.cache != nil {
		payload, err := json.Marshal(response)
		if err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store dashboard cache")
			}
		}
	}

	return response, nil
}
