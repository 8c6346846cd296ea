package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/IFRN-SPP/presente/internal/dto"
	"github.com/IFRN-SPP/presente/internal/ipacl"
	"github.com/IFRN-SPP/presente/internal/models"
	"github.com/IFRN-SPP/presente/internal/repository"
)

// ErrAttendanceNotFound indicates the requested attendance does not exist.
var ErrAttendanceNotFound = errors.New("attendance not found")

// AttendanceService exposes attendance listing and removal use cases.
type AttendanceService interface {
	ListForActivity(ctx context.Context, activityID, userID uint, superuser bool) ([]dto.AttendanceResponse, error)
	ListMine(ctx context.Context, userID uint) ([]dto.AttendanceResponse, error)
	Delete(ctx context.Context, activityID, attendanceID, userID uint, superuser bool) error
}

type attendanceService struct {
	attendances repository.AttendanceRepository
	activities  repository.ActivityRepository
	networks    repository.NetworkRepository
	auditLogs   repository.AuditLogRepository
	matcher     ipacl.Matcher
	logger      zerolog.Logger
}

// NewAttendanceService constructs an AttendanceService instance.
func NewAttendanceService(attendances repository.AttendanceRepository, activities repository.ActivityRepository, networks repository.NetworkRepository, auditLogs repository.AuditLogRepository, matcher ipacl.Matcher, logger zerolog.Logger) AttendanceService {
	return &attendanceService{
		attendances: attendances,
		activities:  activities,
		networks:    networks,
		auditLogs:   auditLogs,
		matcher:     matcher,
		logger:      logger.With().Str("component", "attendance_service").Logger(),
	}
}

// ListForActivity returns the attendance sheet for one activity, visible
// only to its owners and superusers. Each row's origin is resolved to a
// network display name when the registered address matches one.
func (s *attendanceService) ListForActivity(ctx context.Context, activityID, userID uint, superuser bool) ([]dto.AttendanceResponse, error) {
	if err := s.requireOwner(ctx, activityID, userID, superuser); err != nil {
		return nil, err
	}

	attendances, err := s.attendances.ListByActivity(ctx, activityID)
	if err != nil {
		return nil, err
	}

	networks, err := s.networks.ActiveByActivity(ctx, activityID)
	if err != nil {
		return nil, err
	}

	allowLists := make([]ipacl.Network, 0, len(networks))
	for _, network := range networks {
		allowLists = append(allowLists, ipacl.Network{Name: network.Name, Addresses: network.IPAddresses})
	}

	responses := make([]dto.AttendanceResponse, 0, len(attendances))
	for _, attendance := range attendances {
		origin := ""
		if attendance.IPAddress != "" {
			origin = s.matcher.NetworkName(attendance.IPAddress, allowLists)
		}
		responses = append(responses, dto.NewAttendanceResponse(attendance, origin))
	}

	return responses, nil
}

func (s *attendanceService) ListMine(ctx context.Context, userID uint) ([]dto.AttendanceResponse, error) {
	attendances, err := s.attendances.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.AttendanceResponse, 0, len(attendances))
	for _, attendance := range attendances {
		responses = append(responses, dto.NewAttendanceResponse(attendance, ""))
	}

	return responses, nil
}

func (s *attendanceService) Delete(ctx context.Context, activityID, attendanceID, userID uint, superuser bool) error {
	if err := s.requireOwner(ctx, activityID, userID, superuser); err != nil {
		return err
	}

	if err := s.attendances.Delete(ctx, activityID, attendanceID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAttendanceNotFound
		}
		return err
	}

	entry := models.AuditLog{
		ActorID:    userID,
		Action:     "attendance.delete",
		EntityType: "attendance",
		EntityID:   &attendanceID,
		Metadata:   datatypes.JSONMap{"activity_id": activityID},
	}
	if err := s.auditLogs.Create(ctx, &entry); err != nil {
		s.logger.Warn().Err(err).Msg("failed to write audit log entry")
	}

	s.logger.Info().Uint("activity_id", activityID).Uint("attendance_id", attendanceID).Msg("attendance deleted")

	return nil
}

func (s *attendanceService) requireOwner(ctx context.Context, activityID, userID uint, superuser bool) error {
	if _, err := s.activities.GetByID(ctx, activityID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrActivityNotFound
		}
		return err
	}

	if superuser {
		return nil
	}

	owner, err := s.activities.IsOwner(ctx, activityID, userID)
	if err != nil {
		return err
	}
	if !owner {
		return ErrActivityNotFound
	}

	return nil
}
