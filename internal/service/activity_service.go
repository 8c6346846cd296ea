package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/IFRN-SPP/presente/internal/dto"
	"github.com/IFRN-SPP/presente/internal/models"
	"github.com/IFRN-SPP/presente/internal/repository"
	"github.com/IFRN-SPP/presente/internal/token"
)

// ErrActivityNotFound indicates the requested activity does not exist or
// is not visible to the caller. Ownership failures collapse into the same
// error so non-owners cannot probe for activity ids.
var ErrActivityNotFound = errors.New("activity not found")

const defaultQRTimeout = 30

// ActivityService exposes activity domain use cases.
type ActivityService interface {
	List(ctx context.Context, userID uint, superuser bool) ([]dto.ActivityResponse, error)
	Get(ctx context.Context, id, userID uint, superuser bool) (dto.ActivityResponse, error)
	Create(ctx context.Context, payload dto.ActivityCreateRequest, ownerID uint) (dto.ActivityResponse, error)
	Update(ctx context.Context, id uint, payload dto.ActivityUpdateRequest, userID uint, superuser bool) (dto.ActivityResponse, error)
	Delete(ctx context.Context, id, userID uint, superuser bool) error
	GetPublic(ctx context.Context, publicCode string) (dto.PublicActivityResponse, error)
}

type activityService struct {
	activities repository.ActivityRepository
	auditLogs  repository.AuditLogRepository
	validator  *validator.Validate
	public     token.PublicID
	logger     zerolog.Logger
	now        func() time.Time
}

// NewActivityService builds a new activity service.
func NewActivityService(activities repository.ActivityRepository, auditLogs repository.AuditLogRepository, validate *validator.Validate, public token.PublicID, logger zerolog.Logger) ActivityService {
	return &activityService{
		activities: activities,
		auditLogs:  auditLogs,
		validator:  validate,
		public:     public,
		logger:     logger.With().Str("component", "activity_service").Logger(),
		now:        time.Now,
	}
}

func (s *activityService) List(ctx context.Context, userID uint, superuser bool) ([]dto.ActivityResponse, error) {
	var (
		activities []models.Activity
		err        error
	)

	if superuser {
		activities, err = s.activities.List(ctx)
	} else {
		activities, err = s.activities.ListByOwner(ctx, userID)
	}
	if err != nil {
		return nil, err
	}

	now := s.now()
	responses := make([]dto.ActivityResponse, 0, len(activities))
	for _, activity := range activities {
		responses = append(responses, dto.NewActivityResponse(activity, now, s.public.Encode(activity.ID)))
	}

	return responses, nil
}

func (s *activityService) Get(ctx context.Context, id, userID uint, superuser bool) (dto.ActivityResponse, error) {
	activity, err := s.loadOwned(ctx, id, userID, superuser)
	if err != nil {
		return dto.ActivityResponse{}, err
	}

	return dto.NewActivityResponse(activity, s.now(), s.public.Encode(activity.ID)), nil
}

func (s *activityService) Create(ctx context.Context, payload dto.ActivityCreateRequest, ownerID uint) (dto.ActivityResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ActivityResponse{}, err
	}

	startTime, endTime, err := parseTimeRange(payload.StartTime, payload.EndTime)
	if err != nil {
		return dto.ActivityResponse{}, err
	}

	activity := models.Activity{
		Title:      payload.Title,
		StartTime:  startTime,
		EndTime:    endTime,
		IsEnabled:  true,
		QRTimeout:  defaultQRTimeout,
		RestrictIP: false,
	}
	if payload.IsEnabled != nil {
		activity.IsEnabled = *payload.IsEnabled
	}
	if payload.QRTimeout != nil {
		activity.QRTimeout = *payload.QRTimeout
	}
	if payload.RestrictIP != nil {
		activity.RestrictIP = *payload.RestrictIP
	}

	if err := s.activities.Create(ctx, &activity); err != nil {
		return dto.ActivityResponse{}, err
	}

	// The creator always becomes an owner.
	if err := s.activities.AddOwner(ctx, &activity, ownerID); err != nil {
		return dto.ActivityResponse{}, err
	}

	if len(payload.AllowedNetworkIDs) > 0 {
		if err := s.activities.SetAllowedNetworks(ctx, &activity, payload.AllowedNetworkIDs); err != nil {
			return dto.ActivityResponse{}, err
		}
	}

	created, err := s.activities.GetByID(ctx, activity.ID)
	if err != nil {
		return dto.ActivityResponse{}, err
	}

	s.audit(ctx, ownerID, "activity.create", created.ID, datatypes.JSONMap{"title": created.Title})
	s.logger.Info().Uint("activity_id", created.ID).Msg("activity created")

	return dto.NewActivityResponse(created, s.now(), s.public.Encode(created.ID)), nil
}

func (s *activityService) Update(ctx context.Context, id uint, payload dto.ActivityUpdateRequest, userID uint, superuser bool) (dto.ActivityResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ActivityResponse{}, err
	}

	activity, err := s.loadOwned(ctx, id, userID, superuser)
	if err != nil {
		return dto.ActivityResponse{}, err
	}

	if payload.Title != nil {
		activity.Title = *payload.Title
	}
	if payload.StartTime != nil {
		startTime, err := parseTimestamp(*payload.StartTime)
		if err != nil {
			return dto.ActivityResponse{}, err
		}
		activity.StartTime = startTime
	}
	if payload.EndTime != nil {
		endTime, err := parseTimestamp(*payload.EndTime)
		if err != nil {
			return dto.ActivityResponse{}, err
		}
		activity.EndTime = endTime
	}
	if payload.QRTimeout != nil {
		activity.QRTimeout = *payload.QRTimeout
	}
	if payload.IsEnabled != nil {
		activity.IsEnabled = *payload.IsEnabled
	}
	if payload.RestrictIP != nil {
		activity.RestrictIP = *payload.RestrictIP
	}

	if err := s.activities.Update(ctx, &activity); err != nil {
		return dto.ActivityResponse{}, err
	}

	if payload.AllowedNetworkIDs != nil {
		if err := s.activities.SetAllowedNetworks(ctx, &activity, *payload.AllowedNetworkIDs); err != nil {
			return dto.ActivityResponse{}, err
		}
	}

	updated, err := s.activities.GetByID(ctx, activity.ID)
	if err != nil {
		return dto.ActivityResponse{}, err
	}

	s.audit(ctx, userID, "activity.update", updated.ID, datatypes.JSONMap{"title": updated.Title})
	s.logger.Info().Uint("activity_id", updated.ID).Msg("activity updated")

	return dto.NewActivityResponse(updated, s.now(), s.public.Encode(updated.ID)), nil
}

func (s *activityService) Delete(ctx context.Context, id, userID uint, superuser bool) error {
	activity, err := s.loadOwned(ctx, id, userID, superuser)
	if err != nil {
		return err
	}

	if err := s.activities.Delete(ctx, activity.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrActivityNotFound
		}
		return err
	}

	s.audit(ctx, userID, "activity.delete", activity.ID, datatypes.JSONMap{"title": activity.Title})
	s.logger.Info().Uint("activity_id", activity.ID).Msg("activity deleted")

	return nil
}

func (s *activityService) GetPublic(ctx context.Context, publicCode string) (dto.PublicActivityResponse, error) {
	id, ok := s.public.Decode(publicCode)
	if !ok {
		return dto.PublicActivityResponse{}, ErrActivityNotFound
	}

	activity, err := s.activities.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.PublicActivityResponse{}, ErrActivityNotFound
		}
		return dto.PublicActivityResponse{}, err
	}

	// Disabled activities are not publicly visible at all.
	if !activity.IsEnabled {
		return dto.PublicActivityResponse{}, ErrActivityNotFound
	}

	return dto.NewPublicActivityResponse(activity, s.now(), publicCode), nil
}

func (s *activityService) loadOwned(ctx context.Context, id, userID uint, superuser bool) (models.Activity, error) {
	activity, err := s.activities.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Activity{}, ErrActivityNotFound
		}
		return models.Activity{}, err
	}

	if superuser {
		return activity, nil
	}

	owner, err := s.activities.IsOwner(ctx, id, userID)
	if err != nil {
		return models.Activity{}, err
	}
	if !owner {
		return models.Activity{}, ErrActivityNotFound
	}

	return activity, nil
}

func (s *activityService) audit(ctx context.Context, actorID uint, action string, entityID uint, metadata datatypes.JSONMap) {
	entry := models.AuditLog{
		ActorID:    actorID,
		Action:     action,
		EntityType: "activity",
		EntityID:   &entityID,
		Metadata:   metadata,
	}
	if err := s.auditLogs.Create(ctx, &entry); err != nil {
		s.logger.Warn().Err(err).Str("action", action).Msg("failed to write audit log entry")
	}
}

func parseTimeRange(start, end string) (time.Time, time.Time, error) {
	startTime, err := parseTimestamp(start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	endTime, err := parseTimestamp(end)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	return startTime, endTime, nil
}

func parseTimestamp(value string) (time.Time, error) {
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp: %w", err)
	}

	return parsed.UTC(), nil
}
