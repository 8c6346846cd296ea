package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	qrcode "github.com/skip2/go-qrcode"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/IFRN-SPP/presente/internal/dto"
	"github.com/IFRN-SPP/presente/internal/ipacl"
	"github.com/IFRN-SPP/presente/internal/models"
	"github.com/IFRN-SPP/presente/internal/observability"
	"github.com/IFRN-SPP/presente/internal/repository"
	"github.com/IFRN-SPP/presente/internal/token"
)

// Check-in failure modes. Token failures stay deliberately generic so the
// endpoint cannot be used to distinguish forged from stale tokens; policy
// denials carry specific, human-readable reasons.
var (
	ErrInvalidCheckinToken = errors.New("invalid or expired QR code")
	ErrCheckinTokenExpired = errors.New("QR code expired, request a new one")
	ErrActivityNotStarted  = errors.New("activity has not started yet")
	ErrActivityEnded       = errors.New("activity has already ended")
	ErrCheckinDisabled     = errors.New("activity is not accepting check-ins")
)

// IPDeniedError reports a network policy denial, surfacing the rejected
// address for operator diagnosis.
type IPDeniedError struct {
	IP string
}

func (e *IPDeniedError) Error() string {
	return fmt.Sprintf("access denied for IP %s", e.IP)
}

// CheckinService is the single authoritative decision path for "may this
// authenticated user register attendance right now, from this IP, with
// this token". It also renders the rotating QR content for activities.
type CheckinService interface {
	CheckIn(ctx context.Context, rawToken string, userID uint, forwardedFor, remoteAddr string) (dto.CheckinResponse, error)
	QRContent(ctx context.Context, publicCode string) (dto.QRContentResponse, error)
}

// CheckinOptions carries the orchestrator's fixed policy knobs.
type CheckinOptions struct {
	// Ceiling is the hard upper bound applied to every check-in token
	// before the activity's own timeout is consulted.
	Ceiling time.Duration
	// PublicBaseURL is the externally reachable base for check-in URLs.
	PublicBaseURL string
	// QRSize is the rendered QR image size in pixels.
	QRSize int
	// NATSSubject, when non-empty and a connection is supplied, receives
	// a CheckinEvent after every successful check-in.
	NATSSubject string
}

type checkinService struct {
	activities  repository.ActivityRepository
	attendances repository.AttendanceRepository
	networks    repository.NetworkRepository
	checkin     token.Checkin
	public      token.PublicID
	matcher     ipacl.Matcher
	opts        CheckinOptions
	events      *nats.Conn
	logger      zerolog.Logger
	tracer      trace.Tracer
	now         func() time.Time
}

// NewCheckinService builds the check-in orchestrator. events may be nil,
// in which case no check-in events are published.
func NewCheckinService(activities repository.ActivityRepository, attendances repository.AttendanceRepository, networks repository.NetworkRepository, codec *token.Codec, matcher ipacl.Matcher, opts CheckinOptions, events *nats.Conn, logger zerolog.Logger) CheckinService {
	if opts.Ceiling <= 0 {
		opts.Ceiling = 300 * time.Second
	}
	if opts.QRSize <= 0 {
		opts.QRSize = 512
	}

	return &checkinService{
		activities:  activities,
		attendances: attendances,
		networks:    networks,
		checkin:     token.NewCheckin(codec),
		public:      token.NewPublicID(codec),
		matcher:     matcher,
		opts:        opts,
		events:      events,
		logger:      logger.With().Str("component", "checkin_service").Logger(),
		tracer:      otel.Tracer("github.com/IFRN-SPP/presente/internal/service/checkin"),
		now:         time.Now,
	}
}

func (s *checkinService) CheckIn(ctx context.Context, rawToken string, userID uint, forwardedFor, remoteAddr string) (dto.CheckinResponse, error) {
	spanCtx, span := s.tracer.Start(ctx, "checkin.evaluate", trace.WithAttributes(
		attribute.Int("checkin.user_id", int(userID)),
	))
	defer span.End()

	activityID, ok := s.checkin.Verify(rawToken, s.opts.Ceiling)
	if !ok {
		s.reject(observability.CheckinOutcomeInvalidToken)
		return dto.CheckinResponse{}, ErrInvalidCheckinToken
	}
	span.SetAttributes(attribute.Int("checkin.activity_id", int(activityID)))

	activity, err := s.activities.GetByID(spanCtx, activityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.reject(observability.CheckinOutcomeNotFound)
			return dto.CheckinResponse{}, ErrActivityNotFound
		}
		span.RecordError(err)
		s.reject(observability.CheckinOutcomeInternalError)
		return dto.CheckinResponse{}, err
	}

	clientIP := ipacl.ClientIP(forwardedFor, remoteAddr)

	allowedNetworks, err := s.activeNetworks(spanCtx, activity)
	if err != nil {
		span.RecordError(err)
		s.reject(observability.CheckinOutcomeInternalError)
		return dto.CheckinResponse{}, err
	}

	if !s.matcher.Allowed(clientIP, activity.RestrictIP, allowedNetworks) {
		s.logger.Info().Uint("activity_id", activity.ID).Str("client_ip", clientIP).Msg("check-in denied by network policy")
		s.reject(observability.CheckinOutcomeIPDenied)
		return dto.CheckinResponse{}, &IPDeniedError{IP: clientIP}
	}

	switch activity.Status(s.now()) {
	case models.ActivityStatusNotStarted:
		s.reject(observability.CheckinOutcomeNotStarted)
		return dto.CheckinResponse{}, ErrActivityNotStarted
	case models.ActivityStatusExpired:
		s.reject(observability.CheckinOutcomeEnded)
		return dto.CheckinResponse{}, ErrActivityEnded
	case models.ActivityStatusNotEnabled:
		s.reject(observability.CheckinOutcomeDisabled)
		return dto.CheckinResponse{}, ErrCheckinDisabled
	}

	// The ceiling check above only rejects grossly stale tokens; the
	// activity's own timeout is the binding policy. A timeout of zero
	// leaves the ceiling as the only limit.
	if activity.QRTimeout > 0 {
		if _, ok := s.checkin.Verify(rawToken, time.Duration(activity.QRTimeout)*time.Second); !ok {
			s.reject(observability.CheckinOutcomeExpiredToken)
			return dto.CheckinResponse{}, ErrCheckinTokenExpired
		}
	}

	attendance := models.Attendance{
		ActivityID:  activity.ID,
		UserID:      userID,
		CheckedInAt: s.now().UTC(),
		IPAddress:   clientIP,
	}

	created, err := s.attendances.GetOrCreate(spanCtx, &attendance)
	if err != nil {
		span.RecordError(err)
		s.reject(observability.CheckinOutcomeInternalError)
		return dto.CheckinResponse{}, err
	}

	outcome := observability.CheckinOutcomeRepeat
	if created {
		outcome = observability.CheckinOutcomeCreated
	}
	observability.CheckinAttempts().WithLabelValues(outcome).Inc()

	s.publish(spanCtx, dto.CheckinEvent{
		ActivityID:  activity.ID,
		UserID:      userID,
		Created:     created,
		CheckedInAt: attendance.CheckedInAt,
	})

	s.logger.Info().
		Uint("activity_id", activity.ID).
		Uint("user_id", userID).
		Bool("created", created).
		Msg("check-in accepted")

	return dto.CheckinResponse{
		ActivityID:    activity.ID,
		ActivityTitle: activity.Title,
		PublicCode:    s.public.Encode(activity.ID),
		Created:       created,
		CheckedInAt:   attendance.CheckedInAt,
	}, nil
}

func (s *checkinService) QRContent(ctx context.Context, publicCode string) (dto.QRContentResponse, error) {
	activityID, ok := s.public.Decode(publicCode)
	if !ok {
		return dto.QRContentResponse{}, ErrActivityNotFound
	}

	activity, err := s.activities.GetByID(ctx, activityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.QRContentResponse{}, ErrActivityNotFound
		}
		return dto.QRContentResponse{}, err
	}

	// Disabled activities are not publicly visible at all.
	if !activity.IsEnabled {
		return dto.QRContentResponse{}, ErrActivityNotFound
	}

	now := s.now().UTC()
	status := activity.Status(now)

	response := dto.QRContentResponse{
		ActivityTitle: activity.Title,
		Status:        string(status),
		ServerTime:    now,
	}

	switch status {
	case models.ActivityStatusNotStarted:
		seconds := int(activity.StartTime.Sub(now).Seconds())
		if seconds < 0 {
			seconds = 0
		}
		response.SecondsUntilStart = seconds
	case models.ActivityStatusActive:
		checkinToken := s.checkin.Issue(activity.ID)
		checkinURL := fmt.Sprintf("%s/api/v1/checkin/%s", s.opts.PublicBaseURL, checkinToken)

		png, err := qrcode.Encode(checkinURL, qrcode.High, s.opts.QRSize)
		if err != nil {
			return dto.QRContentResponse{}, fmt.Errorf("failed to render QR code: %w", err)
		}

		response.CheckinURL = checkinURL
		response.QRDataURL = "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
		response.TimeoutSeconds = activity.QRTimeout
	}

	return response, nil
}

func (s *checkinService) activeNetworks(ctx context.Context, activity models.Activity) ([]ipacl.Network, error) {
	if !activity.RestrictIP {
		return nil, nil
	}

	networks, err := s.networks.ActiveByActivity(ctx, activity.ID)
	if err != nil {
		return nil, err
	}

	allowLists := make([]ipacl.Network, 0, len(networks))
	for _, network := range networks {
		allowLists = append(allowLists, ipacl.Network{Name: network.Name, Addresses: network.IPAddresses})
	}

	return allowLists, nil
}

func (s *checkinService) publish(ctx context.Context, event dto.CheckinEvent) {
	if s.events == nil || s.opts.NATSSubject == "" {
		return
	}

	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to encode check-in event")
		return
	}

	if err := s.events.Publish(s.opts.NATSSubject, payload); err != nil {
		s.logger.Warn().Err(err).Msg("failed to publish check-in event")
	}
}

func (s *checkinService) reject(outcome string) {
	observability.CheckinAttempts().WithLabelValues(outcome).Inc()
}
