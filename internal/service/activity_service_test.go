package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/IFRN-SPP/presente/internal/dto"
	"github.com/IFRN-SPP/presente/internal/token"
)

func newActivityFixture(t *testing.T) (ActivityService, *memoryActivityRepo, *memoryAuditLogRepo) {
	t.Helper()

	activities := newMemoryActivityRepo()
	audit := &memoryAuditLogRepo{}
	public := token.NewPublicID(mustCodec(t))
	svc := NewActivityService(activities, audit, validator.New(), public, testLogger())
	return svc, activities, audit
}

func TestActivityServiceCreateAppliesDefaults(t *testing.T) {
	svc, activities, audit := newActivityFixture(t)

	created, err := svc.Create(context.Background(), dto.ActivityCreateRequest{
		Title:     "Algorithms Seminar",
		StartTime: "2026-03-10T13:00:00Z",
		EndTime:   "2026-03-10T15:00:00Z",
	}, 1)
	require.NoError(t, err)
	require.Equal(t, "Algorithms Seminar", created.Title)
	require.True(t, created.IsEnabled)
	require.Equal(t, 30, created.QRTimeout)
	require.False(t, created.RestrictIP)
	require.NotEmpty(t, created.PublicCode)

	owner, err := activities.IsOwner(context.Background(), created.ID, 1)
	require.NoError(t, err)
	require.True(t, owner)

	require.Len(t, audit.entries, 1)
	require.Equal(t, "activity.create", audit.entries[0].Action)
}

func TestActivityServiceCreateValidation(t *testing.T) {
	svc, _, _ := newActivityFixture(t)

	_, err := svc.Create(context.Background(), dto.ActivityCreateRequest{Title: "x"}, 1)
	require.Error(t, err)

	_, err = svc.Create(context.Background(), dto.ActivityCreateRequest{
		Title:     "Broken Times",
		StartTime: "tomorrow",
		EndTime:   "2026-03-10T15:00:00Z",
	}, 1)
	require.Error(t, err)
}

func TestActivityServiceListScopesToOwner(t *testing.T) {
	svc, _, _ := newActivityFixture(t)

	_, err := svc.Create(context.Background(), dto.ActivityCreateRequest{
		Title:     "Owned By One",
		StartTime: "2026-03-10T13:00:00Z",
		EndTime:   "2026-03-10T15:00:00Z",
	}, 1)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), dto.ActivityCreateRequest{
		Title:     "Owned By Two",
		StartTime: "2026-03-10T13:00:00Z",
		EndTime:   "2026-03-10T15:00:00Z",
	}, 2)
	require.NoError(t, err)

	mine, err := svc.List(context.Background(), 1, false)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, "Owned By One", mine[0].Title)

	all, err := svc.List(context.Background(), 1, true)
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func TestActivityServiceGetHidesForeignActivities(t *testing.T) {
	svc, _, _ := newActivityFixture(t)

	created, err := svc.Create(context.Background(), dto.ActivityCreateRequest{
		Title:     "Private",
		StartTime: "2026-03-10T13:00:00Z",
		EndTime:   "2026-03-10T15:00:00Z",
	}, 1)
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), created.ID, 2, false)
	require.ErrorIs(t, err, ErrActivityNotFound)

	got, err := svc.Get(context.Background(), created.ID, 2, true)
	require.NoError(t, err)
	require.Equal(t, created.ID, got.ID)
}

func TestActivityServiceUpdate(t *testing.T) {
	svc, _, _ := newActivityFixture(t)

	created, err := svc.Create(context.Background(), dto.ActivityCreateRequest{
		Title:     "Before",
		StartTime: "2026-03-10T13:00:00Z",
		EndTime:   "2026-03-10T15:00:00Z",
	}, 1)
	require.NoError(t, err)

	title := "After"
	timeout := 0
	restrict := true
	updated, err := svc.Update(context.Background(), created.ID, dto.ActivityUpdateRequest{
		Title:      &title,
		QRTimeout:  &timeout,
		RestrictIP: &restrict,
	}, 1, false)
	require.NoError(t, err)
	require.Equal(t, "After", updated.Title)
	require.Equal(t, 0, updated.QRTimeout)
	require.True(t, updated.RestrictIP)

	_, err = svc.Update(context.Background(), created.ID, dto.ActivityUpdateRequest{Title: &title}, 2, false)
	require.ErrorIs(t, err, ErrActivityNotFound)
}

func TestActivityServiceDelete(t *testing.T) {
	svc, activities, _ := newActivityFixture(t)

	created, err := svc.Create(context.Background(), dto.ActivityCreateRequest{
		Title:     "Doomed",
		StartTime: "2026-03-10T13:00:00Z",
		EndTime:   "2026-03-10T15:00:00Z",
	}, 1)
	require.NoError(t, err)

	require.ErrorIs(t, svc.Delete(context.Background(), created.ID, 2, false), ErrActivityNotFound)

	require.NoError(t, svc.Delete(context.Background(), created.ID, 1, false))
	require.Empty(t, activities.activities)
}

func TestActivityServiceGetPublic(t *testing.T) {
	svc, activities, _ := newActivityFixture(t)

	created, err := svc.Create(context.Background(), dto.ActivityCreateRequest{
		Title:     "Open Doors",
		StartTime: "2026-03-10T13:00:00Z",
		EndTime:   "2026-03-10T15:00:00Z",
	}, 1)
	require.NoError(t, err)

	public, err := svc.GetPublic(context.Background(), created.PublicCode)
	require.NoError(t, err)
	require.Equal(t, "Open Doors", public.Title)

	_, err = svc.GetPublic(context.Background(), "forged")
	require.ErrorIs(t, err, ErrActivityNotFound)

	// Disabled activities disappear from the public surface.
	activity := activities.activities[created.ID]
	activity.IsEnabled = false
	activities.activities[created.ID] = activity

	_, err = svc.GetPublic(context.Background(), created.PublicCode)
	require.ErrorIs(t, err, ErrActivityNotFound)
}

func TestParseTimestampNormalizesToUTC(t *testing.T) {
	parsed, err := parseTimestamp("2026-03-10T13:00:00-03:00")
	require.NoError(t, err)
	require.Equal(t, time.Date(2026, 3, 10, 16, 0, 0, 0, time.UTC), parsed)
}
