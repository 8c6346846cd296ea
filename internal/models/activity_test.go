package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestActivityStatus(t *testing.T) {
	now := time.Date(2025, 5, 20, 14, 0, 0, 0, time.UTC)

	cases := []struct {
		name     string
		activity Activity
		want     ActivityStatus
	}{
		{
			name:     "active inside window",
			activity: Activity{StartTime: now.Add(-time.Hour), EndTime: now.Add(time.Hour), IsEnabled: true},
			want:     ActivityStatusActive,
		},
		{
			name:     "not started before window",
			activity: Activity{StartTime: now.Add(time.Hour), EndTime: now.Add(2 * time.Hour), IsEnabled: true},
			want:     ActivityStatusNotStarted,
		},
		{
			name:     "expired after window",
			activity: Activity{StartTime: now.Add(-2 * time.Hour), EndTime: now.Add(-time.Hour), IsEnabled: true},
			want:     ActivityStatusExpired,
		},
		{
			name:     "disabled inside window",
			activity: Activity{StartTime: now.Add(-time.Hour), EndTime: now.Add(time.Hour), IsEnabled: false},
			want:     ActivityStatusNotEnabled,
		},
		{
			name:     "expired dominates disabled",
			activity: Activity{StartTime: now.Add(-2 * time.Hour), EndTime: now.Add(-time.Hour), IsEnabled: false},
			want:     ActivityStatusExpired,
		},
		{
			name:     "not started dominates disabled",
			activity: Activity{StartTime: now.Add(time.Hour), EndTime: now.Add(2 * time.Hour), IsEnabled: false},
			want:     ActivityStatusNotStarted,
		},
		{
			name:     "boundary instants count as inside the window",
			activity: Activity{StartTime: now, EndTime: now, IsEnabled: true},
			want:     ActivityStatusActive,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, tc.activity.Status(now))
		})
	}
}
