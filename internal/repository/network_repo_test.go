package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/IFRN-SPP/presente/internal/models"
)

func TestNetworkRepositoryActiveByActivity(t *testing.T) {
	db := setupTestDB(t)
	networks := NewNetworkRepository(db)
	activities := NewActivityRepository(db)
	ctx := context.Background()

	campus := models.Network{Name: "Campus", IPAddresses: "10.0.0.0/8", IsActive: true}
	legacy := models.Network{Name: "Legacy Lab", IPAddresses: "172.16.0.0/12", IsActive: false}
	library := models.Network{Name: "Library", IPAddresses: "192.168.10.0/24", IsActive: true}
	for _, n := range []*models.Network{&campus, &legacy, &library} {
		require.NoError(t, networks.Create(ctx, n))
	}

	activity := seedActivity(t, db, "Seminar", time.Date(2025, 5, 20, 9, 0, 0, 0, time.UTC))
	require.NoError(t, activities.SetAllowedNetworks(ctx, &activity, []uint{campus.ID, legacy.ID, library.ID}))

	active, err := networks.ActiveByActivity(ctx, activity.ID)
	require.NoError(t, err)
	require.Len(t, active, 2)
	require.Equal(t, "Campus", active[0].Name)
	require.Equal(t, "Library", active[1].Name)
}

func TestNetworkRepositoryDeleteDetachesActivities(t *testing.T) {
	db := setupTestDB(t)
	networks := NewNetworkRepository(db)
	activities := NewActivityRepository(db)
	ctx := context.Background()

	campus := models.Network{Name: "Campus", IPAddresses: "10.0.0.0/8", IsActive: true}
	require.NoError(t, networks.Create(ctx, &campus))

	activity := seedActivity(t, db, "Seminar", time.Date(2025, 5, 20, 9, 0, 0, 0, time.UTC))
	require.NoError(t, activities.SetAllowedNetworks(ctx, &activity, []uint{campus.ID}))

	require.NoError(t, networks.Delete(ctx, campus.ID))

	_, err := networks.GetByID(ctx, campus.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	loaded, err := activities.GetByID(ctx, activity.ID)
	require.NoError(t, err)
	require.Empty(t, loaded.AllowedNetworks)

	require.ErrorIs(t, networks.Delete(ctx, campus.ID), gorm.ErrRecordNotFound)
}

func TestNetworkRepositoryCreatePersistsInactiveFlag(t *testing.T) {
	db := setupTestDB(t)
	repo := NewNetworkRepository(db)
	ctx := context.Background()

	network := models.Network{Name: "Legacy Lab", IPAddresses: "172.16.0.0/12", IsActive: false}
	require.NoError(t, repo.Create(ctx, &network))

	loaded, err := repo.GetByID(ctx, network.ID)
	require.NoError(t, err)
	require.False(t, loaded.IsActive)
}

func TestNetworkRepositoryUpdate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewNetworkRepository(db)
	ctx := context.Background()

	network := models.Network{Name: "Campus", IPAddresses: "10.0.0.0/8", IsActive: true}
	require.NoError(t, repo.Create(ctx, &network))

	network.IPAddresses = "10.0.0.0/8\n203.0.113.7"
	network.IsActive = false
	require.NoError(t, repo.Update(ctx, &network))

	loaded, err := repo.GetByID(ctx, network.ID)
	require.NoError(t, err)
	require.Equal(t, "10.0.0.0/8\n203.0.113.7", loaded.IPAddresses)
	require.False(t, loaded.IsActive)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
}
