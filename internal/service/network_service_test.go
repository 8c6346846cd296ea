package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/IFRN-SPP/presente/internal/dto"
)

func newNetworkFixture() (NetworkService, *memoryNetworkRepo, *memoryAuditLogRepo) {
	networks := newMemoryNetworkRepo()
	audit := &memoryAuditLogRepo{}
	svc := NewNetworkService(networks, audit, validator.New(), testLogger())
	return svc, networks, audit
}

func TestNetworkServiceCreate(t *testing.T) {
	svc, _, audit := newNetworkFixture()

	created, err := svc.Create(context.Background(), dto.NetworkCreateRequest{
		Name:        "Campus",
		IPAddresses: "10.0.0.0/8\n203.0.113.7",
	}, 1)
	require.NoError(t, err)
	require.Equal(t, "Campus", created.Name)
	require.True(t, created.IsActive)

	require.Len(t, audit.entries, 1)
	require.Equal(t, "network.create", audit.entries[0].Action)
}

func TestNetworkServiceCreateValidation(t *testing.T) {
	svc, _, _ := newNetworkFixture()

	_, err := svc.Create(context.Background(), dto.NetworkCreateRequest{Name: "x"}, 1)
	require.Error(t, err)
}

func TestNetworkServiceUpdate(t *testing.T) {
	svc, _, _ := newNetworkFixture()

	created, err := svc.Create(context.Background(), dto.NetworkCreateRequest{Name: "Campus"}, 1)
	require.NoError(t, err)

	inactive := false
	addresses := "192.0.2.0/24"
	updated, err := svc.Update(context.Background(), created.ID, dto.NetworkUpdateRequest{
		IPAddresses: &addresses,
		IsActive:    &inactive,
	}, 1)
	require.NoError(t, err)
	require.Equal(t, "Campus", updated.Name)
	require.Equal(t, "192.0.2.0/24", updated.IPAddresses)
	require.False(t, updated.IsActive)

	_, err = svc.Update(context.Background(), 999, dto.NetworkUpdateRequest{}, 1)
	require.ErrorIs(t, err, ErrNetworkNotFound)
}

func TestNetworkServiceDelete(t *testing.T) {
	svc, networks, audit := newNetworkFixture()

	created, err := svc.Create(context.Background(), dto.NetworkCreateRequest{Name: "Campus"}, 1)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.ID, 1))
	require.Empty(t, networks.networks)
	require.Equal(t, "network.delete", audit.entries[len(audit.entries)-1].Action)

	require.ErrorIs(t, svc.Delete(context.Background(), created.ID, 1), ErrNetworkNotFound)
}

func TestNetworkServiceListAndGet(t *testing.T) {
	svc, _, _ := newNetworkFixture()

	_, err := svc.Create(context.Background(), dto.NetworkCreateRequest{Name: "Campus"}, 1)
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), dto.NetworkCreateRequest{Name: "Library"}, 1)
	require.NoError(t, err)

	items, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)

	network, err := svc.Get(context.Background(), items[0].ID)
	require.NoError(t, err)
	require.Equal(t, items[0].Name, network.Name)

	_, err = svc.Get(context.Background(), 999)
	require.ErrorIs(t, err, ErrNetworkNotFound)
}
