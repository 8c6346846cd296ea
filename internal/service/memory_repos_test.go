package service

import (
	"context"
	"sort"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/IFRN-SPP/presente/internal/models"
	"github.com/IFRN-SPP/presente/internal/repository"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

type memoryActivityRepo struct {
	activities map[uint]models.Activity
	owners     map[uint][]uint
	networks   map[uint][]uint
	nextID     uint
}

func newMemoryActivityRepo() *memoryActivityRepo {
	return &memoryActivityRepo{
		activities: map[uint]models.Activity{},
		owners:     map[uint][]uint{},
		networks:   map[uint][]uint{},
		nextID:     1,
	}
}

func (m *memoryActivityRepo) List(ctx context.Context) ([]models.Activity, error) {
	ids := make([]uint, 0, len(m.activities))
	for id := range m.activities {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	items := make([]models.Activity, 0, len(ids))
	for _, id := range ids {
		items = append(items, m.activities[id])
	}
	return items, nil
}

func (m *memoryActivityRepo) ListByOwner(ctx context.Context, ownerID uint) ([]models.Activity, error) {
	all, _ := m.List(ctx)
	items := make([]models.Activity, 0, len(all))
	for _, activity := range all {
		for _, owner := range m.owners[activity.ID] {
			if owner == ownerID {
				items = append(items, activity)
				break
			}
		}
	}
	return items, nil
}

func (m *memoryActivityRepo) GetByID(ctx context.Context, id uint) (models.Activity, error) {
	activity, ok := m.activities[id]
	if !ok {
		return models.Activity{}, gorm.ErrRecordNotFound
	}
	return activity, nil
}

func (m *memoryActivityRepo) Create(ctx context.Context, activity *models.Activity) error {
	activity.ID = m.nextID
	m.nextID++
	m.activities[activity.ID] = *activity
	return nil
}

func (m *memoryActivityRepo) Update(ctx context.Context, activity *models.Activity) error {
	if _, ok := m.activities[activity.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.activities[activity.ID] = *activity
	return nil
}

func (m *memoryActivityRepo) Delete(ctx context.Context, id uint) error {
	if _, ok := m.activities[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.activities, id)
	delete(m.owners, id)
	delete(m.networks, id)
	return nil
}

func (m *memoryActivityRepo) AddOwner(ctx context.Context, activity *models.Activity, ownerID uint) error {
	m.owners[activity.ID] = append(m.owners[activity.ID], ownerID)
	return nil
}

func (m *memoryActivityRepo) SetAllowedNetworks(ctx context.Context, activity *models.Activity, networkIDs []uint) error {
	m.networks[activity.ID] = networkIDs
	return nil
}

func (m *memoryActivityRepo) IsOwner(ctx context.Context, activityID, userID uint) (bool, error) {
	for _, owner := range m.owners[activityID] {
		if owner == userID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryActivityRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(m.activities)), nil
}

func (m *memoryActivityRepo) CountByOwner(ctx context.Context, ownerID uint) (int64, error) {
	owned, _ := m.ListByOwner(ctx, ownerID)
	return int64(len(owned)), nil
}

type memoryAttendanceRepo struct {
	attendances []models.Attendance
	nextID      uint
}

func newMemoryAttendanceRepo() *memoryAttendanceRepo {
	return &memoryAttendanceRepo{nextID: 1}
}

func (m *memoryAttendanceRepo) GetOrCreate(ctx context.Context, attendance *models.Attendance) (bool, error) {
	for _, existing := range m.attendances {
		if existing.ActivityID == attendance.ActivityID && existing.UserID == attendance.UserID {
			*attendance = existing
			return false, nil
		}
	}

	attendance.ID = m.nextID
	m.nextID++
	m.attendances = append(m.attendances, *attendance)
	return true, nil
}

func (m *memoryAttendanceRepo) ListByActivity(ctx context.Context, activityID uint) ([]models.Attendance, error) {
	items := make([]models.Attendance, 0)
	for _, attendance := range m.attendances {
		if attendance.ActivityID == activityID {
			items = append(items, attendance)
		}
	}
	return items, nil
}

func (m *memoryAttendanceRepo) ListByUser(ctx context.Context, userID uint) ([]models.Attendance, error) {
	items := make([]models.Attendance, 0)
	for _, attendance := range m.attendances {
		if attendance.UserID == userID {
			items = append(items, attendance)
		}
	}
	return items, nil
}

func (m *memoryAttendanceRepo) RecentByUser(ctx context.Context, userID uint, limit int) ([]models.Attendance, error) {
	items, _ := m.ListByUser(ctx, userID)
	sort.Slice(items, func(i, j int) bool { return items[i].CheckedInAt.After(items[j].CheckedInAt) })
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (m *memoryAttendanceRepo) CountByUser(ctx context.Context, userID uint) (int64, error) {
	items, _ := m.ListByUser(ctx, userID)
	return int64(len(items)), nil
}

func (m *memoryAttendanceRepo) Delete(ctx context.Context, activityID, attendanceID uint) error {
	for idx, attendance := range m.attendances {
		if attendance.ID == attendanceID && attendance.ActivityID == activityID {
			m.attendances = append(m.attendances[:idx], m.attendances[idx+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type memoryNetworkRepo struct {
	networks   map[uint]models.Network
	byActivity map[uint][]uint
	nextID     uint
}

func newMemoryNetworkRepo() *memoryNetworkRepo {
	return &memoryNetworkRepo{
		networks:   map[uint]models.Network{},
		byActivity: map[uint][]uint{},
		nextID:     1,
	}
}

func (m *memoryNetworkRepo) List(ctx context.Context) ([]models.Network, error) {
	ids := make([]uint, 0, len(m.networks))
	for id := range m.networks {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	items := make([]models.Network, 0, len(ids))
	for _, id := range ids {
		items = append(items, m.networks[id])
	}
	return items, nil
}

func (m *memoryNetworkRepo) GetByID(ctx context.Context, id uint) (models.Network, error) {
	network, ok := m.networks[id]
	if !ok {
		return models.Network{}, gorm.ErrRecordNotFound
	}
	return network, nil
}

func (m *memoryNetworkRepo) Create(ctx context.Context, network *models.Network) error {
	network.ID = m.nextID
	m.nextID++
	m.networks[network.ID] = *network
	return nil
}

func (m *memoryNetworkRepo) Update(ctx context.Context, network *models.Network) error {
	if _, ok := m.networks[network.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.networks[network.ID] = *network
	return nil
}

func (m *memoryNetworkRepo) Delete(ctx context.Context, id uint) error {
	if _, ok := m.networks[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.networks, id)
	for activityID, ids := range m.byActivity {
		kept := ids[:0]
		for _, networkID := range ids {
			if networkID != id {
				kept = append(kept, networkID)
			}
		}
		m.byActivity[activityID] = kept
	}
	return nil
}

func (m *memoryNetworkRepo) ActiveByActivity(ctx context.Context, activityID uint) ([]models.Network, error) {
	items := make([]models.Network, 0)
	for _, id := range m.byActivity[activityID] {
		network, ok := m.networks[id]
		if ok && network.IsActive {
			items = append(items, network)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}

func (m *memoryNetworkRepo) attach(activityID uint, networkIDs ...uint) {
	m.byActivity[activityID] = append(m.byActivity[activityID], networkIDs...)
}

type memoryAuditLogRepo struct {
	entries    []models.AuditLog
	lastFilter repository.AuditLogFilter
}

func (m *memoryAuditLogRepo) Create(ctx context.Context, entry *models.AuditLog) error {
	entry.ID = uint(len(m.entries) + 1)
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *memoryAuditLogRepo) List(ctx context.Context, filter repository.AuditLogFilter) ([]models.AuditLog, int64, error) {
	m.lastFilter = filter
	return m.entries, int64(len(m.entries)), nil
}
