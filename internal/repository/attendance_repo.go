package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/IFRN-SPP/presente/internal/models"
)

// AttendanceRepository defines persistence operations for attendances.
type AttendanceRepository interface {
	GetOrCreate(ctx context.Context, attendance *models.Attendance) (bool, error)
	ListByActivity(ctx context.Context, activityID uint) ([]models.Attendance, error)
	ListByUser(ctx context.Context, userID uint) ([]models.Attendance, error)
	RecentByUser(ctx context.Context, userID uint, limit int) ([]models.Attendance, error)
	CountByUser(ctx context.Context, userID uint) (int64, error)
	Delete(ctx context.Context, activityID, attendanceID uint) error
}

type attendanceRepository struct {
	db *gorm.DB
}

// NewAttendanceRepository instantiates the repository.
func NewAttendanceRepository(db *gorm.DB) AttendanceRepository {
	return &attendanceRepository{db: db}
}

// GetOrCreate inserts the attendance unless a row for the same
// (activity, user) pair already exists, in which case the existing row is
// loaded into attendance. The insert relies on the composite unique index
// with conflict-as-success handling, so two concurrent scans by the same
// user can never produce two rows. Returns true when a row was created.
func (r *attendanceRepository) GetOrCreate(ctx context.Context, attendance *models.Attendance) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "activity_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).
		Create(attendance)
	if result.Error != nil {
		return false, result.Error
	}

	if result.RowsAffected > 0 {
		return true, nil
	}

	var existing models.Attendance
	if err := r.db.WithContext(ctx).
		Where("activity_id = ? AND user_id = ?", attendance.ActivityID, attendance.UserID).
		First(&existing).Error; err != nil {
		return false, err
	}

	*attendance = existing

	return false, nil
}

func (r *attendanceRepository) ListByActivity(ctx context.Context, activityID uint) ([]models.Attendance, error) {
	var attendances []models.Attendance
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("activity_id = ?", activityID).
		Order("checked_in_at DESC").
		Find(&attendances).Error; err != nil {
		return nil, err
	}

	return attendances, nil
}

func (r *attendanceRepository) ListByUser(ctx context.Context, userID uint) ([]models.Attendance, error) {
	var attendances []models.Attendance
	if err := r.db.WithContext(ctx).
		Preload("Activity").
		Where("user_id = ?", userID).
		Order("checked_in_at DESC").
		Find(&attendances).Error; err != nil {
		return nil, err
	}

	return attendances, nil
}

func (r *attendanceRepository) RecentByUser(ctx context.Context, userID uint, limit int) ([]models.Attendance, error) {
	if limit <= 0 {
		limit = 5
	}

	var attendances []models.Attendance
	if err := r.db.WithContext(ctx).
		Preload("Activity").
		Where("user_id = ?", userID).
		Order("checked_in_at DESC").
		Limit(limit).
		Find(&attendances).Error; err != nil {
		return nil, err
	}

	return attendances, nil
}

func (r *attendanceRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Attendance{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

func (r *attendanceRepository) Delete(ctx context.Context, activityID, attendanceID uint) error {
	result := r.db.WithContext(ctx).
		Where("activity_id = ?", activityID).
		Delete(&models.Attendance{}, attendanceID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
