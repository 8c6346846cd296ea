package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/IFRN-SPP/presente/internal/models"
)

// ActivityRepository defines persistence operations for activities.
type ActivityRepository interface {
	List(ctx context.Context) ([]models.Activity, error)
	ListByOwner(ctx context.Context, ownerID uint) ([]models.Activity, error)
	GetByID(ctx context.Context, id uint) (models.Activity, error)
	Create(ctx context.Context, activity *models.Activity) error
	Update(ctx context.Context, activity *models.Activity) error
	Delete(ctx context.Context, id uint) error
	AddOwner(ctx context.Context, activity *models.Activity, ownerID uint) error
	SetAllowedNetworks(ctx context.Context, activity *models.Activity, networkIDs []uint) error
	IsOwner(ctx context.Context, activityID, userID uint) (bool, error)
	Count(ctx context.Context) (int64, error)
	CountByOwner(ctx context.Context, ownerID uint) (int64, error)
}

type activityRepository struct {
	db *gorm.DB
}

// NewActivityRepository instantiates a GORM-backed repository.
func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Activity{}).
		Preload("Owners").
		Preload("AllowedNetworks")
}

func (r *activityRepository) List(ctx context.Context) ([]models.Activity, error) {
	var activities []models.Activity
	if err := r.baseQuery(ctx).Order("start_time DESC").Find(&activities).Error; err != nil {
		return nil, err
	}

	return activities, nil
}

func (r *activityRepository) ListByOwner(ctx context.Context, ownerID uint) ([]models.Activity, error) {
	var activities []models.Activity
	if err := r.baseQuery(ctx).
		Joins("JOIN activity_owners ON activity_owners.activity_id = activities.id").
		Where("activity_owners.user_id = ?", ownerID).
		Order("start_time DESC").
		Find(&activities).Error; err != nil {
		return nil, err
	}

	return activities, nil
}

func (r *activityRepository) GetByID(ctx context.Context, id uint) (models.Activity, error) {
	var activity models.Activity
	if err := r.baseQuery(ctx).First(&activity, id).Error; err != nil {
		return models.Activity{}, err
	}

	return activity, nil
}

func (r *activityRepository) Create(ctx context.Context, activity *models.Activity) error {
	return r.db.WithContext(ctx).Create(activity).Error
}

func (r *activityRepository) Update(ctx context.Context, activity *models.Activity) error {
	return r.db.WithContext(ctx).Omit("Owners", "AllowedNetworks").Save(activity).Error
}

func (r *activityRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("activity_id = ?", id).Delete(&models.Attendance{}).Error; err != nil {
			return err
		}

		result := tx.Select("Owners", "AllowedNetworks").Delete(&models.Activity{ID: id})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return nil
	})
}

func (r *activityRepository) AddOwner(ctx context.Context, activity *models.Activity, ownerID uint) error {
	return r.db.WithContext(ctx).Model(activity).
		Association("Owners").
		Append(&models.User{ID: ownerID})
}

func (r *activityRepository) SetAllowedNetworks(ctx context.Context, activity *models.Activity, networkIDs []uint) error {
	networks := make([]models.Network, 0, len(networkIDs))
	for _, id := range networkIDs {
		networks = append(networks, models.Network{ID: id})
	}

	return r.db.WithContext(ctx).Model(activity).
		Association("AllowedNetworks").
		Replace(networks)
}

func (r *activityRepository) IsOwner(ctx context.Context, activityID, userID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Table("activity_owners").
		Where("activity_id = ? AND user_id = ?", activityID, userID).
		Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *activityRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Activity{}).Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

func (r *activityRepository) CountByOwner(ctx context.Context, ownerID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Table("activity_owners").
		Where("user_id = ?", ownerID).
		Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}
