package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/IFRN-SPP/presente/internal/models"
)

// NetworkRepository defines persistence operations for network allow-lists.
type NetworkRepository interface {
	List(ctx context.Context) ([]models.Network, error)
	GetByID(ctx context.Context, id uint) (models.Network, error)
	Create(ctx context.Context, network *models.Network) error
	Update(ctx context.Context, network *models.Network) error
	Delete(ctx context.Context, id uint) error
	ActiveByActivity(ctx context.Context, activityID uint) ([]models.Network, error)
}

type networkRepository struct {
	db *gorm.DB
}

// NewNetworkRepository instantiates the repository.
func NewNetworkRepository(db *gorm.DB) NetworkRepository {
	return &networkRepository{db: db}
}

func (r *networkRepository) List(ctx context.Context) ([]models.Network, error) {
	var networks []models.Network
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&networks).Error; err != nil {
		return nil, err
	}

	return networks, nil
}

func (r *networkRepository) GetByID(ctx context.Context, id uint) (models.Network, error) {
	var network models.Network
	if err := r.db.WithContext(ctx).First(&network, id).Error; err != nil {
		return models.Network{}, err
	}

	return network, nil
}

func (r *networkRepository) Create(ctx context.Context, network *models.Network) error {
	return r.db.WithContext(ctx).Create(network).Error
}

func (r *networkRepository) Update(ctx context.Context, network *models.Network) error {
	return r.db.WithContext(ctx).Save(network).Error
}

// Delete removes a network and its activity associations; activities
// themselves are left untouched.
func (r *networkRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM activity_networks WHERE network_id = ?", id).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.Network{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return nil
	})
}

// ActiveByActivity returns the active networks associated with an
// activity, ordered by name so matching is deterministic.
func (r *networkRepository) ActiveByActivity(ctx context.Context, activityID uint) ([]models.Network, error) {
	var networks []models.Network
	if err := r.db.WithContext(ctx).
		Joins("JOIN activity_networks ON activity_networks.network_id = networks.id").
		Where("activity_networks.activity_id = ?", activityID).
		Where("networks.is_active = ?", true).
		Order("networks.name ASC").
		Find(&networks).Error; err != nil {
		return nil, err
	}

	return networks, nil
}
