package repositories

import (
	"context"

	"loyaltyhub/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// rewardRepository implements RewardRepository interface
type rewardRepository struct {
	db *gorm.DB
}

// NewRewardRepository creates a new reward repository
func NewRewardRepository(db *gorm.DB) RewardRepository {
	return &rewardRepository{db: db}
}

// Create creates a new reward
func (r *rewardRepository) Create(ctx context.Context, reward *models.Reward) error {
	return r.db.WithContext(ctx).Create(reward).Error
}

// GetByID gets a reward by ID, including soft-deleted ones so historical
// redemptions can still be displayed.
func (r *rewardRepository) GetByID(ctx context.Context, id uint) (*models.Reward, error) {
	var reward models.Reward
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&reward).Error
	if err != nil {
		return nil, err
	}
	return &reward, nil
}

// Update updates a reward
func (r *rewardRepository) Update(ctx context.Context, reward *models.Reward) error {
	return r.db.WithContext(ctx).Save(reward).Error
}

// SoftDelete marks a reward inactive instead of removing the row
func (r *rewardRepository) SoftDelete(ctx context.Context, id uint) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Reward{}).
		Where("id = ?", id).
		Update("is_active", false)
	return res.RowsAffected, res.Error
}

// SetImageURL updates the stored image reference of a reward
func (r *rewardRepository) SetImageURL(ctx context.Context, id uint, imageURL string) error {
	return r.db.WithContext(ctx).Model(&models.Reward{}).
		Where("id = ?", id).
		Update("image_url", imageURL).Error
}

// ListAvailable lists active, in-stock rewards with pagination
func (r *rewardRepository) ListAvailable(ctx context.Context, offset, limit int) ([]*models.Reward, int64, error) {
	var rewards []*models.Reward
	var total int64

	available := r.db.WithContext(ctx).Model(&models.Reward{}).
		Where("is_active = ? AND stock_quantity > 0", true)

	if err := available.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := available.
		Order("updated_at DESC").
		Offset(offset).Limit(limit).
		Find(&rewards).Error
	if err != nil {
		return nil, 0, err
	}

	return rewards, total, nil
}

// ListAll lists every reward, active or not (admin catalog view)
func (r *rewardRepository) ListAll(ctx context.Context, offset, limit int) ([]*models.Reward, int64, error) {
	var rewards []*models.Reward
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Reward{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Order("updated_at DESC").
		Offset(offset).Limit(limit).
		Find(&rewards).Error
	if err != nil {
		return nil, 0, err
	}

	return rewards, total, nil
}

// ExistsByName checks if a reward name is taken by another reward
func (r *rewardRepository) ExistsByName(ctx context.Context, name string, excludeID uint) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.Reward{}).Where("reward_name = ?", name)
	if excludeID > 0 {
		q = q.Where("id != ?", excludeID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}
