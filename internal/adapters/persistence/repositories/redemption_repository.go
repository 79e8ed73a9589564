package repositories

import (
	"context"

	"loyaltyhub/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// redemptionRepository implements RedemptionRepository interface
type redemptionRepository struct {
	db *gorm.DB
}

// NewRedemptionRepository creates a new redemption repository
func NewRedemptionRepository(db *gorm.DB) RedemptionRepository {
	return &redemptionRepository{db: db}
}

// ListByCustomer lists a customer's redemption ledger, newest first.
// Rewards are preloaded regardless of their active flag so soft-deleted
// rewards still show up with their name.
func (r *redemptionRepository) ListByCustomer(ctx context.Context, customerID uint, offset, limit int) ([]*models.Redemption, int64, error) {
	var redemptions []*models.Redemption
	var total int64

	byCustomer := r.db.WithContext(ctx).Model(&models.Redemption{}).
		Where("customer_id = ?", customerID)

	if err := byCustomer.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := byCustomer.
		Preload("Reward").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&redemptions).Error
	if err != nil {
		return nil, 0, err
	}

	return redemptions, total, nil
}

// TopRedeemers aggregates the customers that redeemed the most items
func (r *redemptionRepository) TopRedeemers(ctx context.Context, limit int) ([]*models.TopRedeemer, error) {
	var result []*models.TopRedeemer

	err := r.db.WithContext(ctx).
		Table("customers c").
		Select(`c.id AS customer_id,
			c.full_name AS full_name,
			c.cif_number AS cif_number,
			SUM(r.quantity) AS total_gifts_redeemed,
			SUM(r.points_spent) AS total_points_spent`).
		Joins("JOIN redemptions r ON r.customer_id = c.id").
		Group("c.id, c.full_name, c.cif_number").
		Having("SUM(r.quantity) > 0").
		Order("total_gifts_redeemed DESC").
		Limit(limit).
		Scan(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
