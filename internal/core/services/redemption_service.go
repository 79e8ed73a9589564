package services

import (
	"context"
	"errors"
	"log"

	"loyaltyhub/internal/adapters/persistence/models"
	"loyaltyhub/internal/adapters/persistence/repositories"

	"gorm.io/gorm"
)

// Redemption errors
var (
	ErrCustomerNotFound   = errors.New("customer not found")
	ErrRewardNotFound     = errors.New("reward not found")
	ErrRewardInactive     = errors.New("reward is inactive")
	ErrInsufficientPoints = errors.New("insufficient points")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrInvalidQuantity    = errors.New("quantity must be greater than zero")
)

// RedemptionService performs point-for-reward exchanges. A redemption either
// debits the balance, decrements stock and appends one ledger row — all inside
// a single transaction — or leaves every row untouched.
type RedemptionService struct {
	db             *gorm.DB
	redemptionRepo repositories.RedemptionRepository
}

// NewRedemptionService creates a new redemption service
func NewRedemptionService(db *gorm.DB, redemptionRepo repositories.RedemptionRepository) *RedemptionService {
	return &RedemptionService{
		db:             db,
		redemptionRepo: redemptionRepo,
	}
}

// Redeem exchanges quantity units of a reward for the customer's points.
//
// Balance and stock are mutated with conditional updates
// ("SET x = x - n WHERE x >= n"), so two concurrent redemptions that would
// jointly overdraw either one can never both succeed: the guard is evaluated
// against current row state at update time, not against the earlier read.
func (s *RedemptionService) Redeem(ctx context.Context, customerID, rewardID uint, quantity int) (*models.Redemption, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	var redemption *models.Redemption

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var customer models.Customer
		if err := tx.Where("id = ?", customerID).First(&customer).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCustomerNotFound
			}
			return err
		}

		var reward models.Reward
		if err := tx.Where("id = ?", rewardID).First(&reward).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRewardNotFound
			}
			return err
		}
		if !reward.IsActive {
			return ErrRewardInactive
		}

		// Cost is captured from the reward as read inside this transaction
		// and written to the ledger row, never re-derived later.
		cost := reward.PointsCost * int64(quantity)

		debit := tx.Model(&models.Customer{}).
			Where("id = ? AND current_points >= ?", customerID, cost).
			Update("current_points", gorm.Expr("current_points - ?", cost))
		if debit.Error != nil {
			return debit.Error
		}
		if debit.RowsAffected == 0 {
			return ErrInsufficientPoints
		}

		decrement := tx.Model(&models.Reward{}).
			Where("id = ? AND stock_quantity >= ? AND is_active = ?", rewardID, quantity, true).
			Update("stock_quantity", gorm.Expr("stock_quantity - ?", quantity))
		if decrement.Error != nil {
			return decrement.Error
		}
		if decrement.RowsAffected == 0 {
			return ErrInsufficientStock
		}

		redemption = &models.Redemption{
			CustomerID:  customerID,
			RewardID:    rewardID,
			Quantity:    quantity,
			PointsSpent: cost,
			Status:      models.RedemptionStatusCompleted,
		}
		if err := tx.Create(redemption).Error; err != nil {
			return err
		}

		// Attached after the insert so Create never writes the association.
		// Callers render the reward name without a second lookup.
		reward.StockQuantity -= quantity
		redemption.Reward = &reward
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Redemption completed: customer=%d reward=%d quantity=%d points=%d",
		customerID, rewardID, quantity, redemption.PointsSpent)

	return redemption, nil
}

// History returns a customer's redemption ledger, newest first
func (s *RedemptionService) History(ctx context.Context, customerID uint, offset, limit int) ([]*models.Redemption, int64, error) {
	return s.redemptionRepo.ListByCustomer(ctx, customerID, offset, limit)
}
