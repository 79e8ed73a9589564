package repositories

import (
	"context"

	"loyaltyhub/internal/adapters/persistence/models"
)

// AccountRepository defines account repository interface
type AccountRepository interface {
	Create(ctx context.Context, account *models.Account) error
	GetByID(ctx context.Context, id uint) (*models.Account, error)
	GetByUsername(ctx context.Context, username string) (*models.Account, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}

// CustomerRepository defines customer repository interface
type CustomerRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Customer, error)
	GetByAccountID(ctx context.Context, accountID uint) (*models.Customer, error)
	List(ctx context.Context, offset, limit int) ([]*models.Customer, int64, error)
	// IncrementPoints atomically adds points to a customer's balance and
	// returns the number of rows affected (zero when the customer is unknown).
	IncrementPoints(ctx context.Context, id uint, points int64) (int64, error)
}

// RewardRepository defines reward repository interface
type RewardRepository interface {
	Create(ctx context.Context, reward *models.Reward) error
	GetByID(ctx context.Context, id uint) (*models.Reward, error)
	Update(ctx context.Context, reward *models.Reward) error
	SoftDelete(ctx context.Context, id uint) (int64, error)
	SetImageURL(ctx context.Context, id uint, imageURL string) error
	ListAvailable(ctx context.Context, offset, limit int) ([]*models.Reward, int64, error)
	ListAll(ctx context.Context, offset, limit int) ([]*models.Reward, int64, error)
	ExistsByName(ctx context.Context, name string, excludeID uint) (bool, error)
}

// RedemptionRepository defines redemption ledger repository interface.
// The ledger is append-only: there is deliberately no update or delete method.
type RedemptionRepository interface {
	ListByCustomer(ctx context.Context, customerID uint, offset, limit int) ([]*models.Redemption, int64, error)
	TopRedeemers(ctx context.Context, limit int) ([]*models.TopRedeemer, error)
}
