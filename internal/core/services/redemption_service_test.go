package services

import (
	"context"
	"testing"

	"loyaltyhub/internal/adapters/persistence/models"
	"loyaltyhub/internal/adapters/persistence/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB creates an in-memory SQLite database with the full schema
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err, "failed to connect to test database")

	err = models.AutoMigrate(db)
	require.NoError(t, err, "failed to migrate database schema")

	return db
}

// createTestCustomer inserts a customer with a backing account
func createTestCustomer(t *testing.T, db *gorm.DB, points int64) *models.Customer {
	account := &models.Account{
		Username:     "alice-" + t.Name(),
		PasswordHash: "x",
		Role:         models.RoleCustomer,
	}
	require.NoError(t, db.Create(account).Error)

	customer := &models.Customer{
		AccountID:     account.ID,
		CifNumber:     "CIF" + t.Name(),
		FullName:      "Alice Test",
		CurrentPoints: points,
	}
	require.NoError(t, db.Create(customer).Error)
	return customer
}

// createTestReward inserts a reward
func createTestReward(t *testing.T, db *gorm.DB, cost int64, stock int, active bool) *models.Reward {
	reward := &models.Reward{
		RewardName:    "Coffee Mug " + t.Name(),
		Description:   "A mug",
		PointsCost:    cost,
		StockQuantity: stock,
		IsActive:      active,
	}
	require.NoError(t, db.Create(reward).Error)
	return reward
}

func newRedemptionService(db *gorm.DB) *RedemptionService {
	return NewRedemptionService(db, repositories.NewRedemptionRepository(db))
}

func TestRedemptionService_Redeem_Success(t *testing.T) {
	// Arrange
	db := setupTestDB(t)
	svc := newRedemptionService(db)
	customer := createTestCustomer(t, db, 100)
	reward := createTestReward(t, db, 30, 5, true)

	// Act
	redemption, err := svc.Redeem(context.Background(), customer.ID, reward.ID, 2)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, customer.ID, redemption.CustomerID)
	assert.Equal(t, reward.ID, redemption.RewardID)
	assert.Equal(t, 2, redemption.Quantity)
	assert.Equal(t, int64(60), redemption.PointsSpent)
	assert.Equal(t, models.RedemptionStatusCompleted, redemption.Status)
	require.NotNil(t, redemption.Reward, "result must carry the reward for display")
	assert.Equal(t, reward.RewardName, redemption.Reward.RewardName)
	assert.Equal(t, reward.RewardName, redemption.ToResponse().RewardName)

	var gotCustomer models.Customer
	require.NoError(t, db.First(&gotCustomer, customer.ID).Error)
	assert.Equal(t, int64(40), gotCustomer.CurrentPoints, "balance should be debited by cost")

	var gotReward models.Reward
	require.NoError(t, db.First(&gotReward, reward.ID).Error)
	assert.Equal(t, 3, gotReward.StockQuantity, "stock should decrease by quantity")

	var count int64
	require.NoError(t, db.Model(&models.Redemption{}).Count(&count).Error)
	assert.Equal(t, int64(1), count, "exactly one redemption row should be written")
}

func TestRedemptionService_Redeem_InsufficientPoints(t *testing.T) {
	db := setupTestDB(t)
	svc := newRedemptionService(db)
	customer := createTestCustomer(t, db, 100)
	reward := createTestReward(t, db, 30, 10, true)

	// 4 x 30 = 120 > 100
	_, err := svc.Redeem(context.Background(), customer.ID, reward.ID, 4)

	require.ErrorIs(t, err, ErrInsufficientPoints)

	// Nothing must change when the redemption is refused
	var gotCustomer models.Customer
	require.NoError(t, db.First(&gotCustomer, customer.ID).Error)
	assert.Equal(t, int64(100), gotCustomer.CurrentPoints)

	var gotReward models.Reward
	require.NoError(t, db.First(&gotReward, reward.ID).Error)
	assert.Equal(t, 10, gotReward.StockQuantity)

	var count int64
	require.NoError(t, db.Model(&models.Redemption{}).Count(&count).Error)
	assert.Zero(t, count, "a refused redemption must not write history")
}

func TestRedemptionService_Redeem_InsufficientStock(t *testing.T) {
	db := setupTestDB(t)
	svc := newRedemptionService(db)
	customer := createTestCustomer(t, db, 1000)
	reward := createTestReward(t, db, 10, 2, true)

	_, err := svc.Redeem(context.Background(), customer.ID, reward.ID, 3)

	require.ErrorIs(t, err, ErrInsufficientStock)

	// The points debit inside the transaction must have been rolled back
	var gotCustomer models.Customer
	require.NoError(t, db.First(&gotCustomer, customer.ID).Error)
	assert.Equal(t, int64(1000), gotCustomer.CurrentPoints)
}

func TestRedemptionService_Redeem_InactiveReward(t *testing.T) {
	db := setupTestDB(t)
	svc := newRedemptionService(db)
	customer := createTestCustomer(t, db, 1000)
	reward := createTestReward(t, db, 10, 5, false)

	_, err := svc.Redeem(context.Background(), customer.ID, reward.ID, 1)

	require.ErrorIs(t, err, ErrRewardInactive)
}

func TestRedemptionService_Redeem_CustomerNotFound(t *testing.T) {
	db := setupTestDB(t)
	svc := newRedemptionService(db)
	reward := createTestReward(t, db, 10, 5, true)

	_, err := svc.Redeem(context.Background(), 9999, reward.ID, 1)

	require.ErrorIs(t, err, ErrCustomerNotFound)
}

func TestRedemptionService_Redeem_RewardNotFound(t *testing.T) {
	db := setupTestDB(t)
	svc := newRedemptionService(db)
	customer := createTestCustomer(t, db, 1000)

	_, err := svc.Redeem(context.Background(), customer.ID, 9999, 1)

	require.ErrorIs(t, err, ErrRewardNotFound)
}

func TestRedemptionService_Redeem_InvalidQuantity(t *testing.T) {
	db := setupTestDB(t)
	svc := newRedemptionService(db)
	customer := createTestCustomer(t, db, 1000)
	reward := createTestReward(t, db, 10, 5, true)

	for _, quantity := range []int{0, -1} {
		_, err := svc.Redeem(context.Background(), customer.ID, reward.ID, quantity)
		require.ErrorIs(t, err, ErrInvalidQuantity, "quantity %d must be rejected", quantity)
	}
}

/// Two redemptions that are each valid alone but jointly overdraw the balance:
// the second one must be refused and the balance must never go negative.
// Run sequentially on purpose. The in-memory sqlite driver serializes
// writers, so racing goroutines here would only ever observe one writer at
// a time (or fail with "database is locked"). On MySQL the guarantee comes
// from the conditional UPDATE guards inside the transaction, which this
// test exercises back to back.
func TestRedemptionService_Redeem_JointOverdraw(t *testing.T) {
	db := setupTestDB(t)
	svc := newRedemptionService(db)
	customer := createTestCustomer(t, db, 100)
	reward := createTestReward(t, db, 60, 10, true)

	_, err := svc.Redeem(context.Background(), customer.ID, reward.ID, 1)
	require.NoError(t, err)

	_, err = svc.Redeem(context.Background(), customer.ID, reward.ID, 1)
	require.ErrorIs(t, err, ErrInsufficientPoints)

	var gotCustomer models.Customer
	require.NoError(t, db.First(&gotCustomer, customer.ID).Error)
	assert.Equal(t, int64(40), gotCustomer.CurrentPoints)
	assert.GreaterOrEqual(t, gotCustomer.CurrentPoints, int64(0), "balance must never go negative")

	var count int64
	require.NoError(t, db.Model(&models.Redemption{}).Count(&count).Error)
	assert.Equal(t, int64(1), count, "only the first redemption should be recorded")
}

func TestRedemptionService_History_NewestFirst(t *testing.T) {
	db := setupTestDB(t)
	svc := newRedemptionService(db)
	customer := createTestCustomer(t, db, 1000)
	reward := createTestReward(t, db, 10, 50, true)

	for i := 0; i < 3; i++ {
		_, err := svc.Redeem(context.Background(), customer.ID, reward.ID, 1)
		require.NoError(t, err)
	}

	redemptions, total, err := svc.History(context.Background(), customer.ID, 0, 10)

	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, redemptions, 3)
	for _, redemption := range redemptions {
		assert.Equal(t, customer.ID, redemption.CustomerID)
		require.NotNil(t, redemption.Reward, "history should resolve the reward")
	}
}

func TestRedemptionService_History_Pagination(t *testing.T) {
	db := setupTestDB(t)
	svc := newRedemptionService(db)
	customer := createTestCustomer(t, db, 1000)
	reward := createTestReward(t, db, 10, 50, true)

	for i := 0; i < 5; i++ {
		_, err := svc.Redeem(context.Background(), customer.ID, reward.ID, 1)
		require.NoError(t, err)
	}

	page, total, err := svc.History(context.Background(), customer.ID, 3, 2)

	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, page, 2)
}
