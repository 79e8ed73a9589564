package services

import (
	"context"
	"testing"

	"loyaltyhub/internal/adapters/persistence/models"
	"loyaltyhub/internal/adapters/persistence/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newCustomerService(db *gorm.DB) *CustomerService {
	return NewCustomerService(
		repositories.NewCustomerRepository(db),
		repositories.NewRedemptionRepository(db))
}

func TestCustomerService_AddPoints_Success(t *testing.T) {
	db := setupTestDB(t)
	svc := newCustomerService(db)
	customer := createTestCustomer(t, db, 50)

	newBalance, err := svc.AddPoints(context.Background(), customer.ID, 25)

	require.NoError(t, err)
	assert.Equal(t, int64(75), newBalance)

	var got models.Customer
	require.NoError(t, db.First(&got, customer.ID).Error)
	assert.Equal(t, int64(75), got.CurrentPoints)
}

func TestCustomerService_AddPoints_NonPositiveDelta(t *testing.T) {
	db := setupTestDB(t)
	svc := newCustomerService(db)
	customer := createTestCustomer(t, db, 50)

	for _, points := range []int64{0, -10} {
		_, err := svc.AddPoints(context.Background(), customer.ID, points)
		require.ErrorIs(t, err, ErrInvalidPoints, "delta %d must be rejected", points)
	}

	// Balance untouched after rejected accruals
	var got models.Customer
	require.NoError(t, db.First(&got, customer.ID).Error)
	assert.Equal(t, int64(50), got.CurrentPoints)
}

func TestCustomerService_AddPoints_UnknownCustomer(t *testing.T) {
	db := setupTestDB(t)
	svc := newCustomerService(db)

	_, err := svc.AddPoints(context.Background(), 9999, 10)

	require.ErrorIs(t, err, ErrCustomerNotFound)
}

func TestCustomerService_GetByID_NotFound(t *testing.T) {
	db := setupTestDB(t)
	svc := newCustomerService(db)

	_, err := svc.GetByID(context.Background(), 9999)

	require.ErrorIs(t, err, ErrCustomerNotFound)
}

func TestCustomerService_GetByAccountID(t *testing.T) {
	db := setupTestDB(t)
	svc := newCustomerService(db)
	customer := createTestCustomer(t, db, 10)

	got, err := svc.GetByAccountID(context.Background(), customer.AccountID)

	require.NoError(t, err)
	assert.Equal(t, customer.ID, got.ID)

	_, err = svc.GetByAccountID(context.Background(), 9999)
	require.ErrorIs(t, err, ErrCustomerNotFound)
}

func TestCustomerService_TopRedeemers(t *testing.T) {
	db := setupTestDB(t)
	customerSvc := newCustomerService(db)
	redemptionSvc := newRedemptionService(db)

	reward := createTestReward(t, db, 10, 100, true)

	// Seven customers redeem increasing amounts, only five may appear
	var heaviest uint
	for i := 1; i <= 7; i++ {
		account := &models.Account{Username: string(rune('a'+i)) + "-top", PasswordHash: "x", Role: models.RoleCustomer}
		require.NoError(t, db.Create(account).Error)
		customer := &models.Customer{
			AccountID:     account.ID,
			CifNumber:     "CIF10000" + string(rune('0'+i)),
			FullName:      "Customer",
			CurrentPoints: 1000,
		}
		require.NoError(t, db.Create(customer).Error)

		_, err := redemptionSvc.Redeem(context.Background(), customer.ID, reward.ID, i)
		require.NoError(t, err)
		heaviest = customer.ID
	}

	top, err := customerSvc.TopRedeemers(context.Background())

	require.NoError(t, err)
	require.Len(t, top, TopRedeemersLimit)
	assert.Equal(t, heaviest, top[0].CustomerID, "heaviest redeemer should rank first")
	assert.Equal(t, int64(7), top[0].TotalGiftsRedeemed)
	assert.Equal(t, int64(70), top[0].TotalPointsSpent)

	// Ranking is descending by gifts redeemed
	for i := 1; i < len(top); i++ {
		assert.GreaterOrEqual(t, top[i-1].TotalGiftsRedeemed, top[i].TotalGiftsRedeemed)
	}
}

func TestCustomerService_TopRedeemers_EmptyLedger(t *testing.T) {
	db := setupTestDB(t)
	svc := newCustomerService(db)
	createTestCustomer(t, db, 100)

	top, err := svc.TopRedeemers(context.Background())

	require.NoError(t, err)
	assert.Empty(t, top, "customers with no redemptions never appear")
}
