package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"loyaltyhub/internal/adapters/persistence/models"
	"loyaltyhub/internal/adapters/persistence/repositories"
	"loyaltyhub/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Code    string          `json:"code"`
}

func setupRedemptionApp(t *testing.T) (*fiber.App, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))

	svc := services.NewRedemptionService(db, repositories.NewRedemptionRepository(db))
	handler := NewRedemptionHandler(svc)

	app := fiber.New()
	app.Post("/redemptions", handler.Redeem)
	app.Get("/redemptions/history/:customerId", handler.History)
	return app, db
}

func seedCustomerAndReward(t *testing.T, db *gorm.DB, points int64, cost int64, stock int) (uint, uint) {
	account := &models.Account{Username: "bob", PasswordHash: "x", Role: models.RoleCustomer}
	require.NoError(t, db.Create(account).Error)
	customer := &models.Customer{AccountID: account.ID, CifNumber: "CIF000001", FullName: "Bob", CurrentPoints: points}
	require.NoError(t, db.Create(customer).Error)
	reward := &models.Reward{RewardName: "Mug", PointsCost: cost, StockQuantity: stock, IsActive: true}
	require.NoError(t, db.Create(reward).Error)
	return customer.ID, reward.ID
}

func postRedemption(t *testing.T, app *fiber.App, body map[string]interface{}) (int, *envelope) {
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/redemptions", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, &env
}

func TestRedemptionHandler_Redeem_Created(t *testing.T) {
	app, db := setupRedemptionApp(t)
	customerID, rewardID := seedCustomerAndReward(t, db, 100, 30, 5)

	status, env := postRedemption(t, app, map[string]interface{}{
		"customer_id": customerID,
		"reward_id":   rewardID,
		"quantity":    2,
	})

	assert.Equal(t, fiber.StatusCreated, status)
	assert.True(t, env.Success)

	var data models.RedemptionResponse
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, int64(60), data.PointsSpent)
	assert.Equal(t, models.RedemptionStatusCompleted, data.Status)
	assert.Equal(t, "Mug", data.RewardName, "create response must name the reward")
}

func TestRedemptionHandler_Redeem_InsufficientPointsCode(t *testing.T) {
	app, db := setupRedemptionApp(t)
	customerID, rewardID := seedCustomerAndReward(t, db, 10, 30, 5)

	status, env := postRedemption(t, app, map[string]interface{}{
		"customer_id": customerID,
		"reward_id":   rewardID,
		"quantity":    1,
	})

	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.False(t, env.Success)
	assert.Equal(t, CodeInsufficientPoints, env.Code)
}

func TestRedemptionHandler_Redeem_InsufficientStockCode(t *testing.T) {
	app, db := setupRedemptionApp(t)
	customerID, rewardID := seedCustomerAndReward(t, db, 1000, 10, 1)

	status, env := postRedemption(t, app, map[string]interface{}{
		"customer_id": customerID,
		"reward_id":   rewardID,
		"quantity":    2,
	})

	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, CodeInsufficientStock, env.Code)
}

func TestRedemptionHandler_Redeem_InactiveRewardCode(t *testing.T) {
	app, db := setupRedemptionApp(t)
	customerID, rewardID := seedCustomerAndReward(t, db, 1000, 10, 5)
	require.NoError(t, db.Model(&models.Reward{}).Where("id = ?", rewardID).Update("is_active", false).Error)

	status, env := postRedemption(t, app, map[string]interface{}{
		"customer_id": customerID,
		"reward_id":   rewardID,
		"quantity":    1,
	})

	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, CodeRewardInactive, env.Code)
}

func TestRedemptionHandler_Redeem_UnknownCustomer(t *testing.T) {
	app, db := setupRedemptionApp(t)
	_, rewardID := seedCustomerAndReward(t, db, 100, 10, 5)

	status, env := postRedemption(t, app, map[string]interface{}{
		"customer_id": 9999,
		"reward_id":   rewardID,
		"quantity":    1,
	})

	assert.Equal(t, fiber.StatusNotFound, status)
	assert.False(t, env.Success)
}

func TestRedemptionHandler_Redeem_MissingFields(t *testing.T) {
	app, _ := setupRedemptionApp(t)

	status, _ := postRedemption(t, app, map[string]interface{}{
		"quantity": 1,
	})

	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestRedemptionHandler_History(t *testing.T) {
	app, db := setupRedemptionApp(t)
	customerID, rewardID := seedCustomerAndReward(t, db, 1000, 10, 50)

	for i := 0; i < 3; i++ {
		status, _ := postRedemption(t, app, map[string]interface{}{
			"customer_id": customerID,
			"reward_id":   rewardID,
			"quantity":    1,
		})
		require.Equal(t, fiber.StatusCreated, status)
	}

	req := httptest.NewRequest("GET", "/redemptions/history/1?page=1&page_size=2", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var page struct {
		Data []models.RedemptionResponse `json:"data"`
		Meta struct {
			Total      int64 `json:"total"`
			TotalPages int   `json:"total_pages"`
		} `json:"meta"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
	assert.Len(t, page.Data, 2)
	assert.Equal(t, int64(3), page.Meta.Total)
	assert.Equal(t, 2, page.Meta.TotalPages)
}
