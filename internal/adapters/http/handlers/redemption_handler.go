package handlers

import (
	"errors"
	"strconv"

	"loyaltyhub/internal/adapters/persistence/models"
	"loyaltyhub/internal/core/services"
	"loyaltyhub/internal/pkg/pagination"
	"loyaltyhub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// Business rule codes returned alongside 400 responses so clients can
// distinguish why a redemption was refused.
const (
	CodeRewardInactive     = "REWARD_INACTIVE"
	CodeInsufficientPoints = "INSUFFICIENT_POINTS"
	CodeInsufficientStock  = "INSUFFICIENT_STOCK"
)

// RedemptionHandler handles redemption endpoints
type RedemptionHandler struct {
	redemptionService *services.RedemptionService
}

// NewRedemptionHandler creates a new redemption handler
func NewRedemptionHandler(redemptionService *services.RedemptionService) *RedemptionHandler {
	return &RedemptionHandler{redemptionService: redemptionService}
}

// RedeemRequest represents a redemption request body
type RedeemRequest struct {
	CustomerID uint `json:"customer_id"`
	RewardID   uint `json:"reward_id"`
	Quantity   int  `json:"quantity"`
}

// Redeem exchanges customer points for a reward
// @Summary Redeem a reward
// @Description Debits points, decrements stock and records the redemption atomically
// @Tags Redemptions
// @Accept json
// @Produce json
// @Param body body RedeemRequest true "Redemption data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /redemptions [post]
func (h *RedemptionHandler) Redeem(c *fiber.Ctx) error {
	var req RedeemRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.CustomerID == 0 {
		return response.BadRequest(c, "Customer ID is required")
	}
	if req.RewardID == 0 {
		return response.BadRequest(c, "Reward ID is required")
	}

	redemption, err := h.redemptionService.Redeem(c.Context(), req.CustomerID, req.RewardID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidQuantity):
			return response.BadRequest(c, "Quantity must be greater than zero")
		case errors.Is(err, services.ErrCustomerNotFound):
			return response.NotFound(c, "Customer not found")
		case errors.Is(err, services.ErrRewardNotFound):
			return response.NotFound(c, "Reward not found")
		case errors.Is(err, services.ErrRewardInactive):
			return response.BusinessRule(c, CodeRewardInactive, "Reward is no longer available")
		case errors.Is(err, services.ErrInsufficientPoints):
			return response.BusinessRule(c, CodeInsufficientPoints, "Customer does not have enough points")
		case errors.Is(err, services.ErrInsufficientStock):
			return response.BusinessRule(c, CodeInsufficientStock, "Reward stock is not sufficient")
		default:
			return response.InternalServerError(c, "Failed to process redemption")
		}
	}

	return response.Created(c, "Redemption completed successfully", redemption.ToResponse())
}

// History lists a customer's redemptions, newest first
// @Summary Redemption history
// @Tags Redemptions
// @Produce json
// @Param customerId path int true "Customer ID"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} pagination.Response
// @Failure 404 {object} response.Response
// @Router /redemptions/history/{customerId} [get]
func (h *RedemptionHandler) History(c *fiber.Ctx) error {
	customerID, err := strconv.ParseUint(c.Params("customerId"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid customer ID")
	}

	params := pagination.GetParams(c)

	redemptions, total, err := h.redemptionService.History(c.Context(), uint(customerID), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list redemptions")
	}

	out := make([]*models.RedemptionResponse, 0, len(redemptions))
	for _, redemption := range redemptions {
		out = append(out, redemption.ToResponse())
	}

	return c.JSON(pagination.NewResponse(out, params, total))
}
