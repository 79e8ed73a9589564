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

// CustomerHandler handles customer endpoints
type CustomerHandler struct {
	customerService *services.CustomerService
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(customerService *services.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// AddPointsRequest represents a point accrual request body
type AddPointsRequest struct {
	Points int64  `json:"points"`
	Reason string `json:"reason"`
}

// List handles customer listing
// @Summary List customers
// @Description List all customers, most recently updated first
// @Tags Customers
// @Produce json
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} pagination.Response
// @Router /customers [get]
func (h *CustomerHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	customers, total, err := h.customerService.List(c.Context(), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list customers")
	}

	data := make([]*models.CustomerResponse, 0, len(customers))
	for _, customer := range customers {
		data = append(data, customer.ToResponse())
	}

	return c.JSON(pagination.NewResponse(data, params, total))
}

// GetByID handles customer detail lookup
// @Summary Get customer
// @Tags Customers
// @Produce json
// @Param id path int true "Customer ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /customers/{id} [get]
func (h *CustomerHandler) GetByID(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid customer ID")
	}

	customer, err := h.customerService.GetByID(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrCustomerNotFound) {
			return response.NotFound(c, "Customer not found")
		}
		return response.InternalServerError(c, "Failed to get customer")
	}

	return response.Success(c, "Customer retrieved successfully", customer.ToResponse())
}

// GetByAccount resolves the customer owned by an account
// @Summary Get customer by account
// @Tags Customers
// @Produce json
// @Param accountId path int true "Account ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /customers/by-account/{accountId} [get]
func (h *CustomerHandler) GetByAccount(c *fiber.Ctx) error {
	accountID, err := strconv.ParseUint(c.Params("accountId"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid account ID")
	}

	customer, err := h.customerService.GetByAccountID(c.Context(), uint(accountID))
	if err != nil {
		if errors.Is(err, services.ErrCustomerNotFound) {
			return response.NotFound(c, "Customer not found")
		}
		return response.InternalServerError(c, "Failed to get customer")
	}

	return response.Success(c, "Customer retrieved successfully", customer.ToResponse())
}

// AddPoints handles point accrual
// @Summary Add points
// @Description Atomically add points to a customer's balance
// @Tags Customers
// @Accept json
// @Produce json
// @Param id path int true "Customer ID"
// @Param body body AddPointsRequest true "Points to add"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /customers/{id}/points [post]
func (h *CustomerHandler) AddPoints(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid customer ID")
	}

	var req AddPointsRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	newBalance, err := h.customerService.AddPoints(c.Context(), uint(id), req.Points)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidPoints):
			return response.BadRequest(c, "Points must be greater than zero")
		case errors.Is(err, services.ErrCustomerNotFound):
			return response.NotFound(c, "Customer not found")
		default:
			return response.InternalServerError(c, "Failed to add points")
		}
	}

	return response.Success(c, "Points added successfully", fiber.Map{
		"customer_id": uint(id),
		"new_balance": newBalance,
	})
}

// TopRedeemers handles the statistics listing
// @Summary Top redeemers
// @Description Top customers by total quantity redeemed
// @Tags Customers
// @Produce json
// @Success 200 {object} response.Response
// @Router /customers/top-redeemers [get]
func (h *CustomerHandler) TopRedeemers(c *fiber.Ctx) error {
	stats, err := h.customerService.TopRedeemers(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to get statistics")
	}

	return response.Success(c, "Statistics retrieved successfully", stats)
}
