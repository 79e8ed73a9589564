package handlers

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"loyaltyhub/internal/adapters/persistence/models"
	"loyaltyhub/internal/config"
	"loyaltyhub/internal/core/services"
	"loyaltyhub/internal/pkg/pagination"
	"loyaltyhub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// allowedImageExts whitelists reward image upload extensions
var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// RewardHandler handles reward catalog endpoints
type RewardHandler struct {
	rewardService *services.RewardService
	cfg           *config.Config
}

// NewRewardHandler creates a new reward handler
func NewRewardHandler(rewardService *services.RewardService, cfg *config.Config) *RewardHandler {
	return &RewardHandler{
		rewardService: rewardService,
		cfg:           cfg,
	}
}

// RewardRequest represents create/update request body
type RewardRequest struct {
	RewardName    string `json:"reward_name"`
	Description   string `json:"description"`
	PointsCost    int64  `json:"points_cost"`
	StockQuantity int    `json:"stock_quantity"`
	IsActive      bool   `json:"is_active"`
	LastUpdatedBy *uint  `json:"last_updated_by"`
}

// ListAvailable lists active, in-stock rewards
// @Summary List available rewards
// @Tags Rewards
// @Produce json
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} pagination.Response
// @Router /rewards [get]
func (h *RewardHandler) ListAvailable(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	rewards, total, err := h.rewardService.ListAvailable(c.Context(), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list rewards")
	}

	return c.JSON(pagination.NewResponse(toRewardResponses(rewards), params, total))
}

// ListAll lists every reward including inactive ones
// @Summary List all rewards (admin)
// @Tags Rewards
// @Produce json
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} pagination.Response
// @Router /rewards/all [get]
func (h *RewardHandler) ListAll(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	rewards, total, err := h.rewardService.ListAll(c.Context(), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list rewards")
	}

	return c.JSON(pagination.NewResponse(toRewardResponses(rewards), params, total))
}

// GetByID gets a reward by ID
// @Summary Get reward
// @Tags Rewards
// @Produce json
// @Param id path int true "Reward ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /rewards/{id} [get]
func (h *RewardHandler) GetByID(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid reward ID")
	}

	reward, err := h.rewardService.GetByID(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrRewardNotFound) {
			return response.NotFound(c, "Reward not found")
		}
		return response.InternalServerError(c, "Failed to get reward")
	}

	return response.Success(c, "Reward retrieved successfully", reward.ToResponse())
}

// Create adds a new reward
// @Summary Create reward (admin)
// @Tags Rewards
// @Accept json
// @Produce json
// @Param body body RewardRequest true "Reward data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /rewards [post]
func (h *RewardHandler) Create(c *fiber.Ctx) error {
	var req RewardRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := validateRewardRequest(&req); err != nil {
		return response.BadRequest(c, err.Error())
	}

	reward, err := h.rewardService.Create(c.Context(), rewardInput(&req))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRewardNameTaken):
			return response.Conflict(c, "Reward name already exists")
		case errors.Is(err, services.ErrInvalidReward):
			return response.BadRequest(c, "Invalid reward data")
		default:
			return response.InternalServerError(c, "Failed to create reward")
		}
	}

	return response.Created(c, "Reward created successfully", reward.ToResponse())
}

// Update modifies an existing reward
// @Summary Update reward (admin)
// @Tags Rewards
// @Accept json
// @Produce json
// @Param id path int true "Reward ID"
// @Param body body RewardRequest true "Reward data"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /rewards/{id} [put]
func (h *RewardHandler) Update(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid reward ID")
	}

	var req RewardRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := validateRewardRequest(&req); err != nil {
		return response.BadRequest(c, err.Error())
	}

	reward, err := h.rewardService.Update(c.Context(), uint(id), rewardInput(&req))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRewardNotFound):
			return response.NotFound(c, "Reward not found")
		case errors.Is(err, services.ErrRewardNameTaken):
			return response.Conflict(c, "Reward name already exists")
		case errors.Is(err, services.ErrInvalidReward):
			return response.BadRequest(c, "Invalid reward data")
		default:
			return response.InternalServerError(c, "Failed to update reward")
		}
	}

	return response.Success(c, "Reward updated successfully", reward.ToResponse())
}

// Delete soft-deletes a reward
// @Summary Delete reward (admin)
// @Description Marks the reward inactive; the row is kept for history
// @Tags Rewards
// @Produce json
// @Param id path int true "Reward ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /rewards/{id} [delete]
func (h *RewardHandler) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid reward ID")
	}

	if err := h.rewardService.Delete(c.Context(), uint(id)); err != nil {
		if errors.Is(err, services.ErrRewardNotFound) {
			return response.NotFound(c, "Reward not found")
		}
		return response.InternalServerError(c, "Failed to delete reward")
	}

	return response.Success(c, "Reward deleted successfully", nil)
}

// UploadImage stores a reward image and updates the image reference
// @Summary Upload reward image (admin)
// @Tags Rewards
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Reward ID"
// @Param image_file formData file true "Image file"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /rewards/{id}/image [post]
func (h *RewardHandler) UploadImage(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid reward ID")
	}

	// Resolve the reward before anything touches disk so a 404 never
	// leaves an orphaned upload behind
	if _, err := h.rewardService.GetByID(c.Context(), uint(id)); err != nil {
		if errors.Is(err, services.ErrRewardNotFound) {
			return response.NotFound(c, "Reward not found")
		}
		return response.InternalServerError(c, "Failed to get reward")
	}

	file, err := c.FormFile("image_file")
	if err != nil {
		return response.BadRequest(c, "Image file is required")
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExts[ext] {
		return response.BadRequest(c, "Unsupported image type")
	}
	if file.Size > int64(h.cfg.Upload.MaxSizeMB)*1024*1024 {
		return response.BadRequest(c, fmt.Sprintf("Image must not exceed %d MB", h.cfg.Upload.MaxSizeMB))
	}

	if err := os.MkdirAll(h.cfg.Upload.Dir, 0o755); err != nil {
		return response.InternalServerError(c, "Failed to store image")
	}

	name := uuid.New().String() + ext
	storedPath := filepath.Join(h.cfg.Upload.Dir, name)
	if err := c.SaveFile(file, storedPath); err != nil {
		return response.InternalServerError(c, "Failed to store image")
	}

	imageURL := h.cfg.Upload.PublicPath + "/" + name

	reward, err := h.rewardService.AttachImage(c.Context(), uint(id), imageURL)
	if err != nil {
		_ = os.Remove(storedPath)
		if errors.Is(err, services.ErrRewardNotFound) {
			return response.NotFound(c, "Reward not found")
		}
		return response.InternalServerError(c, "Failed to update reward image")
	}

	return response.Success(c, "Image uploaded successfully", reward.ToResponse())
}

func validateRewardRequest(req *RewardRequest) error {
	if strings.TrimSpace(req.RewardName) == "" {
		return errors.New("Reward name is required")
	}
	if req.PointsCost <= 0 {
		return errors.New("Points cost must be greater than zero")
	}
	if req.StockQuantity < 0 {
		return errors.New("Stock quantity must not be negative")
	}
	return nil
}

func rewardInput(req *RewardRequest) *services.RewardInput {
	return &services.RewardInput{
		RewardName:    req.RewardName,
		Description:   req.Description,
		PointsCost:    req.PointsCost,
		StockQuantity: req.StockQuantity,
		IsActive:      req.IsActive,
		LastUpdatedBy: req.LastUpdatedBy,
	}
}

func toRewardResponses(rewards []*models.Reward) []*models.RewardResponse {
	out := make([]*models.RewardResponse, 0, len(rewards))
	for _, reward := range rewards {
		out = append(out, reward.ToResponse())
	}
	return out
}
