package services

import (
	"context"
	"errors"
	"log"
	"strings"

	"loyaltyhub/internal/adapters/persistence/models"
	"loyaltyhub/internal/adapters/persistence/repositories"

	"gorm.io/gorm"
)

// Reward catalog errors
var (
	ErrRewardNameTaken = errors.New("reward name already exists")
	ErrInvalidReward   = errors.New("invalid reward data")
)

// RewardInput carries create/update fields for a reward
type RewardInput struct {
	RewardName    string `json:"reward_name"`
	Description   string `json:"description"`
	PointsCost    int64  `json:"points_cost"`
	StockQuantity int    `json:"stock_quantity"`
	IsActive      bool   `json:"is_active"`
	LastUpdatedBy *uint  `json:"last_updated_by"`
}

func (in *RewardInput) validate() error {
	if strings.TrimSpace(in.RewardName) == "" {
		return ErrInvalidReward
	}
	if in.PointsCost <= 0 {
		return ErrInvalidReward
	}
	if in.StockQuantity < 0 {
		return ErrInvalidReward
	}
	return nil
}

// RewardService handles reward catalog management
type RewardService struct {
	rewardRepo repositories.RewardRepository
}

// NewRewardService creates a new reward service
func NewRewardService(rewardRepo repositories.RewardRepository) *RewardService {
	return &RewardService{rewardRepo: rewardRepo}
}

// ListAvailable lists active, in-stock rewards
func (s *RewardService) ListAvailable(ctx context.Context, offset, limit int) ([]*models.Reward, int64, error) {
	return s.rewardRepo.ListAvailable(ctx, offset, limit)
}

// ListAll lists every reward including inactive ones (admin catalog)
func (s *RewardService) ListAll(ctx context.Context, offset, limit int) ([]*models.Reward, int64, error) {
	return s.rewardRepo.ListAll(ctx, offset, limit)
}

// GetByID gets a reward by ID. Soft-deleted rewards resolve here so
// historical ledger rows can still be displayed.
func (s *RewardService) GetByID(ctx context.Context, id uint) (*models.Reward, error) {
	reward, err := s.rewardRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRewardNotFound
		}
		return nil, err
	}
	return reward, nil
}

// Create adds a new reward to the catalog
func (s *RewardService) Create(ctx context.Context, input *RewardInput) (*models.Reward, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	// Compare the trimmed name, the stored value is trimmed too
	name := strings.TrimSpace(input.RewardName)

	taken, err := s.rewardRepo.ExistsByName(ctx, name, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrRewardNameTaken
	}

	reward := &models.Reward{
		RewardName:    name,
		Description:   input.Description,
		PointsCost:    input.PointsCost,
		StockQuantity: input.StockQuantity,
		IsActive:      input.IsActive,
		LastUpdatedBy: input.LastUpdatedBy,
	}
	if err := s.rewardRepo.Create(ctx, reward); err != nil {
		return nil, err
	}

	log.Printf("Reward created: %s (id=%d)", reward.RewardName, reward.ID)
	return reward, nil
}

// Update modifies an existing reward
func (s *RewardService) Update(ctx context.Context, id uint, input *RewardInput) (*models.Reward, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	reward, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.RewardName)

	taken, err := s.rewardRepo.ExistsByName(ctx, name, id)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrRewardNameTaken
	}

	reward.RewardName = name
	reward.Description = input.Description
	reward.PointsCost = input.PointsCost
	reward.StockQuantity = input.StockQuantity
	reward.IsActive = input.IsActive
	reward.LastUpdatedBy = input.LastUpdatedBy

	if err := s.rewardRepo.Update(ctx, reward); err != nil {
		return nil, err
	}
	return reward, nil
}

// Delete soft-deletes a reward: the row stays for history lookups
func (s *RewardService) Delete(ctx context.Context, id uint) error {
	affected, err := s.rewardRepo.SoftDelete(ctx, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrRewardNotFound
	}

	log.Printf("Reward soft-deleted: id=%d", id)
	return nil
}

// AttachImage stores the uploaded image reference on a reward
func (s *RewardService) AttachImage(ctx context.Context, id uint, imageURL string) (*models.Reward, error) {
	reward, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.rewardRepo.SetImageURL(ctx, id, imageURL); err != nil {
		return nil, err
	}

	reward.ImageURL = &imageURL
	return reward, nil
}
