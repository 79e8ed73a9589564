package services

import (
	"context"
	"errors"
	"log"

	"loyaltyhub/internal/adapters/persistence/models"
	"loyaltyhub/internal/adapters/persistence/repositories"

	"gorm.io/gorm"
)

// ErrInvalidPoints is returned for non-positive accrual deltas
var ErrInvalidPoints = errors.New("points must be greater than zero")

// TopRedeemersLimit caps the statistics listing
const TopRedeemersLimit = 5

// CustomerService handles customer queries and point accrual
type CustomerService struct {
	customerRepo   repositories.CustomerRepository
	redemptionRepo repositories.RedemptionRepository
}

// NewCustomerService creates a new customer service
func NewCustomerService(customerRepo repositories.CustomerRepository, redemptionRepo repositories.RedemptionRepository) *CustomerService {
	return &CustomerService{
		customerRepo:   customerRepo,
		redemptionRepo: redemptionRepo,
	}
}

// GetByID gets a customer by ID
func (s *CustomerService) GetByID(ctx context.Context, id uint) (*models.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return customer, nil
}

// GetByAccountID gets the customer owned by an account
func (s *CustomerService) GetByAccountID(ctx context.Context, accountID uint) (*models.Customer, error) {
	customer, err := s.customerRepo.GetByAccountID(ctx, accountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return customer, nil
}

// List lists customers with pagination
func (s *CustomerService) List(ctx context.Context, offset, limit int) ([]*models.Customer, int64, error) {
	return s.customerRepo.List(ctx, offset, limit)
}

// AddPoints atomically adds a positive number of points to a customer's
// balance and returns the new balance. No accrual ledger row is written.
func (s *CustomerService) AddPoints(ctx context.Context, customerID uint, points int64) (int64, error) {
	if points <= 0 {
		return 0, ErrInvalidPoints
	}

	affected, err := s.customerRepo.IncrementPoints(ctx, customerID, points)
	if err != nil {
		return 0, err
	}
	if affected == 0 {
		return 0, ErrCustomerNotFound
	}

	customer, err := s.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		return 0, err
	}

	log.Printf("Added %d points to customer %d, new balance %d", points, customerID, customer.CurrentPoints)
	return customer.CurrentPoints, nil
}

// TopRedeemers returns the customers that redeemed the most items
func (s *CustomerService) TopRedeemers(ctx context.Context) ([]*models.TopRedeemer, error) {
	return s.redemptionRepo.TopRedeemers(ctx, TopRedeemersLimit)
}
