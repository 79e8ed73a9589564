package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"loyaltyhub/internal/adapters/persistence/models"
	"loyaltyhub/internal/adapters/persistence/repositories"
	"loyaltyhub/internal/pkg/password"

	"gorm.io/gorm"
)

// Auth errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameTaken      = errors.New("username already exists")
)

// AuthService handles login and registration
type AuthService struct {
	db           *gorm.DB
	accountRepo  repositories.AccountRepository
	customerRepo repositories.CustomerRepository
}

// NewAuthService creates a new auth service
func NewAuthService(db *gorm.DB, accountRepo repositories.AccountRepository, customerRepo repositories.CustomerRepository) *AuthService {
	return &AuthService{
		db:           db,
		accountRepo:  accountRepo,
		customerRepo: customerRepo,
	}
}

// RegisterInput represents registration input
type RegisterInput struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	FullName    string `json:"full_name"`
	PhoneNumber string `json:"phone_number"`
}

// LoginResult represents a successful authentication
type LoginResult struct {
	AccountID  uint   `json:"account_id"`
	Username   string `json:"username"`
	Role       string `json:"role"`
	CustomerID *uint  `json:"customer_id,omitempty"`
}

// RegisterResult represents a created registration
type RegisterResult struct {
	Account  *models.AccountResponse  `json:"account"`
	Customer *models.CustomerResponse `json:"customer"`
}

// Login authenticates an account. Unknown usernames and wrong passwords
// produce the same error so the response never reveals which usernames exist;
// the distinction is only logged.
func (s *AuthService) Login(ctx context.Context, username, plaintext string) (*LoginResult, error) {
	account, err := s.accountRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("Failed login for %q: account not found", username)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !password.Verify(plaintext, account.PasswordHash) {
		log.Printf("Failed login for %q: invalid password", username)
		return nil, ErrInvalidCredentials
	}

	result := &LoginResult{
		AccountID: account.ID,
		Username:  account.Username,
		Role:      account.Role,
	}

	if account.Role == models.RoleCustomer {
		customer, err := s.customerRepo.GetByAccountID(ctx, account.ID)
		if err == nil {
			result.CustomerID = &customer.ID
		}
	}

	log.Printf("Account logged in: %s", account.Username)
	return result, nil
}

// Register creates an account and its customer row in one transaction,
// assigning the next sequential CIF number.
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*RegisterResult, error) {
	exists, err := s.accountRepo.ExistsByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUsernameTaken
	}

	hashed, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	account := &models.Account{
		Username:     strings.TrimSpace(input.Username),
		PasswordHash: hashed,
		Role:         models.RoleCustomer,
	}

	var customer *models.Customer

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(account).Error; err != nil {
			return err
		}

		cif, err := nextCifNumber(tx)
		if err != nil {
			return err
		}

		var phone *string
		if p := strings.TrimSpace(input.PhoneNumber); p != "" {
			phone = &p
		}

		customer = &models.Customer{
			AccountID:     account.ID,
			CifNumber:     cif,
			FullName:      strings.TrimSpace(input.FullName),
			PhoneNumber:   phone,
			CurrentPoints: 0,
		}
		return tx.Create(customer).Error
	})
	if err != nil {
		// The unique index is the backstop against a concurrent registration
		// slipping in between the existence check and the insert.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}

	log.Printf("Account registered: %s (CIF: %s)", account.Username, customer.CifNumber)

	return &RegisterResult{
		Account:  account.ToResponse(),
		Customer: customer.ToResponse(),
	}, nil
}

// GetAccountByID gets an account by ID
func (s *AuthService) GetAccountByID(ctx context.Context, id uint) (*models.Account, error) {
	return s.accountRepo.GetByID(ctx, id)
}

// nextCifNumber assigns the next sequential CIF identifier (CIF000001, ...).
// Runs inside the registration transaction; the unique index on cif_number
// catches the rare collision between concurrent registrations.
func nextCifNumber(tx *gorm.DB) (string, error) {
	var maxCif sql.NullString
	row := tx.Model(&models.Customer{}).
		Where("cif_number LIKE ?", "CIF%").
		Select("MAX(cif_number)").
		Row()
	if err := row.Scan(&maxCif); err != nil {
		return "", err
	}

	next := 1
	if maxCif.Valid && len(maxCif.String) > 3 {
		if n, err := strconv.Atoi(maxCif.String[3:]); err == nil {
			next = n + 1
		}
	}

	return fmt.Sprintf("CIF%06d", next), nil
}
