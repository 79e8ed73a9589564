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

func newAuthService(db *gorm.DB) *AuthService {
	return NewAuthService(db,
		repositories.NewAccountRepository(db),
		repositories.NewCustomerRepository(db))
}

func registerInput(username string) *RegisterInput {
	return &RegisterInput{
		Username:    username,
		Password:    "secret123",
		FullName:    "Bob Builder",
		PhoneNumber: "0812345678",
	}
}

func TestAuthService_Register_CreatesAccountAndCustomer(t *testing.T) {
	db := setupTestDB(t)
	svc := newAuthService(db)

	result, err := svc.Register(context.Background(), registerInput("bob"))

	require.NoError(t, err)
	assert.Equal(t, "bob", result.Account.Username)
	assert.Equal(t, models.RoleCustomer, result.Account.Role)
	assert.Equal(t, "CIF000001", result.Customer.CifNumber)
	assert.Equal(t, "Bob Builder", result.Customer.FullName)
	assert.Zero(t, result.Customer.CurrentPoints, "new customers start with zero points")

	// The stored hash must not be the plaintext
	var account models.Account
	require.NoError(t, db.First(&account, result.Account.ID).Error)
	assert.NotEqual(t, "secret123", account.PasswordHash)
}

func TestAuthService_Register_SequentialCifNumbers(t *testing.T) {
	db := setupTestDB(t)
	svc := newAuthService(db)

	first, err := svc.Register(context.Background(), registerInput("bob"))
	require.NoError(t, err)
	second, err := svc.Register(context.Background(), registerInput("carol"))
	require.NoError(t, err)

	assert.Equal(t, "CIF000001", first.Customer.CifNumber)
	assert.Equal(t, "CIF000002", second.Customer.CifNumber)
}

func TestAuthService_Register_DuplicateUsername(t *testing.T) {
	db := setupTestDB(t)
	svc := newAuthService(db)

	_, err := svc.Register(context.Background(), registerInput("bob"))
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), registerInput("bob"))
	require.ErrorIs(t, err, ErrUsernameTaken)

	// The failed attempt must not leave a dangling customer row
	var customers int64
	require.NoError(t, db.Model(&models.Customer{}).Count(&customers).Error)
	assert.Equal(t, int64(1), customers)
}

// Driver unique-constraint errors must come back as gorm.ErrDuplicatedKey,
// otherwise the sentinel mapping in Register can never fire.
func TestDuplicateKeyErrorsAreTranslated(t *testing.T) {
	db := setupTestDB(t)

	account := &models.Account{Username: "bob", PasswordHash: "x", Role: models.RoleCustomer}
	require.NoError(t, db.Create(account).Error)

	dup := &models.Account{Username: "bob", PasswordHash: "x", Role: models.RoleCustomer}
	err := db.Create(dup).Error
	require.Error(t, err)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey, "duplicate username must translate")

	customer := &models.Customer{AccountID: account.ID, CifNumber: "CIF000001", FullName: "Bob"}
	require.NoError(t, db.Create(customer).Error)

	clash := &models.Customer{AccountID: account.ID + 1, CifNumber: "CIF000001", FullName: "Carol"}
	err = db.Create(clash).Error
	require.Error(t, err)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey, "duplicate CIF must translate")
}

// A soft-deleted account keeps its row, so the username stays in the unique
// index while the existence pre-check no longer sees it. Registration must
// then fall through to the index backstop and still surface ErrUsernameTaken.
func TestAuthService_Register_UniqueIndexBackstop(t *testing.T) {
	db := setupTestDB(t)
	svc := newAuthService(db)

	first, err := svc.Register(context.Background(), registerInput("bob"))
	require.NoError(t, err)

	require.NoError(t, db.Delete(&models.Account{}, first.Account.ID).Error)

	_, err = svc.Register(context.Background(), registerInput("bob"))
	require.ErrorIs(t, err, ErrUsernameTaken)
}

func TestAuthService_Login_Success(t *testing.T) {
	db := setupTestDB(t)
	svc := newAuthService(db)

	registered, err := svc.Register(context.Background(), registerInput("bob"))
	require.NoError(t, err)

	result, err := svc.Login(context.Background(), "bob", "secret123")

	require.NoError(t, err)
	assert.Equal(t, registered.Account.ID, result.AccountID)
	assert.Equal(t, "bob", result.Username)
	assert.Equal(t, models.RoleCustomer, result.Role)
	require.NotNil(t, result.CustomerID, "customer role logins carry the customer profile ID")
	assert.Equal(t, registered.Customer.ID, *result.CustomerID)
}

// Unknown usernames and wrong passwords must be indistinguishable to the
// caller, otherwise login responses leak which usernames exist.
func TestAuthService_Login_UniformFailure(t *testing.T) {
	db := setupTestDB(t)
	svc := newAuthService(db)

	_, err := svc.Register(context.Background(), registerInput("bob"))
	require.NoError(t, err)

	_, wrongPassword := svc.Login(context.Background(), "bob", "not-the-password")
	_, unknownUser := svc.Login(context.Background(), "nobody", "secret123")

	require.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	require.ErrorIs(t, unknownUser, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword, unknownUser)
}
