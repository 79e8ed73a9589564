package models

import (
	"time"

	"gorm.io/gorm"
)

// Account roles
const (
	RoleAdmin    = "Admin"
	RoleCustomer = "Customer"
)

// Account represents accounts table (login credentials)
type Account struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Username     string         `gorm:"uniqueIndex;size:50;not null" json:"username"`
	PasswordHash string         `gorm:"size:255;not null" json:"-"`
	Role         string         `gorm:"size:20;not null;default:'Customer'" json:"role"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Account) TableName() string {
	return "accounts"
}

func (a *Account) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// AccountResponse DTO
type AccountResponse struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func (a *Account) ToResponse() *AccountResponse {
	return &AccountResponse{
		ID:        a.ID,
		Username:  a.Username,
		Role:      a.Role,
		CreatedAt: a.CreatedAt,
	}
}

// Customer represents customers table. One customer per account,
// created together at registration. CurrentPoints never goes below zero.
type Customer struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	AccountID     uint      `gorm:"uniqueIndex;not null" json:"account_id"`
	CifNumber     string    `gorm:"uniqueIndex;size:20;not null" json:"cif_number"`
	FullName      string    `gorm:"size:100;not null" json:"full_name"`
	PhoneNumber   *string   `gorm:"size:15" json:"phone_number"`
	CurrentPoints int64     `gorm:"not null;default:0" json:"current_points"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Account *Account `gorm:"foreignKey:AccountID" json:"-"`
}

func (Customer) TableName() string {
	return "customers"
}

// CustomerResponse DTO
type CustomerResponse struct {
	ID            uint      `json:"id"`
	AccountID     uint      `json:"account_id"`
	CifNumber     string    `json:"cif_number"`
	FullName      string    `json:"full_name"`
	Username      string    `json:"username,omitempty"`
	PhoneNumber   *string   `json:"phone_number"`
	CurrentPoints int64     `json:"current_points"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (c *Customer) ToResponse() *CustomerResponse {
	resp := &CustomerResponse{
		ID:            c.ID,
		AccountID:     c.AccountID,
		CifNumber:     c.CifNumber,
		FullName:      c.FullName,
		PhoneNumber:   c.PhoneNumber,
		CurrentPoints: c.CurrentPoints,
		UpdatedAt:     c.UpdatedAt,
	}
	if c.Account != nil {
		resp.Username = c.Account.Username
	}
	return resp
}

// Reward represents rewards table. Deleting a reward only clears IsActive
// so historical redemptions can still resolve it.
type Reward struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	RewardName    string    `gorm:"uniqueIndex;size:100;not null" json:"reward_name"`
	Description   string    `gorm:"type:text" json:"description"`
	PointsCost    int64     `gorm:"not null" json:"points_cost"`
	StockQuantity int       `gorm:"not null;default:0" json:"stock_quantity"`
	IsActive      bool      `gorm:"not null;default:true" json:"is_active"`
	ImageURL      *string   `gorm:"size:255" json:"image_url"`
	LastUpdatedBy *uint     `json:"last_updated_by"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Reward) TableName() string {
	return "rewards"
}

// RewardResponse DTO
type RewardResponse struct {
	ID            uint      `json:"id"`
	RewardName    string    `json:"reward_name"`
	Description   string    `json:"description"`
	PointsCost    int64     `json:"points_cost"`
	StockQuantity int       `json:"stock_quantity"`
	IsActive      bool      `json:"is_active"`
	ImageURL      *string   `json:"image_url"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (r *Reward) ToResponse() *RewardResponse {
	return &RewardResponse{
		ID:            r.ID,
		RewardName:    r.RewardName,
		Description:   r.Description,
		PointsCost:    r.PointsCost,
		StockQuantity: r.StockQuantity,
		IsActive:      r.IsActive,
		ImageURL:      r.ImageURL,
		UpdatedAt:     r.UpdatedAt,
	}
}

// Redemption status
const (
	RedemptionStatusCompleted = "Completed"
)

// Redemption represents redemptions table. Rows are append-only: written
// once by a successful redemption and never updated or deleted afterwards.
type Redemption struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CustomerID  uint      `gorm:"not null;index" json:"customer_id"`
	RewardID    uint      `gorm:"not null;index" json:"reward_id"`
	Quantity    int       `gorm:"not null" json:"quantity"`
	PointsSpent int64     `gorm:"not null" json:"points_spent"`
	Status      string    `gorm:"size:20;not null" json:"status"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`

	Customer *Customer `gorm:"foreignKey:CustomerID" json:"-"`
	Reward   *Reward   `gorm:"foreignKey:RewardID" json:"-"`
}

func (Redemption) TableName() string {
	return "redemptions"
}

// RedemptionResponse DTO
type RedemptionResponse struct {
	ID          uint      `json:"id"`
	CustomerID  uint      `json:"customer_id"`
	RewardID    uint      `json:"reward_id"`
	RewardName  string    `json:"reward_name,omitempty"`
	Quantity    int       `json:"quantity"`
	PointsSpent int64     `json:"points_spent"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

func (r *Redemption) ToResponse() *RedemptionResponse {
	resp := &RedemptionResponse{
		ID:          r.ID,
		CustomerID:  r.CustomerID,
		RewardID:    r.RewardID,
		Quantity:    r.Quantity,
		PointsSpent: r.PointsSpent,
		Status:      r.Status,
		CreatedAt:   r.CreatedAt,
	}
	if r.Reward != nil {
		resp.RewardName = r.Reward.RewardName
	}
	return resp
}

// TopRedeemer is the aggregated statistics row for the admin dashboard.
type TopRedeemer struct {
	CustomerID         uint   `json:"customer_id"`
	FullName           string `json:"full_name"`
	CifNumber          string `json:"cif_number"`
	TotalGiftsRedeemed int64  `json:"total_gifts_redeemed"`
	TotalPointsSpent   int64  `json:"total_points_spent"`
}

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Account{},
		&Customer{},
		&Reward{},
		&Redemption{},
	)
}
