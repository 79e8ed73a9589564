package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"loyaltyhub/internal/config"

	"github.com/go-resty/resty/v2"
)

// ErrAPIUnavailable is returned when the API could not be reached at all.
var ErrAPIUnavailable = errors.New("loyalty API is unavailable")

// APIError carries the status and message of a failed API call so page
// handlers can show the reason to the user.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api error %d [%s]: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// envelope mirrors the API response wrapper
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Code    string          `json:"code"`
}

// pageEnvelope mirrors the API paginated response wrapper
type pageEnvelope struct {
	Data json.RawMessage `json:"data"`
	Meta *PageMeta       `json:"meta"`
}

// PageMeta mirrors pagination metadata returned by list endpoints
type PageMeta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// LoginResult mirrors the API login payload
type LoginResult struct {
	AccountID  uint   `json:"account_id"`
	Username   string `json:"username"`
	Role       string `json:"role"`
	CustomerID *uint  `json:"customer_id,omitempty"`
}

// Customer mirrors the API customer payload
type Customer struct {
	ID            uint      `json:"id"`
	AccountID     uint      `json:"account_id"`
	CifNumber     string    `json:"cif_number"`
	FullName      string    `json:"full_name"`
	Username      string    `json:"username,omitempty"`
	PhoneNumber   *string   `json:"phone_number"`
	CurrentPoints int64     `json:"current_points"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Reward mirrors the API reward payload
type Reward struct {
	ID            uint      `json:"id"`
	RewardName    string    `json:"reward_name"`
	Description   string    `json:"description"`
	PointsCost    int64     `json:"points_cost"`
	StockQuantity int       `json:"stock_quantity"`
	IsActive      bool      `json:"is_active"`
	ImageURL      *string   `json:"image_url"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Redemption mirrors the API redemption payload
type Redemption struct {
	ID          uint      `json:"id"`
	CustomerID  uint      `json:"customer_id"`
	RewardID    uint      `json:"reward_id"`
	RewardName  string    `json:"reward_name,omitempty"`
	Quantity    int       `json:"quantity"`
	PointsSpent int64     `json:"points_spent"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// TopRedeemer mirrors the API statistics payload
type TopRedeemer struct {
	CustomerID         uint   `json:"customer_id"`
	FullName           string `json:"full_name"`
	CifNumber          string `json:"cif_number"`
	TotalGiftsRedeemed int64  `json:"total_gifts_redeemed"`
	TotalPointsSpent   int64  `json:"total_points_spent"`
}

// RewardInput carries reward create/update fields
type RewardInput struct {
	RewardName    string `json:"reward_name"`
	Description   string `json:"description"`
	PointsCost    int64  `json:"points_cost"`
	StockQuantity int    `json:"stock_quantity"`
	IsActive      bool   `json:"is_active"`
}

// Client calls the loyalty API on behalf of the web front-end
type Client struct {
	http *resty.Client
}

// New creates an API client configured from WebConfig
func New(cfg *config.Config) *Client {
	httpClient := resty.New().
		SetBaseURL(cfg.Web.APIBaseURL).
		SetHeader("X-API-KEY", cfg.APIKey).
		SetHeader("Accept", "application/json").
		SetTimeout(10 * time.Second)

	return &Client{http: httpClient}
}

// Login authenticates credentials against the API
func (c *Client) Login(username, password string) (*LoginResult, error) {
	var out LoginResult
	err := c.post("/auth/login", map[string]string{
		"username": username,
		"password": password,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates a new customer account
func (c *Client) Register(username, password, fullName, phoneNumber string) error {
	return c.post("/auth/register", map[string]string{
		"username":     username,
		"password":     password,
		"full_name":    fullName,
		"phone_number": phoneNumber,
	}, nil)
}

// Customer fetches one customer by ID
func (c *Client) Customer(id uint) (*Customer, error) {
	var out Customer
	if err := c.get(fmt.Sprintf("/customers/%d", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CustomerByAccount fetches the customer profile behind an account
func (c *Client) CustomerByAccount(accountID uint) (*Customer, error) {
	var out Customer
	if err := c.get(fmt.Sprintf("/customers/by-account/%d", accountID), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Customers lists customers, paginated
func (c *Client) Customers(page, pageSize int) ([]Customer, *PageMeta, error) {
	var out []Customer
	meta, err := c.getPage("/customers", page, pageSize, &out)
	return out, meta, err
}

// Rewards lists available rewards, paginated
func (c *Client) Rewards(page, pageSize int) ([]Reward, *PageMeta, error) {
	var out []Reward
	meta, err := c.getPage("/rewards", page, pageSize, &out)
	return out, meta, err
}

// AdminRewards lists all rewards including inactive ones
func (c *Client) AdminRewards(page, pageSize int) ([]Reward, *PageMeta, error) {
	var out []Reward
	meta, err := c.getPage("/rewards/all", page, pageSize, &out)
	return out, meta, err
}

// Reward fetches one reward by ID
func (c *Client) Reward(id uint) (*Reward, error) {
	var out Reward
	if err := c.get(fmt.Sprintf("/rewards/%d", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateReward adds a new reward
func (c *Client) CreateReward(input *RewardInput) (*Reward, error) {
	var out Reward
	if err := c.post("/rewards", input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateReward modifies an existing reward
func (c *Client) UpdateReward(id uint, input *RewardInput) (*Reward, error) {
	var out Reward
	resp, err := c.http.R().
		SetBody(input).
		Put(fmt.Sprintf("/rewards/%d", id))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAPIUnavailable, err)
	}
	if err := decode(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteReward soft-deletes a reward
func (c *Client) DeleteReward(id uint) error {
	resp, err := c.http.R().Delete(fmt.Sprintf("/rewards/%d", id))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAPIUnavailable, err)
	}
	return decode(resp, nil)
}

// UploadRewardImage forwards an uploaded image file to the API
func (c *Client) UploadRewardImage(id uint, filename string, file io.Reader) (*Reward, error) {
	var out Reward
	resp, err := c.http.R().
		SetFileReader("image_file", filename, file).
		Post(fmt.Sprintf("/rewards/%d/image", id))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAPIUnavailable, err)
	}
	if err := decode(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AddPoints credits points to a customer and returns the new balance
func (c *Client) AddPoints(customerID uint, points int64, reason string) error {
	return c.post(fmt.Sprintf("/customers/%d/points", customerID), map[string]interface{}{
		"points": points,
		"reason": reason,
	}, nil)
}

// Redeem exchanges points for a reward
func (c *Client) Redeem(customerID, rewardID uint, quantity int) (*Redemption, error) {
	var out Redemption
	err := c.post("/redemptions", map[string]interface{}{
		"customer_id": customerID,
		"reward_id":   rewardID,
		"quantity":    quantity,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// History lists a customer's redemptions, paginated
func (c *Client) History(customerID uint, page, pageSize int) ([]Redemption, *PageMeta, error) {
	var out []Redemption
	meta, err := c.getPage(fmt.Sprintf("/redemptions/history/%d", customerID), page, pageSize, &out)
	return out, meta, err
}

// TopRedeemers fetches the admin statistics board
func (c *Client) TopRedeemers() ([]TopRedeemer, error) {
	var out []TopRedeemer
	if err := c.get("/customers/top-redeemers", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) get(path string, out interface{}) error {
	resp, err := c.http.R().Get(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAPIUnavailable, err)
	}
	return decode(resp, out)
}

func (c *Client) post(path string, body, out interface{}) error {
	resp, err := c.http.R().SetBody(body).Post(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAPIUnavailable, err)
	}
	return decode(resp, out)
}

func (c *Client) getPage(path string, page, pageSize int, out interface{}) (*PageMeta, error) {
	resp, err := c.http.R().
		SetQueryParam("page", fmt.Sprintf("%d", page)).
		SetQueryParam("page_size", fmt.Sprintf("%d", pageSize)).
		Get(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAPIUnavailable, err)
	}

	if resp.IsError() {
		return nil, apiError(resp.StatusCode(), resp.Body())
	}

	var env pageEnvelope
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		return nil, fmt.Errorf("decode page response: %w", err)
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, fmt.Errorf("decode page data: %w", err)
		}
	}
	return env.Meta, nil
}

// decode unwraps the API envelope into out, or turns a non-2xx status into
// an *APIError the handlers can inspect.
func decode(resp *resty.Response, out interface{}) error {
	if resp.IsError() {
		return apiError(resp.StatusCode(), resp.Body())
	}

	var env envelope
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode response data: %w", err)
		}
	}
	return nil
}

func apiError(status int, body []byte) error {
	var env envelope
	apiErr := &APIError{StatusCode: status, Message: "request failed"}
	if err := json.Unmarshal(body, &env); err == nil {
		if env.Error != "" {
			apiErr.Message = env.Error
		} else if env.Message != "" {
			apiErr.Message = env.Message
		}
		apiErr.Code = env.Code
	}
	return apiErr
}
