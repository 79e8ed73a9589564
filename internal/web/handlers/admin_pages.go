package handlers

import (
	"errors"
	"net/url"
	"strconv"
	"strings"

	"loyaltyhub/internal/web/client"

	"github.com/gofiber/fiber/v2"
)

// AdminRewards renders the reward management table
func (h *PageHandler) AdminRewards(c *fiber.Ctx) error {
	user := h.currentUser(c)

	page := queryInt(c, "page", 1)
	rewards, meta, err := h.api.AdminRewards(page, 20)
	if err != nil {
		return h.renderServiceError(c, user)
	}

	return c.Render("admin/rewards", fiber.Map{
		"Title":   "Rewards",
		"User":    user,
		"Rewards": rewards,
		"Meta":    meta,
		"Error":   c.Query("error"),
		"Notice":  c.Query("notice"),
	}, "layouts/main")
}

// AdminRewardNew renders the create-reward form
func (h *PageHandler) AdminRewardNew(c *fiber.Ctx) error {
	return c.Render("admin/reward_form", fiber.Map{
		"Title":  "New Reward",
		"User":   h.currentUser(c),
		"Action": "/admin/rewards",
	}, "layouts/main")
}

// AdminRewardCreate handles the create-reward form submission
func (h *PageHandler) AdminRewardCreate(c *fiber.Ctx) error {
	input, err := rewardFormInput(c)
	if err != nil {
		return redirectError(c, "/admin/rewards/new", err.Error())
	}

	reward, err := h.api.CreateReward(input)
	if err != nil {
		return redirectError(c, "/admin/rewards/new", apiMessage(err))
	}

	if err := h.forwardImage(c, reward.ID); err != nil {
		return redirectError(c, "/admin", "Reward created but image upload failed")
	}

	return c.Redirect("/admin?notice=" + url.QueryEscape("Reward created"))
}

// AdminRewardEdit renders the edit form for one reward
func (h *PageHandler) AdminRewardEdit(c *fiber.Ctx) error {
	user := h.currentUser(c)

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return redirectError(c, "/admin", "Invalid reward")
	}

	reward, err := h.api.Reward(uint(id))
	if err != nil {
		return h.renderServiceError(c, user)
	}

	return c.Render("admin/reward_form", fiber.Map{
		"Title":  "Edit Reward",
		"User":   user,
		"Reward": reward,
		"Action": "/admin/rewards/" + strconv.FormatUint(id, 10),
	}, "layouts/main")
}

// AdminRewardUpdate handles the edit form submission
func (h *PageHandler) AdminRewardUpdate(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return redirectError(c, "/admin", "Invalid reward")
	}

	input, err := rewardFormInput(c)
	if err != nil {
		return redirectError(c, "/admin/rewards/"+c.Params("id")+"/edit", err.Error())
	}

	if _, err := h.api.UpdateReward(uint(id), input); err != nil {
		return redirectError(c, "/admin/rewards/"+c.Params("id")+"/edit", apiMessage(err))
	}

	if err := h.forwardImage(c, uint(id)); err != nil {
		return redirectError(c, "/admin", "Reward updated but image upload failed")
	}

	return c.Redirect("/admin?notice=" + url.QueryEscape("Reward updated"))
}

// AdminRewardDelete removes a reward from the catalog
func (h *PageHandler) AdminRewardDelete(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return redirectError(c, "/admin", "Invalid reward")
	}

	if err := h.api.DeleteReward(uint(id)); err != nil {
		return redirectError(c, "/admin", apiMessage(err))
	}

	return c.Redirect("/admin?notice=" + url.QueryEscape("Reward deleted"))
}

// AdminCustomers renders the customer list with the add-points form
func (h *PageHandler) AdminCustomers(c *fiber.Ctx) error {
	user := h.currentUser(c)

	page := queryInt(c, "page", 1)
	customers, meta, err := h.api.Customers(page, 20)
	if err != nil {
		return h.renderServiceError(c, user)
	}

	return c.Render("admin/customers", fiber.Map{
		"Title":     "Customers",
		"User":      user,
		"Customers": customers,
		"Meta":      meta,
		"Error":     c.Query("error"),
		"Notice":    c.Query("notice"),
	}, "layouts/main")
}

// AdminAddPoints credits points to a customer
func (h *PageHandler) AdminAddPoints(c *fiber.Ctx) error {
	customerID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return redirectError(c, "/admin/customers", "Invalid customer")
	}

	points, err := strconv.ParseInt(c.FormValue("points"), 10, 64)
	if err != nil || points <= 0 {
		return redirectError(c, "/admin/customers", "Points must be a positive number")
	}

	reason := strings.TrimSpace(c.FormValue("reason"))
	if err := h.api.AddPoints(uint(customerID), points, reason); err != nil {
		return redirectError(c, "/admin/customers", apiMessage(err))
	}

	return c.Redirect("/admin/customers?notice=" + url.QueryEscape("Points added"))
}

// AdminStats renders the top redeemers board
func (h *PageHandler) AdminStats(c *fiber.Ctx) error {
	user := h.currentUser(c)

	top, err := h.api.TopRedeemers()
	if err != nil {
		return h.renderServiceError(c, user)
	}

	return c.Render("admin/stats", fiber.Map{
		"Title":        "Top Redeemers",
		"User":         user,
		"TopRedeemers": top,
	}, "layouts/main")
}

// forwardImage streams an optional uploaded image on to the API.
// Missing file is not an error, the image field is optional.
func (h *PageHandler) forwardImage(c *fiber.Ctx, rewardID uint) error {
	fileHeader, err := c.FormFile("image_file")
	if err != nil || fileHeader == nil {
		return nil
	}

	file, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = h.api.UploadRewardImage(rewardID, fileHeader.Filename, file)
	return err
}

func rewardFormInput(c *fiber.Ctx) (*client.RewardInput, error) {
	name := strings.TrimSpace(c.FormValue("reward_name"))
	if name == "" {
		return nil, errors.New("Reward name is required")
	}

	cost, err := strconv.ParseInt(c.FormValue("points_cost"), 10, 64)
	if err != nil || cost <= 0 {
		return nil, errors.New("Points cost must be a positive number")
	}

	stock, err := strconv.Atoi(c.FormValue("stock_quantity"))
	if err != nil || stock < 0 {
		return nil, errors.New("Stock quantity must not be negative")
	}

	return &client.RewardInput{
		RewardName:    name,
		Description:   strings.TrimSpace(c.FormValue("description")),
		PointsCost:    cost,
		StockQuantity: stock,
		IsActive:      c.FormValue("is_active") == "on" || c.FormValue("is_active") == "true",
	}, nil
}

func apiMessage(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return "Service is temporarily unavailable, please try again"
}
