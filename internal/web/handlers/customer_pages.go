package handlers

import (
	"errors"
	"net/url"
	"strconv"

	"loyaltyhub/internal/web/client"

	"github.com/gofiber/fiber/v2"
)

// Home renders the customer landing page with balance and available rewards
func (h *PageHandler) Home(c *fiber.Ctx) error {
	user := h.currentUser(c)
	if user.CustomerID == 0 {
		// Admin accounts have no customer profile
		return c.Redirect("/admin")
	}

	customer, err := h.api.Customer(user.CustomerID)
	if err != nil {
		return h.renderServiceError(c, user)
	}

	page := queryInt(c, "page", 1)
	rewards, meta, err := h.api.Rewards(page, 12)
	if err != nil {
		return h.renderServiceError(c, user)
	}

	return c.Render("customer/home", fiber.Map{
		"Title":    "My Points",
		"User":     user,
		"Customer": customer,
		"Rewards":  rewards,
		"Meta":     meta,
		"Error":    c.Query("error"),
		"Notice":   c.Query("notice"),
	}, "layouts/main")
}

// Redeem handles the redemption form submission
func (h *PageHandler) Redeem(c *fiber.Ctx) error {
	user := h.currentUser(c)
	if user.CustomerID == 0 {
		return c.Redirect("/admin")
	}

	rewardID, err := strconv.ParseUint(c.FormValue("reward_id"), 10, 32)
	if err != nil {
		return redirectError(c, "/home", "Invalid reward")
	}
	quantity, err := strconv.Atoi(c.FormValue("quantity"))
	if err != nil || quantity <= 0 {
		return redirectError(c, "/home", "Quantity must be a positive number")
	}

	redemption, err := h.api.Redeem(user.CustomerID, uint(rewardID), quantity)
	if err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) {
			switch apiErr.Code {
			case "INSUFFICIENT_POINTS":
				return redirectError(c, "/home", "You do not have enough points for this reward")
			case "INSUFFICIENT_STOCK":
				return redirectError(c, "/home", "Not enough stock left for this reward")
			case "REWARD_INACTIVE":
				return redirectError(c, "/home", "This reward is no longer available")
			}
			return redirectError(c, "/home", apiErr.Message)
		}
		return redirectError(c, "/home", "Service is temporarily unavailable, please try again")
	}

	notice := "Redeemed " + strconv.Itoa(redemption.Quantity) + " x " + redemption.RewardName
	return c.Redirect("/home?notice=" + url.QueryEscape(notice))
}

// History renders the customer's redemption history
func (h *PageHandler) History(c *fiber.Ctx) error {
	user := h.currentUser(c)
	if user.CustomerID == 0 {
		return c.Redirect("/admin")
	}

	page := queryInt(c, "page", 1)
	redemptions, meta, err := h.api.History(user.CustomerID, page, 20)
	if err != nil {
		return h.renderServiceError(c, user)
	}

	return c.Render("customer/history", fiber.Map{
		"Title":       "Redemption History",
		"User":        user,
		"Redemptions": redemptions,
		"Meta":        meta,
	}, "layouts/main")
}

func (h *PageHandler) renderServiceError(c *fiber.Ctx, user *sessionUser) error {
	return c.Render("error", fiber.Map{
		"Title": "Service Unavailable",
		"User":  user,
	}, "layouts/main")
}

func redirectError(c *fiber.Ctx, path, msg string) error {
	return c.Redirect(path + "?error=" + url.QueryEscape(msg))
}

func queryInt(c *fiber.Ctx, key string, def int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil || v < 1 {
		return def
	}
	return v
}
