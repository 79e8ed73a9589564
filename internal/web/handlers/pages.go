package handlers

import (
	"errors"
	"net/url"
	"strings"

	"loyaltyhub/internal/adapters/persistence/models"
	"loyaltyhub/internal/web/client"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

// Session keys
const (
	sessAccountID  = "account_id"
	sessUsername   = "username"
	sessRole       = "role"
	sessCustomerID = "customer_id"
)

// sessionUser is the logged-in account stored in the session
type sessionUser struct {
	AccountID  uint
	Username   string
	Role       string
	CustomerID uint
}

func (u *sessionUser) IsAdmin() bool {
	return u.Role == models.RoleAdmin
}

// PageHandler renders the server-side pages backed by the loyalty API
type PageHandler struct {
	api   *client.Client
	store *session.Store
}

// NewPageHandler creates a new page handler
func NewPageHandler(api *client.Client, store *session.Store) *PageHandler {
	return &PageHandler{api: api, store: store}
}

// currentUser reads the logged-in user from the session, nil when anonymous
func (h *PageHandler) currentUser(c *fiber.Ctx) *sessionUser {
	sess, err := h.store.Get(c)
	if err != nil {
		return nil
	}

	accountID, ok := sess.Get(sessAccountID).(uint)
	if !ok || accountID == 0 {
		return nil
	}

	user := &sessionUser{AccountID: accountID}
	if v, ok := sess.Get(sessUsername).(string); ok {
		user.Username = v
	}
	if v, ok := sess.Get(sessRole).(string); ok {
		user.Role = v
	}
	if v, ok := sess.Get(sessCustomerID).(uint); ok {
		user.CustomerID = v
	}
	return user
}

// RequireLogin redirects anonymous visitors to the login page
func (h *PageHandler) RequireLogin(c *fiber.Ctx) error {
	if h.currentUser(c) == nil {
		return c.Redirect("/login")
	}
	return c.Next()
}

// RequireAdmin sends non-admin users back to their home page
func (h *PageHandler) RequireAdmin(c *fiber.Ctx) error {
	user := h.currentUser(c)
	if user == nil {
		return c.Redirect("/login")
	}
	if !user.IsAdmin() {
		return c.Redirect("/home")
	}
	return c.Next()
}

// Index routes the visitor to the page matching their role
func (h *PageHandler) Index(c *fiber.Ctx) error {
	user := h.currentUser(c)
	switch {
	case user == nil:
		return c.Redirect("/login")
	case user.IsAdmin():
		return c.Redirect("/admin")
	default:
		return c.Redirect("/home")
	}
}

// LoginPage renders the login form
func (h *PageHandler) LoginPage(c *fiber.Ctx) error {
	if h.currentUser(c) != nil {
		return c.Redirect("/")
	}
	return c.Render("login", fiber.Map{
		"Title":  "Login",
		"Notice": c.Query("notice"),
	}, "layouts/main")
}

// Login handles the login form submission
func (h *PageHandler) Login(c *fiber.Ctx) error {
	username := strings.TrimSpace(c.FormValue("username"))
	password := c.FormValue("password")

	renderErr := func(msg string) error {
		return c.Render("login", fiber.Map{
			"Title":    "Login",
			"Error":    msg,
			"Username": username,
		}, "layouts/main")
	}

	if username == "" || password == "" {
		return renderErr("Username and password are required")
	}

	result, err := h.api.Login(username, password)
	if err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == fiber.StatusUnauthorized {
			return renderErr("Invalid username or password")
		}
		return renderErr("Service is temporarily unavailable, please try again")
	}

	sess, err := h.store.Get(c)
	if err != nil {
		return renderErr("Failed to start session")
	}
	sess.Set(sessAccountID, result.AccountID)
	sess.Set(sessUsername, result.Username)
	sess.Set(sessRole, result.Role)
	if result.CustomerID != nil {
		sess.Set(sessCustomerID, *result.CustomerID)
	}
	if err := sess.Save(); err != nil {
		return renderErr("Failed to start session")
	}

	return c.Redirect("/")
}

// RegisterPage renders the registration form
func (h *PageHandler) RegisterPage(c *fiber.Ctx) error {
	if h.currentUser(c) != nil {
		return c.Redirect("/")
	}
	return c.Render("register", fiber.Map{
		"Title": "Register",
	}, "layouts/main")
}

// Register handles the registration form submission
func (h *PageHandler) Register(c *fiber.Ctx) error {
	username := strings.TrimSpace(c.FormValue("username"))
	password := c.FormValue("password")
	fullName := strings.TrimSpace(c.FormValue("full_name"))
	phone := strings.TrimSpace(c.FormValue("phone_number"))

	renderErr := func(msg string) error {
		return c.Render("register", fiber.Map{
			"Title":       "Register",
			"Error":       msg,
			"Username":    username,
			"FullName":    fullName,
			"PhoneNumber": phone,
		}, "layouts/main")
	}

	if err := h.api.Register(username, password, fullName, phone); err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) {
			switch apiErr.StatusCode {
			case fiber.StatusConflict:
				return renderErr("Username is already taken")
			case fiber.StatusBadRequest:
				return renderErr(apiErr.Message)
			}
		}
		return renderErr("Service is temporarily unavailable, please try again")
	}

	return c.Redirect("/login?notice=" + url.QueryEscape("Account created, please log in"))
}

// Logout destroys the session
func (h *PageHandler) Logout(c *fiber.Ctx) error {
	if sess, err := h.store.Get(c); err == nil {
		_ = sess.Destroy()
	}
	return c.Redirect("/login")
}
