package controllers

import (
	"errors"

	"github.com/typerush/website/backend/config"
	"github.com/typerush/website/backend/middleware"
	"github.com/typerush/website/backend/store"
	"github.com/typerush/website/backend/utils"

	"golang.org/x/crypto/bcrypt"

	"github.com/gofiber/fiber/v2"
)

type AuthController struct {
	Store *store.GormStore
	Cfg   *config.Config
}

func NewAuthController(st *store.GormStore, cfg *config.Config) *AuthController {
	return &AuthController{Store: st, Cfg: cfg}
}

// Signup creates an account. The visitor's client-cache record may ride the
// request as the seven metric form fields; when present it becomes the
// account's initial record, otherwise the account starts from the default.
func (ac *AuthController) Signup(c *fiber.Ctx) error {
	username := c.FormValue("username")
	password := c.FormValue("password")
	confirmation := c.FormValue("password_confirmation")

	fieldErrs := make(map[string]string)
	if username == "" || len(username) > 255 {
		fieldErrs["username"] = "required, at most 255 characters"
	}
	if len(password) < 8 {
		fieldErrs["password"] = "required, at least 8 characters"
	}
	if password != confirmation {
		fieldErrs["password_confirmation"] = "does not match password"
	}

	initial, metricErrs := parseMetricsForm(c)
	for field, reason := range metricErrs {
		fieldErrs[field] = reason
	}
	if len(fieldErrs) > 0 {
		return utils.ValidationError(c, fieldErrs)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return utils.InternalServerError(c, "Could not hash password")
	}

	user, err := ac.Store.CreateUser(username, string(hashedPassword), initial)
	if err != nil {
		if errors.Is(err, store.ErrUsernameTaken) {
			return utils.ValidationError(c, map[string]string{"username": "already taken"})
		}
		var verr *store.ValidationError
		if errors.As(err, &verr) {
			return utils.ValidationError(c, map[string]string{"metrics": verr.Reason})
		}
		return utils.InternalServerError(c, "Could not create user")
	}

	token, err := utils.GenerateJWTToken(user.ID, ac.Cfg)
	if err != nil {
		return utils.InternalServerError(c, "Could not generate token")
	}

	return utils.Success(c, fiber.StatusCreated, fiber.Map{
		"token": token,
		"user": fiber.Map{
			"id":       user.ID,
			"username": user.Username,
		},
	})
}

// Signin authenticates a user and returns the stored metrics record so the
// client can populate the lesson application from the server copy.
func (ac *AuthController) Signin(c *fiber.Ctx) error {
	username := c.FormValue("username")
	password := c.FormValue("password")
	if username == "" || password == "" {
		return utils.ValidationError(c, map[string]string{
			"credentials": "username and password are required",
		})
	}

	user, err := ac.Store.FindByUsername(username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return utils.Unauthorized(c, "Invalid credentials")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return utils.Unauthorized(c, "Invalid credentials")
	}

	token, err := utils.GenerateJWTToken(user.ID, ac.Cfg)
	if err != nil {
		return utils.InternalServerError(c, "Could not generate token")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"token": token,
		"user": fiber.Map{
			"id":       user.ID,
			"username": user.Username,
		},
		"progress": user.Record().Client(),
	})
}

// Logout acknowledges a logout. Tokens are stateless; the client drops the
// token and restores its pre-login cache slot.
func (ac *AuthController) Logout(c *fiber.Ctx) error {
	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"message": "Logged out successfully",
	})
}

// GetProfile returns the authenticated user's account and progress.
func (ac *AuthController) GetProfile(c *fiber.Ctx) error {
	user, err := ac.Store.FindByID(middleware.UserID(c))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return utils.NotFound(c, "User not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"id":         user.ID,
		"username":   user.Username,
		"created_at": user.CreatedAt,
		"progress":   user.Record().Client(),
	})
}
