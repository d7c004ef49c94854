package auth

import (
	"errors"

	"furniture-admin/internal/config"
	"furniture-admin/internal/models"
	"furniture-admin/internal/obs"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserResponse struct {
	ID    uint            `json:"id"`
	Name  string          `json:"name"`
	Email string          `json:"email"`
	Role  models.UserRole `json:"role"`
}

func toUserResponse(u models.User) UserResponse {
	return UserResponse{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

// POST /api/auth/register-admin
// Only allowed while no admin exists; later accounts are created by an admin.
func RegisterAdminHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body NewUser
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		exists, err := AdminExists(c.UserContext(), db)
		if err != nil {
			return err
		}
		if exists {
			return fiber.NewError(fiber.StatusForbidden, "an admin account already exists")
		}

		body.Role = models.RoleAdmin
		user, err := CreateUser(c.UserContext(), db, body)
		if err != nil {
			return err
		}

		obs.Logger.Info("admin_registered", "user_id", user.ID)
		return c.Status(fiber.StatusCreated).JSON(toUserResponse(user))
	}
}

// POST /api/auth/login
func LoginHandler(cfg *config.Config, db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		user, err := Authenticate(c.UserContext(), db, body.Email, body.Password)
		if errors.Is(err, ErrInvalidCredentials) {
			return fiber.NewError(fiber.StatusUnauthorized, err.Error())
		}
		if err != nil {
			return err
		}

		token, err := GenerateToken(cfg.JWTSecret, cfg.JWTTTL, &user)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not issue token")
		}

		return c.JSON(fiber.Map{
			"token": token,
			"user":  toUserResponse(user),
		})
	}
}

// GET /api/auth/me
func MeHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := c.Locals(CtxUserIDKey).(uint)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "not authenticated")
		}

		user, err := GetUser(c.UserContext(), db, userID)
		if err != nil {
			return err
		}
		return c.JSON(toUserResponse(user))
	}
}

// POST /api/admin/users
func CreateUserHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body NewUser
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		user, err := CreateUser(c.UserContext(), db, body)
		if err != nil {
			return err
		}

		obs.Logger.Info("user_created", "user_id", user.ID, "role", user.Role)
		return c.Status(fiber.StatusCreated).JSON(toUserResponse(user))
	}
}
