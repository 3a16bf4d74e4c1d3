package controllers

import (
	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/fuxconcurseiro/spartajus-backend/backend/config"
	"github.com/fuxconcurseiro/spartajus-backend/backend/mirror"
	"github.com/fuxconcurseiro/spartajus-backend/backend/models"
	"github.com/fuxconcurseiro/spartajus-backend/backend/utils"
)

type UserController struct {
	DB     *gorm.DB
	Cfg    *config.Config
	Mirror *mirror.Exporter
}

func NewUserController(db *gorm.DB, cfg *config.Config, m *mirror.Exporter) *UserController {
	return &UserController{DB: db, Cfg: cfg, Mirror: m}
}

// GetProfile godoc
// @Summary Get the authenticated user's profile
// @Tags users
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /user/profile [get]
func (uc *UserController) GetProfile(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	var user models.User
	if err := uc.DB.First(&user, userID).Error; err != nil {
		return utils.NotFound(c, "User not found")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"id":            user.ID,
		"username":      user.Username,
		"role":          user.Role,
		"created_at":    user.CreatedAt,
		"tree_branches": user.TreeBranches,
		"subjects":      user.Subjects,
		"mod_message":   user.ModMessage,
	})
}

// UpdateProfile godoc
// @Summary Update profile
// @Description Changes the password (old one required) and/or replaces the configured subject list
// @Tags users
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /user/profile [put]
func (uc *UserController) UpdateProfile(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	var input struct {
		OldPassword string   `json:"old_password"`
		NewPassword string   `json:"new_password"`
		Subjects    []string `json:"subjects"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	var user models.User
	if err := uc.DB.First(&user, userID).Error; err != nil {
		return utils.NotFound(c, "User not found")
	}

	if input.NewPassword != "" {
		if input.OldPassword == "" {
			return utils.BadRequest(c, "Old password is required to set new password")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.OldPassword)); err != nil {
			return utils.Unauthorized(c, "Invalid old password")
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return utils.InternalServerError(c, "Could not hash password")
		}
		user.PasswordHash = string(hashed)
	}

	if input.Subjects != nil {
		user.Subjects = input.Subjects
	}

	if err := uc.DB.Save(&user).Error; err != nil {
		return utils.InternalServerError(c, "Could not update user")
	}

	uc.Mirror.Queue(uc.DB)

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"message": "Profile updated successfully",
	})
}
