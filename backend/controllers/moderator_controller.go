package controllers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/fuxconcurseiro/spartajus-backend/backend/config"
	"github.com/fuxconcurseiro/spartajus-backend/backend/mirror"
	"github.com/fuxconcurseiro/spartajus-backend/backend/models"
	"github.com/fuxconcurseiro/spartajus-backend/backend/utils"
)

type ModeratorController struct {
	DB     *gorm.DB
	Cfg    *config.Config
	Mirror *mirror.Exporter
}

func NewModeratorController(db *gorm.DB, cfg *config.Config, m *mirror.Exporter) *ModeratorController {
	return &ModeratorController{DB: db, Cfg: cfg, Mirror: m}
}

// ListUsers godoc
// @Summary List every account
// @Tags admin
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/users [get]
func (mc *ModeratorController) ListUsers(c *fiber.Ctx) error {
	var users []models.User
	if err := mc.DB.Order("username").Find(&users).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	out := make([]fiber.Map, 0, len(users))
	for _, u := range users {
		out = append(out, fiber.Map{
			"username":      u.Username,
			"role":          u.Role,
			"created_at":    u.CreatedAt,
			"tree_branches": u.TreeBranches,
			"mod_message":   u.ModMessage,
		})
	}
	return utils.Success(c, fiber.StatusOK, fiber.Map{"users": out})
}

// CreateUser godoc
// @Summary Create an account on behalf of a user
// @Tags admin
// @Accept json
// @Produce json
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/users [post]
func (mc *ModeratorController) CreateUser(c *fiber.Ctx) error {
	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	input.Username = strings.TrimSpace(input.Username)
	if input.Username == "" || input.Password == "" {
		return utils.BadRequest(c, "Username and password are required")
	}

	var existing models.User
	if err := mc.DB.Where("username = ?", input.Username).First(&existing).Error; err == nil {
		return utils.BadRequest(c, "Username already taken")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return utils.InternalServerError(c, "Could not hash password")
	}

	user := models.User{
		Username:     input.Username,
		PasswordHash: string(hashed),
		Role:         models.RoleUser,
		TreeBranches: 1,
	}
	if err := mc.DB.Create(&user).Error; err != nil {
		return utils.InternalServerError(c, "Could not create user")
	}

	mc.Mirror.Queue(mc.DB)

	return utils.Created(c, fiber.Map{"username": user.Username})
}

// BanUser godoc
// @Summary Remove an account and all its data
// @Tags admin
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/users/{username} [delete]
func (mc *ModeratorController) BanUser(c *fiber.Ctx) error {
	username := c.Params("username")
	if username == mc.Cfg.ModeratorUser {
		return utils.BadRequest(c, "The moderator account cannot be removed")
	}

	var user models.User
	if err := mc.DB.Where("username = ?", username).First(&user).Error; err != nil {
		return utils.NotFound(c, "User not found")
	}

	err := mc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("user_id = ?", user.ID).Delete(&models.StudyLog{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("user_id = ?", user.ID).Delete(&models.Plan{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&user).Error
	})
	if err != nil {
		return utils.InternalServerError(c, "Could not remove user")
	}

	mc.Mirror.Queue(mc.DB)

	return utils.Success(c, fiber.StatusOK, fiber.Map{"removed": username})
}

// SetNote godoc
// @Summary Set a user's personal note
// @Description Overwrites the note wholesale; an empty body clears it
// @Tags admin
// @Accept json
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/users/{username}/note [put]
func (mc *ModeratorController) SetNote(c *fiber.Ctx) error {
	var input struct {
		Message string `json:"message"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	var user models.User
	if err := mc.DB.Where("username = ?", c.Params("username")).First(&user).Error; err != nil {
		return utils.NotFound(c, "User not found")
	}

	user.ModMessage = input.Message
	if err := mc.DB.Save(&user).Error; err != nil {
		return utils.InternalServerError(c, "Could not save note")
	}

	mc.Mirror.Queue(mc.DB)

	return utils.Success(c, fiber.StatusOK, fiber.Map{"username": user.Username})
}

// UserOverview godoc
// @Summary View any user's dashboard overview
// @Tags admin
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} models.Overview
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/users/{username}/overview [get]
func (mc *ModeratorController) UserOverview(c *fiber.Ctx) error {
	var user models.User
	if err := mc.DB.Where("username = ?", c.Params("username")).First(&user).Error; err != nil {
		return utils.NotFound(c, "User not found")
	}

	var logs []models.StudyLog
	if err := mc.DB.Where("user_id = ?", user.ID).Find(&logs).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	return utils.Success(c, fiber.StatusOK, buildOverview(&user, logs, time.Now()))
}

// CreateAnnouncement godoc
// @Summary Broadcast an announcement to all users
// @Tags admin
// @Accept json
// @Produce json
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/announcements [post]
func (mc *ModeratorController) CreateAnnouncement(c *fiber.Ctx) error {
	var input struct {
		Body string `json:"body"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if strings.TrimSpace(input.Body) == "" {
		return utils.BadRequest(c, "Announcement body is required")
	}

	ann := models.Announcement{Body: input.Body}
	if err := mc.DB.Create(&ann).Error; err != nil {
		return utils.InternalServerError(c, "Could not create announcement")
	}

	return utils.Created(c, fiber.Map{"id": ann.ID, "body": ann.Body, "created_at": ann.CreatedAt})
}

// ListAnnouncements godoc
// @Summary List announcements, most recent first
// @Tags announcements
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security ApiKeyAuth
// @Router /announcements [get]
func (mc *ModeratorController) ListAnnouncements(c *fiber.Ctx) error {
	var anns []models.Announcement
	if err := mc.DB.Order("created_at DESC").Find(&anns).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}
	return utils.Success(c, fiber.StatusOK, fiber.Map{"announcements": anns})
}
