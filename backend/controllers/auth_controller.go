package controllers

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/fuxconcurseiro/spartajus-backend/backend/config"
	"github.com/fuxconcurseiro/spartajus-backend/backend/mirror"
	"github.com/fuxconcurseiro/spartajus-backend/backend/models"
	"github.com/fuxconcurseiro/spartajus-backend/backend/utils"
)

type AuthController struct {
	DB     *gorm.DB
	Cfg    *config.Config
	Mirror *mirror.Exporter
}

func NewAuthController(db *gorm.DB, cfg *config.Config, m *mirror.Exporter) *AuthController {
	return &AuthController{DB: db, Cfg: cfg, Mirror: m}
}

type credentialsInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register godoc
// @Summary Register a new account
// @Description Creates an account with an empty log collection and one tree branch
// @Tags auth
// @Accept json
// @Produce json
// @Param request body credentialsInput true "Account credentials"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /auth/register [post]
func (ac *AuthController) Register(c *fiber.Ctx) error {
	var input credentialsInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	input.Username = strings.TrimSpace(input.Username)
	if input.Username == "" || input.Password == "" {
		return utils.BadRequest(c, "Username and password are required")
	}

	var existing models.User
	if err := ac.DB.Where("username = ?", input.Username).First(&existing).Error; err == nil {
		return utils.BadRequest(c, "Username already taken")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return utils.InternalServerError(c, "Could not hash password")
	}

	role := models.RoleUser
	if input.Username == ac.Cfg.ModeratorUser {
		role = models.RoleModerator
	}

	user := models.User{
		Username:     input.Username,
		PasswordHash: string(hashed),
		Role:         role,
		TreeBranches: 1,
	}
	if err := ac.DB.Create(&user).Error; err != nil {
		return utils.InternalServerError(c, "Could not create user")
	}

	token, err := utils.GenerateJWTToken(user.ID, ac.Cfg)
	if err != nil {
		return utils.InternalServerError(c, "Could not generate token")
	}

	ac.Mirror.Queue(ac.DB)

	return utils.Created(c, fiber.Map{
		"token": token,
		"user": fiber.Map{
			"id":       user.ID,
			"username": user.Username,
			"role":     user.Role,
		},
	})
}

// Login godoc
// @Summary Log in
// @Description Authenticates and returns a JWT token. The error never says whether the username or the password was wrong.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body credentialsInput true "Login credentials"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Router /auth/login [post]
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var input credentialsInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	input.Username = strings.TrimSpace(input.Username)

	var user models.User
	if err := ac.DB.Where("username = ?", input.Username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Unauthorized(c, "Invalid credentials")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	if !ac.verifyPassword(&user, input.Password) {
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
			"role":     user.Role,
		},
	})
}

// verifyPassword checks bcrypt first, then the legacy SHA-256 hex digest
// some imported accounts still carry. A legacy match is upgraded to
// bcrypt in place.
func (ac *AuthController) verifyPassword(user *models.User, password string) bool {
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil {
		return true
	}

	if len(user.PasswordHash) == 64 && isHex(user.PasswordHash) {
		sum := sha256.Sum256([]byte(password))
		if hex.EncodeToString(sum[:]) == strings.ToLower(user.PasswordHash) {
			if hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost); err == nil {
				user.PasswordHash = string(hashed)
				ac.DB.Save(user)
			}
			return true
		}
	}
	return false
}

func isHex(s string) bool {
	_, err := hex.DecodeString(strings.ToLower(s))
	return err == nil
}
