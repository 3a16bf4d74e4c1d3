package controllers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/fuxconcurseiro/spartajus-backend/backend/config"
	"github.com/fuxconcurseiro/spartajus-backend/backend/mirror"
	"github.com/fuxconcurseiro/spartajus-backend/backend/models"
	"github.com/fuxconcurseiro/spartajus-backend/backend/progress"
	"github.com/fuxconcurseiro/spartajus-backend/backend/utils"
)

type LogsController struct {
	DB     *gorm.DB
	Cfg    *config.Config
	Mirror *mirror.Exporter
}

func NewLogsController(db *gorm.DB, cfg *config.Config, m *mirror.Exporter) *LogsController {
	return &LogsController{DB: db, Cfg: cfg, Mirror: m}
}

type logInput struct {
	Date          string            `json:"date"`
	WakeTime      string            `json:"wake_time"`
	SleepTime     string            `json:"sleep_time"`
	Pages         int               `json:"pages"`
	Questions     int               `json:"questions"`
	WorkoutSets   int               `json:"workout_sets"`
	Breakdown     map[string]int    `json:"breakdown"`
	BreakdownText string            `json:"breakdown_text"`
	Durations     map[string]string `json:"durations"`
}

func (in *logInput) toEntry(userID uint) models.StudyLog {
	breakdown := in.Breakdown
	if len(breakdown) == 0 && in.BreakdownText != "" {
		breakdown = progress.ParseBreakdown(in.BreakdownText)
	}

	entry := models.StudyLog{
		UserID:      userID,
		Date:        in.Date,
		WakeTime:    in.WakeTime,
		SleepTime:   in.SleepTime,
		Pages:       in.Pages,
		Questions:   in.Questions,
		WorkoutSets: in.WorkoutSets,
		Breakdown:   breakdown,
		Durations:   in.Durations,
	}
	progress.Normalize(&entry)
	return entry
}

func validDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// SubmitLog godoc
// @Summary Submit a daily log
// @Description Upserts the log for a date. A new date adjusts the tree counter (+1 studied, -2 not, floor 0); correcting an existing date leaves the tree alone.
// @Tags logs
// @Accept json
// @Produce json
// @Param request body logInput true "Daily log"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /logs [post]
func (lc *LogsController) SubmitLog(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	var input logInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if !validDate(input.Date) {
		return utils.BadRequest(c, "Date must be YYYY-MM-DD")
	}

	entry := input.toEntry(userID)

	var existing models.StudyLog
	err := lc.DB.Where("user_id = ? AND date = ?", userID, input.Date).First(&existing).Error

	treeChanged := false
	var user models.User
	if err := lc.DB.First(&user, userID).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	switch {
	case err == nil:
		// Overwrite in place, keep the tree as it is.
		entry.ID = existing.ID
		entry.CreatedAt = existing.CreatedAt
		if err := lc.DB.Save(&entry).Error; err != nil {
			return utils.InternalServerError(c, "Could not update log")
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := lc.DB.Create(&entry).Error; err != nil {
			return utils.InternalServerError(c, "Could not create log")
		}
		user.TreeBranches = progress.ClampTree(user.TreeBranches + progress.TreeDelta(entry.Studied))
		if err := lc.DB.Save(&user).Error; err != nil {
			return utils.InternalServerError(c, "Could not update tree")
		}
		treeChanged = true
	default:
		return utils.InternalServerError(c, "Could not query database")
	}

	lc.Mirror.Queue(lc.DB)

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"log":           entry,
		"tree_branches": user.TreeBranches,
		"tree_changed":  treeChanged,
	})
}

// GetLogs godoc
// @Summary Get log history
// @Tags logs
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /logs [get]
func (lc *LogsController) GetLogs(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	var logs []models.StudyLog
	if err := lc.DB.Where("user_id = ?", userID).Order("date DESC").Find(&logs).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{"logs": logs})
}

// GetLog godoc
// @Summary Get one day's log
// @Tags logs
// @Produce json
// @Param date path string true "Date (YYYY-MM-DD)"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /logs/{date} [get]
func (lc *LogsController) GetLog(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	var entry models.StudyLog
	if err := lc.DB.Where("user_id = ? AND date = ?", userID, c.Params("date")).First(&entry).Error; err != nil {
		return utils.NotFound(c, "No log for this date")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{"log": entry})
}

// ReplaceLogs godoc
// @Summary Replace the whole log history
// @Description Commits the edited history table: every row is re-parsed, the collection is replaced and the tree counter is rebuilt from scratch.
// @Tags logs
// @Accept json
// @Produce json
// @Param request body []logInput true "Full history"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /logs [put]
func (lc *LogsController) ReplaceLogs(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	var inputs []logInput
	if err := c.BodyParser(&inputs); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	entries := make([]models.StudyLog, 0, len(inputs))
	seen := make(map[string]bool)
	for _, in := range inputs {
		if !validDate(in.Date) || seen[in.Date] {
			return utils.BadRequest(c, "Each row needs a unique YYYY-MM-DD date")
		}
		seen[in.Date] = true
		entries = append(entries, in.toEntry(userID))
	}

	branches := progress.RebuildTree(entries)

	err := lc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("user_id = ?", userID).Delete(&models.StudyLog{}).Error; err != nil {
			return err
		}
		for i := range entries {
			if err := tx.Create(&entries[i]).Error; err != nil {
				return err
			}
		}
		return tx.Model(&models.User{}).Where("id = ?", userID).
			Update("tree_branches", branches).Error
	})
	if err != nil {
		return utils.InternalServerError(c, "Could not replace logs")
	}

	lc.Mirror.Queue(lc.DB)

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"count":         len(entries),
		"tree_branches": branches,
	})
}

// GetPlans godoc
// @Summary Get planning notes
// @Tags plans
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security ApiKeyAuth
// @Router /plans [get]
func (lc *LogsController) GetPlans(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	var plans []models.Plan
	if err := lc.DB.Where("user_id = ?", userID).Order("date").Find(&plans).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	byDate := make(map[string]string, len(plans))
	for _, p := range plans {
		byDate[p.Date] = p.Body
	}
	return utils.Success(c, fiber.StatusOK, fiber.Map{"plans": byDate})
}

// UpsertPlan godoc
// @Summary Set the planning note for a date
// @Tags plans
// @Accept json
// @Produce json
// @Param date path string true "Date (YYYY-MM-DD)"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /plans/{date} [put]
func (lc *LogsController) UpsertPlan(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)
	date := c.Params("date")
	if !validDate(date) {
		return utils.BadRequest(c, "Date must be YYYY-MM-DD")
	}

	var input struct {
		Body string `json:"body"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	var plan models.Plan
	err := lc.DB.Where("user_id = ? AND date = ?", userID, date).First(&plan).Error
	switch {
	case err == nil:
		plan.Body = input.Body
		err = lc.DB.Save(&plan).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		plan = models.Plan{UserID: userID, Date: date, Body: input.Body}
		err = lc.DB.Create(&plan).Error
	}
	if err != nil {
		return utils.InternalServerError(c, "Could not save plan")
	}

	lc.Mirror.Queue(lc.DB)

	return utils.Success(c, fiber.StatusOK, fiber.Map{"plan": plan})
}
