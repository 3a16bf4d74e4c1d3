package controllers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/fuxconcurseiro/spartajus-backend/backend/config"
	"github.com/fuxconcurseiro/spartajus-backend/backend/models"
	"github.com/fuxconcurseiro/spartajus-backend/backend/progress"
	"github.com/fuxconcurseiro/spartajus-backend/backend/utils"
)

type StatsController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewStatsController(db *gorm.DB, cfg *config.Config) *StatsController {
	return &StatsController{DB: db, Cfg: cfg}
}

// buildOverview derives every dashboard statistic from the full log
// collection. Nothing is cached; each call recomputes from scratch.
func buildOverview(user *models.User, logs []models.StudyLog, now time.Time) models.Overview {
	totalQuestions, totalPages, totalSets := 0, 0, 0
	for _, l := range logs {
		totalQuestions += l.Questions
		totalPages += l.Pages
		totalSets += l.WorkoutSets
	}

	percent, current, remaining := progress.NextPatent(totalQuestions)
	gold, silver, bronze := progress.Stars(totalPages)

	return models.Overview{
		TotalQuestions: totalQuestions,
		TotalPages:     totalPages,
		TotalSets:      totalSets,
		StreakDays:     progress.Streak(now, logs),
		Level:          progress.Level(totalQuestions),
		Patent:         progress.Patent(totalQuestions),
		PatentPercent:  percent,
		PatentCurrent:  current,
		PatentMissing:  remaining,
		GoldStars:      gold,
		SilverStars:    silver,
		BronzeStars:    bronze,
		TreeBranches:   user.TreeBranches,
	}
}

// GetOverview godoc
// @Summary Get the dashboard overview
// @Description Totals, streak, patent, reading stars and tree state derived from the full log history
// @Tags stats
// @Produce json
// @Success 200 {object} models.Overview
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /stats/overview [get]
func (sc *StatsController) GetOverview(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	var user models.User
	if err := sc.DB.First(&user, userID).Error; err != nil {
		return utils.NotFound(c, "User not found")
	}

	var logs []models.StudyLog
	if err := sc.DB.Where("user_id = ?", userID).Find(&logs).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	return utils.Success(c, fiber.StatusOK, buildOverview(&user, logs, time.Now()))
}

// GetSubjectDistribution godoc
// @Summary Get per-subject distribution
// @Description Question and study-minute sums per subject over an optional date range and subject selection
// @Tags stats
// @Produce json
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Param subjects query string false "Comma-separated subject filter"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /stats/subjects [get]
func (sc *StatsController) GetSubjectDistribution(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	var logs []models.StudyLog
	if err := sc.DB.Where("user_id = ?", userID).Find(&logs).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	filtered := progress.FilterRange(logs, c.Query("from"), c.Query("to"))

	var selected map[string]bool
	if raw := c.Query("subjects"); raw != "" {
		selected = make(map[string]bool)
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				selected[s] = true
			}
		}
	}

	questions := progress.AggregateSubjects(filtered, selected)
	minutes := progress.AggregateMinutes(filtered)

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"questions": questions,
		"minutes":   minutes,
		"labels":    progress.SubjectLabels(questions),
	})
}

// GetTimeline godoc
// @Summary Get the daily question series
// @Tags stats
// @Produce json
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /stats/timeline [get]
func (sc *StatsController) GetTimeline(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	var logs []models.StudyLog
	if err := sc.DB.Where("user_id = ?", userID).Find(&logs).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	filtered := progress.FilterRange(logs, c.Query("from"), c.Query("to"))
	totals := 0
	pages := 0
	sets := 0
	for _, l := range filtered {
		totals += l.Questions
		pages += l.Pages
		sets += l.WorkoutSets
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"series":          progress.DailySeries(filtered),
		"questions_total": totals,
		"pages_total":     pages,
		"sets_total":      sets,
	})
}
