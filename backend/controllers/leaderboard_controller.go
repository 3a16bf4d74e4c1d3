package controllers

import (
	"math"
	"sort"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/fuxconcurseiro/spartajus-backend/backend/config"
	"github.com/fuxconcurseiro/spartajus-backend/backend/models"
	"github.com/fuxconcurseiro/spartajus-backend/backend/progress"
	"github.com/fuxconcurseiro/spartajus-backend/backend/utils"
)

type LeaderboardController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewLeaderboardController(db *gorm.DB, cfg *config.Config) *LeaderboardController {
	return &LeaderboardController{DB: db, Cfg: cfg}
}

// GetLeaderboard godoc
// @Summary Get the community ranking
// @Description Every registered user ranked by total questions; recomputed from all log collections on every call
// @Tags leaderboard
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /leaderboard [get]
func (lb *LeaderboardController) GetLeaderboard(c *fiber.Ctx) error {
	var users []models.User
	if err := lb.DB.Find(&users).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	now := time.Now()
	rows := make([]models.LeaderboardRow, 0, len(users))
	for _, u := range users {
		var logs []models.StudyLog
		if err := lb.DB.Where("user_id = ?", u.ID).Find(&logs).Error; err != nil {
			continue
		}

		questions, pages := 0, 0
		for _, l := range logs {
			questions += l.Questions
			pages += l.Pages
		}

		hours := math.Round(float64(progress.TotalMinutes(logs))/60*10) / 10

		rows = append(rows, models.LeaderboardRow{
			Username:   u.Username,
			Patent:     progress.Patent(questions),
			Questions:  questions,
			Pages:      pages,
			StreakDays: progress.Streak(now, logs),
			TotalHours: hours,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Questions > rows[j].Questions })
	for i := range rows {
		rows[i].Rank = i + 1
	}

	podium := rows
	if len(podium) > 3 {
		podium = rows[:3]
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"ranking": rows,
		"podium":  podium,
	})
}
