package controllers

import (
	"github.com/typerush/website/backend/config"
	"github.com/typerush/website/backend/store"
	"github.com/typerush/website/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type ScoreboardController struct {
	Store *store.GormStore
	Cfg   *config.Config
}

func NewScoreboardController(st *store.GormStore, cfg *config.Config) *ScoreboardController {
	return &ScoreboardController{Store: st, Cfg: cfg}
}

// Leaderboard returns the top scorers among users who finished the final
// lesson group. An empty board is a normal response, not an error.
func (sc *ScoreboardController) Leaderboard(c *fiber.Ctx) error {
	scorers, err := sc.Store.TopScorers(sc.Cfg.LeaderboardSize, sc.Cfg.FinalLessonIdx)
	if err != nil {
		return utils.InternalServerError(c, "Could not query scoreboard")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"topScorers": scorers,
	})
}
