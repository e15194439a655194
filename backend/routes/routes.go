package routes

import (
	"log"

	"github.com/typerush/website/backend/config"
	"github.com/typerush/website/backend/controllers"
	"github.com/typerush/website/backend/mail"
	"github.com/typerush/website/backend/middleware"
	"github.com/typerush/website/backend/store"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config, logger *log.Logger, sender mail.Sender, verifier middleware.CaptchaVerifier) {
	st := store.NewGormStore(db, cfg.FinalLessonIdx)

	captcha := middleware.CaptchaMiddleware(verifier)
	auth := middleware.AuthMiddleware(cfg)

	// Auth routes (captcha-gated forms)
	authController := controllers.NewAuthController(st, cfg)
	app.Post("/signup", captcha, authController.Signup)
	app.Post("/signin", captcha, authController.Signin)
	app.Delete("/logout", auth, authController.Logout)
	app.Get("/profile", auth, authController.GetProfile)

	// Metrics upload
	infoController := controllers.NewInfoController(st, cfg)
	app.Post("/info/update", auth, infoController.Update)

	// Scoreboard
	scoreboardController := controllers.NewScoreboardController(st, cfg)
	app.Get("/scoreboard", scoreboardController.Leaderboard)

	// Contact form
	contactController := controllers.NewContactController(cfg, sender, logger)
	app.Post("/contact-us", captcha, contactController.Submit)
}
