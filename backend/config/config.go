package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	JWTSecret  string
	ServerPort string

	CaptchaSecret   string
	CaptchaMinScore float64

	SMTPHost   string
	SMTPPort   string
	SMTPFrom   string
	AdminEmail string
	UploadDir  string

	// FinalLessonIdx is the last lesson group; reaching it makes a user
	// eligible for the scoreboard.
	FinalLessonIdx  int
	LeaderboardSize int
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file, using environment variables")
	}

	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "typerush"),
		JWTSecret:  getEnv("JWT_SECRET", "secret"),
		ServerPort: getEnv("SERVER_PORT", "8080"),

		CaptchaSecret:   getEnv("RECAPTCHA_SECRET", ""),
		CaptchaMinScore: getEnvFloat("RECAPTCHA_MIN_SCORE", 0.5),

		SMTPHost:   getEnv("SMTP_HOST", "localhost"),
		SMTPPort:   getEnv("SMTP_PORT", "25"),
		SMTPFrom:   getEnv("SMTP_FROM", "noreply@typerush.app"),
		AdminEmail: getEnv("ADMIN_EMAIL", "admin@typerush.app"),
		UploadDir:  getEnv("UPLOAD_DIR", "storage"),

		FinalLessonIdx:  getEnvInt("FINAL_LESSON_IDX", 4),
		LeaderboardSize: getEnvInt("LEADERBOARD_SIZE", 20),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
