package middleware

import (
	"encoding/json"
	"fmt"

	"github.com/typerush/website/backend/config"
	"github.com/typerush/website/backend/utils"

	"github.com/gofiber/fiber/v2"
)

const siteVerifyURL = "https://www.google.com/recaptcha/api/siteverify"

// CaptchaVerifier checks a reCAPTCHA response token for a client IP.
type CaptchaVerifier interface {
	Verify(token, remoteIP string) (bool, error)
}

// RecaptchaVerifier calls Google's siteverify endpoint and applies the
// configured minimum score.
type RecaptchaVerifier struct {
	Secret   string
	MinScore float64
}

func NewRecaptchaVerifier(cfg *config.Config) *RecaptchaVerifier {
	return &RecaptchaVerifier{Secret: cfg.CaptchaSecret, MinScore: cfg.CaptchaMinScore}
}

func (v *RecaptchaVerifier) Verify(token, remoteIP string) (bool, error) {
	agent := fiber.AcquireAgent()
	req := agent.Request()
	req.Header.SetMethod(fiber.MethodPost)
	req.SetRequestURI(siteVerifyURL)

	args := fiber.AcquireArgs()
	defer fiber.ReleaseArgs(args)
	args.Set("secret", v.Secret)
	args.Set("response", token)
	args.Set("remoteip", remoteIP)
	agent.Form(args)

	if err := agent.Parse(); err != nil {
		return false, err
	}

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return false, errs[0]
	}
	if code != fiber.StatusOK {
		return false, fmt.Errorf("siteverify returned status %d", code)
	}

	var result struct {
		Success bool    `json:"success"`
		Score   float64 `json:"score"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return false, err
	}

	return result.Success && result.Score >= v.MinScore, nil
}

// CaptchaMiddleware gates an endpoint on a valid g-recaptcha-response form
// field. Verification runs upstream of the handlers; they never see the
// token.
func CaptchaMiddleware(verifier CaptchaVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.FormValue("g-recaptcha-response")
		if token == "" {
			return utils.BadRequest(c, "captcha token is required")
		}

		ok, err := verifier.Verify(token, c.IP())
		if err != nil || !ok {
			return utils.BadRequest(c, "reCAPTCHA verification failed. Please try again.")
		}

		return c.Next()
	}
}
