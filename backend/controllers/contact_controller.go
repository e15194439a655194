package controllers

import (
	"log"
	"net/mail"
	"os"
	"path/filepath"
	"strings"

	"github.com/typerush/website/backend/config"
	mailer "github.com/typerush/website/backend/mail"
	"github.com/typerush/website/backend/utils"

	"github.com/gofiber/fiber/v2"
)

// maxAttachmentSize caps contact-form uploads at 2MB.
const maxAttachmentSize = 2 << 20

var allowedAttachmentExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true,
	".pdf": true, ".doc": true, ".docx": true,
}

type ContactController struct {
	Cfg    *config.Config
	Mailer mailer.Sender
	Logger *log.Logger
}

func NewContactController(cfg *config.Config, sender mailer.Sender, logger *log.Logger) *ContactController {
	return &ContactController{Cfg: cfg, Mailer: sender, Logger: logger}
}

// Submit handles the contact form: validates the fields, stores the optional
// attachment under the sender's address, and mails the admin.
func (cc *ContactController) Submit(c *fiber.Ctx) error {
	name := c.FormValue("name")
	email := c.FormValue("email")
	subject := c.FormValue("subject")
	message := c.FormValue("message")

	fieldErrs := make(map[string]string)
	if name == "" || len(name) > 255 {
		fieldErrs["name"] = "required, at most 255 characters"
	}
	if _, err := mail.ParseAddress(email); err != nil {
		fieldErrs["email"] = "must be a valid email address"
	}
	if subject == "" {
		fieldErrs["subject"] = "required"
	}
	if message == "" {
		fieldErrs["message"] = "required"
	}

	attachmentURL := ""
	file, err := c.FormFile("file")
	if err == nil && file != nil {
		ext := strings.ToLower(filepath.Ext(file.Filename))
		switch {
		case !allowedAttachmentExts[ext]:
			fieldErrs["file"] = "must be jpg, jpeg, png, pdf, doc or docx"
		case file.Size > maxAttachmentSize:
			fieldErrs["file"] = "must be at most 2MB"
		}
		if len(fieldErrs) == 0 {
			dir := filepath.Join(cc.Cfg.UploadDir, "contact-us", email)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return utils.InternalServerError(c, "Could not store attachment")
			}
			savePath := filepath.Join(dir, filepath.Base(file.Filename))
			if err := c.SaveFile(file, savePath); err != nil {
				return utils.InternalServerError(c, "Could not store attachment")
			}
			attachmentURL = "/" + filepath.ToSlash(savePath)
		}
	}

	if len(fieldErrs) > 0 {
		return utils.ValidationError(c, fieldErrs)
	}

	err = cc.Mailer.Send(cc.Cfg.AdminEmail, mailer.Message{
		Name:          name,
		Email:         email,
		Subject:       subject,
		Body:          message,
		AttachmentURL: attachmentURL,
	})
	if err != nil {
		cc.Logger.Printf("contact-us mail delivery failed: %v", err)
		return utils.InternalServerError(c, "Could not send message")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"message": "Thank you for contacting us! We will respond shortly.",
	})
}
