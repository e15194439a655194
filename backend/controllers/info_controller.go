package controllers

import (
	"errors"

	"github.com/typerush/website/backend/config"
	"github.com/typerush/website/backend/middleware"
	"github.com/typerush/website/backend/store"
	"github.com/typerush/website/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type InfoController struct {
	Store *store.GormStore
	Cfg   *config.Config
}

func NewInfoController(st *store.GormStore, cfg *config.Config) *InfoController {
	return &InfoController{Store: st, Cfg: cfg}
}

// Update replaces the authenticated user's metrics record with the submitted
// one. All seven fields are required; a partial record is rejected and
// nothing is applied.
func (ic *InfoController) Update(c *fiber.Ctx) error {
	rec, fieldErrs := parseMetricsForm(c)
	if fieldErrs != nil {
		return utils.ValidationError(c, fieldErrs)
	}
	if rec == nil {
		errs := make(map[string]string, len(metricFields))
		for _, field := range metricFields {
			errs[field] = "required"
		}
		return utils.ValidationError(c, errs)
	}

	if err := ic.Store.Upsert(middleware.UserID(c), *rec); err != nil {
		var verr *store.ValidationError
		if errors.As(err, &verr) {
			return utils.ValidationError(c, map[string]string{"metrics": verr.Reason})
		}
		if errors.Is(err, store.ErrNotFound) {
			return utils.NotFound(c, "User not found")
		}
		return utils.InternalServerError(c, "Could not save metrics")
	}

	return utils.NoContent(c)
}
