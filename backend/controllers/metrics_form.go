package controllers

import (
	"strconv"

	"github.com/typerush/website/backend/models"

	"github.com/gofiber/fiber/v2"
)

var metricFields = []string{
	"lessonIdx",
	"speed_new", "speed_old",
	"accuracy_new", "accuracy_old",
	"score_new", "score_old",
}

// parseMetricsForm maps the seven metric form fields into a MetricsRecord,
// field by field. The record is atomic: either all seven fields are present
// and integral, or none are. A fully absent record returns (nil, nil);
// a partial or malformed one returns the per-field errors.
func parseMetricsForm(c *fiber.Ctx) (*models.MetricsRecord, map[string]string) {
	values := make(map[string]int, len(metricFields))
	errs := make(map[string]string)
	present := 0

	for _, field := range metricFields {
		raw := c.FormValue(field)
		if raw == "" {
			errs[field] = "required"
			continue
		}
		present++
		n, err := strconv.Atoi(raw)
		if err != nil {
			errs[field] = "must be an integer"
			continue
		}
		values[field] = n
	}

	if present == 0 {
		return nil, nil
	}
	if len(errs) > 0 {
		return nil, errs
	}

	return &models.MetricsRecord{
		LessonIdx: values["lessonIdx"],
		Speed:     models.MetricPair{New: values["speed_new"], Old: values["speed_old"]},
		Accuracy:  models.MetricPair{New: values["accuracy_new"], Old: values["accuracy_old"]},
		Score:     models.MetricPair{New: values["score_new"], Old: values["score_old"]},
	}, nil
}
