package routes_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/typerush/website/backend/config"
	"github.com/typerush/website/backend/mail"
	"github.com/typerush/website/backend/models"
	"github.com/typerush/website/backend/routes"
	"github.com/typerush/website/backend/store"
	"github.com/typerush/website/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type stubVerifier struct {
	ok bool
}

func (v *stubVerifier) Verify(token, remoteIP string) (bool, error) {
	return v.ok, nil
}

type recordingSender struct {
	to   []string
	msgs []mail.Message
	err  error
}

func (s *recordingSender) Send(to string, msg mail.Message) error {
	if s.err != nil {
		return s.err
	}
	s.to = append(s.to, to)
	s.msgs = append(s.msgs, msg)
	return nil
}

type env struct {
	app      *fiber.App
	store    *store.GormStore
	cfg      *config.Config
	sender   *recordingSender
	verifier *stubVerifier
}

func setup(t *testing.T) *env {
	t.Helper()

	cfg := &config.Config{
		JWTSecret:       "testsecret",
		AdminEmail:      "admin@example.com",
		UploadDir:       t.TempDir(),
		FinalLessonIdx:  4,
		LeaderboardSize: 20,
	}

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))

	app := fiber.New()
	sender := &recordingSender{}
	verifier := &stubVerifier{ok: true}
	routes.SetupRoutes(app, db, cfg, log.New(io.Discard, "", 0), sender, verifier)

	return &env{
		app:      app,
		store:    store.NewGormStore(db, cfg.FinalLessonIdx),
		cfg:      cfg,
		sender:   sender,
		verifier: verifier,
	}
}

func postForm(t *testing.T, e *env, path string, form url.Values, token string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	resp, err := e.app.Test(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func signupForm(username string) url.Values {
	return url.Values{
		"username":              {username},
		"password":              {"password123"},
		"password_confirmation": {"password123"},
		"g-recaptcha-response":  {"stub-token"},
	}
}

func metricsForm(lessonIdx, speedNew, speedOld, accNew, accOld, scoreNew, scoreOld int) url.Values {
	return url.Values{
		"lessonIdx":    {fmt.Sprint(lessonIdx)},
		"speed_new":    {fmt.Sprint(speedNew)},
		"speed_old":    {fmt.Sprint(speedOld)},
		"accuracy_new": {fmt.Sprint(accNew)},
		"accuracy_old": {fmt.Sprint(accOld)},
		"score_new":    {fmt.Sprint(scoreNew)},
		"score_old":    {fmt.Sprint(scoreOld)},
	}
}

func TestSignupWithoutMetricsStartsFromDefault(t *testing.T) {
	e := setup(t)

	resp := postForm(t, e, "/signup", signupForm("alice"), "")
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	user, err := e.store.FindByUsername("alice")
	require.NoError(t, err)
	assert.Equal(t, models.DefaultRecord(), user.Record())
}

func TestSignupSeedsClientCacheRecord(t *testing.T) {
	e := setup(t)

	form := signupForm("bob")
	for k, v := range metricsForm(2, 80, 70, 90, 85, 500, 400) {
		form[k] = v
	}
	resp := postForm(t, e, "/signup", form, "")
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	user, err := e.store.FindByUsername("bob")
	require.NoError(t, err)
	assert.Equal(t, models.MetricsRecord{
		LessonIdx: 2,
		Speed:     models.MetricPair{New: 80, Old: 70},
		Accuracy:  models.MetricPair{New: 90, Old: 85},
		Score:     models.MetricPair{New: 500, Old: 400},
	}, user.Record())
}

func TestSignupRejectsPartialMetrics(t *testing.T) {
	e := setup(t)

	form := signupForm("carol")
	form.Set("lessonIdx", "2")
	form.Set("speed_new", "80")
	resp := postForm(t, e, "/signup", form, "")
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	_, err := e.store.FindByUsername("carol")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSignupRejectsDuplicateUsername(t *testing.T) {
	e := setup(t)

	resp := postForm(t, e, "/signup", signupForm("dave"), "")
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = postForm(t, e, "/signup", signupForm("dave"), "")
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func TestSignupRequiresCaptcha(t *testing.T) {
	e := setup(t)
	e.verifier.ok = false

	resp := postForm(t, e, "/signup", signupForm("mallory"), "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	_, err := e.store.FindByUsername("mallory")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSigninReturnsTokenAndProgress(t *testing.T) {
	e := setup(t)

	form := signupForm("erin")
	for k, v := range metricsForm(3, 65, 60, 97, 95, 720, 640) {
		form[k] = v
	}
	resp := postForm(t, e, "/signup", form, "")
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = postForm(t, e, "/signin", url.Values{
		"username":             {"erin"},
		"password":             {"password123"},
		"g-recaptcha-response": {"stub-token"},
	}, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	data := body["data"].(map[string]interface{})
	assert.NotEmpty(t, data["token"])

	progress := data["progress"].(map[string]interface{})
	assert.Equal(t, float64(3), progress["lessonIdx"])
	metrics := progress["metrics"].(map[string]interface{})
	speed := metrics["speed"].(map[string]interface{})
	assert.Equal(t, float64(65), speed["new"])
}

func TestSigninRejectsWrongPassword(t *testing.T) {
	e := setup(t)

	resp := postForm(t, e, "/signup", signupForm("frank"), "")
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = postForm(t, e, "/signin", url.Values{
		"username":             {"frank"},
		"password":             {"wrongpassword"},
		"g-recaptcha-response": {"stub-token"},
	}, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func signupAndToken(t *testing.T, e *env, username string) string {
	t.Helper()
	resp := postForm(t, e, "/signup", signupForm(username), "")
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	user, err := e.store.FindByUsername(username)
	require.NoError(t, err)
	token, err := utils.GenerateJWTToken(user.ID, e.cfg)
	require.NoError(t, err)
	return token
}

func TestInfoUpdateReplacesRecord(t *testing.T) {
	e := setup(t)
	token := signupAndToken(t, e, "grace")

	resp := postForm(t, e, "/info/update", metricsForm(4, 88, 80, 96, 94, 900, 820), token)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	user, err := e.store.FindByUsername("grace")
	require.NoError(t, err)
	assert.Equal(t, models.MetricsRecord{
		LessonIdx: 4,
		Speed:     models.MetricPair{New: 88, Old: 80},
		Accuracy:  models.MetricPair{New: 96, Old: 94},
		Score:     models.MetricPair{New: 900, Old: 820},
	}, user.Record())
}

func TestInfoUpdateRejectsPartialRecord(t *testing.T) {
	e := setup(t)
	token := signupAndToken(t, e, "heidi")

	form := metricsForm(4, 88, 80, 96, 94, 900, 820)
	form.Del("score_old")
	resp := postForm(t, e, "/info/update", form, token)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	// Nothing was applied.
	user, err := e.store.FindByUsername("heidi")
	require.NoError(t, err)
	assert.Equal(t, models.DefaultRecord(), user.Record())
}

func TestInfoUpdateRequiresAuth(t *testing.T) {
	e := setup(t)

	resp := postForm(t, e, "/info/update", metricsForm(1, 50, 40, 90, 88, 200, 150), "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestProfileReturnsProgress(t *testing.T) {
	e := setup(t)
	token := signupAndToken(t, e, "ivan")

	resp := postForm(t, e, "/info/update", metricsForm(2, 70, 65, 93, 91, 450, 380), token)
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	req := httptest.NewRequest(fiber.MethodGet, "/profile", nil)
	req.Header.Set("Authorization", token)
	profileResp, err := e.app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, profileResp.StatusCode)

	body := decodeBody(t, profileResp)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "ivan", data["username"])
	progress := data["progress"].(map[string]interface{})
	assert.Equal(t, float64(2), progress["lessonIdx"])
}

func seedScorer(t *testing.T, e *env, username string, lessonIdx, score int) {
	t.Helper()
	user, err := e.store.CreateUser(username, "hash", &models.MetricsRecord{
		LessonIdx: lessonIdx,
		Speed:     models.MetricPair{New: 60, Old: 55},
		Accuracy:  models.MetricPair{New: 95, Old: 92},
		Score:     models.MetricPair{New: score, Old: score - 50},
	})
	require.NoError(t, err)
	require.NotZero(t, user.ID)
}

func getScoreboard(t *testing.T, e *env) []map[string]interface{} {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodGet, "/scoreboard", nil)
	resp, err := e.app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	data := body["data"].(map[string]interface{})
	raw := data["topScorers"].([]interface{})
	scorers := make([]map[string]interface{}, len(raw))
	for i, entry := range raw {
		scorers[i] = entry.(map[string]interface{})
	}
	return scorers
}

func TestScoreboardGatesAndOrders(t *testing.T) {
	e := setup(t)
	seedScorer(t, e, "a", 4, 900)
	seedScorer(t, e, "b", 3, 950)
	seedScorer(t, e, "c", 4, 850)

	scorers := getScoreboard(t, e)
	require.Len(t, scorers, 2)
	assert.Equal(t, "a", scorers[0]["username"])
	assert.Equal(t, "c", scorers[1]["username"])
}

func TestScoreboardEmptyIsNotAnError(t *testing.T) {
	e := setup(t)

	scorers := getScoreboard(t, e)
	assert.Empty(t, scorers)
}

func contactForm(t *testing.T, fields map[string]string, filename string, fileContent []byte) (*strings.Reader, string) {
	t.Helper()
	var buf strings.Builder
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if filename != "" {
		fw, err := w.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = fw.Write(fileContent)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return strings.NewReader(buf.String()), w.FormDataContentType()
}

func TestContactFormSendsMail(t *testing.T) {
	e := setup(t)

	body, contentType := contactForm(t, map[string]string{
		"name":                 "Jane Doe",
		"email":                "jane@example.com",
		"subject":              "Feedback",
		"message":              "Great lessons!",
		"g-recaptcha-response": "stub-token",
	}, "screenshot.png", []byte("fake png bytes"))

	req := httptest.NewRequest(fiber.MethodPost, "/contact-us", body)
	req.Header.Set("Content-Type", contentType)
	resp, err := e.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	require.Len(t, e.sender.msgs, 1)
	assert.Equal(t, []string{"admin@example.com"}, e.sender.to)
	msg := e.sender.msgs[0]
	assert.Equal(t, "Jane Doe", msg.Name)
	assert.Equal(t, "Feedback", msg.Subject)
	assert.Contains(t, msg.AttachmentURL, "screenshot.png")
}

func TestContactFormRejectsBadAttachmentType(t *testing.T) {
	e := setup(t)

	body, contentType := contactForm(t, map[string]string{
		"name":                 "Jane Doe",
		"email":                "jane@example.com",
		"subject":              "Feedback",
		"message":              "Hello",
		"g-recaptcha-response": "stub-token",
	}, "malware.exe", []byte("nope"))

	req := httptest.NewRequest(fiber.MethodPost, "/contact-us", body)
	req.Header.Set("Content-Type", contentType)
	resp, err := e.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Empty(t, e.sender.msgs)
}

func TestContactFormRejectsInvalidEmail(t *testing.T) {
	e := setup(t)

	resp := postForm(t, e, "/contact-us", url.Values{
		"name":                 {"Jane"},
		"email":                {"not-an-email"},
		"subject":              {"Hi"},
		"message":              {"Hello"},
		"g-recaptcha-response": {"stub-token"},
	}, "")
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func TestContactFormMailFailure(t *testing.T) {
	e := setup(t)
	e.sender.err = errors.New("smtp down")

	resp := postForm(t, e, "/contact-us", url.Values{
		"name":                 {"Jane"},
		"email":                {"jane@example.com"},
		"subject":              {"Hi"},
		"message":              {"Hello"},
		"g-recaptcha-response": {"stub-token"},
	}, "")
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}
