package controllers_test

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/fuxconcurseiro/spartajus-backend/backend/config"
	"github.com/fuxconcurseiro/spartajus-backend/backend/models"
	"github.com/fuxconcurseiro/spartajus-backend/backend/routes"
	"github.com/fuxconcurseiro/spartajus-backend/backend/utils"
)

var (
	setupOnce sync.Once
	setupErr  error
	testApp   *fiber.App
	testDB    *gorm.DB
	testCfg   *config.Config
	nameSeq   atomic.Int64
)

func testEnv(t *testing.T) (*fiber.App, *gorm.DB, *config.Config) {
	setupOnce.Do(func() {
		testCfg = &config.Config{
			DBHost:        envOr("TEST_DB_HOST", "localhost"),
			DBPort:        envOr("TEST_DB_PORT", "5432"),
			DBUser:        envOr("TEST_DB_USER", "postgres"),
			DBPassword:    envOr("TEST_DB_PASSWORD", "postgres"),
			DBName:        envOr("TEST_DB_NAME", "spartajus_test"),
			JWTSecret:     "testsecret",
			ModeratorUser: uniqueName("mod"),
		}

		testDB, setupErr = utils.InitDB(testCfg)
		if setupErr != nil {
			return
		}

		testApp = fiber.New()
		routes.SetupRoutes(testApp, testDB, testCfg, nil)
	})

	if setupErr != nil {
		t.Skipf("test database unavailable: %v", setupErr)
	}
	return testApp, testDB, testCfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func uniqueName(prefix string) string {
	return fmt.Sprintf("%s_%d_%d", prefix, time.Now().UnixNano(), nameSeq.Add(1))
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(data)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	return resp.StatusCode, result
}

func data(result map[string]interface{}) map[string]interface{} {
	d, _ := result["data"].(map[string]interface{})
	return d
}

func register(t *testing.T, app *fiber.App, username, password string) string {
	t.Helper()
	status, result := doJSON(t, app, "POST", "/api/auth/register", "", map[string]string{
		"username": username,
		"password": password,
	})
	require.Equal(t, fiber.StatusCreated, status)
	token, _ := data(result)["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestRegisterAndLogin(t *testing.T) {
	app, _, _ := testEnv(t)

	username := uniqueName("spartano")
	register(t, app, username, "lacedemonia")

	status, result := doJSON(t, app, "POST", "/api/auth/login", "", map[string]string{
		"username": username,
		"password": "lacedemonia",
	})
	assert.Equal(t, fiber.StatusOK, status)
	assert.NotEmpty(t, data(result)["token"])

	// Wrong password and unknown user get the same non-specific answer.
	status, _ = doJSON(t, app, "POST", "/api/auth/login", "", map[string]string{
		"username": username,
		"password": "errada",
	})
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = doJSON(t, app, "POST", "/api/auth/login", "", map[string]string{
		"username": uniqueName("ninguem"),
		"password": "tanto faz",
	})
	assert.Equal(t, fiber.StatusUnauthorized, status)

	// Duplicate username is rejected.
	status, _ = doJSON(t, app, "POST", "/api/auth/register", "", map[string]string{
		"username": username,
		"password": "outra",
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestLegacyPasswordUpgrade(t *testing.T) {
	app, db, _ := testEnv(t)

	username := uniqueName("veterano")
	sum := sha256.Sum256([]byte("segredo antigo"))
	legacy := models.User{
		Username:     username,
		PasswordHash: hex.EncodeToString(sum[:]),
		TreeBranches: 1,
	}
	require.NoError(t, db.Create(&legacy).Error)

	status, _ := doJSON(t, app, "POST", "/api/auth/login", "", map[string]string{
		"username": username,
		"password": "segredo antigo",
	})
	assert.Equal(t, fiber.StatusOK, status)

	var reloaded models.User
	require.NoError(t, db.Where("username = ?", username).First(&reloaded).Error)
	assert.True(t, strings.HasPrefix(reloaded.PasswordHash, "$2"), "hash should be upgraded to bcrypt")
}

func TestSubmitLogReconciliation(t *testing.T) {
	app, _, _ := testEnv(t)
	token := register(t, app, uniqueName("recruta"), "senha")

	// New studied day: tree grows from 1 to 2.
	status, result := doJSON(t, app, "POST", "/api/logs", token, map[string]interface{}{
		"date":  "2026-01-01",
		"pages": 10,
	})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, float64(2), data(result)["tree_branches"])
	assert.Equal(t, true, data(result)["tree_changed"])

	// Correcting the same day overwrites in place and leaves the tree alone.
	status, result = doJSON(t, app, "POST", "/api/logs", token, map[string]interface{}{
		"date":  "2026-01-01",
		"pages": 25,
	})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, float64(2), data(result)["tree_branches"])
	assert.Equal(t, false, data(result)["tree_changed"])

	status, result = doJSON(t, app, "GET", "/api/logs", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	logs := data(result)["logs"].([]interface{})
	require.Len(t, logs, 1)
	assert.Equal(t, float64(25), logs[0].(map[string]interface{})["Pages"])

	// A wasted day costs two branches, clamped at zero.
	status, result = doJSON(t, app, "POST", "/api/logs", token, map[string]interface{}{
		"date": "2026-01-02",
	})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, float64(0), data(result)["tree_branches"])

	status, result = doJSON(t, app, "POST", "/api/logs", token, map[string]interface{}{
		"date": "2026-01-03",
	})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, float64(0), data(result)["tree_branches"])

	// A breakdown overrides a drifted questions total.
	status, result = doJSON(t, app, "POST", "/api/logs", token, map[string]interface{}{
		"date":      "2026-01-04",
		"questions": 999,
		"breakdown": map[string]int{"Penal": 5, "Civil": 3},
	})
	require.Equal(t, fiber.StatusOK, status)
	entry := data(result)["log"].(map[string]interface{})
	assert.Equal(t, float64(8), entry["Questions"])

	status, _ = doJSON(t, app, "POST", "/api/logs", token, map[string]interface{}{
		"date": "01/02/2026",
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestReplaceLogsRebuildsTree(t *testing.T) {
	app, _, _ := testEnv(t)
	token := register(t, app, uniqueName("editor"), "senha")

	doJSON(t, app, "POST", "/api/logs", token, map[string]interface{}{
		"date": "2026-02-01", "pages": 5,
	})

	status, result := doJSON(t, app, "PUT", "/api/logs", token, []map[string]interface{}{
		{"date": "2026-02-01", "pages": 5},
		{"date": "2026-02-02", "breakdown_text": "Penal: 10"},
		{"date": "2026-02-03"},
	})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, float64(3), data(result)["count"])
	// replay: 1 +1 +1 -2 = 1
	assert.Equal(t, float64(1), data(result)["tree_branches"])

	status, result = doJSON(t, app, "GET", "/api/logs", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, data(result)["logs"].([]interface{}), 3)

	// Duplicate dates in the table are rejected as a whole.
	status, _ = doJSON(t, app, "PUT", "/api/logs", token, []map[string]interface{}{
		{"date": "2026-02-01"},
		{"date": "2026-02-01"},
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestOverview(t *testing.T) {
	app, _, _ := testEnv(t)
	token := register(t, app, uniqueName("estudioso"), "senha")

	doJSON(t, app, "POST", "/api/logs", token, map[string]interface{}{
		"date": "2026-03-01", "pages": 600, "questions": 300, "workout_sets": 4,
	})
	doJSON(t, app, "POST", "/api/logs", token, map[string]interface{}{
		"date": "2026-03-02", "pages": 500, "questions": 900,
	})

	status, result := doJSON(t, app, "GET", "/api/stats/overview", token, nil)
	require.Equal(t, fiber.StatusOK, status)

	d := data(result)
	assert.Equal(t, float64(1200), d["total_questions"])
	assert.Equal(t, float64(1100), d["total_pages"])
	assert.Equal(t, float64(4), d["total_sets"])
	assert.Equal(t, "Andarilho de Vade Mecum", d["patent"])
	assert.Equal(t, float64(1), d["level"])
	assert.Equal(t, float64(1), d["bronze_stars"])
	assert.Equal(t, float64(3800), d["patent_missing"])
	assert.Equal(t, float64(3), d["tree_branches"])
}

func TestSubjectDistributionAndTimeline(t *testing.T) {
	app, _, _ := testEnv(t)
	token := register(t, app, uniqueName("analista"), "senha")

	doJSON(t, app, "POST", "/api/logs", token, map[string]interface{}{
		"date":      "2026-04-01",
		"breakdown": map[string]int{"Penal": 5, "Civil": 3},
		"durations": map[string]string{"Penal": "1h30m"},
	})
	doJSON(t, app, "POST", "/api/logs", token, map[string]interface{}{
		"date":      "2026-04-02",
		"breakdown": map[string]int{"Penal": 2},
	})

	status, result := doJSON(t, app, "GET", "/api/stats/subjects?subjects=Penal", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	questions := data(result)["questions"].(map[string]interface{})
	assert.Equal(t, float64(7), questions["Penal"])
	_, hasCivil := questions["Civil"]
	assert.False(t, hasCivil)
	minutes := data(result)["minutes"].(map[string]interface{})
	assert.Equal(t, float64(90), minutes["Penal"])

	status, result = doJSON(t, app, "GET", "/api/stats/timeline?from=2026-04-01&to=2026-04-02", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	series := data(result)["series"].([]interface{})
	require.Len(t, series, 2)
	first := series[0].(map[string]interface{})
	assert.Equal(t, "2026-04-01", first["date"])
	assert.Equal(t, float64(8), first["questions"])
}

func TestLeaderboard(t *testing.T) {
	app, _, _ := testEnv(t)

	strongName := uniqueName("forte")
	weakName := uniqueName("fraco")
	strong := register(t, app, strongName, "senha")
	weak := register(t, app, weakName, "senha")

	doJSON(t, app, "POST", "/api/logs", strong, map[string]interface{}{
		"date": "2026-05-01", "questions": 6000,
		"durations": map[string]string{"Penal": "2h"},
	})
	doJSON(t, app, "POST", "/api/logs", weak, map[string]interface{}{
		"date": "2026-05-01", "questions": 10,
	})

	status, result := doJSON(t, app, "GET", "/api/leaderboard", strong, nil)
	require.Equal(t, fiber.StatusOK, status)

	ranking := data(result)["ranking"].([]interface{})
	var strongRow, weakRow map[string]interface{}
	for _, raw := range ranking {
		row := raw.(map[string]interface{})
		switch row["username"] {
		case strongName:
			strongRow = row
		case weakName:
			weakRow = row
		}
	}
	require.NotNil(t, strongRow)
	require.NotNil(t, weakRow)
	assert.Equal(t, "Saco de Pancada da Banca", strongRow["patent"])
	assert.Equal(t, float64(2), strongRow["total_hours"])
	assert.Less(t, strongRow["rank"].(float64), weakRow["rank"].(float64))
}

func TestModeratorAdministration(t *testing.T) {
	app, _, cfg := testEnv(t)

	modToken := register(t, app, cfg.ModeratorUser, "senha do mentor")
	userName := uniqueName("aluno")
	userToken := register(t, app, userName, "senha")

	// Regular users cannot reach the admin surface.
	status, _ := doJSON(t, app, "GET", "/api/admin/users", userToken, nil)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, _ = doJSON(t, app, "GET", "/api/admin/users", modToken, nil)
	assert.Equal(t, fiber.StatusOK, status)

	// Personal note, overwritten wholesale.
	status, _ = doJSON(t, app, "PUT", "/api/admin/users/"+userName+"/note", modToken, map[string]string{
		"message": "Treine mais questões de Penal.",
	})
	assert.Equal(t, fiber.StatusOK, status)

	status, result := doJSON(t, app, "GET", "/api/user/profile", userToken, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Treine mais questões de Penal.", data(result)["mod_message"])

	// Any user's dashboard is visible to the moderator.
	status, _ = doJSON(t, app, "GET", "/api/admin/users/"+userName+"/overview", modToken, nil)
	assert.Equal(t, fiber.StatusOK, status)

	// Global announcement reaches regular users.
	status, _ = doJSON(t, app, "POST", "/api/admin/announcements", modToken, map[string]string{
		"body": "Simulado geral no domingo.",
	})
	assert.Equal(t, fiber.StatusCreated, status)

	status, result = doJSON(t, app, "GET", "/api/announcements", userToken, nil)
	require.Equal(t, fiber.StatusOK, status)
	anns := data(result)["announcements"].([]interface{})
	require.NotEmpty(t, anns)

	// The moderator account itself cannot be banned.
	status, _ = doJSON(t, app, "DELETE", "/api/admin/users/"+cfg.ModeratorUser, modToken, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)

	// Banning removes the account and its data.
	status, _ = doJSON(t, app, "DELETE", "/api/admin/users/"+userName, modToken, nil)
	assert.Equal(t, fiber.StatusOK, status)

	status, _ = doJSON(t, app, "POST", "/api/auth/login", "", map[string]string{
		"username": userName,
		"password": "senha",
	})
	assert.Equal(t, fiber.StatusUnauthorized, status)
}
