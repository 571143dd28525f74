package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/esgboard-dev/esgboard/db"
	"github.com/esgboard-dev/esgboard/internal/auth"
	"github.com/esgboard-dev/esgboard/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()

	t.Setenv("JWT_SECRET", "test-secret")
	require.NoError(t, auth.InitJWTSecret())
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, gormDB.AutoMigrate(
		&models.User{},
		&models.Company{},
		&models.UserCompany{},
		&models.Fund{},
		&models.Report{},
		&models.UserReport{},
		&models.Note{},
		&models.PurchaseLog{},
		&models.Tag{},
		&models.Article{},
		&models.Portfolio{},
		&models.PortfolioCompany{},
	))

	db.DB = gormDB

	return NewRouter()
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func registerUser(t *testing.T, r *gin.Engine, username, email string) string {
	t.Helper()

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": username,
		"email":    email,
		"password": "correct-horse",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestRegisterLoginFlow(t *testing.T) {
	r := setupRouter(t)

	token := registerUser(t, r, "Alice", "Alice@Example.com")

	// Registration with the same identity in a different case is rejected.
	w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": "ALICE",
		"email":    "other@example.com",
		"password": "correct-horse",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "username")

	w = doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"identifier": "alice@example.com",
		"password":   "wrong-password",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"identifier": "alice",
		"password":   "correct-horse",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/auth/me", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"alice"`)

	w = doJSON(t, r, http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPortfolioEndpoints(t *testing.T) {
	r := setupRouter(t)
	token := registerUser(t, r, "alice", "alice@example.com")

	company := models.Company{ISIN: "INE001A01018", CompanyName: "Reliance Industries", ESGScore: "71.5", Grade: "A"}
	require.NoError(t, db.DB.Create(&company).Error)

	w := doJSON(t, r, http.MethodPost, "/api/portfolios", token, gin.H{
		"name":           "Growth",
		"companies_data": `[{"id_key":"INE001A01018","aum":100.0}]`,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"esg_composite":71.5`)

	w = doJSON(t, r, http.MethodPost, "/api/portfolios", token, gin.H{
		"name":           "Broken",
		"companies_data": `[{"id_key":"BadName","aum":1}]`,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "BadName")

	w = doJSON(t, r, http.MethodGet, "/api/portfolios", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/portfolios/Growth/summary", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total_aum":"100"`)
}

func TestStaffGateOnAdminRoutes(t *testing.T) {
	r := setupRouter(t)
	token := registerUser(t, r, "alice", "alice@example.com")

	w := doJSON(t, r, http.MethodGet, "/api/admin/users", token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	require.NoError(t, db.DB.Model(&models.User{}).
		Where("username = ?", "alice").
		Update("is_staff", true).Error)

	w = doJSON(t, r, http.MethodGet, "/api/admin/users", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestEntitlementRoutes(t *testing.T) {
	r := setupRouter(t)
	adminToken := registerUser(t, r, "admin", "admin@example.com")
	userToken := registerUser(t, r, "alice", "alice@example.com")

	require.NoError(t, db.DB.Model(&models.User{}).
		Where("username = ?", "admin").
		Update("is_staff", true).Error)

	var alice models.User
	require.NoError(t, db.DB.Where("username = ?", "alice").First(&alice).Error)

	company := models.Company{
		ISIN:         "INE001A01018",
		CompanyName:  "Reliance Industries",
		ESGRating:    "A",
		HasPDFReport: true,
		PDFFilename:  "reliance_esg_2024.pdf",
	}
	require.NoError(t, db.DB.Create(&company).Error)

	w := doJSON(t, r, http.MethodPost, "/api/admin/entitlements/companies", adminToken, gin.H{
		"user_id": alice.ID,
		"isin":    company.ISIN,
		"notes":   "pilot",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodGet, "/api/my/companies", userToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"download_url":"/api/reports/download/Reliance Industries/"`)

	w = doJSON(t, r, http.MethodDelete, "/api/admin/entitlements/companies", adminToken, gin.H{
		"user_id": alice.ID,
		"isin":    company.ISIN,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/my/companies", userToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String(), "revoked grants are hidden")
}
