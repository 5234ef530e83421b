package testutils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"github.com/farmaid/farmaid-server/internal/api"
	"github.com/farmaid/farmaid-server/internal/config"
	"github.com/farmaid/farmaid-server/internal/models"
	"github.com/farmaid/farmaid-server/internal/repository"
	"github.com/farmaid/farmaid-server/internal/service"
)

// TestUser is a seeded user plus a bearer token for it
type TestUser struct {
	ID    string
	Token string
}

// TestContext holds all dependencies for tests
type TestContext struct {
	Router     *gin.Engine
	Repository repository.Repository
	Service    service.Service
	JWTSecret  []byte
	DB         *sqlx.DB

	Farmer          TestUser
	Landowner       TestUser
	Bank            TestUser
	Store           TestUser
	InstrumentOwner TestUser
}

// SetupTestContext creates a new test context with initialized dependencies
// and one seeded user per role
func SetupTestContext(t *testing.T) *TestContext {
	// Load configuration from environment
	cfg := config.LoadConfig()

	// Override with test-specific config
	if cfg.Database.TestDBName != "" {
		cfg.Database.DBName = cfg.Database.TestDBName
	} else {
		cfg.Database.DBName = "farmaid_test"
	}

	if cfg.Auth.JWTSecret == "" {
		cfg.Auth.JWTSecret = "test-secret-key"
	}

	// Set up database
	db, err := config.SetupDatabase(cfg)
	assert.NoError(t, err, "Failed to set up test database")

	repo := repository.NewPostgresRepository(db)
	svc := service.NewDefaultService(repo, cfg.Auth.JWTSecret)
	handler := api.NewHandler(svc)

	// Set up Gin router
	gin.SetMode(gin.TestMode)
	router := gin.New()

	// Add middleware for JWT secret
	router.Use(func(c *gin.Context) {
		c.Set("jwtSecret", []byte(cfg.Auth.JWTSecret))
		c.Next()
	})

	handler.SetupRoutes(router)

	testCtx := &TestContext{
		Router:     router,
		Repository: repo,
		Service:    svc,
		JWTSecret:  []byte(cfg.Auth.JWTSecret),
		DB:         db,
	}

	cleanupTestDatabase(t, db)

	testCtx.Farmer = testCtx.CreateUser(t, models.RoleFarmer, "farmer@example.com", "Test Farmer")
	testCtx.Landowner = testCtx.CreateUser(t, models.RoleLandowner, "landowner@example.com", "Test Landowner")
	testCtx.Bank = testCtx.CreateUser(t, models.RoleBank, "bank@example.com", "Test Bank")
	testCtx.Store = testCtx.CreateUser(t, models.RolePesticideStore, "store@example.com", "Test Store")
	testCtx.InstrumentOwner = testCtx.CreateUser(t, models.RoleInstrumentOwner, "instrument@example.com", "Test Instrument Owner")

	return testCtx
}

// CleanupTestContext cleans up test resources
func CleanupTestContext(t *TestContext) {
	if t.DB != nil {
		cleanupTestDatabase(nil, t.DB)
		t.DB.Close()
	}
}

// cleanupTestDatabase removes all rows, children before parents
func cleanupTestDatabase(t *testing.T, db *sqlx.DB) {
	tables := []string{
		"shared_project_invites",
		"shared_projects",
		"lands",
		"loans",
		"pesticides",
		"instruments",
		"users",
	}

	for _, table := range tables {
		_, err := db.Exec("DELETE FROM " + table)
		if t != nil && err != nil {
			t.Logf("Warning: Failed to clean %s: %v", table, err)
		}
	}
}

// CreateUser seeds a user with the given role and returns it with a
// signed bearer token
func (tc *TestContext) CreateUser(t *testing.T, role, email, name string) TestUser {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("testpassword"), bcrypt.DefaultCost)

	user := &models.User{
		ID:       uuid.New().String(),
		Name:     name,
		Email:    email,
		Phone:    "0123456789",
		Password: string(hashedPassword),
		Role:     role,
		Address:  "1 Test Road",
	}

	err := tc.Repository.CreateUser(context.Background(), user)
	assert.NoError(t, err, "Failed to create test user")

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  user.ID,
		"role": role,
		"exp":  time.Now().Add(24 * time.Hour).Unix(),
		"iat":  time.Now().Unix(),
	})

	tokenString, err := token.SignedString(tc.JWTSecret)
	assert.NoError(t, err, "Failed to generate JWT token")

	return TestUser{ID: user.ID, Token: tokenString}
}

// PerformRequest executes an HTTP request against the router
func PerformRequest(r http.Handler, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer

	if body != nil {
		jsonBody, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBody)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// AuthHeaders returns headers with Authorization token
func AuthHeaders(token string) map[string]string {
	return map[string]string{
		"Authorization": fmt.Sprintf("Bearer %s", token),
	}
}
