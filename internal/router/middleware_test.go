package router

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/quickkart/quickkart/internal/constants"
	"github.com/quickkart/quickkart/internal/models"
	"github.com/quickkart/quickkart/internal/repository"
	"github.com/quickkart/quickkart/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

const testSecret = "test-secret-key-0123456789abcdef"

var testDBSeq uint64

func setupAuthMiddlewareTest(t *testing.T) (*gin.Engine, repository.UserRepository, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:router_test_%d?mode=memory&cache=shared", atomic.AddUint64(&testDBSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	userRepo := repository.NewUserRepository(db)

	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/protected", UserJWTAuthMiddleware(testSecret, userRepo), func(c *gin.Context) {
		uid, _ := c.Get("user_id")
		c.JSON(http.StatusOK, gin.H{"user_id": uid})
	})
	return r, userRepo, db
}

func signTestToken(t *testing.T, user *models.User, tokenVersion uint64) string {
	t.Helper()
	claims := service.UserJWTClaims{
		UserID:       user.ID,
		Email:        user.Email,
		TokenVersion: tokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token failed: %v", err)
	}
	return token
}

func createRouterTestUser(t *testing.T, db *gorm.DB, status string) *models.User {
	t.Helper()
	user := &models.User{
		Email:        "mw@example.com",
		PasswordHash: "x",
		DisplayName:  "MW",
		Status:       status,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return user
}

func doRequest(r *gin.Engine, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddlewareAcceptsValidToken(t *testing.T) {
	r, _, db := setupAuthMiddlewareTest(t)
	user := createRouterTestUser(t, db, constants.UserStatusActive)

	w := doRequest(r, signTestToken(t, user, user.TokenVersion))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAuthMiddlewareRejectsMissingHeader(t *testing.T) {
	r, _, _ := setupAuthMiddlewareTest(t)
	w := doRequest(r, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected envelope status 200, got %d", w.Code)
	}
	body := w.Body.String()
	if body == "" || !strings.Contains(body, `"status_code":401`) {
		t.Fatalf("expected 401 envelope, got %s", body)
	}
}

func TestAuthMiddlewareRejectsGarbageToken(t *testing.T) {
	r, _, _ := setupAuthMiddlewareTest(t)
	w := doRequest(r, "not-a-jwt")
	if !strings.Contains(w.Body.String(), `"status_code":401`) {
		t.Fatalf("expected 401 envelope, got %s", w.Body.String())
	}
}

func TestAuthMiddlewareRejectsStaleTokenVersion(t *testing.T) {
	r, userRepo, db := setupAuthMiddlewareTest(t)
	user := createRouterTestUser(t, db, constants.UserStatusActive)
	token := signTestToken(t, user, user.TokenVersion)

	if err := userRepo.BumpTokenVersion(user.ID); err != nil {
		t.Fatalf("bump token version failed: %v", err)
	}

	w := doRequest(r, token)
	if !strings.Contains(w.Body.String(), `"status_code":401`) {
		t.Fatalf("expected 401 envelope for revoked token, got %s", w.Body.String())
	}
}

func TestAuthMiddlewareRejectsDisabledUser(t *testing.T) {
	r, _, db := setupAuthMiddlewareTest(t)
	user := createRouterTestUser(t, db, constants.UserStatusDisabled)

	w := doRequest(r, signTestToken(t, user, user.TokenVersion))
	if !strings.Contains(w.Body.String(), `"status_code":401`) {
		t.Fatalf("expected 401 envelope for disabled user, got %s", w.Body.String())
	}
}
