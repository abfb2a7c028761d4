package public

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/quickkart/quickkart/internal/config"
	"github.com/quickkart/quickkart/internal/constants"
	"github.com/quickkart/quickkart/internal/models"
	"github.com/quickkart/quickkart/internal/provider"
	"github.com/quickkart/quickkart/internal/queue"
	"github.com/quickkart/quickkart/internal/repository"
	"github.com/quickkart/quickkart/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

var testDBSeq uint64

func setupVerifyEmailTest(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:public_test_%d?mode=memory&cache=shared", atomic.AddUint64(&testDBSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.EmailVerifyToken{}, &models.StoreRecord{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	cfg := &config.Config{}
	cfg.UserJWT.SecretKey = "test-secret-key-0123456789abcdef"
	cfg.UserJWT.ExpireHours = 1
	cfg.Email.VerifyToken.ExpireMinutes = 30
	cfg.Email.VerifyToken.SendIntervalSeconds = 60

	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewEmailVerifyTokenRepository(db)
	mirror := service.NewMirrorStore(repository.NewStoreRecordRepository(db))
	queueClient, err := queue.NewClient(&cfg.Queue)
	if err != nil {
		t.Fatalf("queue client failed: %v", err)
	}

	h := NewHandler(&provider.Container{
		Config: cfg,
		UserAuthService: service.NewUserAuthService(
			cfg, userRepo, tokenRepo, service.NewEmailService(&cfg.Email), queueClient, mirror,
		),
	})

	r := gin.New()
	r.GET("/api/v1/auth/verify-email", h.VerifyEmail)
	r.POST("/api/v1/auth/verify-email", h.VerifyEmail)
	return r, db
}

func createPendingVerification(t *testing.T, db *gorm.DB, email, token string) {
	t.Helper()
	user := &models.User{
		Email:        email,
		PasswordHash: "x",
		DisplayName:  "Pending",
		Status:       constants.UserStatusActive,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	record := &models.EmailVerifyToken{
		Email:     email,
		UserID:    &user.ID,
		Purpose:   constants.VerifyPurposeSignup,
		Token:     token,
		ExpiresAt: time.Now().Add(30 * time.Minute),
		SentAt:    time.Now(),
	}
	if err := db.Create(record).Error; err != nil {
		t.Fatalf("create token failed: %v", err)
	}
}

func TestVerifyEmailAcceptsQueryToken(t *testing.T) {
	r, db := setupVerifyEmailTest(t)
	createPendingVerification(t, db, "link@example.com", "tok-query")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/verify-email?token=tok-query", nil)
	r.ServeHTTP(w, req)

	if !strings.Contains(w.Body.String(), `"verified":true`) {
		t.Fatalf("expected verified envelope, got %s", w.Body.String())
	}
}

func TestVerifyEmailAcceptsPostedBodyToken(t *testing.T) {
	r, db := setupVerifyEmailTest(t)
	createPendingVerification(t, db, "post@example.com", "tok-body")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/verify-email",
		strings.NewReader(`{"token":"tok-body"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if !strings.Contains(w.Body.String(), `"verified":true`) {
		t.Fatalf("expected verified envelope, got %s", w.Body.String())
	}

	var user models.User
	if err := db.Where("email = ?", "post@example.com").First(&user).Error; err != nil {
		t.Fatalf("load user failed: %v", err)
	}
	if user.EmailVerifiedAt == nil {
		t.Fatal("expected email_verified_at to be set")
	}
}
