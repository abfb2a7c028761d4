package service

import (
	"errors"
	"testing"
	"time"

	"github.com/quickkart/quickkart/internal/config"
	"github.com/quickkart/quickkart/internal/constants"
	"github.com/quickkart/quickkart/internal/models"
	"github.com/quickkart/quickkart/internal/queue"
	"github.com/quickkart/quickkart/internal/repository"

	"gorm.io/gorm"
)

type authFixture struct {
	svc       *UserAuthService
	userRepo  repository.UserRepository
	tokenRepo repository.EmailVerifyTokenRepository
	storeRepo repository.StoreRecordRepository
	cfg       *config.Config
	db        *gorm.DB
}

func newAuthFixture(t *testing.T, simulated bool) *authFixture {
	t.Helper()
	db := openTestDB(t)
	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewEmailVerifyTokenRepository(db)
	storeRepo := repository.NewStoreRecordRepository(db)
	mirror := NewMirrorStore(storeRepo)

	cfg := &config.Config{}
	cfg.UserJWT.SecretKey = "test-secret-key-0123456789abcdef"
	cfg.UserJWT.ExpireHours = 1
	cfg.Auth.SimulatedLogin = simulated
	cfg.Auth.LoginDelayMillis = 0
	cfg.Email.Enabled = false
	cfg.Email.VerifyToken.ExpireMinutes = 30
	cfg.Email.VerifyToken.SendIntervalSeconds = 60
	cfg.Security.PasswordPolicy.MinLength = 8
	cfg.Security.PasswordPolicy.RequireLower = true
	cfg.Security.PasswordPolicy.RequireNumber = true

	queueClient, err := queue.NewClient(&cfg.Queue)
	if err != nil {
		t.Fatalf("queue client failed: %v", err)
	}

	svc := NewUserAuthService(cfg, userRepo, tokenRepo, NewEmailService(&cfg.Email), queueClient, mirror)
	return &authFixture{svc: svc, userRepo: userRepo, tokenRepo: tokenRepo, storeRepo: storeRepo, cfg: cfg, db: db}
}

func TestSimulatedLoginCreatesAccount(t *testing.T) {
	f := newAuthFixture(t, true)

	user, token, expiresAt, err := f.svc.Login("Ravi.Kumar@Example.com", "anything-goes", "")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if user.ID == 0 {
		t.Fatal("expected created account")
	}
	if user.Email != "ravi.kumar@example.com" {
		t.Fatalf("expected normalized email, got %q", user.Email)
	}
	if user.DisplayName != "ravi.kumar" {
		t.Fatalf("expected name from email local part, got %q", user.DisplayName)
	}
	if user.EmailVerifiedAt == nil {
		t.Fatal("simulated accounts should be pre-verified")
	}
	if token == "" || !expiresAt.After(time.Now()) {
		t.Fatalf("expected valid session token, got %q expiring %v", token, expiresAt)
	}

	claims, err := f.svc.ParseUserJWT(token)
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	if claims.UserID != user.ID || claims.Email != user.Email {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	// The session snapshot is mirrored on login.
	record, err := f.storeRepo.Get(user.ID, constants.StoreKeyUser)
	if err != nil || record == nil {
		t.Fatalf("expected user mirror blob, err=%v", err)
	}
}

func TestSimulatedLoginReusesAccount(t *testing.T) {
	f := newAuthFixture(t, true)

	first, _, _, err := f.svc.Login("repeat@example.com", "first-password", "Repeat User")
	if err != nil {
		t.Fatalf("first login failed: %v", err)
	}
	// Password is not checked in simulated mode.
	second, _, _, err := f.svc.Login("repeat@example.com", "completely-different", "")
	if err != nil {
		t.Fatalf("second login failed: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected same account, got %d and %d", first.ID, second.ID)
	}
	if second.DisplayName != "Repeat User" {
		t.Fatalf("expected stored name kept, got %q", second.DisplayName)
	}
}

func TestLoginRejectsInvalidEmail(t *testing.T) {
	f := newAuthFixture(t, true)
	if _, _, _, err := f.svc.Login("not-an-email", "pw", ""); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}
}

func TestRealLoginChecksPassword(t *testing.T) {
	f := newAuthFixture(t, false)

	user, err := f.svc.Register("strict@example.com", "secret123", "Strict")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if user.EmailVerifiedAt != nil {
		t.Fatal("expected unverified account after register")
	}

	// Unverified accounts cannot sign in.
	if _, _, _, err := f.svc.Login("strict@example.com", "secret123", ""); !errors.Is(err, ErrEmailNotVerified) {
		t.Fatalf("expected ErrEmailNotVerified, got %v", err)
	}

	latest, err := f.tokenRepo.GetLatest("strict@example.com", constants.VerifyPurposeSignup)
	if err != nil || latest == nil {
		t.Fatalf("expected verification token, err=%v", err)
	}
	if _, err := f.svc.VerifyEmail(latest.Token); err != nil {
		t.Fatalf("verify failed: %v", err)
	}

	if _, _, _, err := f.svc.Login("strict@example.com", "wrong-password", ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, _, err := f.svc.Login("strict@example.com", "secret123", ""); err != nil {
		t.Fatalf("login failed: %v", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newAuthFixture(t, false)
	if _, err := f.svc.Register("dup@example.com", "secret123", ""); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, err := f.svc.Register("dup@example.com", "secret123", ""); !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
}

func TestRegisterWeakPassword(t *testing.T) {
	f := newAuthFixture(t, false)
	if _, err := f.svc.Register("weak@example.com", "short", ""); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
	if _, err := f.svc.Register("weak@example.com", "lettersonly", ""); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword for missing digit, got %v", err)
	}
}

func TestVerifyEmailSingleUse(t *testing.T) {
	f := newAuthFixture(t, false)
	if _, err := f.svc.Register("once@example.com", "secret123", ""); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	latest, err := f.tokenRepo.GetLatest("once@example.com", constants.VerifyPurposeSignup)
	if err != nil || latest == nil {
		t.Fatalf("expected verification token, err=%v", err)
	}

	user, err := f.svc.VerifyEmail(latest.Token)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if user.EmailVerifiedAt == nil {
		t.Fatal("expected verified timestamp")
	}

	if _, err := f.svc.VerifyEmail(latest.Token); !errors.Is(err, ErrVerifyTokenInvalid) {
		t.Fatalf("expected ErrVerifyTokenInvalid on reuse, got %v", err)
	}
	if _, err := f.svc.VerifyEmail("no-such-token"); !errors.Is(err, ErrVerifyTokenInvalid) {
		t.Fatalf("expected ErrVerifyTokenInvalid for unknown token, got %v", err)
	}
}

func TestVerifyEmailExpiredToken(t *testing.T) {
	f := newAuthFixture(t, false)
	user := createTestUser(t, f.db, "late@example.com")

	record := &models.EmailVerifyToken{
		Email:     user.Email,
		UserID:    &user.ID,
		Purpose:   constants.VerifyPurposeSignup,
		Token:     "expired-token",
		ExpiresAt: time.Now().Add(-time.Minute),
		SentAt:    time.Now().Add(-time.Hour),
	}
	if err := f.tokenRepo.Create(record); err != nil {
		t.Fatalf("create token failed: %v", err)
	}

	if _, err := f.svc.VerifyEmail("expired-token"); !errors.Is(err, ErrVerifyTokenExpired) {
		t.Fatalf("expected ErrVerifyTokenExpired, got %v", err)
	}
}

func TestResendVerificationRateLimited(t *testing.T) {
	f := newAuthFixture(t, false)
	if _, err := f.svc.Register("eager@example.com", "secret123", ""); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if err := f.svc.ResendVerification("eager@example.com"); !errors.Is(err, ErrVerifyTooFrequent) {
		t.Fatalf("expected ErrVerifyTooFrequent, got %v", err)
	}
}

func TestLogoutRevokesSessions(t *testing.T) {
	f := newAuthFixture(t, true)

	user, token, _, err := f.svc.Login("leaver@example.com", "pw", "")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	claims, err := f.svc.ParseUserJWT(token)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if err := f.svc.Logout(user.ID); err != nil {
		t.Fatalf("logout failed: %v", err)
	}

	reloaded, err := f.userRepo.GetByID(user.ID)
	if err != nil || reloaded == nil {
		t.Fatalf("reload failed: %v", err)
	}
	if reloaded.TokenVersion != claims.TokenVersion+1 {
		t.Fatalf("expected token version bump from %d, got %d", claims.TokenVersion, reloaded.TokenVersion)
	}

	// The mirrored session blob is gone.
	record, err := f.storeRepo.Get(user.ID, constants.StoreKeyUser)
	if err != nil {
		t.Fatalf("get mirror failed: %v", err)
	}
	if record != nil {
		t.Fatal("expected user mirror cleared on logout")
	}
}

func TestUpdateProfile(t *testing.T) {
	f := newAuthFixture(t, true)
	user, _, _, err := f.svc.Login("profile@example.com", "pw", "")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	name := "Ravi Kumar"
	phone := "9876543210"
	updated, err := f.svc.UpdateProfile(user.ID, ProfilePatch{Name: &name, Phone: &phone})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.DisplayName != name {
		t.Fatalf("expected name %q, got %q", name, updated.DisplayName)
	}
	if updated.Phone == nil || *updated.Phone != phone {
		t.Fatalf("expected phone %q, got %v", phone, updated.Phone)
	}
	if updated.Address != nil {
		t.Fatalf("expected address untouched, got %v", updated.Address)
	}

	if _, err := f.svc.UpdateProfile(user.ID, ProfilePatch{}); !errors.Is(err, ErrProfileEmpty) {
		t.Fatalf("expected ErrProfileEmpty, got %v", err)
	}
}
