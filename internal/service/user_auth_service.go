package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/quickkart/quickkart/internal/cache"
	"github.com/quickkart/quickkart/internal/config"
	"github.com/quickkart/quickkart/internal/constants"
	"github.com/quickkart/quickkart/internal/logger"
	"github.com/quickkart/quickkart/internal/models"
	"github.com/quickkart/quickkart/internal/queue"
	"github.com/quickkart/quickkart/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UserAuthService owns accounts, sessions and email verification.
type UserAuthService struct {
	cfg          *config.Config
	userRepo     repository.UserRepository
	tokenRepo    repository.EmailVerifyTokenRepository
	emailService *EmailService
	queueClient  *queue.Client
	mirror       *MirrorStore
}

// NewUserAuthService creates an auth service.
func NewUserAuthService(
	cfg *config.Config,
	userRepo repository.UserRepository,
	tokenRepo repository.EmailVerifyTokenRepository,
	emailService *EmailService,
	queueClient *queue.Client,
	mirror *MirrorStore,
) *UserAuthService {
	return &UserAuthService{
		cfg:          cfg,
		userRepo:     userRepo,
		tokenRepo:    tokenRepo,
		emailService: emailService,
		queueClient:  queueClient,
		mirror:       mirror,
	}
}

// UserJWTClaims are the session token claims.
type UserJWTClaims struct {
	UserID       uint   `json:"user_id"`
	Email        string `json:"email"`
	TokenVersion uint64 `json:"token_version"`
	jwt.RegisteredClaims
}

// GenerateUserJWT issues a session token.
func (s *UserAuthService) GenerateUserJWT(user *models.User) (string, time.Time, error) {
	expireHours := s.cfg.UserJWT.ExpireHours
	if expireHours <= 0 {
		expireHours = 24
	}
	expiresAt := time.Now().Add(time.Duration(expireHours) * time.Hour)
	claims := UserJWTClaims{
		UserID:       user.ID,
		Email:        user.Email,
		TokenVersion: user.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.UserJWT.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseUserJWT validates and decodes a session token.
func (s *UserAuthService) ParseUserJWT(tokenString string) (*UserJWTClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &UserJWTClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.UserJWT.SecretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*UserJWTClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

// Login authenticates and issues a session token. In simulated mode the
// call always succeeds after a fixed delay: an unknown email gets an
// account created on the fly, the password is not checked, and the
// display name falls back to the local part of the email.
func (s *UserAuthService) Login(email, password, name string) (*models.User, string, time.Time, error) {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	if s.cfg.Auth.SimulatedLogin {
		return s.simulatedLogin(normalized, password, name)
	}

	user, err := s.userRepo.GetByEmail(normalized)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if user == nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	if strings.ToLower(user.Status) != constants.UserStatusActive {
		return nil, "", time.Time{}, ErrUserDisabled
	}
	if user.EmailVerifiedAt == nil {
		return nil, "", time.Time{}, ErrEmailNotVerified
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}

	return s.openSession(user)
}

func (s *UserAuthService) simulatedLogin(email, password, name string) (*models.User, string, time.Time, error) {
	delay := time.Duration(s.cfg.Auth.LoginDelayMillis) * time.Millisecond
	if delay > 0 {
		time.Sleep(delay)
	}

	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if user == nil {
		displayName := strings.TrimSpace(name)
		if displayName == "" {
			displayName = resolveNameFromEmail(email)
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, "", time.Time{}, err
		}
		now := time.Now()
		user = &models.User{
			Email:           email,
			PasswordHash:    string(hashed),
			DisplayName:     displayName,
			Status:          constants.UserStatusActive,
			EmailVerifiedAt: &now,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := s.userRepo.Create(user); err != nil {
			return nil, "", time.Time{}, err
		}
		logger.Infow("simulated_login_created_user", "user_id", user.ID, "email", user.Email)
	}

	return s.openSession(user)
}

func (s *UserAuthService) openSession(user *models.User) (*models.User, string, time.Time, error) {
	token, expiresAt, err := s.GenerateUserJWT(user)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := s.userRepo.Update(user); err != nil {
		return nil, "", time.Time{}, err
	}
	_ = cache.SetUserAuthState(context.Background(), cache.BuildUserAuthState(user))
	if s.mirror != nil {
		if err := s.mirror.SaveUser(user); err != nil {
			return nil, "", time.Time{}, err
		}
	}

	return user, token, expiresAt, nil
}

// Register creates an unverified account and sends the verification link.
// The session opens only after the email is verified.
func (s *UserAuthService) Register(email, password, name string) (*models.User, error) {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(s.cfg.Security.PasswordPolicy, password); err != nil {
		return nil, err
	}

	exist, err := s.userRepo.GetByEmail(normalized)
	if err != nil {
		return nil, err
	}
	if exist != nil {
		return nil, ErrEmailExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	displayName := strings.TrimSpace(name)
	if displayName == "" {
		displayName = resolveNameFromEmail(normalized)
	}

	now := time.Now()
	user := &models.User{
		Email:        normalized,
		PasswordHash: string(hashed),
		DisplayName:  displayName,
		Status:       constants.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	if err := s.issueVerifyToken(user); err != nil {
		return nil, err
	}
	return user, nil
}

// ResendVerification reissues the verification link, rate limited by the
// configured send interval.
func (s *UserAuthService) ResendVerification(email string) error {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	user, err := s.userRepo.GetByEmail(normalized)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNotFound
	}
	if user.EmailVerifiedAt != nil {
		return ErrVerifyTokenInvalid
	}

	latest, err := s.tokenRepo.GetLatest(normalized, constants.VerifyPurposeSignup)
	if err != nil {
		return err
	}
	if latest != nil {
		interval := time.Duration(s.resolveSendIntervalSeconds()) * time.Second
		if !latest.SentAt.IsZero() && time.Since(latest.SentAt) < interval {
			return ErrVerifyTooFrequent
		}
	}

	return s.issueVerifyToken(user)
}

// VerifyEmail redeems a verification token. Tokens are single use and
// expire after the configured TTL.
func (s *UserAuthService) VerifyEmail(token string) (*models.User, error) {
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return nil, ErrVerifyTokenInvalid
	}

	record, err := s.tokenRepo.GetByToken(trimmed)
	if err != nil {
		return nil, err
	}
	if record == nil || record.VerifiedAt != nil {
		return nil, ErrVerifyTokenInvalid
	}
	now := time.Now()
	if record.ExpiresAt.Before(now) {
		return nil, ErrVerifyTokenExpired
	}

	if err := s.tokenRepo.MarkVerified(record.ID, now); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByEmail(record.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	if user.EmailVerifiedAt == nil {
		user.EmailVerifiedAt = &now
		user.UpdatedAt = now
		if err := s.userRepo.Update(user); err != nil {
			return nil, err
		}
	}
	return user, nil
}

// Logout revokes all outstanding session tokens and drops the mirrored
// session blob.
func (s *UserAuthService) Logout(userID uint) error {
	if userID == 0 {
		return ErrNotFound
	}
	if err := s.userRepo.BumpTokenVersion(userID); err != nil {
		return err
	}
	_ = cache.DelUserAuthState(context.Background(), userID)
	if s.mirror != nil {
		return s.mirror.ClearUser(userID)
	}
	return nil
}

// ProfilePatch carries the optional profile fields. Nil means "leave
// unchanged"; a pointer to an empty string clears the field.
type ProfilePatch struct {
	Name    *string
	Phone   *string
	Address *string
}

// UpdateProfile merges non-nil patch fields into the user and re-mirrors
// the session snapshot.
func (s *UserAuthService) UpdateProfile(userID uint, patch ProfilePatch) (*models.User, error) {
	if userID == 0 {
		return nil, ErrNotFound
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}

	updated := false
	if patch.Name != nil {
		trimmed := strings.TrimSpace(*patch.Name)
		if trimmed != "" {
			user.DisplayName = trimmed
			updated = true
		}
	}
	if patch.Phone != nil {
		trimmed := strings.TrimSpace(*patch.Phone)
		user.Phone = &trimmed
		updated = true
	}
	if patch.Address != nil {
		trimmed := strings.TrimSpace(*patch.Address)
		user.Address = &trimmed
		updated = true
	}

	if !updated {
		return nil, ErrProfileEmpty
	}

	user.UpdatedAt = time.Now()
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	if s.mirror != nil {
		if err := s.mirror.SaveUser(user); err != nil {
			return nil, err
		}
	}
	return user, nil
}

// GetUserByID returns one user.
func (s *UserAuthService) GetUserByID(id uint) (*models.User, error) {
	if id == 0 {
		return nil, ErrNotFound
	}
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

func (s *UserAuthService) issueVerifyToken(user *models.User) error {
	now := time.Now()
	token := uuid.NewString()
	record := &models.EmailVerifyToken{
		Email:     user.Email,
		UserID:    &user.ID,
		Purpose:   constants.VerifyPurposeSignup,
		Token:     token,
		ExpiresAt: now.Add(time.Duration(s.resolveExpireMinutes()) * time.Minute),
		SentAt:    now,
		CreatedAt: now,
	}
	if err := s.tokenRepo.Create(record); err != nil {
		return err
	}

	if s.queueClient.Enabled() {
		return s.queueClient.EnqueueVerificationEmail(queue.VerificationEmailPayload{
			Email: user.Email,
			Token: token,
		})
	}
	if s.emailService != nil {
		err := s.emailService.SendVerificationLink(user.Email, token)
		if err != nil && !errors.Is(err, ErrEmailServiceDisabled) {
			return err
		}
		if errors.Is(err, ErrEmailServiceDisabled) {
			logger.Warnw("verification_email_skipped",
				"email", user.Email,
				"reason", "email_disabled",
			)
		}
	}
	return nil
}

func (s *UserAuthService) resolveExpireMinutes() int {
	if s.cfg.Email.VerifyToken.ExpireMinutes <= 0 {
		return 30
	}
	return s.cfg.Email.VerifyToken.ExpireMinutes
}

func (s *UserAuthService) resolveSendIntervalSeconds() int {
	if s.cfg.Email.VerifyToken.SendIntervalSeconds <= 0 {
		return 60
	}
	return s.cfg.Email.VerifyToken.SendIntervalSeconds
}

func normalizeEmail(email string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return "", ErrInvalidEmail
	}
	if _, err := mail.ParseAddress(normalized); err != nil {
		return "", ErrInvalidEmail
	}
	return normalized, nil
}

func resolveNameFromEmail(email string) string {
	parts := strings.SplitN(email, "@", 2)
	if len(parts) == 2 && strings.TrimSpace(parts[0]) != "" {
		return strings.TrimSpace(parts[0])
	}
	return email
}
