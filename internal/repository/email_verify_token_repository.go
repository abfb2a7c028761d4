package repository

import (
	"errors"
	"time"

	"github.com/quickkart/quickkart/internal/models"

	"gorm.io/gorm"
)

// EmailVerifyTokenRepository is the verification token data access interface.
type EmailVerifyTokenRepository interface {
	Create(record *models.EmailVerifyToken) error
	GetByToken(token string) (*models.EmailVerifyToken, error)
	GetLatest(email, purpose string) (*models.EmailVerifyToken, error)
	MarkVerified(id uint, verifiedAt time.Time) error
}

// GormEmailVerifyTokenRepository is the GORM implementation.
type GormEmailVerifyTokenRepository struct {
	db *gorm.DB
}

// NewEmailVerifyTokenRepository creates a verification token repository.
func NewEmailVerifyTokenRepository(db *gorm.DB) *GormEmailVerifyTokenRepository {
	return &GormEmailVerifyTokenRepository{db: db}
}

// Create inserts a token record.
func (r *GormEmailVerifyTokenRepository) Create(record *models.EmailVerifyToken) error {
	return r.db.Create(record).Error
}

// GetByToken returns the record for a token value, nil when absent.
func (r *GormEmailVerifyTokenRepository) GetByToken(token string) (*models.EmailVerifyToken, error) {
	var record models.EmailVerifyToken
	if err := r.db.Where("token = ?", token).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// GetLatest returns the most recently sent record for an address.
func (r *GormEmailVerifyTokenRepository) GetLatest(email, purpose string) (*models.EmailVerifyToken, error) {
	var record models.EmailVerifyToken
	if err := r.db.Where("email = ? AND purpose = ?", email, purpose).
		Order("sent_at desc, id desc").
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// MarkVerified stamps a token as used.
func (r *GormEmailVerifyTokenRepository) MarkVerified(id uint, verifiedAt time.Time) error {
	return r.db.Model(&models.EmailVerifyToken{}).
		Where("id = ?", id).
		Update("verified_at", verifiedAt).Error
}
