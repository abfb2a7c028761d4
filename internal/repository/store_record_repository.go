package repository

import (
	"errors"

	"github.com/quickkart/quickkart/internal/models"

	"gorm.io/gorm"
)

// StoreRecordRepository is the blob store data access interface.
type StoreRecordRepository interface {
	Get(userID uint, key string) (*models.StoreRecord, error)
	Set(userID uint, key, value string) error
	Delete(userID uint, key string) error
	WithTx(tx *gorm.DB) *GormStoreRecordRepository
}

// GormStoreRecordRepository is the GORM implementation.
type GormStoreRecordRepository struct {
	db *gorm.DB
}

// NewStoreRecordRepository creates a blob store repository.
func NewStoreRecordRepository(db *gorm.DB) *GormStoreRecordRepository {
	return &GormStoreRecordRepository{db: db}
}

// WithTx binds a transaction.
func (r *GormStoreRecordRepository) WithTx(tx *gorm.DB) *GormStoreRecordRepository {
	if tx == nil {
		return r
	}
	return &GormStoreRecordRepository{db: tx}
}

// Get returns the record for (user, key), nil when absent.
func (r *GormStoreRecordRepository) Get(userID uint, key string) (*models.StoreRecord, error) {
	var record models.StoreRecord
	err := r.db.Where("user_id = ? AND key = ?", userID, key).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Set writes the blob for (user, key), replacing any previous value.
func (r *GormStoreRecordRepository) Set(userID uint, key, value string) error {
	existing, err := r.Get(userID, key)
	if err != nil {
		return err
	}
	if existing == nil {
		return r.db.Create(&models.StoreRecord{
			UserID: userID,
			Key:    key,
			Value:  value,
		}).Error
	}
	return r.db.Model(existing).Update("value", value).Error
}

// Delete removes the blob for (user, key), no-op when absent.
func (r *GormStoreRecordRepository) Delete(userID uint, key string) error {
	return r.db.Where("user_id = ? AND key = ?", userID, key).Delete(&models.StoreRecord{}).Error
}
