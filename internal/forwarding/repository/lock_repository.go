package repository

import (
	"errors"

	"postroom-backend/internal/forwarding/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// gormLockRepository implements LockRepository using GORM
type gormLockRepository struct {
	db *gorm.DB
}

// NewLockRepository creates a new GORM-based LockRepository
func NewLockRepository(db *gorm.DB) LockRepository {
	return &gormLockRepository{db: db}
}

func (r *gormLockRepository) FindByRequestID(requestID uint) (*domain.RequestLock, error) {
	var lock domain.RequestLock
	err := r.db.Where("request_id = ?", requestID).First(&lock).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &lock, nil
}

func (r *gormLockRepository) Save(lock *domain.RequestLock) error {
	if lock.ID == "" {
		lock.ID = uuid.New().String()
	}
	return r.db.Save(lock).Error
}

func (r *gormLockRepository) DeleteByRequestID(requestID uint) error {
	// Deleting an absent lock is not an error; release must stay idempotent
	return r.db.Where("request_id = ?", requestID).Delete(&domain.RequestLock{}).Error
}

func (r *gormLockRepository) List() ([]*domain.RequestLock, error) {
	var locks []*domain.RequestLock
	err := r.db.Order("acquired_at ASC").Find(&locks).Error
	return locks, err
}
