package repository

import (
	"errors"
	"time"

	"postroom-backend/internal/forwarding/domain"

	"gorm.io/gorm"
)

// gormRequestRepository implements RequestRepository using GORM
type gormRequestRepository struct {
	db *gorm.DB
}

// NewRequestRepository creates a new GORM-based RequestRepository
func NewRequestRepository(db *gorm.DB) RequestRepository {
	return &gormRequestRepository{db: db}
}

func (r *gormRequestRepository) Create(req *domain.ForwardingRequest) error {
	if req.Status == "" {
		req.Status = domain.StatusRequested
	}
	req.CreatedAt = time.Now()
	req.UpdatedAt = time.Now()
	return r.db.Create(req).Error
}

func (r *gormRequestRepository) FindByID(id uint) (*domain.ForwardingRequest, error) {
	var req domain.ForwardingRequest
	err := r.db.Where("id = ?", id).First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &req, nil
}

func (r *gormRequestRepository) List(limit, offset int) ([]*domain.ForwardingRequest, int64, error) {
	var requests []*domain.ForwardingRequest
	var total int64

	query := r.db.Model(&domain.ForwardingRequest{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC, id DESC").
		Limit(limit).Offset(offset).Find(&requests).Error

	return requests, total, err
}

func (r *gormRequestRepository) Update(req *domain.ForwardingRequest) error {
	req.UpdatedAt = time.Now()
	return r.db.Save(req).Error
}

func (r *gormRequestRepository) Delete(id uint) error {
	return r.db.Delete(&domain.ForwardingRequest{}, "id = ?", id).Error
}
