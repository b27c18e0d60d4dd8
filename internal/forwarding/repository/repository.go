package repository

import "postroom-backend/internal/forwarding/domain"

// RequestRepository defines the interface for forwarding request data access
type RequestRepository interface {
	// Create creates a new forwarding request
	Create(req *domain.ForwardingRequest) error

	// FindByID retrieves a request by ID, nil when missing
	FindByID(id uint) (*domain.ForwardingRequest, error)

	// List retrieves requests with pagination, newest first
	List(limit, offset int) ([]*domain.ForwardingRequest, int64, error)

	// Update persists a modified request
	Update(req *domain.ForwardingRequest) error

	// Delete removes a request by ID
	Delete(id uint) error
}

// LockRepository defines the interface for advisory lock data access
type LockRepository interface {
	// FindByRequestID retrieves the lock for a request, nil when unlocked
	FindByRequestID(requestID uint) (*domain.RequestLock, error)

	// Save inserts or updates a lock
	Save(lock *domain.RequestLock) error

	// DeleteByRequestID removes any lock on a request; no-op when unlocked
	DeleteByRequestID(requestID uint) error

	// List retrieves every active lock
	List() ([]*domain.RequestLock, error)
}
