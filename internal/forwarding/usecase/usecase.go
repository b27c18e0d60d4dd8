package usecase

import "postroom-backend/internal/forwarding/domain"

// ForwardingUsecase defines the interface for forwarding board business logic.
// This is the authoritative side: the transition table, lock arbitration and
// the terminal-only delete rule all live here, not in any client.
type ForwardingUsecase interface {
	// CreateRequest records a new forwarding request for a customer
	CreateRequest(ownerID, ownerName string, mailItemID uint, recipient domain.Address) (*domain.ForwardingRequest, error)

	// ListRequests retrieves requests with pagination
	ListRequests(limit, offset int) ([]*domain.ForwardingRequest, int64, error)

	// AdvanceStatus moves a request to the target status if legal
	AdvanceStatus(requestID uint, target domain.Status) (*domain.ForwardingRequest, error)

	// DeleteRequest removes a request; only legal in the done state
	DeleteRequest(requestID uint) error

	// AcquireLock takes the advisory lock for a holder
	AcquireLock(requestID uint, holderID, holderName string) (*domain.RequestLock, error)

	// ReleaseLock drops the lock on a request; idempotent
	ReleaseLock(requestID uint) error

	// ForceReleaseLock drops another holder's lock
	ForceReleaseLock(requestID uint, holderID, holderName string) error

	// ListLocks retrieves every active lock
	ListLocks() ([]*domain.RequestLock, error)
}
