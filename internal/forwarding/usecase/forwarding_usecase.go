package usecase

import (
	"log"
	"time"

	"postroom-backend/internal/forwarding/domain"
	"postroom-backend/internal/forwarding/repository"
)

// forwardingUsecase implements ForwardingUsecase
type forwardingUsecase struct {
	requestRepo repository.RequestRepository
	lockRepo    repository.LockRepository
}

// NewForwardingUsecase creates a new instance of forwardingUsecase
func NewForwardingUsecase(requestRepo repository.RequestRepository, lockRepo repository.LockRepository) ForwardingUsecase {
	return &forwardingUsecase{
		requestRepo: requestRepo,
		lockRepo:    lockRepo,
	}
}

func (u *forwardingUsecase) CreateRequest(ownerID, ownerName string, mailItemID uint, recipient domain.Address) (*domain.ForwardingRequest, error) {
	req := &domain.ForwardingRequest{
		OwnerID:    ownerID,
		OwnerName:  ownerName,
		MailItemID: mailItemID,
		Status:     domain.StatusRequested,
		Recipient:  recipient,
	}
	if err := u.requestRepo.Create(req); err != nil {
		return nil, err
	}
	return req, nil
}

func (u *forwardingUsecase) ListRequests(limit, offset int) ([]*domain.ForwardingRequest, int64, error) {
	return u.requestRepo.List(limit, offset)
}

func (u *forwardingUsecase) AdvanceStatus(requestID uint, target domain.Status) (*domain.ForwardingRequest, error) {
	req, err := u.requestRepo.FindByID(requestID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, domain.ErrRequestNotFound
	}

	// Exactly one forward step is legal from any state. Locks stay advisory:
	// two racing unlocked transitions resolve last-write-wins here.
	next, ok := req.Status.Next()
	if !ok || target != next {
		return nil, &domain.IllegalTransitionError{
			From:    req.Status,
			To:      target,
			Allowed: domain.AllowedNext(req.Status),
		}
	}

	req.Status = target
	req.UpdatedAt = time.Now()
	if err := u.requestRepo.Update(req); err != nil {
		return nil, err
	}
	return req, nil
}

func (u *forwardingUsecase) DeleteRequest(requestID uint) error {
	req, err := u.requestRepo.FindByID(requestID)
	if err != nil {
		return err
	}
	if req == nil {
		return domain.ErrRequestNotFound
	}
	if !req.Status.Terminal() {
		return domain.ErrDeleteNotAllowed
	}

	if err := u.requestRepo.Delete(requestID); err != nil {
		return err
	}
	// Drop any leftover lock so a deleted request can't stay reserved
	if err := u.lockRepo.DeleteByRequestID(requestID); err != nil {
		log.Printf("[Forwarding] Failed to clean up lock for deleted request %d: %v", requestID, err)
	}
	return nil
}

func (u *forwardingUsecase) AcquireLock(requestID uint, holderID, holderName string) (*domain.RequestLock, error) {
	req, err := u.requestRepo.FindByID(requestID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, domain.ErrRequestNotFound
	}

	existing, err := u.lockRepo.FindByRequestID(requestID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if existing.HolderID != holderID {
			return nil, &domain.LockConflictError{
				HolderID:   existing.HolderID,
				HolderName: existing.HolderName,
			}
		}
		// Re-acquire by the same holder just refreshes the timestamp
		existing.AcquiredAt = time.Now()
		if err := u.lockRepo.Save(existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	lock := &domain.RequestLock{
		RequestID:  requestID,
		HolderID:   holderID,
		HolderName: holderName,
		AcquiredAt: time.Now(),
	}
	if err := u.lockRepo.Save(lock); err != nil {
		return nil, err
	}
	return lock, nil
}

func (u *forwardingUsecase) ReleaseLock(requestID uint) error {
	return u.lockRepo.DeleteByRequestID(requestID)
}

func (u *forwardingUsecase) ForceReleaseLock(requestID uint, holderID, holderName string) error {
	existing, err := u.lockRepo.FindByRequestID(requestID)
	if err != nil {
		return err
	}
	if existing != nil && existing.HolderID != holderID {
		log.Printf("[Forwarding] %s (%s) force-released lock on request %d held by %s",
			holderName, holderID, requestID, existing.HolderName)
	}
	return u.lockRepo.DeleteByRequestID(requestID)
}

func (u *forwardingUsecase) ListLocks() ([]*domain.RequestLock, error) {
	return u.lockRepo.List()
}
