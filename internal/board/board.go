package board

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"postroom-backend/internal/forwarding/domain"
	"postroom-backend/pkg/requestclient"
)

// RequestService is the slice of the backend API the board needs.
// *requestclient.Client satisfies it; tests use fakes.
type RequestService interface {
	ListRequests(ctx context.Context, limit, offset int) ([]*domain.ForwardingRequest, int64, error)
	AdvanceStatus(ctx context.Context, id uint, target domain.Status) (*domain.ForwardingRequest, error)
	AcquireLock(ctx context.Context, id uint) (*domain.RequestLock, error)
	ReleaseLock(ctx context.Context, id uint) error
	ForceReleaseLock(ctx context.Context, id uint) error
	ListLocks(ctx context.Context) ([]*domain.RequestLock, error)
	DeleteRequest(ctx context.Context, id uint) error
}

var (
	// ErrOperationInFlight means another advance/delete has not finished yet.
	// The board serializes mutations so overlapping optimistic updates can't
	// corrupt each other's rollback snapshots.
	ErrOperationInFlight = errors.New("another board operation is in flight")

	// ErrLockAcquisitionFailed means the server refused the lock
	ErrLockAcquisitionFailed = errors.New("could not acquire request lock")

	// ErrUnknownRequest means the id is not in the board's current list
	ErrUnknownRequest = errors.New("request is not on the board")

	// ErrAlreadyDone means the request is terminal; only deletion remains
	ErrAlreadyDone = errors.New("request is already done")
)

// LockedError is returned when the local lock cache shows another holder.
// No network call is made in that case.
type LockedError struct {
	HolderName string
}

func (e *LockedError) Error() string {
	return fmt.Sprintf("request is being handled by %s", e.HolderName)
}

// LockState classifies a request's lock from this session's point of view
type LockState int

const (
	LockStateUnlocked LockState = iota
	LockStateMine
	LockStateOther
)

// Config tunes a Board. Holder identity comes in explicitly; the board never
// reads ambient session state.
type Config struct {
	HolderID   string
	HolderName string

	// SyncInterval must stay in multi-minute territory: sub-minute polling
	// trips the backend rate limit (HTTP 429).
	SyncInterval time.Duration
	// ReleaseGrace delays unlock after an operation so a double-click by the
	// same admin doesn't thrash lock acquire/release round trips. Zero selects
	// the default; a negative value releases immediately.
	ReleaseGrace time.Duration
	PageSize     int
	// StaleAfter is how many consecutive sync failures flag the data as stale
	StaleAfter int
}

func (c *Config) applyDefaults() {
	if c.SyncInterval <= 0 {
		c.SyncInterval = 3 * time.Minute
	}
	if c.ReleaseGrace == 0 {
		c.ReleaseGrace = 2 * time.Second
	}
	if c.PageSize <= 0 {
		c.PageSize = 100
	}
	if c.StaleAfter <= 0 {
		c.StaleAfter = 3
	}
}

// Board is the admin forwarding board: a disciplined cache of the server's
// request list with optimistic transitions, an advisory-lock cache and a
// polling resync loop. The server stays the source of truth throughout.
type Board struct {
	svc RequestService
	cfg Config

	mu        sync.Mutex
	items     []*domain.ForwardingRequest
	locks     map[uint]*domain.RequestLock
	held      map[uint]bool
	inFlight  bool
	failures  int
	observers []func()

	sync *Synchronizer
}

// New creates a Board over the given service. Call Start to begin polling,
// or Refresh for a one-off load.
func New(svc RequestService, cfg Config) *Board {
	cfg.applyDefaults()
	b := &Board{
		svc:   svc,
		cfg:   cfg,
		locks: make(map[uint]*domain.RequestLock),
		held:  make(map[uint]bool),
	}
	b.sync = NewSynchronizer(cfg.SyncInterval, b.refresh)
	return b
}

// Subscribe registers a callback invoked after every visible change
func (b *Board) Subscribe(fn func()) {
	b.mu.Lock()
	b.observers = append(b.observers, fn)
	b.mu.Unlock()
}

func (b *Board) notify() {
	b.mu.Lock()
	observers := make([]func(), len(b.observers))
	copy(observers, b.observers)
	b.mu.Unlock()
	for _, fn := range observers {
		fn()
	}
}

// Start begins interval polling; the first load runs immediately
func (b *Board) Start() {
	b.sync.Start()
}

// Refresh forces a resync now (manual refresh button, post-mutation reconcile)
func (b *Board) Refresh() {
	b.sync.TriggerNow()
}

// Close stops polling and releases every lock this session still holds.
// Best-effort: failures are logged, not retried, so teardown never hangs.
func (b *Board) Close() {
	b.sync.Stop()

	b.mu.Lock()
	held := make([]uint, 0, len(b.held))
	for id := range b.held {
		held = append(held, id)
	}
	b.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, id := range held {
		if err := b.svc.ReleaseLock(ctx, id); err != nil {
			log.Printf("[Board] Failed to release lock on request %d during shutdown: %v", id, err)
		}
	}
}

// Items returns a copy of the current request list
func (b *Board) Items() []*domain.ForwardingRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return cloneRequests(b.items)
}

// Buckets returns the column view, narrowed by the search query
func (b *Board) Buckets(query string) Buckets {
	return Categorize(b.Items(), query)
}

// LockState reports who holds a request, from the (possibly stale) cache.
// A "locked by other" answer is a UX hint, not a security boundary.
func (b *Board) LockState(id uint) (LockState, string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	lock, ok := b.locks[id]
	if !ok {
		return LockStateUnlocked, ""
	}
	if lock.HolderID == b.cfg.HolderID {
		return LockStateMine, lock.HolderName
	}
	return LockStateOther, lock.HolderName
}

// Stale reports whether polling has failed often enough that the list may
// no longer reflect the server
func (b *Board) Stale() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.failures >= b.cfg.StaleAfter
}

// Advance moves a request one step forward: lock, optimistic local update,
// server confirmation, rollback on rejection. The lock is released after a
// short grace delay on every path, success or failure.
func (b *Board) Advance(ctx context.Context, id uint) (*domain.ForwardingRequest, error) {
	b.mu.Lock()
	if b.inFlight {
		b.mu.Unlock()
		return nil, ErrOperationInFlight
	}
	item := b.findLocked(id)
	if item == nil {
		b.mu.Unlock()
		return nil, ErrUnknownRequest
	}
	if lock, ok := b.locks[id]; ok && lock.HolderID != b.cfg.HolderID {
		holder := lock.HolderName
		b.mu.Unlock()
		return nil, &LockedError{HolderName: holder}
	}
	next, ok := item.Status.Next()
	if !ok {
		b.mu.Unlock()
		return nil, ErrAlreadyDone
	}
	reference := item.Reference()
	b.inFlight = true
	b.mu.Unlock()
	defer b.clearInFlight()

	lock, err := b.svc.AcquireLock(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLockAcquisitionFailed, err)
	}
	b.mu.Lock()
	b.locks[id] = lock
	b.held[id] = true
	b.mu.Unlock()
	b.notify()
	defer b.scheduleRelease(id)

	var updated *domain.ForwardingRequest
	err = b.withOptimisticUpdate(
		func(items []*domain.ForwardingRequest) {
			for _, it := range items {
				if it.ID == id {
					it.Status = next
					it.UpdatedAt = time.Now()
				}
			}
		},
		func() error {
			resp, err := b.svc.AdvanceStatus(ctx, id, next)
			if err != nil {
				return err
			}
			updated = resp
			return nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("advancing %s failed: %w", reference, err)
	}

	// Reconcile with the server so any divergence beyond this one item heals
	b.sync.TriggerNow()
	return updated, nil
}

// Delete removes a done request. Callers must get operator confirmation
// first; there is no undo.
func (b *Board) Delete(ctx context.Context, id uint) error {
	b.mu.Lock()
	if b.inFlight {
		b.mu.Unlock()
		return ErrOperationInFlight
	}
	item := b.findLocked(id)
	if item == nil {
		b.mu.Unlock()
		return ErrUnknownRequest
	}
	if !item.Status.Terminal() {
		b.mu.Unlock()
		return domain.ErrDeleteNotAllowed
	}
	b.inFlight = true
	b.mu.Unlock()
	defer b.clearInFlight()

	if err := b.svc.DeleteRequest(ctx, id); err != nil {
		// List stays untouched on failure
		return err
	}

	b.mu.Lock()
	kept := b.items[:0]
	for _, it := range b.items {
		if it.ID != id {
			kept = append(kept, it)
		}
	}
	b.items = kept
	delete(b.locks, id)
	delete(b.held, id)
	b.mu.Unlock()
	b.notify()
	return nil
}

// ForceUnlock overrides another holder's lock, for recovering from a crashed
// or abandoned session. Destructive; callers must get explicit operator
// confirmation before invoking it.
func (b *Board) ForceUnlock(ctx context.Context, id uint) error {
	if err := b.svc.ForceReleaseLock(ctx, id); err != nil {
		return err
	}
	b.mu.Lock()
	delete(b.locks, id)
	delete(b.held, id)
	b.mu.Unlock()
	b.notify()
	return nil
}

func (b *Board) clearInFlight() {
	b.mu.Lock()
	b.inFlight = false
	b.mu.Unlock()
}

// findLocked returns the cached item; caller must hold b.mu
func (b *Board) findLocked(id uint) *domain.ForwardingRequest {
	for _, it := range b.items {
		if it.ID == id {
			return it
		}
	}
	return nil
}

// scheduleRelease drops the lock after the grace delay. The delay absorbs
// rapid repeated actions by the same admin; release happens on error paths
// too, a failed transition must not leak the lock.
func (b *Board) scheduleRelease(id uint) {
	release := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := b.svc.ReleaseLock(ctx, id); err != nil {
			log.Printf("[Board] Failed to release lock on request %d: %v", id, err)
		}
		b.mu.Lock()
		delete(b.held, id)
		if lock, ok := b.locks[id]; ok && lock.HolderID == b.cfg.HolderID {
			delete(b.locks, id)
		}
		b.mu.Unlock()
		b.notify()
	}

	if b.cfg.ReleaseGrace <= 0 {
		release()
		return
	}
	time.AfterFunc(b.cfg.ReleaseGrace, release)
}

// refresh is the synchronizer's fetch: replace the item list and lock cache
// wholesale with the server's view. Unconfirmed local optimism is discarded
// here; that is the safety net, not a bug.
func (b *Board) refresh(ctx context.Context) error {
	var all []*domain.ForwardingRequest
	offset := 0
	for {
		page, total, err := b.svc.ListRequests(ctx, b.cfg.PageSize, offset)
		if err != nil {
			return b.syncFailed(err)
		}
		all = append(all, page...)
		offset += len(page)
		if len(page) == 0 || int64(offset) >= total {
			break
		}
	}

	locks, err := b.svc.ListLocks(ctx)
	if err != nil {
		return b.syncFailed(err)
	}

	b.mu.Lock()
	b.items = all
	b.locks = make(map[uint]*domain.RequestLock, len(locks))
	for _, lock := range locks {
		b.locks[lock.RequestID] = lock
	}
	// A lock we remember holding but the server no longer reports is simply
	// unlocked now
	for id := range b.held {
		if lock, ok := b.locks[id]; !ok || lock.HolderID != b.cfg.HolderID {
			delete(b.held, id)
		}
	}
	b.failures = 0
	b.mu.Unlock()
	b.notify()
	return nil
}

// syncFailed decides what a failed fetch means. The board keeps its last
// known-good list on every failure path; a transient error never blanks it.
func (b *Board) syncFailed(err error) error {
	if errors.Is(err, context.Canceled) {
		// Superseded by a newer fetch
		return err
	}
	if errors.Is(err, requestclient.ErrRateLimited) {
		log.Println("[Sync] Rate limited, skipping this cycle")
		return nil
	}

	b.mu.Lock()
	b.failures++
	stale := b.failures >= b.cfg.StaleAfter
	b.mu.Unlock()

	log.Printf("[Sync] Refresh failed: %v", err)
	if stale {
		// Let subscribers re-render with the stale-data indicator
		b.notify()
	}
	return err
}
