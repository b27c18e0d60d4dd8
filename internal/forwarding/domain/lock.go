package domain

import "time"

// RequestLock is the advisory lock an admin holds while working a request.
// At most one row exists per request; the server is the arbiter, clients
// treat their own view of it as a cache.
type RequestLock struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	RequestID  uint      `json:"request_id" gorm:"uniqueIndex;not null"`
	HolderID   string    `json:"holder_id" gorm:"not null"`
	HolderName string    `json:"holder_name"`
	AcquiredAt time.Time `json:"acquired_at"`
}
