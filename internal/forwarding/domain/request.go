package domain

import (
	"fmt"
	"time"
)

// Status represents the processing state of a forwarding request.
// These identifiers are the canonical wire values; display synonyms
// never appear in the database or in API payloads.
type Status string

const (
	StatusRequested  Status = "requested"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
)

// Next returns the single legal follow-up status. The machine is strictly
// linear: requested -> in_progress -> done, one step per call.
func (s Status) Next() (Status, bool) {
	switch s {
	case StatusRequested:
		return StatusInProgress, true
	case StatusInProgress:
		return StatusDone, true
	default:
		return "", false
	}
}

// Terminal reports whether no further transition exists. A done request
// can only be deleted.
func (s Status) Terminal() bool {
	return s == StatusDone
}

// AllowedNext lists every status reachable from s in one step.
func AllowedNext(s Status) []Status {
	if next, ok := s.Next(); ok {
		return []Status{next}
	}
	return []Status{}
}

// Address is the postal destination of a forwarding request
type Address struct {
	Name       string `json:"name"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// ForwardingRequest represents one mail item a customer asked us to forward
type ForwardingRequest struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	OwnerID    string    `json:"owner_id" gorm:"index;not null"`
	OwnerName  string    `json:"owner_name"`
	MailItemID uint      `json:"mail_item_id" gorm:"index;not null"`
	Status     Status    `json:"status" gorm:"index;not null;default:requested"`
	Recipient  Address   `json:"recipient" gorm:"embedded;embeddedPrefix:recipient_"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Reference is the human-facing identifier shown on the board and in search.
func (r *ForwardingRequest) Reference() string {
	return fmt.Sprintf("FWD-%d", r.ID)
}

// Clone returns an independent copy, safe to mutate.
func (r *ForwardingRequest) Clone() *ForwardingRequest {
	c := *r
	return &c
}
