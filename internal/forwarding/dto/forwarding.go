package dto

import "postroom-backend/internal/forwarding/domain"

type RequestsResponse struct {
	Requests []*domain.ForwardingRequest `json:"requests"`
	Total    int64                       `json:"total"`
	Limit    int                         `json:"limit"`
	Offset   int                         `json:"offset"`
}

type CreateRequestBody struct {
	MailItemID uint           `json:"mail_item_id" binding:"required"`
	Recipient  domain.Address `json:"recipient" binding:"required"`
}

type AdvanceStatusBody struct {
	Status string `json:"status" binding:"required"`
}

type LocksResponse struct {
	Locks []*domain.RequestLock `json:"locks"`
}

// IllegalTransitionResponse is the structured 422 body for rejected moves
type IllegalTransitionResponse struct {
	Error   string          `json:"error"`
	From    domain.Status   `json:"from"`
	To      domain.Status   `json:"to"`
	Allowed []domain.Status `json:"allowed"`
}

// LockConflictResponse is the structured 409 body for lock contention
type LockConflictResponse struct {
	Error      string `json:"error"`
	HolderID   string `json:"holder_id"`
	HolderName string `json:"holder_name"`
}
