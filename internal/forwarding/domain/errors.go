package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrRequestNotFound  = errors.New("forwarding request not found")
	ErrDeleteNotAllowed = errors.New("only done requests can be deleted")
)

// IllegalTransitionError is returned when a status change is not permitted
// from the request's current state. Allowed carries the legal next steps so
// callers can show them to the operator.
type IllegalTransitionError struct {
	From    Status   `json:"from"`
	To      Status   `json:"to"`
	Allowed []Status `json:"allowed"`
}

func (e *IllegalTransitionError) Error() string {
	allowed := make([]string, len(e.Allowed))
	for i, s := range e.Allowed {
		allowed[i] = string(s)
	}
	return fmt.Sprintf("cannot move request from %s to %s (allowed: [%s])",
		e.From, e.To, strings.Join(allowed, ", "))
}

// LockConflictError is returned when a lock is already held by someone else
type LockConflictError struct {
	HolderID   string `json:"holder_id"`
	HolderName string `json:"holder_name"`
}

func (e *LockConflictError) Error() string {
	return fmt.Sprintf("request is locked by %s", e.HolderName)
}
