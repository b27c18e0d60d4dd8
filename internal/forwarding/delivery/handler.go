package delivery

import (
	"errors"
	"net/http"
	"strconv"

	"postroom-backend/internal/forwarding/domain"
	"postroom-backend/internal/forwarding/dto"
	"postroom-backend/internal/forwarding/usecase"

	"github.com/gin-gonic/gin"
)

// ForwardingHandler handles forwarding board HTTP requests
type ForwardingHandler struct {
	forwardingUsecase usecase.ForwardingUsecase
}

// NewForwardingHandler creates a new ForwardingHandler
func NewForwardingHandler(forwardingUsecase usecase.ForwardingUsecase) *ForwardingHandler {
	return &ForwardingHandler{
		forwardingUsecase: forwardingUsecase,
	}
}

func requestID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request id"})
		return 0, false
	}
	return uint(id), true
}

// CreateRequest records a forwarding request for the authenticated customer
// POST /api/forwarding
func (h *ForwardingHandler) CreateRequest(c *gin.Context) {
	var body dto.CreateRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req, err := h.forwardingUsecase.CreateRequest(
		c.GetString("userID"), c.GetString("userName"), body.MailItemID, body.Recipient)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, req)
}

// ListRequests returns a page of forwarding requests
// GET /api/forwarding?limit=100&offset=0
func (h *ForwardingHandler) ListRequests(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	requests, total, err := h.forwardingUsecase.ListRequests(limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if requests == nil {
		requests = []*domain.ForwardingRequest{}
	}

	c.JSON(http.StatusOK, dto.RequestsResponse{
		Requests: requests,
		Total:    total,
		Limit:    limit,
		Offset:   offset,
	})
}

// AdvanceStatus moves a request one step along the board
// PATCH /api/forwarding/:id/status
func (h *ForwardingHandler) AdvanceStatus(c *gin.Context) {
	id, ok := requestID(c)
	if !ok {
		return
	}

	var body dto.AdvanceStatusBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req, err := h.forwardingUsecase.AdvanceStatus(id, domain.Status(body.Status))
	if err != nil {
		var illegal *domain.IllegalTransitionError
		if errors.As(err, &illegal) {
			c.JSON(http.StatusUnprocessableEntity, dto.IllegalTransitionResponse{
				Error:   illegal.Error(),
				From:    illegal.From,
				To:      illegal.To,
				Allowed: illegal.Allowed,
			})
			return
		}
		if errors.Is(err, domain.ErrRequestNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Forwarding request not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, req)
}

// DeleteRequest removes a done request from the board
// DELETE /api/forwarding/:id
func (h *ForwardingHandler) DeleteRequest(c *gin.Context) {
	id, ok := requestID(c)
	if !ok {
		return
	}

	if err := h.forwardingUsecase.DeleteRequest(id); err != nil {
		if errors.Is(err, domain.ErrRequestNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Forwarding request not found"})
			return
		}
		if errors.Is(err, domain.ErrDeleteNotAllowed) {
			c.JSON(http.StatusConflict, gin.H{"error": "Only done requests can be deleted"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Forwarding request deleted successfully"})
}

// AcquireLock takes the advisory lock for the authenticated admin
// POST /api/forwarding/:id/lock
func (h *ForwardingHandler) AcquireLock(c *gin.Context) {
	id, ok := requestID(c)
	if !ok {
		return
	}

	lock, err := h.forwardingUsecase.AcquireLock(id, c.GetString("userID"), c.GetString("userName"))
	if err != nil {
		var conflict *domain.LockConflictError
		if errors.As(err, &conflict) {
			c.JSON(http.StatusConflict, dto.LockConflictResponse{
				Error:      conflict.Error(),
				HolderID:   conflict.HolderID,
				HolderName: conflict.HolderName,
			})
			return
		}
		if errors.Is(err, domain.ErrRequestNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Forwarding request not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, lock)
}

// ReleaseLock drops the lock; releasing an unlocked request is fine
// DELETE /api/forwarding/:id/lock
func (h *ForwardingHandler) ReleaseLock(c *gin.Context) {
	id, ok := requestID(c)
	if !ok {
		return
	}

	if err := h.forwardingUsecase.ReleaseLock(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Lock released"})
}

// ForceReleaseLock overrides another holder's lock
// POST /api/forwarding/:id/lock/force
func (h *ForwardingHandler) ForceReleaseLock(c *gin.Context) {
	id, ok := requestID(c)
	if !ok {
		return
	}

	if err := h.forwardingUsecase.ForceReleaseLock(id, c.GetString("userID"), c.GetString("userName")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Lock force-released"})
}

// ListLocks returns every active lock for seeding the client lock cache
// GET /api/forwarding/locks
func (h *ForwardingHandler) ListLocks(c *gin.Context) {
	locks, err := h.forwardingUsecase.ListLocks()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if locks == nil {
		locks = []*domain.RequestLock{}
	}

	c.JSON(http.StatusOK, dto.LocksResponse{Locks: locks})
}
