package delivery

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"postroom-backend/internal/forwarding/domain"
	"postroom-backend/internal/forwarding/dto"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- fake usecase ----

type fakeForwardingUsecase struct {
	advanceResp *domain.ForwardingRequest
	advanceErr  error
	acquireResp *domain.RequestLock
	acquireErr  error
	releaseErr  error
	deleteErr   error

	releaseCalls int
}

func (f *fakeForwardingUsecase) CreateRequest(ownerID, ownerName string, mailItemID uint, recipient domain.Address) (*domain.ForwardingRequest, error) {
	return &domain.ForwardingRequest{ID: 1, OwnerID: ownerID, OwnerName: ownerName, MailItemID: mailItemID, Recipient: recipient, Status: domain.StatusRequested}, nil
}

func (f *fakeForwardingUsecase) ListRequests(limit, offset int) ([]*domain.ForwardingRequest, int64, error) {
	return nil, 0, nil
}

func (f *fakeForwardingUsecase) AdvanceStatus(requestID uint, target domain.Status) (*domain.ForwardingRequest, error) {
	return f.advanceResp, f.advanceErr
}

func (f *fakeForwardingUsecase) DeleteRequest(requestID uint) error { return f.deleteErr }

func (f *fakeForwardingUsecase) AcquireLock(requestID uint, holderID, holderName string) (*domain.RequestLock, error) {
	return f.acquireResp, f.acquireErr
}

func (f *fakeForwardingUsecase) ReleaseLock(requestID uint) error {
	f.releaseCalls++
	return f.releaseErr
}

func (f *fakeForwardingUsecase) ForceReleaseLock(requestID uint, holderID, holderName string) error {
	return nil
}

func (f *fakeForwardingUsecase) ListLocks() ([]*domain.RequestLock, error) { return nil, nil }

func newTestRouter(uc *fakeForwardingUsecase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewForwardingHandler(uc)
	r.PATCH("/api/forwarding/:id/status", h.AdvanceStatus)
	r.DELETE("/api/forwarding/:id/lock", h.ReleaseLock)
	r.POST("/api/forwarding/:id/lock", h.AcquireLock)
	r.DELETE("/api/forwarding/:id", h.DeleteRequest)
	r.GET("/api/forwarding/locks", h.ListLocks)
	return r
}

// ---- tests ----

func TestAdvanceStatusIllegalTransitionPayload(t *testing.T) {
	uc := &fakeForwardingUsecase{
		advanceErr: &domain.IllegalTransitionError{
			From:    domain.StatusRequested,
			To:      domain.StatusDone,
			Allowed: []domain.Status{domain.StatusInProgress},
		},
	}
	r := newTestRouter(uc)

	body := bytes.NewBufferString(`{"status":"done"}`)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPatch, "/api/forwarding/7/status", body)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp dto.IllegalTransitionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, domain.StatusRequested, resp.From)
	assert.Equal(t, domain.StatusDone, resp.To)
	assert.Equal(t, []domain.Status{domain.StatusInProgress}, resp.Allowed)
	assert.Contains(t, resp.Error, "requested")
	assert.Contains(t, resp.Error, "done")
}

func TestReleaseLockAlwaysSucceeds(t *testing.T) {
	uc := &fakeForwardingUsecase{}
	r := newTestRouter(uc)

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodDelete, "/api/forwarding/7/lock", nil)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}
	assert.Equal(t, 3, uc.releaseCalls)
}

func TestAcquireLockConflictPayload(t *testing.T) {
	uc := &fakeForwardingUsecase{
		acquireErr: &domain.LockConflictError{HolderID: "admin-a", HolderName: "Alice"},
	}
	r := newTestRouter(uc)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/forwarding/7/lock", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusConflict, w.Code)

	var resp dto.LockConflictResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "admin-a", resp.HolderID)
	assert.Equal(t, "Alice", resp.HolderName)
}

func TestDeleteNonTerminalConflict(t *testing.T) {
	uc := &fakeForwardingUsecase{deleteErr: domain.ErrDeleteNotAllowed}
	r := newTestRouter(uc)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodDelete, "/api/forwarding/7", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestListLocksEmptyArray(t *testing.T) {
	r := newTestRouter(&fakeForwardingUsecase{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/forwarding/locks", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"locks":[]}`, w.Body.String())
}
