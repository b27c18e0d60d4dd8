package requestclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"postroom-backend/internal/forwarding/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	c := New(srv.URL, Credentials{Token: "tok", HolderID: "admin-1", HolderName: "Grace"})
	return c, srv
}

func TestListRequestsSendsBearerToken(t *testing.T) {
	var gotAuth string
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"requests":[{"id":1,"status":"requested"}],"total":1,"limit":100,"offset":0}`))
	})
	defer srv.Close()

	requests, total, err := c.ListRequests(context.Background(), 100, 0)
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Equal(t, int64(1), total)
	require.Len(t, requests, 1)
	assert.Equal(t, domain.StatusRequested, requests[0].Status)
}

func TestRateLimitedMapsToSentinel(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})
	defer srv.Close()

	_, _, err := c.ListRequests(context.Background(), 100, 0)
	assert.ErrorIs(t, err, ErrRateLimited)
}

func TestAdvanceStatusDecodesIllegalTransition(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"error":"cannot move request from requested to done (allowed: [in_progress])","from":"requested","to":"done","allowed":["in_progress"]}`))
	})
	defer srv.Close()

	_, err := c.AdvanceStatus(context.Background(), 7, domain.StatusDone)
	var illegal *domain.IllegalTransitionError
	require.ErrorAs(t, err, &illegal)
	assert.Equal(t, domain.StatusRequested, illegal.From)
	assert.Equal(t, domain.StatusDone, illegal.To)
	assert.Equal(t, []domain.Status{domain.StatusInProgress}, illegal.Allowed)
}

func TestAcquireLockDecodesConflict(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"error":"request is locked by Alice","holder_id":"admin-a","holder_name":"Alice"}`))
	})
	defer srv.Close()

	_, err := c.AcquireLock(context.Background(), 7)
	var conflict *domain.LockConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "Alice", conflict.HolderName)
}

func TestGenericServerErrorBecomesAPIError(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"database is down"}`))
	})
	defer srv.Close()

	err := c.DeleteRequest(context.Background(), 7)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Contains(t, apiErr.Message, "database is down")
}

func TestContextCancellationAborts(t *testing.T) {
	block := make(chan struct{})
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		<-block
	})
	defer srv.Close()
	defer close(block)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.ListLocks(ctx)
	assert.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
