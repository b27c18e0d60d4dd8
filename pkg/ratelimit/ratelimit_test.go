package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newLimitedRouter(l *Limiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/list", l.Middleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func TestBurstThenTooManyRequests(t *testing.T) {
	r := newLimitedRouter(New(time.Hour, 2))

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/list", nil)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/list", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestSeparateClientsGetSeparateBuckets(t *testing.T) {
	r := newLimitedRouter(New(time.Hour, 1))

	first := httptest.NewRecorder()
	reqA, _ := http.NewRequest(http.MethodGet, "/list", nil)
	reqA.RemoteAddr = "10.0.0.1:1234"
	r.ServeHTTP(first, reqA)
	assert.Equal(t, http.StatusOK, first.Code)

	blocked := httptest.NewRecorder()
	reqA2, _ := http.NewRequest(http.MethodGet, "/list", nil)
	reqA2.RemoteAddr = "10.0.0.1:1234"
	r.ServeHTTP(blocked, reqA2)
	assert.Equal(t, http.StatusTooManyRequests, blocked.Code)

	other := httptest.NewRecorder()
	reqB, _ := http.NewRequest(http.MethodGet, "/list", nil)
	reqB.RemoteAddr = "10.0.0.2:1234"
	r.ServeHTTP(other, reqB)
	assert.Equal(t, http.StatusOK, other.Code)
}
