package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// limitedRequest pins the remote address so each test gets its own limiter
// key in the shared store.
func limitedRequest(path, remoteAddr string) *http.Request {
	req := httptest.NewRequest("GET", path, nil)
	req.RemoteAddr = remoteAddr
	return req
}

func TestRateLimit_AllowsUnderLimit(t *testing.T) {
	r := gin.New()
	r.Use(RateLimit(10, 2)) // generous rate
	r.GET("/ok", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, limitedRequest("/ok", "10.1.1.1:1000"))
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, limitedRequest("/ok", "10.1.1.1:1000"))

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, http.StatusOK, w2.Code)
}

func TestRateLimit_BlocksWhenExceeded(t *testing.T) {
	r := gin.New()
	// very low rate to force rejections
	r.Use(RateLimit(0.5, 1))
	r.GET("/limited", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	w1 := httptest.NewRecorder()
	r.ServeHTTP(w1, limitedRequest("/limited", "10.1.1.2:1000"))
	require.Equal(t, http.StatusOK, w1.Code)

	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, limitedRequest("/limited", "10.1.1.2:1000"))
	require.Equal(t, http.StatusTooManyRequests, w2.Code)
	require.Equal(t, "1", w2.Header().Get("Retry-After"))

	// wait long enough to replenish one token at 0.5 rps
	time.Sleep(2100 * time.Millisecond)
	w3 := httptest.NewRecorder()
	r.ServeHTTP(w3, limitedRequest("/limited", "10.1.1.2:1000"))
	require.Equal(t, http.StatusOK, w3.Code)
}

func TestRateLimit_KeysByUsernameWhenAuthenticated(t *testing.T) {
	r := gin.New()
	// middleware that injects the username before the rate limiter
	r.Use(func(c *gin.Context) {
		c.Set(contextKeyUsername, "limited-user")
		c.Next()
	})
	r.Use(RateLimit(0.5, 1))
	r.GET("/u", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	w1 := httptest.NewRecorder()
	r.ServeHTTP(w1, limitedRequest("/u", "10.1.1.3:1000"))
	require.Equal(t, http.StatusOK, w1.Code)

	// immediate second request, different IP but same user => rejected
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, limitedRequest("/u", "10.1.1.4:1000"))
	require.Equal(t, http.StatusTooManyRequests, w2.Code)
}
