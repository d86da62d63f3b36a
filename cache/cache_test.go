package cache

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T, ttl time.Duration) (*ResponseCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return New(client, ttl), mr
}

func newCachedRouter(rc *ResponseCache, hits *int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/servicos", rc.Middleware(), func(c *gin.Context) {
		*hits++
		c.JSON(http.StatusOK, gin.H{"servicos": []string{"limpeza"}})
	})
	r.POST("/api/servicos", rc.Middleware(), func(c *gin.Context) {
		*hits++
		c.JSON(http.StatusCreated, gin.H{"id": 1})
	})
	return r
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestMiddlewareServesSecondRequestFromCache(t *testing.T) {
	rc, _ := newTestCache(t, time.Minute)
	var hits int
	r := newCachedRouter(rc, &hits)

	first := get(r, "/api/servicos")
	require.Equal(t, http.StatusOK, first.Code)
	second := get(r, "/api/servicos")
	require.Equal(t, http.StatusOK, second.Code)

	assert.Equal(t, 1, hits)
	assert.JSONEq(t, first.Body.String(), second.Body.String())
	assert.Equal(t, first.Header().Get("Content-Type"), second.Header().Get("Content-Type"))
}

func TestMiddlewareKeysOnQueryString(t *testing.T) {
	rc, _ := newTestCache(t, time.Minute)
	var hits int
	r := newCachedRouter(rc, &hits)

	get(r, "/api/servicos?page=1")
	get(r, "/api/servicos?page=2")
	assert.Equal(t, 2, hits)
}

func TestMiddlewareSkipsNonGET(t *testing.T) {
	rc, _ := newTestCache(t, time.Minute)
	var hits int
	r := newCachedRouter(rc, &hits)

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/servicos", nil))
		require.Equal(t, http.StatusCreated, w.Code)
	}
	assert.Equal(t, 2, hits)
}

func TestMiddlewareExpiresAfterTTL(t *testing.T) {
	rc, mr := newTestCache(t, time.Second)
	var hits int
	r := newCachedRouter(rc, &hits)

	get(r, "/api/servicos")
	mr.FastForward(2 * time.Second)
	get(r, "/api/servicos")
	assert.Equal(t, 2, hits)
}

func TestInvalidateDropsPrefix(t *testing.T) {
	rc, _ := newTestCache(t, time.Minute)
	var hits int
	r := newCachedRouter(rc, &hits)

	get(r, "/api/servicos")
	rc.Invalidate(context.Background(), "/api/servicos")
	get(r, "/api/servicos")
	assert.Equal(t, 2, hits)
}

func TestNilCacheMiddlewarePassesThrough(t *testing.T) {
	var rc *ResponseCache
	var hits int
	r := newCachedRouter(rc, &hits)

	w := get(r, "/api/servicos")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, hits)
}
