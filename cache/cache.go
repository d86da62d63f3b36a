// Package cache provides a short-TTL response cache for cheap, hot list
// endpoints. The cache is best-effort: any Redis failure falls through to
// the handler.
package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type ResponseCache struct {
	client *redis.Client
	ttl    time.Duration
}

func New(client *redis.Client, ttl time.Duration) *ResponseCache {
	return &ResponseCache{client: client, ttl: ttl}
}

type cachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

type bodyCapture struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *bodyCapture) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

// Middleware serves GET responses from Redis, keyed by path and query.
func (rc *ResponseCache) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rc == nil || rc.client == nil || c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := "cache:" + c.Request.URL.RequestURI()
		ctx := c.Request.Context()

		if raw, err := rc.client.Get(ctx, key).Bytes(); err == nil {
			var cached cachedResponse
			if json.Unmarshal(raw, &cached) == nil {
				c.Data(cached.Status, cached.ContentType, cached.Body)
				c.Abort()
				return
			}
		}

		capture := &bodyCapture{ResponseWriter: c.Writer}
		c.Writer = capture
		c.Next()

		if capture.Status() != http.StatusOK {
			return
		}
		raw, err := json.Marshal(cachedResponse{
			Status:      capture.Status(),
			ContentType: capture.Header().Get("Content-Type"),
			Body:        capture.buf.Bytes(),
		})
		if err != nil {
			return
		}
		rc.client.Set(context.Background(), key, raw, rc.ttl)
	}
}

// Invalidate drops every cached response under the given path prefix.
func (rc *ResponseCache) Invalidate(ctx context.Context, pathPrefix string) {
	if rc == nil || rc.client == nil {
		return
	}
	iter := rc.client.Scan(ctx, 0, "cache:"+pathPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		rc.client.Del(ctx, iter.Val())
	}
}
