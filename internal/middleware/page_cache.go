package middleware

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/inkpost/inkpost/internal/cache"
	"github.com/inkpost/inkpost/internal/logger"
	"github.com/inkpost/inkpost/internal/metrics"
	"go.uber.org/zap"
)

// PageCache serves a previously rendered page from the store for the length
// of the TTL window. The key is the prefix plus the request URL including
// its query string, so each page number caches separately. There is no
// invalidation on writes; a new post only shows up once the window lapses.
func PageCache(store cache.Store, keyPrefix string, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet || store == nil {
			c.Next()
			return
		}

		cacheKey := pageCacheKey(keyPrefix, c.Request.URL.Path, c.Request.URL.RawQuery)
		ctx := c.Request.Context()

		if cached, err := store.Get(ctx, cacheKey); err == nil {
			metrics.Get().CacheHitsTotal.WithLabelValues(keyPrefix).Inc()
			c.Header("X-Cache", "HIT")
			c.Header("Cache-Control", fmt.Sprintf("public, max-age=%d", int(ttl.Seconds())))
			c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(cached))
			c.Abort()
			return
		}

		metrics.Get().CacheMissesTotal.WithLabelValues(keyPrefix).Inc()

		writer := &cachedPageWriter{
			ResponseWriter: c.Writer,
			statusCode:     http.StatusOK,
			body:           &bytes.Buffer{},
		}
		c.Writer = writer
		c.Header("X-Cache", "MISS")
		c.Header("Cache-Control", fmt.Sprintf("public, max-age=%d", int(ttl.Seconds())))

		c.Next()

		// Only successful renders are cached; redirects and error pages are not
		if writer.statusCode >= 200 && writer.statusCode < 300 && writer.body.Len() > 0 {
			if err := store.SetEx(ctx, cacheKey, writer.body.String(), ttl); err != nil {
				logger.Log.Debug("Failed to write page to cache",
					zap.String("key", cacheKey),
					zap.Error(err),
				)
			}
		}
	}
}

// pageCacheKey builds the cache key: {prefix}:{path}[?{query}]
func pageCacheKey(prefix, path, query string) string {
	key := fmt.Sprintf("%s:%s", prefix, path)
	if query != "" {
		key = fmt.Sprintf("%s?%s", key, query)
	}
	return key
}

// cachedPageWriter intercepts response writes to capture the rendered page
type cachedPageWriter struct {
	gin.ResponseWriter
	statusCode int
	body       *bytes.Buffer
}

func (w *cachedPageWriter) Write(data []byte) (int, error) {
	w.body.Write(data)
	return w.ResponseWriter.Write(data)
}

func (w *cachedPageWriter) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}
