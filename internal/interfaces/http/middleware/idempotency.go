package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/retailcore/backend/internal/domain/shared"
)

// IdempotencyHeader is the client-supplied duplicate detection key
const IdempotencyHeader = "Idempotency-Key"

// Idempotency rejects a mutating request whose Idempotency-Key was
// already seen within the configured TTL. Requests without the header
// pass through; store failures fail open so a cache outage never
// blocks writes.
func Idempotency(store shared.IdempotencyStore, cfg shared.IdempotencyConfig, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !cfg.Enabled || store == nil {
			c.Next()
			return
		}

		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		default:
			c.Next()
			return
		}

		key := c.GetHeader(IdempotencyHeader)
		if key == "" {
			c.Next()
			return
		}

		// Scope the key per store so two stores can reuse the same key.
		if storeID := GetJWTStoreID(c); storeID != "" {
			key = storeID + ":" + key
		}

		first, err := store.MarkProcessed(c.Request.Context(), key, cfg.TTL)
		if err != nil {
			if log != nil {
				log.Warn("Idempotency check failed, allowing request",
					zap.Error(err),
					zap.String("path", c.Request.URL.Path),
				)
			}
			c.Next()
			return
		}

		if !first {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "ERR_ALREADY_EXISTS",
					"message": "Duplicate request: this idempotency key was already processed",
				},
			})
			return
		}

		c.Next()
	}
}
