package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/aurelle/marketing-backend/internal/apierr"
	"github.com/aurelle/marketing-backend/internal/cache"
	"github.com/aurelle/marketing-backend/internal/logger"
)

type CacheHandler struct {
	log        *logger.Logger
	cacheStore cache.Cache
}

func NewCacheHandler(log *logger.Logger, cacheStore cache.Cache) *CacheHandler {
	return &CacheHandler{
		log:        log.With("handler", "CacheHandler"),
		cacheStore: cacheStore,
	}
}

// GET /api/cache/stats
func (ch *CacheHandler) Stats(c *gin.Context) {
	RespondOK(c, gin.H{
		"available": ch.cacheStore.Available(),
		"stats":     ch.cacheStore.Stats(c.Request.Context()),
	})
}

// DELETE /api/cache/users/:id
// Drops every cached derivation for one user.
func (ch *CacheHandler) InvalidateUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, apierr.CodeValidation, fmt.Errorf("invalid user id"))
		return
	}
	categories := []string{"recommendations", "category_recommendations", "interests", "spending_summary", "similar_users"}
	var deleted int
	for _, category := range categories {
		deleted += ch.cacheStore.DeletePattern(c.Request.Context(), cache.UserPattern(category, userID.String()))
	}
	RespondOK(c, gin.H{"deleted": deleted})
}

// DELETE /api/cache
// Flushes the whole namespace, leaving other tenants of the instance alone.
func (ch *CacheHandler) Flush(c *gin.Context) {
	deleted := ch.cacheStore.DeletePattern(c.Request.Context(), cache.Namespace+":*")
	ch.log.Info("Flushed cache namespace", "deleted", deleted)
	RespondOK(c, gin.H{"deleted": deleted})
}
