package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/patientfunnel/server/cache"
	"github.com/patientfunnel/server/config"
	"github.com/patientfunnel/server/crm"
	"github.com/patientfunnel/server/storage"
)

var (
	cfg           *config.Config
	log           *zap.Logger
	fileStore     *storage.FileStore
	pipedrive     *crm.Pipedrive
	responseCache *cache.ResponseCache
)

// Init wires the handler package. Must run before any route is served.
// rc may be nil when the response cache is disabled.
func Init(c *config.Config, logger *zap.Logger, files *storage.FileStore, connector *crm.Pipedrive, rc *cache.ResponseCache) {
	cfg = c
	log = logger
	fileStore = files
	pipedrive = connector
	responseCache = rc
}

// invalidateCache drops cached list responses under prefix after a
// mutation. No-op when the cache is disabled.
func invalidateCache(c *gin.Context, prefix string) {
	responseCache.Invalidate(c.Request.Context(), prefix)
}

// currentUserID returns the authenticated caller's id set by the auth
// middleware.
func currentUserID(c *gin.Context) int64 {
	v, ok := c.Get("user_id")
	if !ok {
		return 0
	}
	id, _ := v.(int64)
	return id
}

func parseID(c *gin.Context, param string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
