package handler

import (
	"net/http"
	"time"

	"photo-hub/app/config"
	"photo-hub/app/storage"

	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"
)

const statsCacheKey = "stats"

// StatsHandler 存储统计处理器。
// 统计要扫全表，用短 TTL 缓存挡住界面轮询
type StatsHandler struct {
	store *storage.PhotoStore
	cache *gocache.Cache
}

// NewStatsHandler 创建存储统计处理器
func NewStatsHandler(cfg *config.Config, store *storage.PhotoStore) *StatsHandler {
	ttl := time.Duration(cfg.Search.CacheSeconds) * time.Second
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &StatsHandler{
		store: store,
		cache: gocache.New(ttl, 2*ttl),
	}
}

// Stats 返回照片库统计信息
func (h *StatsHandler) Stats(c *gin.Context) {
	if cached, ok := h.cache.Get(statsCacheKey); ok {
		success(c, cached, "success")
		return
	}

	stats, err := h.store.Stats()
	if err != nil {
		fail(c, http.StatusInternalServerError, 500, "获取统计信息失败: "+err.Error())
		return
	}

	h.cache.SetDefault(statsCacheKey, stats)
	success(c, stats, "success")
}
