package handler

import (
	"net/http"

	"photo-hub/app/storage"

	"github.com/gin-gonic/gin"
)

// SearchHandler 照片搜索处理器
type SearchHandler struct {
	store *storage.PhotoStore
}

// NewSearchHandler 创建照片搜索处理器
func NewSearchHandler(store *storage.PhotoStore) *SearchHandler {
	return &SearchHandler{store: store}
}

// SearchRequest 搜索请求体
type SearchRequest struct {
	Query string `json:"query" binding:"required"`
	Limit int    `json:"limit"`
}

// Search 按关键词搜索照片
func (h *SearchHandler) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, 400, "请求参数错误: "+err.Error())
		return
	}
	if req.Limit < 0 {
		fail(c, http.StatusBadRequest, 400, "limit 参数无效")
		return
	}

	results, err := h.store.Search(req.Query, req.Limit)
	if err != nil {
		fail(c, http.StatusInternalServerError, 500, "搜索失败: "+err.Error())
		return
	}

	success(c, gin.H{
		"query":   req.Query,
		"results": results,
		"count":   len(results),
	}, "success")
}
