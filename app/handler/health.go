package handler

import (
	"time"

	"github.com/gin-gonic/gin"
)

// Health 健康检查
func Health(c *gin.Context) {
	success(c, gin.H{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	}, "success")
}
