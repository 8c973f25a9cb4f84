package health

import (
	"fmt"
	"net/http"
	"time"

	"github.com/SlpAus/grade-relay-backend/internal/platform/database"
	"github.com/SlpAus/grade-relay-backend/internal/platform/metadata"
	"github.com/gin-gonic/gin"
)

// GetHealth 返回服务的存活状态、Redis的健康状况，
// 以及最近一次链接注册表重建的时间（从未重建过则省略该字段）。
func GetHealth(c *gin.Context) {
	resp := gin.H{
		"status":       "ok",
		"redisHealthy": database.IsRedisHealthy(),
	}

	lastRebuild, err := metadata.GetLastLinkRebuild(database.DB)
	if err != nil {
		fmt.Printf("健康检查: 无法读取链接重建时间: %v\n", err)
	} else if !lastRebuild.IsZero() {
		resp["lastLinkRebuild"] = lastRebuild.UTC().Format(time.RFC3339)
	}

	c.JSON(http.StatusOK, resp)
}
