package api

import (
	"github.com/SlpAus/grade-relay-backend/internal/ingest"
	"github.com/SlpAus/grade-relay-backend/internal/ledger"
	"github.com/SlpAus/grade-relay-backend/internal/platform/health"
	"github.com/SlpAus/grade-relay-backend/internal/relay"
	"github.com/gin-gonic/gin"
)

// SetupRoutes 注册项目的所有API路由
func SetupRoutes(router *gin.Engine) {
	api := router.Group("/api")
	{
		// 事件触发端点：桶观察者在对象创建后POST到这里
		events := api.Group("/events")
		{
			events.POST("/email", ingest.HandleEmailEvent)
			events.POST("/staged", relay.HandleStagedEvent)
		}

		// 台账读路径
		api.GET("/ledger", ledger.GetLedger)

		// 存活与Redis健康状况
		api.GET("/health", health.GetHealth)
	}

	// 限时下载链接的兑现端点
	router.GET("/files/:token", relay.HandleDownload)
}
