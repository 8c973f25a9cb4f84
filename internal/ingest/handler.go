package ingest

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/SlpAus/grade-relay-backend/internal/platform/config"
	"github.com/SlpAus/grade-relay-backend/internal/platform/storage"
	"github.com/gin-gonic/gin"
)

// EmailEventBody 定义了"原始邮件对象已创建"事件的请求体结构
type EmailEventBody struct {
	Bucket string `json:"bucket"`
	Key    string `json:"key" binding:"required"`
}

// HandleEmailEvent 处理一次入站邮件事件：分解邮件并暂存附件。
// 重试策略属于触发层，这里对每个事件只做一次同步尝试。
func HandleEmailEvent(c *gin.Context) {
	var body EmailEventBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误: " + err.Error()})
		return
	}

	// 事件里的对象键可能带有URL编码（含加号编码），使用前先解码
	key, err := url.QueryUnescape(body.Key)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "对象键无法解码: " + err.Error()})
		return
	}
	bucket := body.Bucket
	if bucket == "" {
		bucket = config.Cfg.Storage.InboundBucket
	}

	result, err := DecomposeEmail(c.Request.Context(), bucket, key)
	if err != nil {
		fmt.Printf("邮件分解失败 (%s/%s): %v\n", bucket, key, err)

		var parseErr *ParseError
		switch {
		case errors.Is(err, storage.ErrObjectNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("对象 %s/%s 不存在", bucket, key)})
		case errors.As(err, &parseErr):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "邮件处理失败: " + err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  fmt.Sprintf("已处理邮件并暂存 %d 个附件", len(result.Staged)),
		"staged":   result.Staged,
		"warnings": result.Warnings,
	})
}
