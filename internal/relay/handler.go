package relay

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/SlpAus/grade-relay-backend/internal/metadata"
	"github.com/SlpAus/grade-relay-backend/internal/platform/config"
	"github.com/SlpAus/grade-relay-backend/internal/platform/storage"
	"github.com/gin-gonic/gin"
)

// StagedEventBody 定义了"暂存对象已创建"事件的请求体结构
type StagedEventBody struct {
	Bucket string `json:"bucket"`
	Key    string `json:"key" binding:"required"`
}

// HandleStagedEvent 处理一次暂存对象事件：执行搬运流水线。
// 校验失败和源对象缺失以带类型的状态码返回给触发层，绝不在失败时吞掉成功响应；
// 其余错误原样上抛，由触发层决定是否重投。
func HandleStagedEvent(c *gin.Context) {
	var body StagedEventBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误: " + err.Error()})
		return
	}

	key, err := url.QueryUnescape(body.Key)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "对象键无法解码: " + err.Error()})
		return
	}
	bucket := body.Bucket
	if bucket == "" {
		bucket = config.Cfg.Storage.StagingBucket
	}

	outcome, err := Relocate(c.Request.Context(), bucket, key)
	if err != nil {
		fmt.Printf("搬运失败 (%s/%s): %v\n", bucket, key, err)

		var vErr *metadata.ValidationError
		switch {
		case errors.As(err, &vErr):
			c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Error(), "missing": vErr.Missing})
		case errors.Is(err, storage.ErrObjectNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("对象 %s/%s 不存在", bucket, key)})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "附件已归档，台账已记录",
		"identifier": outcome.Identifier,
		"notified":   outcome.Notified,
	})
}
