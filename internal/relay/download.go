package relay

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/SlpAus/grade-relay-backend/internal/platform/storage"
	"github.com/SlpAus/grade-relay-backend/pkg/token"
	"github.com/gin-gonic/gin"
)

// docxContentType 是归档文档统一的下载内容类型。
const docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// HandleDownload 兑现一个限时下载链接。
// 令牌本身携带签名和过期时间，校验通过即授予对单个归档对象的读取能力，
// 不需要进一步的身份认证。
func HandleDownload(c *gin.Context) {
	bucket, key, err := token.ValidateDownloadToken(c.Param("token"))
	if err != nil {
		if errors.Is(err, token.ErrTokenExpired) {
			c.JSON(http.StatusForbidden, gin.H{"error": "下载链接已过期"})
		} else {
			c.JSON(http.StatusForbidden, gin.H{"error": "下载链接无效"})
		}
		return
	}

	body, err := storage.Store.Get(c.Request.Context(), bucket, key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "文档不存在"})
		} else {
			fmt.Printf("下载失败 (%s/%s): %v\n", bucket, key, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "无法读取文档"})
		}
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", key))
	c.Data(http.StatusOK, docxContentType, body)
}
