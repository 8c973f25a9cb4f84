package ledger

import (
	"fmt"
	"net/http"

	"github.com/SlpAus/grade-relay-backend/internal/platform/links"
	"github.com/gin-gonic/gin"
)

// recordView 是读路径返回的台账行，附带链接是否仍然有效的标记。
type recordView struct {
	Record
	LinkActive bool `json:"linkActive"`
}

// GetLedger 返回台账的全部记录。
func GetLedger(c *gin.Context) {
	records, err := ScanAll()
	if err != nil {
		fmt.Printf("台账读取失败: %v\n", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "无法读取台账"})
		return
	}

	views := make([]recordView, 0, len(records))
	for _, record := range records {
		active, err := links.Active.IsActive(record.Identifier)
		if err != nil {
			// 链接状态查不到不影响台账本身的读取
			fmt.Printf("台账: 无法查询链接状态 %s: %v\n", record.Identifier, err)
		}
		views = append(views, recordView{Record: record, LinkActive: active})
	}

	c.JSON(http.StatusOK, gin.H{"items": views})
}
