package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SlpAus/grade-relay-backend/internal/platform/database"
	"github.com/SlpAus/grade-relay-backend/internal/platform/metadata"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupHealthTest(t *testing.T) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("无法打开内存数据库: %v", err)
	}
	database.DB = db
	if err := metadata.PrimeDB(); err != nil {
		t.Fatalf("PrimeDB() error: %v", err)
	}
}

func performHealthCheck(t *testing.T) map[string]any {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/health", nil)

	GetHealth(c)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("响应不是合法JSON: %v", err)
	}
	return body
}

func TestGetHealthOmitsRebuildTimeWhenNeverRebuilt(t *testing.T) {
	setupHealthTest(t)

	body := performHealthCheck(t)
	if body["status"] != "ok" {
		t.Errorf("status = %v, want ok", body["status"])
	}
	if _, ok := body["lastLinkRebuild"]; ok {
		t.Errorf("lastLinkRebuild = %v, want omitted", body["lastLinkRebuild"])
	}
}

func TestGetHealthReportsLastLinkRebuild(t *testing.T) {
	setupHealthTest(t)

	rebuiltAt := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
	if err := metadata.SetLastLinkRebuild(database.DB, rebuiltAt); err != nil {
		t.Fatalf("SetLastLinkRebuild() error: %v", err)
	}

	body := performHealthCheck(t)
	if body["lastLinkRebuild"] != "2026-03-14T15:09:26Z" {
		t.Errorf("lastLinkRebuild = %v, want 2026-03-14T15:09:26Z", body["lastLinkRebuild"])
	}
}
