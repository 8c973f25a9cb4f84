package relay

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/SlpAus/grade-relay-backend/internal/ledger"
	"github.com/SlpAus/grade-relay-backend/internal/metadata"
	"github.com/SlpAus/grade-relay-backend/internal/platform/config"
	"github.com/SlpAus/grade-relay-backend/internal/platform/database"
	"github.com/SlpAus/grade-relay-backend/internal/platform/links"
	"github.com/SlpAus/grade-relay-backend/internal/platform/mailer"
	"github.com/SlpAus/grade-relay-backend/internal/platform/storage"
	"github.com/SlpAus/grade-relay-backend/pkg/token"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	token.GenerateSecretKey()
	m.Run()
}

type relayFixture struct {
	store    *storage.MemoryStore
	registry *links.MemoryRegistry
	mail     *mailer.MemoryMailer
}

func setupRelayTest(t *testing.T) *relayFixture {
	t.Helper()

	config.Cfg = &config.Config{
		Storage: config.StorageConfig{
			StagingBucket: "forreceiving",
			ArchiveBucket: "storeassignments",
		},
		Link: config.LinkConfig{TTLSeconds: 3600},
		Mail: config.MailConfig{Sender: "info@caa900.store", Subject: "Assignment Grading Report"},
	}

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("无法打开内存数据库: %v", err)
	}
	database.DB = db
	if err := ledger.PrimeDB(); err != nil {
		t.Fatalf("ledger.PrimeDB() error: %v", err)
	}

	f := &relayFixture{
		store:    storage.NewMemoryStore("http://localhost:8080"),
		registry: links.NewMemoryRegistry(),
		mail:     mailer.NewMemoryMailer(),
	}
	storage.Store = f.store
	links.Active = f.registry
	mailer.Dispatcher = f.mail
	return f
}

func stagedMetadata() map[string]string {
	return map[string]string{
		"x-amz-meta-student-name":    "Ada Lovelace",
		"x-amz-meta-student-email":   "ada@example.edu",
		"x-amz-meta-professor-email": "prof@example.edu",
		"x-amz-meta-course-code":     "CS900",
	}
}

func TestRelocateHappyPath(t *testing.T) {
	f := setupRelayTest(t)
	ctx := context.Background()

	if err := f.store.Put(ctx, "forreceiving", "msg-1/report.docx", []byte("DOCX-CONTENT"), stagedMetadata()); err != nil {
		t.Fatalf("Put() error: %v", err)
	}

	outcome, err := Relocate(ctx, "forreceiving", "msg-1/report.docx")
	if err != nil {
		t.Fatalf("Relocate() error: %v", err)
	}

	// 标识符是10位字母数字加.docx
	if len(outcome.Identifier) != 15 || !strings.HasSuffix(outcome.Identifier, ".docx") {
		t.Errorf("Identifier = %q, want 10 alphanumerics + .docx", outcome.Identifier)
	}

	// 归档对象存在且剥离了元数据
	body, err := f.store.Get(ctx, "storeassignments", outcome.Identifier)
	if err != nil {
		t.Fatalf("archive Get() error: %v", err)
	}
	if string(body) != "DOCX-CONTENT" {
		t.Errorf("archive body = %q", body)
	}
	meta, err := f.store.HeadMetadata(ctx, "storeassignments", outcome.Identifier)
	if err != nil {
		t.Fatalf("archive HeadMetadata() error: %v", err)
	}
	if len(meta) != 0 {
		t.Errorf("archive metadata = %v, want stripped", meta)
	}

	// 台账记录了规范化的字段
	records, err := ledger.ScanAll()
	if err != nil {
		t.Fatalf("ScanAll() error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("ledger has %d records, want 1", len(records))
	}
	record := records[0]
	if record.Identifier != outcome.Identifier {
		t.Errorf("ledger identifier = %q, want %q", record.Identifier, outcome.Identifier)
	}
	if record.StudentName != "Ada Lovelace" || record.CourseCode != "CS900" {
		t.Errorf("ledger fields = %+v", record)
	}

	// 通知发给了恰好两位收件人
	sent := f.mail.Sent()
	if len(sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(sent))
	}
	if len(sent[0].To) != 2 || sent[0].To[0] != "ada@example.edu" || sent[0].To[1] != "prof@example.edu" {
		t.Errorf("To = %v", sent[0].To)
	}
	if !outcome.Notified || outcome.MessageID == "" {
		t.Errorf("outcome = %+v, want notified with message ID", outcome)
	}

	// 链接已登记且有效
	if active, _ := f.registry.IsActive(outcome.Identifier); !active {
		t.Error("link not active in registry")
	}
	if f.registry.URL(outcome.Identifier) != outcome.DownloadURL {
		t.Error("registry URL does not match outcome URL")
	}

	// 暂存对象已被消费
	if _, err := f.store.Get(ctx, "forreceiving", "msg-1/report.docx"); !errors.Is(err, storage.ErrObjectNotFound) {
		t.Errorf("staged object still present: %v", err)
	}
}

func TestRelocateMissingProfessorEmail(t *testing.T) {
	f := setupRelayTest(t)
	ctx := context.Background()

	meta := stagedMetadata()
	delete(meta, "x-amz-meta-professor-email")
	if err := f.store.Put(ctx, "forreceiving", "msg-2/report.docx", []byte("x"), meta); err != nil {
		t.Fatalf("Put() error: %v", err)
	}
	putsBefore := f.store.PutCalls

	_, err := Relocate(ctx, "forreceiving", "msg-2/report.docx")
	var vErr *metadata.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("error = %v, want *ValidationError", err)
	}
	if len(vErr.Missing) != 1 || vErr.Missing[0] != "professor-email" {
		t.Errorf("Missing = %v, want [professor-email]", vErr.Missing)
	}

	// 校验失败必须发生在一切写入之前
	if f.store.PutCalls != putsBefore {
		t.Errorf("archive put happened despite validation failure")
	}
	records, _ := ledger.ScanAll()
	if len(records) != 0 {
		t.Errorf("ledger has %d records, want 0", len(records))
	}
	if len(f.mail.Sent()) != 0 {
		t.Errorf("notification sent despite validation failure")
	}
	if f.registry.RegisterCalls != 0 {
		t.Errorf("link registered despite validation failure")
	}
}

func TestRelocateMissingSourceObject(t *testing.T) {
	f := setupRelayTest(t)

	_, err := Relocate(context.Background(), "forreceiving", "missing.docx")
	if !errors.Is(err, storage.ErrObjectNotFound) {
		t.Fatalf("error = %v, want ErrObjectNotFound", err)
	}

	var depErr *DependencyError
	if errors.As(err, &depErr) {
		t.Error("not-found must stay distinct from DependencyError")
	}
	if f.store.PutCalls != 0 {
		t.Errorf("writes happened for a missing source object")
	}
	records, _ := ledger.ScanAll()
	if len(records) != 0 {
		t.Errorf("ledger has %d records, want 0", len(records))
	}
}

func TestRelocateNotifyFailureIsFailOpen(t *testing.T) {
	f := setupRelayTest(t)
	ctx := context.Background()

	if err := f.store.Put(ctx, "forreceiving", "msg-3/report.docx", []byte("x"), stagedMetadata()); err != nil {
		t.Fatalf("Put() error: %v", err)
	}
	f.mail.FailNext = true

	outcome, err := Relocate(ctx, "forreceiving", "msg-3/report.docx")
	if err != nil {
		t.Fatalf("Relocate() error: %v, notification failure must not fail the pipeline", err)
	}
	if outcome.Notified {
		t.Error("outcome.Notified = true, want false")
	}

	// 归档和台账照常完成
	if _, err := f.store.Get(ctx, "storeassignments", outcome.Identifier); err != nil {
		t.Errorf("archive object missing: %v", err)
	}
	records, _ := ledger.ScanAll()
	if len(records) != 1 {
		t.Errorf("ledger has %d records, want 1", len(records))
	}
}
