package ingest

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/SlpAus/grade-relay-backend/internal/platform/config"
	"github.com/SlpAus/grade-relay-backend/internal/platform/storage"
	"github.com/SlpAus/grade-relay-backend/pkg/token"
)

func TestMain(m *testing.M) {
	token.GenerateSecretKey()
	m.Run()
}

func setupIngestTest(t *testing.T) *storage.MemoryStore {
	t.Helper()
	config.Cfg = &config.Config{
		Storage: config.StorageConfig{
			InboundBucket: "originemail",
			StagingBucket: "forreceiving",
		},
	}
	store := storage.NewMemoryStore("http://localhost:8080")
	storage.Store = store
	return store
}

func crlf(s string) string {
	return strings.ReplaceAll(s, "\n", "\r\n")
}

// gradedEmail 是一封带正文元数据和一个docx附件的多部分邮件。
var gradedEmail = crlf(`From: grader@example.edu
To: relay@caa900.store
Subject: Graded assignment
MIME-Version: 1.0
Content-Type: multipart/mixed; boundary="BOUNDARY"

--BOUNDARY
Content-Type: text/plain; charset=utf-8

Student Name: Ada Lovelace
Student Email: ada@example.edu
Professor Email: prof@example.edu
Course Code: CS900

--BOUNDARY
Content-Type: application/octet-stream
Content-Disposition: attachment; filename="report.docx"
Content-Transfer-Encoding: base64

RE9DWC1DT05URU5U
--BOUNDARY--
`)

// plainEmail 没有任何附件。
var plainEmail = crlf(`From: grader@example.edu
To: relay@caa900.store
Subject: No attachment here
MIME-Version: 1.0
Content-Type: text/plain; charset=utf-8

Just checking in.
`)

func TestDecomposeEmailStagesAttachmentWithMetadata(t *testing.T) {
	store := setupIngestTest(t)
	ctx := context.Background()

	if err := store.Put(ctx, "originemail", "msg-1", []byte(gradedEmail), nil); err != nil {
		t.Fatalf("Put() error: %v", err)
	}

	result, err := DecomposeEmail(ctx, "originemail", "msg-1")
	if err != nil {
		t.Fatalf("DecomposeEmail() error: %v", err)
	}
	if len(result.Staged) != 1 {
		t.Fatalf("staged %d objects, want 1", len(result.Staged))
	}

	stagedKey := result.Staged[0]
	if !strings.HasSuffix(stagedKey, "/report.docx") {
		t.Errorf("staged key = %q, want */report.docx", stagedKey)
	}

	body, err := store.Get(ctx, "forreceiving", stagedKey)
	if err != nil {
		t.Fatalf("Get(staged) error: %v", err)
	}
	if string(body) != "DOCX-CONTENT" {
		t.Errorf("staged body = %q, want decoded DOCX-CONTENT", body)
	}

	meta, err := store.HeadMetadata(ctx, "forreceiving", stagedKey)
	if err != nil {
		t.Fatalf("HeadMetadata(staged) error: %v", err)
	}
	wantMeta := map[string]string{
		"Student-Name":    "Ada Lovelace",
		"Student-Email":   "ada@example.edu",
		"Professor-Email": "prof@example.edu",
		"Course-Code":     "CS900",
	}
	for k, v := range wantMeta {
		if meta[k] != v {
			t.Errorf("metadata[%s] = %q, want %q", k, meta[k], v)
		}
	}
}

func TestDecomposeEmailZeroAttachments(t *testing.T) {
	store := setupIngestTest(t)
	ctx := context.Background()

	if err := store.Put(ctx, "originemail", "msg-2", []byte(plainEmail), nil); err != nil {
		t.Fatalf("Put() error: %v", err)
	}
	putsBefore := store.PutCalls

	// 两次运行都应成功产出零个暂存对象
	for i := 0; i < 2; i++ {
		result, err := DecomposeEmail(ctx, "originemail", "msg-2")
		if err != nil {
			t.Fatalf("DecomposeEmail() run %d error: %v", i, err)
		}
		if len(result.Staged) != 0 {
			t.Errorf("run %d staged %d objects, want 0", i, len(result.Staged))
		}
	}
	if store.PutCalls != putsBefore {
		t.Errorf("PutCalls = %d, want unchanged %d", store.PutCalls, putsBefore)
	}
}

func TestDecomposeEmailMissingObject(t *testing.T) {
	setupIngestTest(t)

	_, err := DecomposeEmail(context.Background(), "originemail", "missing")
	if !errors.Is(err, storage.ErrObjectNotFound) {
		t.Errorf("error = %v, want ErrObjectNotFound", err)
	}
}

func TestDecomposeEmailDegenerateInputIsLenient(t *testing.T) {
	store := setupIngestTest(t)
	ctx := context.Background()

	// enmime对退化输入非常宽容：空对象和纯乱码都被解析成一封
	// 没有正文、没有附件的邮件，并记为解析缺陷而不是错误。
	// 分解流程据此正常结束，不产出任何暂存对象。
	inputs := map[string][]byte{
		"msg-3": nil,
		"msg-4": []byte("\x00\x01\x02 not a mime message"),
	}
	for key, raw := range inputs {
		if err := store.Put(ctx, "originemail", key, raw, nil); err != nil {
			t.Fatalf("Put(%s) error: %v", key, err)
		}
	}
	putsBefore := store.PutCalls

	for key := range inputs {
		result, err := DecomposeEmail(ctx, "originemail", key)
		if err != nil {
			t.Fatalf("DecomposeEmail(%s) error: %v", key, err)
		}
		if len(result.Staged) != 0 {
			t.Errorf("DecomposeEmail(%s) staged %d objects, want 0", key, len(result.Staged))
		}
	}
	if store.PutCalls != putsBefore {
		t.Errorf("PutCalls = %d, want unchanged %d", store.PutCalls, putsBefore)
	}
}
