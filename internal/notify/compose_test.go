package notify

import (
	"strings"
	"testing"

	"github.com/SlpAus/grade-relay-backend/internal/metadata"
	"github.com/SlpAus/grade-relay-backend/internal/platform/config"
	"github.com/SlpAus/grade-relay-backend/internal/platform/mailer"
)

func sampleMetadata() metadata.GradingMetadata {
	return metadata.GradingMetadata{
		StudentName:    "Ada Lovelace",
		StudentNumber:  "123456",
		StudentEmail:   "ada@example.edu",
		CourseCode:     "CS900",
		Assignment:     "Final Report",
		SectionNumber:  "2",
		ProfessorName:  "Grace Hopper",
		ProfessorEmail: "prof@example.edu",
		OverallGrade:   "A+",
	}
}

func TestComposeBothRenderingsCarryAllFields(t *testing.T) {
	m := sampleMetadata()
	const url = "http://localhost:8080/files/tok"

	text := composeText(m, "aB3xY9kQz0.docx", url)
	htmlBody := composeHTML(m, "aB3xY9kQz0.docx", url)

	wanted := []string{
		"Ada Lovelace", "123456", "ada@example.edu", "CS900", "Final Report",
		"A+", "2", "Grace Hopper", "prof@example.edu", "aB3xY9kQz0.docx", url,
	}
	for _, w := range wanted {
		if !strings.Contains(text, w) {
			t.Errorf("text rendering missing %q", w)
		}
		if !strings.Contains(htmlBody, w) {
			t.Errorf("html rendering missing %q", w)
		}
	}
	if !strings.Contains(htmlBody, "<table") {
		t.Error("html rendering has no table")
	}
}

func TestComposeHTMLEscapesValues(t *testing.T) {
	m := sampleMetadata()
	m.StudentName = "<script>alert(1)</script>"
	htmlBody := composeHTML(m, "k.docx", "http://x/files/t")
	if strings.Contains(htmlBody, "<script>") {
		t.Error("html rendering does not escape field values")
	}
}

func TestSendReportRecipients(t *testing.T) {
	config.Cfg = &config.Config{
		Mail: config.MailConfig{Sender: "info@caa900.store", Subject: "Assignment Grading Report"},
	}
	fake := mailer.NewMemoryMailer()
	mailer.Dispatcher = fake

	id, err := SendReport(sampleMetadata(), "aB3xY9kQz0.docx", "http://x/files/t")
	if err != nil {
		t.Fatalf("SendReport() error: %v", err)
	}
	if id == "" {
		t.Error("SendReport() returned empty message ID")
	}

	sent := fake.Sent()
	if len(sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(sent))
	}
	msg := sent[0]
	if msg.From != "info@caa900.store" {
		t.Errorf("From = %q", msg.From)
	}
	if len(msg.To) != 2 || msg.To[0] != "ada@example.edu" || msg.To[1] != "prof@example.edu" {
		t.Errorf("To = %v, want [ada@example.edu prof@example.edu]", msg.To)
	}
	if msg.TextBody == "" || msg.HTMLBody == "" {
		t.Error("message is missing one of the two renderings")
	}
}
