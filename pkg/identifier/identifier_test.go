package identifier

import (
	"regexp"
	"strings"
	"testing"
)

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9]{10}\.docx$`)

func TestNewDocumentKeyFormat(t *testing.T) {
	for i := 0; i < 100; i++ {
		key, err := NewDocumentKey()
		if err != nil {
			t.Fatalf("NewDocumentKey() error: %v", err)
		}
		if !keyPattern.MatchString(key) {
			t.Fatalf("key %q does not match expected format", key)
		}
		if len(key) != KeyLength+len(Extension) {
			t.Fatalf("key %q has length %d, want %d", key, len(key), KeyLength+len(Extension))
		}
	}
}

func TestNewDocumentKeyUniqueness(t *testing.T) {
	const samples = 10000
	seen := make(map[string]struct{}, samples)
	for i := 0; i < samples; i++ {
		key, err := NewDocumentKey()
		if err != nil {
			t.Fatalf("NewDocumentKey() error: %v", err)
		}
		if _, dup := seen[key]; dup {
			t.Fatalf("duplicate key %q after %d samples", key, i)
		}
		seen[key] = struct{}{}
	}
}

func TestNewDocumentKeyUsesFullAlphabet(t *testing.T) {
	// 在足够多的样本上，大小写字母和数字都应该出现过。
	var joined strings.Builder
	for i := 0; i < 200; i++ {
		key, err := NewDocumentKey()
		if err != nil {
			t.Fatalf("NewDocumentKey() error: %v", err)
		}
		joined.WriteString(strings.TrimSuffix(key, Extension))
	}
	got := joined.String()
	if !strings.ContainsAny(got, "abcdefghijklmnopqrstuvwxyz") {
		t.Error("no lowercase letters observed")
	}
	if !strings.ContainsAny(got, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		t.Error("no uppercase letters observed")
	}
	if !strings.ContainsAny(got, "0123456789") {
		t.Error("no digits observed")
	}
}
