package http

import (
	"strings"
	"testing"
)

func TestSanitizeBodyRedactsPasswords(t *testing.T) {
	body := []byte(`{"email":"user@example.com","password":"hunter2","profile":{"old_password":"x"}}`)
	result := sanitizeBody(body, "application/json")

	m, ok := result.(map[string]interface{})
	if !ok {
		t.Fatalf("expected map result, got %T", result)
	}
	if m["password"] != "redacted" {
		t.Fatalf("expected password to be redacted, got %v", m["password"])
	}
	nested, ok := m["profile"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected nested map, got %T", m["profile"])
	}
	if nested["old_password"] != "redacted" {
		t.Fatalf("expected nested password to be redacted, got %v", nested["old_password"])
	}
	if m["email"] != "user@example.com" {
		t.Fatalf("expected email untouched, got %v", m["email"])
	}
}

func TestSanitizeBodyFormEncoded(t *testing.T) {
	body := []byte("email=user%40example.com&password=hunter2")
	result := sanitizeBody(body, "application/x-www-form-urlencoded")

	m, ok := result.(map[string]interface{})
	if !ok {
		t.Fatalf("expected map result, got %T", result)
	}
	if m["password"] != "redacted" {
		t.Fatalf("expected password to be redacted, got %v", m["password"])
	}
}

func TestSanitizeBodyBinary(t *testing.T) {
	result := sanitizeBody([]byte{0xff, 0xfe, 0x00, 0x01}, "application/octet-stream")
	if result != "binary" {
		t.Fatalf("expected binary marker, got %v", result)
	}
}

func TestSanitizeBodyTruncatesLongText(t *testing.T) {
	long := strings.Repeat("a", maxLoggedBody+100)
	result := sanitizeBody([]byte(long), "text/plain")

	s, ok := result.(string)
	if !ok {
		t.Fatalf("expected string result, got %T", result)
	}
	if !strings.HasSuffix(s, "...(truncated)") {
		t.Fatalf("expected truncation suffix")
	}
}

func TestSanitizeBodyEmpty(t *testing.T) {
	if result := sanitizeBody(nil, "application/json"); result != nil {
		t.Fatalf("expected nil for empty body, got %v", result)
	}
}
