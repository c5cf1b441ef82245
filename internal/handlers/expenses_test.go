package handlers

import (
	"testing"
	"time"
)

// TestParseDateOrInstantDateKey проверяет разбор голой даты.
func TestParseDateOrInstantDateKey(t *testing.T) {
	parsed, err := parseDateOrInstant("2025-03-01")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if got := parsed.Format(dateLayout); got != "2025-03-01" {
		t.Fatalf("unexpected date: %s", got)
	}
}

// TestParseDateOrInstantRFC3339 проверяет разбор полного инстанта.
func TestParseDateOrInstantRFC3339(t *testing.T) {
	parsed, err := parseDateOrInstant("2025-03-01T15:04:05Z")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	expected := time.Date(2025, time.March, 1, 15, 4, 5, 0, time.UTC)
	if !parsed.Equal(expected) {
		t.Fatalf("unexpected instant: %s", parsed.Format(time.RFC3339))
	}
}

// TestParseDateOrInstantInvalid проверяет ошибку при нераспознанном значении.
func TestParseDateOrInstantInvalid(t *testing.T) {
	if _, err := parseDateOrInstant("yesterday"); err == nil {
		t.Fatal("expected error for unparseable value")
	}
}

// TestNormalizeLabel проверяет нормализацию необязательных меток.
func TestNormalizeLabel(t *testing.T) {
	if normalizeLabel(nil) != nil {
		t.Fatal("expected nil for nil input")
	}

	empty := "   "
	if normalizeLabel(&empty) != nil {
		t.Fatal("expected nil for blank input")
	}

	value := "  groceries "
	normalized := normalizeLabel(&value)
	if normalized == nil || *normalized != "groceries" {
		t.Fatalf("unexpected label: %v", normalized)
	}
}
