package handlers

import "testing"

// TestParseDateKeyValid проверяет корректный разбор календарной даты.
func TestParseDateKeyValid(t *testing.T) {
	parsed, err := parseDateKey("2025-02-14")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if got := parsed.Format(dateLayout); got != "2025-02-14" {
		t.Fatalf("unexpected date: %s", got)
	}
}

// TestParseDateKeyInvalid проверяет ошибки при неверном формате даты.
func TestParseDateKeyInvalid(t *testing.T) {
	if _, err := parseDateKey("2025/02/14"); err == nil {
		t.Fatal("expected error for wrong separator")
	}

	if _, err := parseDateKey("14-02-2025"); err == nil {
		t.Fatal("expected error for wrong field order")
	}

	if _, err := parseDateKey(""); err == nil {
		t.Fatal("expected error for empty value")
	}
}

// TestParseDateKeyTrimsSpace проверяет, что пробелы по краям не мешают разбору.
func TestParseDateKeyTrimsSpace(t *testing.T) {
	parsed, err := parseDateKey("  2025-02-14 ")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if got := parsed.Format(dateLayout); got != "2025-02-14" {
		t.Fatalf("unexpected date: %s", got)
	}
}
