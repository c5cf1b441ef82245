package handlers

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"example.com/safetospend/backend/internal/models"
	"example.com/safetospend/backend/internal/safetospend"
)

// TestWriteExpensesCSV проверяет формат выгрузки трат.
func TestWriteExpensesCSV(t *testing.T) {
	category := "groceries"
	expense := models.Expense{
		ID:          uuid.New(),
		AmountCents: 1250,
		Date:        time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
		Category:    &category,
		CreatedAt:   time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC),
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writeExpensesCSV(writer, []models.Expense{expense}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	writer.Flush()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header and one record, got %d lines", len(lines))
	}

	if lines[0] != "id,amount_cents,date,category,note,created_at" {
		t.Fatalf("unexpected header: %s", lines[0])
	}

	record := strings.Split(lines[1], ",")
	if record[1] != "1250" {
		t.Fatalf("unexpected amount: %s", record[1])
	}
	if record[3] != "groceries" {
		t.Fatalf("unexpected category: %s", record[3])
	}
	if record[4] != "" {
		t.Fatalf("expected empty note, got %s", record[4])
	}
}

// TestWriteBillsCSV проверяет формат выгрузки счетов.
func TestWriteBillsCSV(t *testing.T) {
	dueDay := 15
	bill := models.Bill{
		ID:            uuid.New(),
		Name:          "Rent",
		AmountCents:   120000,
		Cadence:       safetospend.CadenceMonthly,
		DueDayOfMonth: &dueDay,
		Active:        true,
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writeBillsCSV(writer, []models.Bill{bill}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	writer.Flush()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header and one record, got %d lines", len(lines))
	}

	record := strings.Split(lines[1], ",")
	if record[3] != "MONTHLY" {
		t.Fatalf("unexpected cadence: %s", record[3])
	}
	if record[4] != "15" {
		t.Fatalf("unexpected due day: %s", record[4])
	}
	if record[5] != "" {
		t.Fatalf("expected empty next due date, got %s", record[5])
	}
	if record[6] != "true" {
		t.Fatalf("unexpected active flag: %s", record[6])
	}
}
