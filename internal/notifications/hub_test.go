package notifications

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

// TestHubPublishSubscribe проверяет доставку событий подписчику.
func TestHubPublishSubscribe(t *testing.T) {
	hub := NewHub()
	userID := uuid.New()

	ch, unsubscribe := hub.Subscribe(userID)
	defer unsubscribe()

	hub.Publish(userID, Event{Type: "test"})

	select {
	case event := <-ch:
		if event.Type != "test" {
			t.Fatalf("expected event type test, got %s", event.Type)
		}
		if event.Timestamp.IsZero() {
			t.Fatal("expected timestamp to be set")
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatal("expected event to be delivered")
	}
}

// TestSummaryStaleEvent проверяет форму события об устаревшей сводке.
func TestSummaryStaleEvent(t *testing.T) {
	event := SummaryStale("bills_changed")

	if event.Type != "summary_stale" {
		t.Fatalf("unexpected type: %s", event.Type)
	}

	data, ok := event.Data.(map[string]interface{})
	if !ok || data["reason"] != "bills_changed" {
		t.Fatalf("unexpected data: %v", event.Data)
	}
}

// TestBillDueEvent проверяет форму напоминания о списании.
func TestBillDueEvent(t *testing.T) {
	billID := uuid.New()
	event := BillDue(billID, "Rent", 120000, "2025-04-01")

	if event.Type != "bill_due_soon" {
		t.Fatalf("unexpected type: %s", event.Type)
	}

	data, ok := event.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("unexpected data: %v", event.Data)
	}
	if data["bill_id"] != billID.String() || data["amount_cents"] != int64(120000) {
		t.Fatalf("unexpected payload: %v", data)
	}
}

// TestHubUnsubscribe проверяет закрытие канала после отписки.
func TestHubUnsubscribe(t *testing.T) {
	hub := NewHub()
	userID := uuid.New()

	ch, unsubscribe := hub.Subscribe(userID)
	unsubscribe()

	if _, ok := <-ch; ok {
		t.Fatal("expected channel to be closed")
	}
}
