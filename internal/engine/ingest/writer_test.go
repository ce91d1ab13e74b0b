package ingest

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"adpulse/internal/platform/models"
)

type mockOrderStore struct {
	orders []*models.Order
	err    error
}

func (m *mockOrderStore) Create(order *models.Order) error {
	if m.err != nil {
		return m.err
	}
	m.orders = append(m.orders, order)
	return nil
}

type mockLogStore struct {
	entries []*models.WebhookLog
}

func (m *mockLogStore) Create(entry *models.WebhookLog) error {
	m.entries = append(m.entries, entry)
	return nil
}

func TestWriterSuccess(t *testing.T) {
	orders := &mockOrderStore{}
	logs := &mockLogStore{}
	writer := NewWriter(orders, NewAuditor(logs))

	audit := &AuditRecord{
		AccountID:  "acc_1",
		Method:     "POST",
		URL:        "/ticto-webhook?account=main",
		StatusCode: 200,
		Request:    []byte(`{"ok": true}`),
	}

	id, err := writer.Write(&models.Order{Vendor: "ticto", OrderRef: "h1"}, audit)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.HasPrefix(id, "ord_") {
		t.Errorf("Expected ord_ prefix, got %s", id)
	}

	if len(orders.orders) != 1 {
		t.Fatalf("Expected 1 order, got %d", len(orders.orders))
	}
	if orders.orders[0].ID != id || orders.orders[0].CreatedAt == 0 {
		t.Error("Writer must assign id and created_at")
	}

	if len(logs.entries) != 1 {
		t.Fatalf("Expected 1 audit row, got %d", len(logs.entries))
	}
	entry := logs.entries[0]
	if entry.StatusCode != 200 {
		t.Errorf("Expected audit status 200, got %d", entry.StatusCode)
	}
	if entry.AccountID == nil || *entry.AccountID != "acc_1" {
		t.Errorf("Expected audit account acc_1, got %v", entry.AccountID)
	}
	if !strings.HasPrefix(entry.ID, "wlog_") {
		t.Errorf("Expected wlog_ prefix, got %s", entry.ID)
	}
}

func TestWriterKeepsPresetID(t *testing.T) {
	orders := &mockOrderStore{}
	logs := &mockLogStore{}
	writer := NewWriter(orders, NewAuditor(logs))

	audit := &AuditRecord{Method: "POST", URL: "/cartpanda-webhook", StatusCode: 200, Request: []byte(`{}`)}

	// Callers that embed the order id in the response body assign it before
	// the write; the writer must not replace it.
	id, err := writer.Write(&models.Order{ID: "ord_preset", Vendor: "cartpanda", OrderRef: "55"}, audit)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if id != "ord_preset" {
		t.Errorf("Expected ord_preset, got %s", id)
	}
}

func TestWriterInsertFailure(t *testing.T) {
	orders := &mockOrderStore{err: errors.New("disk full")}
	logs := &mockLogStore{}
	writer := NewWriter(orders, NewAuditor(logs))

	audit := &AuditRecord{
		Method:     "POST",
		URL:        "/cartpanda-webhook",
		StatusCode: 200,
		Request:    []byte(`{}`),
	}

	_, err := writer.Write(&models.Order{Vendor: "cartpanda", OrderRef: "55"}, audit)
	var perErr *PersistenceError
	if !errors.As(err, &perErr) {
		t.Fatalf("Expected persistence error, got %v", err)
	}

	// The failure still leaves an audit row, re-flavored as a 500.
	if len(logs.entries) != 1 {
		t.Fatalf("Expected 1 audit row, got %d", len(logs.entries))
	}
	if logs.entries[0].StatusCode != 500 {
		t.Errorf("Expected audit status 500, got %d", logs.entries[0].StatusCode)
	}
}

func TestAuditorMalformedBody(t *testing.T) {
	logs := &mockLogStore{}
	auditor := NewAuditor(logs)

	auditor.Record(&AuditRecord{
		Method:     "POST",
		URL:        "/ticto-webhook",
		StatusCode: 400,
		Request:    []byte(`{broken`),
		Response:   map[string]string{"error": "invalid JSON payload"},
	})

	if len(logs.entries) != 1 {
		t.Fatalf("Expected 1 audit row, got %d", len(logs.entries))
	}

	var payload map[string]interface{}
	if err := json.Unmarshal([]byte(logs.entries[0].Payload), &payload); err != nil {
		t.Fatalf("Audit payload must be valid JSON: %v", err)
	}
	if payload["request"] != "{broken" {
		t.Errorf("Expected raw body preserved as string, got %v", payload["request"])
	}
}
