package ingest

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"adpulse/internal/platform/models"
)

type OrderStore interface {
	Create(order *models.Order) error
}

type LogStore interface {
	Create(entry *models.WebhookLog) error
}

// AuditRecord captures one inbound webhook call for the append-only log.
// Response holds either the success body or the error detail.
type AuditRecord struct {
	AccountID  string
	Method     string
	URL        string
	StatusCode int
	Headers    map[string]string
	Request    []byte
	Response   interface{}
}

// Auditor appends webhook audit rows. Writes are best-effort: a failed
// audit insert is logged and swallowed so it never masks the request
// outcome.
type Auditor struct {
	logs LogStore
}

func NewAuditor(logs LogStore) *Auditor {
	return &Auditor{logs: logs}
}

func (a *Auditor) Record(rec *AuditRecord) {
	// A malformed body still has to land in the audit trail; keep it as a
	// plain string when it is not valid JSON.
	var request interface{}
	if json.Valid(rec.Request) {
		request = json.RawMessage(rec.Request)
	} else {
		request = string(rec.Request)
	}

	payload, err := json.Marshal(map[string]interface{}{
		"headers":  rec.Headers,
		"request":  request,
		"response": rec.Response,
	})
	if err != nil {
		payload = []byte("{}")
	}

	entry := &models.WebhookLog{
		ID:         "wlog_" + uuid.NewString(),
		Method:     rec.Method,
		URL:        rec.URL,
		StatusCode: rec.StatusCode,
		Payload:    string(payload),
		CreatedAt:  time.Now().Unix(),
	}
	if rec.AccountID != "" {
		entry.AccountID = &rec.AccountID
	}

	if err := a.logs.Create(entry); err != nil {
		log.Error().Err(err).Str("url", rec.URL).Msg("failed to write webhook audit log")
	}
}

// Writer persists a canonical order and its audit trail.
type Writer struct {
	orders  OrderStore
	auditor *Auditor
}

func NewWriter(orders OrderStore, auditor *Auditor) *Writer {
	return &Writer{orders: orders, auditor: auditor}
}

// Write inserts the order row and then appends the audit entry. The two are
// deliberately not transactional: only the order insert can fail the
// request. On insert failure an error-flavored audit row is still recorded.
// An order arriving without an ID gets one assigned; callers that need the
// ID in their response body set it up front.
func (w *Writer) Write(order *models.Order, audit *AuditRecord) (string, error) {
	if order.ID == "" {
		order.ID = "ord_" + uuid.NewString()
	}
	order.CreatedAt = time.Now().Unix()

	if err := w.orders.Create(order); err != nil {
		perr := &PersistenceError{Op: "order insert", Err: err}
		audit.StatusCode = 500
		audit.Response = map[string]string{"error": perr.Error()}
		w.auditor.Record(audit)
		return "", perr
	}

	w.auditor.Record(audit)
	return order.ID, nil
}
