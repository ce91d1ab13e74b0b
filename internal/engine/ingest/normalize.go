package ingest

import (
	"encoding/json"
	"fmt"
	"strings"

	"adpulse/internal/platform/models"
)

// Normalize maps a vendor-specific JSON body into the canonical order shape.
// It is pure and deterministic: the same raw bytes always produce the same
// order. Only structurally required fields (order reference, status) fail
// normalization; every optional field falls back to its zero value.
//
// The caller owns identity: ID, AccountID and CreatedAt are left unset.
func Normalize(vendor string, raw []byte) (*models.Order, error) {
	if !json.Valid(raw) {
		return nil, ErrInvalidJSON
	}

	switch vendor {
	case VendorTicto:
		return normalizeTicto(raw)
	case VendorCartPanda:
		return normalizeCartPanda(raw)
	default:
		return nil, &ValidationError{Msg: fmt.Sprintf("unknown vendor: %s", vendor)}
	}
}

func normalizeTicto(raw []byte) (*models.Order, error) {
	var p tictoPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, ErrInvalidJSON
	}

	if p.Body.Order.Hash == "" {
		return nil, missingField("order.hash")
	}
	if p.Body.Status == "" {
		return nil, missingField("status")
	}

	order := &models.Order{
		Vendor:        VendorTicto,
		OrderRef:      string(p.Body.Order.Hash),
		Status:        p.Body.Status,
		PaymentStatus: p.Body.Status,
		PaymentMethod: p.Body.PaymentMethod,
		TotalAmount:   float64(p.Body.Order.PaidAmount),
		Currency:      "BRL",
		Installments:  int(p.Body.Order.Installments),
		ProductID:     string(p.Body.Item.ProductID),
		ProductName:   p.Body.Item.ProductName,
		OfferID:       string(p.Body.Item.OfferID),
		OfferName:     p.Body.Item.OfferName,
		CustomerName:  p.Body.Customer.Name,
		CustomerEmail: p.Body.Customer.Email,
		CustomerPhone: joinPhone(string(p.Body.Customer.Phone.DDI), string(p.Body.Customer.Phone.DDD), string(p.Body.Customer.Phone.Number)),
		RawPayload:    string(raw),
	}

	if p.Body.Customer.CPF != "" {
		doc := string(p.Body.Customer.CPF)
		order.CustomerDocument = &doc
	}

	return order, nil
}

func normalizeCartPanda(raw []byte) (*models.Order, error) {
	var p cartPandaPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, ErrInvalidJSON
	}

	if p.Order.ID == "" {
		return nil, missingField("order.id")
	}

	status := string(p.Order.FinancialStatus)
	if status == "" {
		// Some event types omit financial_status; the event name
		// carries the state as "order.<state>".
		if i := strings.LastIndex(p.Event, "."); i >= 0 && i < len(p.Event)-1 {
			status = p.Event[i+1:]
		}
	}
	if status == "" {
		return nil, missingField("order.financial_status")
	}

	currency := p.Order.Currency
	if currency == "" {
		currency = "BRL"
	}

	email := p.Order.Customer.Email
	if email == "" {
		email = p.Order.Email
	}

	order := &models.Order{
		Vendor:        VendorCartPanda,
		OrderRef:      string(p.Order.ID),
		Status:        status,
		PaymentStatus: status,
		PaymentMethod: string(p.Order.Payment.PaymentType),
		TotalAmount:   float64(p.Order.TotalPrice),
		Currency:      currency,
		Installments:  int(p.Order.Payment.Installments),
		CustomerName:  strings.TrimSpace(p.Order.Customer.FirstName + " " + p.Order.Customer.LastName),
		CustomerEmail: email,
		CustomerPhone: string(p.Order.Phone),
		RawPayload:    string(raw),
	}

	if len(p.Order.LineItems) > 0 {
		order.ProductID = string(p.Order.LineItems[0].ProductID)
		order.ProductName = p.Order.LineItems[0].Title
	}

	if p.Order.Customer.CPF != "" {
		doc := string(p.Order.Customer.CPF)
		order.CustomerDocument = &doc
	}

	return order, nil
}

// joinPhone concatenates the country/area/subscriber triplet into a single
// string. An entirely absent phone yields "".
func joinPhone(ddi, ddd, number string) string {
	return ddi + ddd + number
}
