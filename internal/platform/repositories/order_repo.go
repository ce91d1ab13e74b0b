package repositories

import (
	"database/sql"
	"fmt"
	"strings"

	"adpulse/internal/platform/models"
)

type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(order *models.Order) error {
	_, err := r.db.Exec(`
		INSERT INTO orders (
			id, vendor, account_id, order_ref, status, payment_status, payment_method,
			total_amount, currency, installments, product_id, product_name, offer_id,
			offer_name, customer_name, customer_email, customer_phone, customer_document,
			created_at, raw_payload
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		order.ID, order.Vendor, order.AccountID, order.OrderRef, order.Status,
		order.PaymentStatus, order.PaymentMethod, order.TotalAmount, order.Currency,
		order.Installments, order.ProductID, order.ProductName, order.OfferID,
		order.OfferName, order.CustomerName, order.CustomerEmail, order.CustomerPhone,
		order.CustomerDocument, order.CreatedAt, order.RawPayload,
	)
	return err
}

func (r *OrderRepository) GetByID(id string) (*models.Order, error) {
	row := r.db.QueryRow(`
		SELECT id, vendor, account_id, order_ref, status, payment_status, payment_method,
			total_amount, currency, installments, product_id, product_name, offer_id,
			offer_name, customer_name, customer_email, customer_phone, customer_document,
			created_at, raw_payload
		FROM orders WHERE id = ?
	`, id)

	order, err := scanOrder(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return order, nil
}

type OrderFilter struct {
	Vendor    string
	AccountID string
	Status    string
	Start     int64
	End       int64
	Limit     int
	Offset    int
}

func (r *OrderRepository) List(filter OrderFilter) ([]*models.Order, error) {
	where := []string{"1=1"}
	args := []interface{}{}

	if filter.Vendor != "" {
		where = append(where, "vendor = ?")
		args = append(args, filter.Vendor)
	}
	if filter.AccountID != "" {
		where = append(where, "account_id = ?")
		args = append(args, filter.AccountID)
	}
	if filter.Status != "" {
		where = append(where, "status = ?")
		args = append(args, filter.Status)
	}
	if filter.Start > 0 {
		where = append(where, "created_at >= ?")
		args = append(args, filter.Start)
	}
	if filter.End > 0 {
		where = append(where, "created_at <= ?")
		args = append(args, filter.End)
	}

	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	args = append(args, limit, filter.Offset)

	query := fmt.Sprintf(`
		SELECT id, vendor, account_id, order_ref, status, payment_status, payment_method,
			total_amount, currency, installments, product_id, product_name, offer_id,
			offer_name, customer_name, customer_email, customer_phone, customer_document,
			created_at, raw_payload
		FROM orders WHERE %s
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`, strings.Join(where, " AND "))

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(row rowScanner) (*models.Order, error) {
	order := &models.Order{}
	err := row.Scan(
		&order.ID, &order.Vendor, &order.AccountID, &order.OrderRef, &order.Status,
		&order.PaymentStatus, &order.PaymentMethod, &order.TotalAmount, &order.Currency,
		&order.Installments, &order.ProductID, &order.ProductName, &order.OfferID,
		&order.OfferName, &order.CustomerName, &order.CustomerEmail, &order.CustomerPhone,
		&order.CustomerDocument, &order.CreatedAt, &order.RawPayload,
	)
	if err != nil {
		return nil, err
	}
	return order, nil
}
