package repositories

import (
	"database/sql"
	"time"

	"adpulse/internal/platform/models"
)

type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Create(account *models.Account) error {
	_, err := r.db.Exec(`
		INSERT INTO accounts (id, vendor, account_name, shared_secret, webhook_url, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, account.ID, account.Vendor, account.AccountName, account.SharedSecret, account.WebhookURL, account.IsActive, account.CreatedAt, account.UpdatedAt)
	return err
}

func (r *AccountRepository) GetByID(id string) (*models.Account, error) {
	account := &models.Account{}
	err := r.db.QueryRow(`
		SELECT id, vendor, account_name, shared_secret, webhook_url, is_active, created_at, updated_at
		FROM accounts WHERE id = ?
	`, id).Scan(&account.ID, &account.Vendor, &account.AccountName, &account.SharedSecret, &account.WebhookURL, &account.IsActive, &account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return account, nil
}

func (r *AccountRepository) GetByVendorAndName(vendor, name string) (*models.Account, error) {
	account := &models.Account{}
	err := r.db.QueryRow(`
		SELECT id, vendor, account_name, shared_secret, webhook_url, is_active, created_at, updated_at
		FROM accounts WHERE vendor = ? AND account_name = ?
	`, vendor, name).Scan(&account.ID, &account.Vendor, &account.AccountName, &account.SharedSecret, &account.WebhookURL, &account.IsActive, &account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return account, nil
}

func (r *AccountRepository) List() ([]*models.Account, error) {
	rows, err := r.db.Query(`
		SELECT id, vendor, account_name, shared_secret, webhook_url, is_active, created_at, updated_at
		FROM accounts ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []*models.Account
	for rows.Next() {
		account := &models.Account{}
		if err := rows.Scan(&account.ID, &account.Vendor, &account.AccountName, &account.SharedSecret, &account.WebhookURL, &account.IsActive, &account.CreatedAt, &account.UpdatedAt); err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}

func (r *AccountRepository) SetActive(id string, active bool) error {
	_, err := r.db.Exec(`UPDATE accounts SET is_active = ?, updated_at = ? WHERE id = ?`, active, time.Now().Unix(), id)
	return err
}

func (r *AccountRepository) Update(account *models.Account) error {
	account.UpdatedAt = time.Now().Unix()
	_, err := r.db.Exec(`
		UPDATE accounts SET account_name = ?, shared_secret = ?, webhook_url = ?, is_active = ?, updated_at = ?
		WHERE id = ?
	`, account.AccountName, account.SharedSecret, account.WebhookURL, account.IsActive, account.UpdatedAt, account.ID)
	return err
}

func (r *AccountRepository) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM accounts WHERE id = ?`, id)
	return err
}
