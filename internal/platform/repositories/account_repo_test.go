package repositories

import (
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"adpulse/internal/platform/database"
	"adpulse/internal/platform/models"
)

func setupTestDB(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	return db
}

func testAccount(id, vendor, name string) *models.Account {
	now := time.Now().Unix()
	return &models.Account{
		ID:           id,
		Vendor:       vendor,
		AccountName:  name,
		SharedSecret: "secret",
		WebhookURL:   "https://api.example.com/" + vendor + "-webhook",
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestAccountRepositoryCreateAndGet(t *testing.T) {
	repo := NewAccountRepository(setupTestDB(t))

	if err := repo.Create(testAccount("acc_1", "ticto", "main")); err != nil {
		t.Fatalf("Failed to create account: %v", err)
	}

	fetched, err := repo.GetByID("acc_1")
	if err != nil {
		t.Fatalf("Failed to get account: %v", err)
	}
	if fetched == nil || fetched.AccountName != "main" || !fetched.IsActive {
		t.Errorf("Unexpected account: %+v", fetched)
	}

	byName, err := repo.GetByVendorAndName("ticto", "main")
	if err != nil {
		t.Fatalf("Failed to get by vendor and name: %v", err)
	}
	if byName == nil || byName.ID != "acc_1" {
		t.Errorf("Unexpected account: %+v", byName)
	}
}

func TestAccountRepositoryGetMissing(t *testing.T) {
	repo := NewAccountRepository(setupTestDB(t))

	account, err := repo.GetByID("nope")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if account != nil {
		t.Errorf("Expected nil for missing account, got %+v", account)
	}
}

func TestAccountRepositoryUniqueVendorName(t *testing.T) {
	repo := NewAccountRepository(setupTestDB(t))

	if err := repo.Create(testAccount("acc_1", "ticto", "main")); err != nil {
		t.Fatalf("Failed to create account: %v", err)
	}
	if err := repo.Create(testAccount("acc_2", "ticto", "main")); err == nil {
		t.Error("Expected unique constraint violation")
	}
	// Same name under another vendor is fine.
	if err := repo.Create(testAccount("acc_3", "cartpanda", "main")); err != nil {
		t.Errorf("Unexpected error for different vendor: %v", err)
	}
}

func TestAccountRepositorySetActive(t *testing.T) {
	repo := NewAccountRepository(setupTestDB(t))

	if err := repo.Create(testAccount("acc_1", "ticto", "main")); err != nil {
		t.Fatalf("Failed to create account: %v", err)
	}
	if err := repo.SetActive("acc_1", false); err != nil {
		t.Fatalf("Failed to deactivate: %v", err)
	}

	fetched, err := repo.GetByID("acc_1")
	if err != nil {
		t.Fatalf("Failed to get account: %v", err)
	}
	if fetched.IsActive {
		t.Error("Expected account to be inactive")
	}
}

func TestOrderRepositoryListFilters(t *testing.T) {
	db := setupTestDB(t)
	accounts := NewAccountRepository(db)
	orders := NewOrderRepository(db)

	if err := accounts.Create(testAccount("acc_1", "ticto", "main")); err != nil {
		t.Fatalf("Failed to create account: %v", err)
	}

	seed := []*models.Order{
		{ID: "ord_1", Vendor: "ticto", AccountID: "acc_1", OrderRef: "r1", Status: "paid", CreatedAt: 100},
		{ID: "ord_2", Vendor: "ticto", AccountID: "acc_1", OrderRef: "r2", Status: "refunded", CreatedAt: 200},
		{ID: "ord_3", Vendor: "cartpanda", AccountID: "acc_1", OrderRef: "r3", Status: "paid", CreatedAt: 300},
	}
	for _, o := range seed {
		if err := orders.Create(o); err != nil {
			t.Fatalf("Failed to create order: %v", err)
		}
	}

	paid, err := orders.List(OrderFilter{Status: "paid"})
	if err != nil {
		t.Fatalf("Failed to list: %v", err)
	}
	if len(paid) != 2 {
		t.Errorf("Expected 2 paid orders, got %d", len(paid))
	}

	ticto, err := orders.List(OrderFilter{Vendor: "ticto", Status: "paid"})
	if err != nil {
		t.Fatalf("Failed to list: %v", err)
	}
	if len(ticto) != 1 || ticto[0].ID != "ord_1" {
		t.Errorf("Unexpected result: %+v", ticto)
	}

	windowed, err := orders.List(OrderFilter{Start: 150, End: 250})
	if err != nil {
		t.Fatalf("Failed to list: %v", err)
	}
	if len(windowed) != 1 || windowed[0].ID != "ord_2" {
		t.Errorf("Unexpected result: %+v", windowed)
	}

	// Newest first.
	all, err := orders.List(OrderFilter{})
	if err != nil {
		t.Fatalf("Failed to list: %v", err)
	}
	if len(all) != 3 || all[0].ID != "ord_3" {
		t.Errorf("Expected ord_3 first, got %+v", all)
	}
}

func TestOrderRepositoryCustomerDocument(t *testing.T) {
	db := setupTestDB(t)
	accounts := NewAccountRepository(db)
	orders := NewOrderRepository(db)

	if err := accounts.Create(testAccount("acc_1", "ticto", "main")); err != nil {
		t.Fatalf("Failed to create account: %v", err)
	}

	doc := "12345678900"
	withDoc := &models.Order{ID: "ord_1", Vendor: "ticto", AccountID: "acc_1", OrderRef: "r1", Status: "paid", CustomerDocument: &doc, CreatedAt: 100}
	withoutDoc := &models.Order{ID: "ord_2", Vendor: "ticto", AccountID: "acc_1", OrderRef: "r2", Status: "paid", CreatedAt: 200}

	for _, o := range []*models.Order{withDoc, withoutDoc} {
		if err := orders.Create(o); err != nil {
			t.Fatalf("Failed to create order: %v", err)
		}
	}

	got, err := orders.GetByID("ord_1")
	if err != nil {
		t.Fatalf("Failed to get order: %v", err)
	}
	if got.CustomerDocument == nil || *got.CustomerDocument != doc {
		t.Errorf("Expected document %s, got %v", doc, got.CustomerDocument)
	}

	got, err = orders.GetByID("ord_2")
	if err != nil {
		t.Fatalf("Failed to get order: %v", err)
	}
	if got.CustomerDocument != nil {
		t.Errorf("Expected nil document, got %v", *got.CustomerDocument)
	}
}
