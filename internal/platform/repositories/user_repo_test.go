package repositories

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"adpulse/internal/platform/models"
)

func TestUserRepositoryCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create mock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("INSERT INTO users").
		WithArgs("usr_1", "maria@example.com", "hash", "Maria", "admin", int64(100), int64(100)).
		WillReturnResult(sqlmock.NewResult(1, 1))

	repo := NewUserRepository(db)
	err = repo.Create(&models.User{
		ID:           "usr_1",
		Email:        "maria@example.com",
		PasswordHash: "hash",
		FullName:     "Maria",
		Role:         "admin",
		CreatedAt:    100,
		UpdatedAt:    100,
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestUserRepositoryGetByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create mock: %v", err)
	}
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "email", "password_hash", "full_name", "role", "last_login_at", "created_at", "updated_at"}).
		AddRow("usr_1", "maria@example.com", "hash", "Maria", "admin", nil, 100, 100)
	mock.ExpectQuery("SELECT (.+) FROM users WHERE email").
		WithArgs("maria@example.com").
		WillReturnRows(rows)

	repo := NewUserRepository(db)
	user, err := repo.GetByEmail("maria@example.com")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if user == nil || user.ID != "usr_1" {
		t.Errorf("Unexpected user: %+v", user)
	}
	if user.LastLoginAt != nil {
		t.Errorf("Expected nil last login, got %v", *user.LastLoginAt)
	}
}

func TestUserRepositoryGetByEmailMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create mock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM users WHERE email").
		WithArgs("ghost@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "full_name", "role", "last_login_at", "created_at", "updated_at"}))

	repo := NewUserRepository(db)
	user, err := repo.GetByEmail("ghost@example.com")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if user != nil {
		t.Errorf("Expected nil for missing user, got %+v", user)
	}
}

func TestUserRepositoryCount(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create mock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	repo := NewUserRepository(db)
	n, err := repo.Count()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if n != 3 {
		t.Errorf("Expected 3, got %d", n)
	}
}
