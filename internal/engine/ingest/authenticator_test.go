package ingest

import (
	"errors"
	"net/http"
	"testing"

	"adpulse/internal/platform/models"
)

type mockAccountSource struct {
	accounts map[string]*models.Account
	err      error
}

func (m *mockAccountSource) GetByVendorAndName(vendor, name string) (*models.Account, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.accounts[vendor+"/"+name], nil
}

func (m *mockAccountSource) GetByID(id string) (*models.Account, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.accounts[id], nil
}

func testAccounts() *mockAccountSource {
	return &mockAccountSource{
		accounts: map[string]*models.Account{
			"ticto/main": {ID: "acc_1", Vendor: "ticto", AccountName: "main", SharedSecret: "s3cret", IsActive: true},
			"acc_2":      {ID: "acc_2", Vendor: "cartpanda", AccountName: "store", SharedSecret: "panda", IsActive: true},
			"ticto/off":  {ID: "acc_3", Vendor: "ticto", AccountName: "off", SharedSecret: "s3cret", IsActive: false},
		},
	}
}

func TestAuthenticateByName(t *testing.T) {
	authn := NewAuthenticator(testAccounts())

	account, err := authn.AuthenticateByName("ticto", "main", "s3cret")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if account.ID != "acc_1" {
		t.Errorf("Expected acc_1, got %s", account.ID)
	}
}

func TestAuthenticateUnknownAccount(t *testing.T) {
	authn := NewAuthenticator(testAccounts())

	_, err := authn.AuthenticateByName("ticto", "nope", "s3cret")
	var authErr *AuthenticationError
	if !errors.As(err, &authErr) {
		t.Fatalf("Expected authentication error, got %v", err)
	}
	if authErr.Status != http.StatusBadRequest {
		t.Errorf("Expected 400 for unknown account, got %d", authErr.Status)
	}
}

func TestAuthenticateInactiveAccount(t *testing.T) {
	authn := NewAuthenticator(testAccounts())

	_, err := authn.AuthenticateByName("ticto", "off", "s3cret")
	var authErr *AuthenticationError
	if !errors.As(err, &authErr) {
		t.Fatalf("Expected authentication error, got %v", err)
	}
	if authErr.Status != http.StatusBadRequest {
		t.Errorf("Expected 400 for inactive account, got %d", authErr.Status)
	}
}

func TestAuthenticateWrongToken(t *testing.T) {
	authn := NewAuthenticator(testAccounts())

	_, err := authn.AuthenticateByName("ticto", "main", "wrong")
	var authErr *AuthenticationError
	if !errors.As(err, &authErr) {
		t.Fatalf("Expected authentication error, got %v", err)
	}
	if authErr.Status != http.StatusUnauthorized {
		t.Errorf("Expected 401 for wrong token, got %d", authErr.Status)
	}
}

func TestAuthenticateByID(t *testing.T) {
	authn := NewAuthenticator(testAccounts())

	account, err := authn.AuthenticateByID("acc_2", "panda")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if account.AccountName != "store" {
		t.Errorf("Expected store, got %s", account.AccountName)
	}
}

func TestAuthenticateLookupFailure(t *testing.T) {
	authn := NewAuthenticator(&mockAccountSource{err: errors.New("db down")})

	_, err := authn.AuthenticateByName("ticto", "main", "s3cret")
	var perErr *PersistenceError
	if !errors.As(err, &perErr) {
		t.Errorf("Expected persistence error, got %v", err)
	}
}
