package ingest

import (
	"crypto/subtle"
	"net/http"

	"adpulse/internal/platform/models"
)

// AccountSource is the credential store lookup the Authenticator needs.
// *repositories.AccountRepository satisfies it.
type AccountSource interface {
	GetByVendorAndName(vendor, name string) (*models.Account, error)
	GetByID(id string) (*models.Account, error)
}

type Authenticator struct {
	accounts AccountSource
}

func NewAuthenticator(accounts AccountSource) *Authenticator {
	return &Authenticator{accounts: accounts}
}

// AuthenticateByName resolves an account by (vendor, account_name) and
// checks the presented token. The caller extracts the token from wherever
// the vendor puts it (header, query or body).
func (a *Authenticator) AuthenticateByName(vendor, name, token string) (*models.Account, error) {
	account, err := a.accounts.GetByVendorAndName(vendor, name)
	if err != nil {
		return nil, &PersistenceError{Op: "account lookup", Err: err}
	}
	return a.check(account, token)
}

// AuthenticateByID resolves an account by its integration id.
func (a *Authenticator) AuthenticateByID(id, token string) (*models.Account, error) {
	account, err := a.accounts.GetByID(id)
	if err != nil {
		return nil, &PersistenceError{Op: "account lookup", Err: err}
	}
	return a.check(account, token)
}

func (a *Authenticator) check(account *models.Account, token string) (*models.Account, error) {
	if account == nil {
		return nil, &AuthenticationError{Reason: "account not found", Status: http.StatusBadRequest}
	}
	if !account.IsActive {
		return nil, &AuthenticationError{Reason: "integration is not active", Status: http.StatusBadRequest}
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(account.SharedSecret)) != 1 {
		return nil, &AuthenticationError{Reason: "invalid token", Status: http.StatusUnauthorized}
	}
	return account, nil
}
