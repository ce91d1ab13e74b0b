package pixel

import (
	"errors"
	"testing"
)

type mockChecker struct {
	taken map[string]bool
	all   bool
	err   error
}

func (m *mockChecker) ExistsByID(id string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	if m.all && len(id) == codeLength {
		return true, nil
	}
	return m.taken[id], nil
}

func TestGenerateCode(t *testing.T) {
	code, err := GenerateCode(&mockChecker{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(code) != codeLength {
		t.Errorf("Expected length %d, got %d", codeLength, len(code))
	}
	for _, c := range code {
		if !(c >= 'a' && c <= 'z' || c >= '0' && c <= '9') {
			t.Errorf("Unexpected character %q in code", c)
		}
	}
}

func TestGenerateCodeWidensOnCollision(t *testing.T) {
	// Every code at the default length collides, forcing the wider retry.
	code, err := GenerateCode(&mockChecker{all: true})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(code) != codeLength+2 {
		t.Errorf("Expected widened length %d, got %d", codeLength+2, len(code))
	}
}

func TestGenerateCodeCheckerError(t *testing.T) {
	_, err := GenerateCode(&mockChecker{err: errors.New("db down")})
	if err == nil {
		t.Error("Expected error from checker")
	}
}
