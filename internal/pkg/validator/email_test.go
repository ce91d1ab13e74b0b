package validator

import "testing"

func TestEmail(t *testing.T) {
	valid := []string{
		"maria@example.com",
		"a.b+tag@sub.example.co",
	}
	for _, email := range valid {
		if err := Email(email); err != nil {
			t.Errorf("Email(%q) = %v, want nil", email, err)
		}
	}

	invalid := []string{
		"",
		"no-at-sign",
		"@example.com",
		"user@",
		"user@nodot",
		"user@.example.com",
		"user@example.com.",
		"two@at@signs.com",
	}
	for _, email := range invalid {
		if err := Email(email); err == nil {
			t.Errorf("Email(%q) = nil, want error", email)
		}
	}
}
