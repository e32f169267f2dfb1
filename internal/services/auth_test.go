package services

import "testing"

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		valid    bool
	}{
		{"valid password", "StrongPass1", true},
		{"minimum length with digit", "abcdefg1", true},
		{"too short", "Pass1", false},
		{"no digit", "StrongPassword", false},
		{"empty", "", false},
		{"digits only", "12345678", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := validatePassword(tc.password)
			if tc.valid && err != nil {
				t.Errorf("Expected %q to be valid, got error: %v", tc.password, err)
			}
			if !tc.valid && err == nil {
				t.Errorf("Expected %q to be rejected", tc.password)
			}
		})
	}
}

func TestGenerateToken(t *testing.T) {
	tok1, err := generateToken(64)
	if err != nil {
		t.Fatalf("generateToken returned error: %v", err)
	}
	if len(tok1) != 128 {
		t.Errorf("Expected 128 hex chars for 64 bytes, got %d", len(tok1))
	}

	tok2, _ := generateToken(64)
	if tok1 == tok2 {
		t.Error("Two generated tokens should not collide")
	}
}
