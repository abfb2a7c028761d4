package service

import (
	"errors"
	"testing"

	"github.com/quickkart/quickkart/internal/config"
)

func TestValidatePassword(t *testing.T) {
	policy := config.PasswordPolicyConfig{
		MinLength:     8,
		RequireLower:  true,
		RequireNumber: true,
	}

	cases := []struct {
		name     string
		password string
		wantWeak bool
	}{
		{"valid", "secret123", false},
		{"too short", "ab1", true},
		{"missing number", "lettersonly", true},
		{"missing lower", "12345678", true},
	}
	for _, tc := range cases {
		err := validatePassword(policy, tc.password)
		if tc.wantWeak && !errors.Is(err, ErrWeakPassword) {
			t.Fatalf("%s: expected ErrWeakPassword, got %v", tc.name, err)
		}
		if !tc.wantWeak && err != nil {
			t.Fatalf("%s: expected valid password, got %v", tc.name, err)
		}
	}
}

func TestValidatePasswordEmptyPolicy(t *testing.T) {
	if err := validatePassword(config.PasswordPolicyConfig{}, "x"); err != nil {
		t.Fatalf("empty policy should accept anything, got %v", err)
	}
}
