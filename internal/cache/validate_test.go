package cache

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateKey(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr string
	}{
		{"plain", "npm-linux-abc123", ""},
		{"max length", strings.Repeat("k", 512), ""},
		{"too long", strings.Repeat("k", 513), "cannot be larger than 512 characters"},
		{"comma", "a,b", "cannot contain commas"},
		{"leading comma", ",a", "cannot contain commas"},
		{"multibyte within limit", strings.Repeat("é", 512), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateKey(tt.key)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("ValidateKey: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("err = %v, want containing %q", err, tt.wantErr)
			}
			if KindOf(err) != KindValidation {
				t.Errorf("KindOf = %v, want validation", KindOf(err))
			}
		})
	}
}

func TestValidateKeySet_TooMany(t *testing.T) {
	keys := make([]string, 11)
	for i := range keys {
		keys[i] = "k"
	}
	err := ValidateKeySet(keys)
	if !IsValidation(err) {
		t.Fatalf("err = %v, want validation error", err)
	}
	if !strings.Contains(err.Error(), "maximum of 10") {
		t.Errorf("err = %q", err)
	}
	if err := ValidateKeySet(keys[:10]); err != nil {
		t.Errorf("10 keys: %v", err)
	}
}

func TestValidateKeySet_InvalidKeyAnywhere(t *testing.T) {
	for pos := 0; pos < 3; pos++ {
		keys := []string{"a", "b", "c"}
		keys[pos] = "x,y"
		if err := ValidateKeySet(keys); !IsValidation(err) {
			t.Errorf("bad key at %d: err = %v, want validation error", pos, err)
		}
	}
}

func TestValidatePaths(t *testing.T) {
	if err := ValidatePaths(nil); !IsValidation(err) {
		t.Errorf("nil paths: err = %v", err)
	}
	if err := ValidatePaths([]string{}); !IsValidation(err) {
		t.Errorf("empty paths: err = %v", err)
	}
	if err := ValidatePaths([]string{"node_modules"}); err != nil {
		t.Errorf("ValidatePaths: %v", err)
	}
}

func TestKindOf(t *testing.T) {
	if KindOf(errors.New("plain")) != KindOperational {
		t.Error("plain errors should be operational")
	}
	wrapped := operational("list", ErrListTimeout)
	if !errors.Is(wrapped, ErrListTimeout) {
		t.Error("operational error should unwrap to its cause")
	}
	if IsValidation(nil) {
		t.Error("nil is not a validation error")
	}
	if got := wrapped.Error(); got != "list: "+ErrListTimeout.Error() {
		t.Errorf("Error() = %q", got)
	}
}
