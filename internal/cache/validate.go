package cache

import (
	"strings"
	"unicode/utf8"
)

const (
	MaxKeyLength = 512
	MaxKeys      = 10
)

// ValidateKey rejects keys longer than MaxKeyLength characters and keys containing
// a comma, which is reserved as a separator.
func ValidateKey(key string) error {
	if utf8.RuneCountInString(key) > MaxKeyLength {
		return validationErrorf("Key Validation Error: %s cannot be larger than %d characters.", key, MaxKeyLength)
	}
	if strings.Contains(key, ",") {
		return validationErrorf("Key Validation Error: %s cannot contain commas.", key)
	}
	return nil
}

// ValidateKeySet checks a primary key followed by its fallback keys.
func ValidateKeySet(keys []string) error {
	if len(keys) > MaxKeys {
		return validationErrorf("Key Validation Error: Keys are limited to a maximum of %d.", MaxKeys)
	}
	for _, key := range keys {
		if err := ValidateKey(key); err != nil {
			return err
		}
	}
	return nil
}

func ValidatePaths(paths []string) error {
	if len(paths) == 0 {
		return validationErrorf("Path Validation Error: At least one directory or file path is required")
	}
	return nil
}
