package helpers

import (
	"math/big"
	"strings"
)

// IsAddressValid checks if the provided string is a valid Ethereum address
// It verifies:
// 1. The address is exactly 42 characters long (including 0x prefix)
// 2. The address starts with "0x"
// 3. The remaining 40 characters are valid hexadecimal
func IsAddressValid(address string) bool {
	// Check length
	if len(address) != 42 {
		return false
	}

	// Check "0x" prefix
	if !strings.HasPrefix(address, "0x") {
		return false
	}

	// Check if the address contains only hex characters after the 0x prefix
	for _, c := range address[2:] {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')) {
			return false
		}
	}

	return true
}

// IsZeroAddress reports whether the address is the all-zero address.
func IsZeroAddress(address string) bool {
	return address == "0x0000000000000000000000000000000000000000"
}

// SameAddress compares two addresses ignoring hex casing.
func SameAddress(a, b string) bool {
	return strings.EqualFold(a, b)
}

// NormalizeAddress lowercases an address so it can be used as a storage key.
func NormalizeAddress(address string) string {
	return strings.ToLower(address)
}

// ParseWeiAmount parses a base-10 wei amount string into a big.Int.
// Returns nil if the string is not a valid non-negative integer.
func ParseWeiAmount(s string) *big.Int {
	amount, ok := new(big.Int).SetString(strings.TrimSpace(s), 10)
	if !ok || amount.Sign() < 0 {
		return nil
	}
	return amount
}
