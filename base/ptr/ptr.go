package ptr

import "github.com/x-xyz/auctionhouse/domain"

// Bool return a pointer to the input value
func Bool(value bool) *bool {
	return &value
}

// Uint8 return a pointer to the input value
func Uint8(value uint8) *uint8 {
	return &value
}

// Address return a pointer to the input value
func Address(value domain.Address) *domain.Address {
	return &value
}
