package utils

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// FromBaseUnits converts an integer amount of the smallest unit (wei, satoshi)
// into a decimal amount of the coin.
// Example: amount=1234500000000000000, decimals=18 => 1.2345
func FromBaseUnits(amount *big.Int, decimals int32) decimal.Decimal {
	if amount == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(amount, -decimals)
}

// DecimalOrNull converts an optional decimal into a NullDecimal.
func DecimalOrNull(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(*d)
}

// NullDecimalString renders a nullable decimal for display, trimming trailing zeros.
func NullDecimalString(d decimal.NullDecimal) *string {
	if !d.Valid {
		return nil
	}
	s := d.Decimal.String()
	return &s
}
