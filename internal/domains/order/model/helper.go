package model

import "github.com/shopspring/decimal"

// ComputeEarnings splits a subtotal into platform fee and seller earnings.
// The fee is rounded to 2 decimal places and the earnings are derived by
// subtraction, so fee + earnings always equals the subtotal exactly.
func ComputeEarnings(subtotal decimal.Decimal) (platformFee, sellerEarnings decimal.Decimal) {
	platformFee = subtotal.Mul(PlatformFeeRate).Round(2)
	sellerEarnings = subtotal.Sub(platformFee)
	return platformFee, sellerEarnings
}

// IsValidPackageTier checks the tier name
func IsValidPackageTier(tier string) bool {
	return tier == PackageTierBasic || tier == PackageTierStandard || tier == PackageTierPremium
}
