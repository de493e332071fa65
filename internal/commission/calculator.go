package commission

import (
	"github.com/shopspring/decimal"

	"driveshare-backend/internal/domain"
)

// Breakdown is the commission split of one gross booking amount.
// PlatformFee + OwnerPayout always reproduces Total to the cent.
type Breakdown struct {
	Total       decimal.Decimal `json:"total"`
	PlatformFee decimal.Decimal `json:"platform_fee"`
	OwnerPayout decimal.Decimal `json:"owner_payout"`
}

// Calculator computes the platform's cut of a booking. Rate is a fraction
// (0.10 for 10%), FixedFee a flat amount added on top.
type Calculator struct {
	Rate     decimal.Decimal
	FixedFee decimal.Decimal
}

func NewCalculator(rate, fixedFee decimal.Decimal) Calculator {
	return Calculator{Rate: rate, FixedFee: fixedFee}
}

// Calculate splits total into platform fee and owner payout. The fee is
// rounded to 2 decimals and the payout derived by subtraction, so the two
// always sum back to the rounded total.
func (c Calculator) Calculate(total decimal.Decimal) (Breakdown, error) {
	if total.LessThanOrEqual(decimal.Zero) {
		return Breakdown{}, domain.ErrInvalidAmount
	}
	total = total.Round(2)
	fee := total.Mul(c.Rate).Add(c.FixedFee).Round(2)
	if fee.GreaterThan(total) {
		fee = total
	}
	return Breakdown{
		Total:       total,
		PlatformFee: fee,
		OwnerPayout: total.Sub(fee),
	}, nil
}
