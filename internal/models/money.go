package models

import "github.com/shopspring/decimal"

// MoneyPlaces is the number of decimal places kept for every amount.
const MoneyPlaces = 2

var (
	// CommissionRate is the partner's share of a converted lead's course price.
	CommissionRate = decimal.RequireFromString("0.25")

	hundred = decimal.NewFromInt(100)
)

// RoundMoney rounds half-up to two decimal places. All amounts are
// non-negative, where shopspring's half-away-from-zero is the same rule.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyPlaces)
}

// Commission returns the partner revenue for one converted lead.
func Commission(coursePrice decimal.Decimal) decimal.Decimal {
	return RoundMoney(coursePrice.Mul(CommissionRate))
}

// TotalCommission sums per-lead rounded commissions.
func TotalCommission(leads []*LeadListItem) decimal.Decimal {
	total := decimal.Zero
	for _, l := range leads {
		total = total.Add(l.Commission())
	}
	return RoundMoney(total)
}

// RealPrice is price minus discount percent, rounded.
func RealPrice(price, discount decimal.Decimal) decimal.Decimal {
	return RoundMoney(price.Sub(price.Mul(discount).Div(hundred)))
}

// ApplyDiscount validates the percentage and recomputes RealPrice from Price.
// The course is left unchanged on error.
func (c *Course) ApplyDiscount(discount decimal.Decimal) error {
	if discount.IsNegative() || discount.GreaterThan(hundred) {
		return NewValidationError("discount", "must be between 0 and 100, got %s", discount.String())
	}
	discount = discount.Round(MoneyPlaces)
	c.Discount = discount
	c.RealPrice = RealPrice(c.Price, discount)
	return nil
}
