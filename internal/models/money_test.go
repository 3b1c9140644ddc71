package models

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCommission(t *testing.T) {
	tests := []struct {
		price string
		want  string
	}{
		{"2000.00", "500.00"},
		{"1000", "250.00"},
		{"999.99", "250.00"},   // 249.9975 rounds up
		{"100.02", "25.01"},    // 25.005 rounds half-up
		{"100.01", "25.00"},    // 25.0025
		{"0", "0.00"},
	}
	for _, tt := range tests {
		t.Run(tt.price, func(t *testing.T) {
			if got := Commission(dec(tt.price)); !got.Equal(dec(tt.want)) {
				t.Errorf("Commission(%s) = %s, want %s", tt.price, got, tt.want)
			}
		})
	}
}

func TestApplyDiscount(t *testing.T) {
	tests := []struct {
		name      string
		price     string
		discount  string
		wantReal  string
		wantError bool
	}{
		{name: "ten percent", price: "1000.00", discount: "10", wantReal: "900.00"},
		{name: "zero", price: "1000.00", discount: "0", wantReal: "1000.00"},
		{name: "full", price: "1000.00", discount: "100", wantReal: "0.00"},
		{name: "rounding", price: "999.99", discount: "33.33", wantReal: "666.69"},
		{name: "negative", price: "1000.00", discount: "-1", wantError: true},
		{name: "above hundred", price: "1000.00", discount: "100.01", wantError: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Course{Price: dec(tt.price), Discount: decimal.Zero, RealPrice: dec(tt.price)}
			before := *c

			err := c.ApplyDiscount(dec(tt.discount))
			if tt.wantError {
				var validationErr *ValidationError
				if !errors.As(err, &validationErr) {
					t.Fatalf("ApplyDiscount() error = %v, want ValidationError", err)
				}
				if !c.RealPrice.Equal(before.RealPrice) || !c.Discount.Equal(before.Discount) {
					t.Errorf("course modified on invalid discount")
				}
				return
			}
			if err != nil {
				t.Fatalf("ApplyDiscount() error = %v", err)
			}
			if !c.RealPrice.Equal(dec(tt.wantReal)) {
				t.Errorf("RealPrice = %s, want %s", c.RealPrice, tt.wantReal)
			}
			if !c.RealPrice.Equal(RealPrice(c.Price, c.Discount)) {
				t.Errorf("RealPrice %s does not match price %s with discount %s", c.RealPrice, c.Price, c.Discount)
			}
		})
	}
}

func TestApplyDiscountIdempotent(t *testing.T) {
	for d := 0; d <= 100; d++ {
		c := &Course{Price: dec("1234.56")}
		discount := decimal.NewFromInt(int64(d)).Div(decimal.NewFromInt(3))

		if err := c.ApplyDiscount(discount); err != nil {
			t.Fatalf("ApplyDiscount(%s) error = %v", discount, err)
		}
		first := c.RealPrice
		if err := c.ApplyDiscount(discount); err != nil {
			t.Fatalf("second ApplyDiscount(%s) error = %v", discount, err)
		}
		if !c.RealPrice.Equal(first) {
			t.Errorf("discount %s: RealPrice %s then %s", discount, first, c.RealPrice)
		}
	}
}

func TestTotalCommission(t *testing.T) {
	price := decimal.NullDecimal{Decimal: dec("2000.00"), Valid: true}
	odd := decimal.NullDecimal{Decimal: dec("100.02"), Valid: true}
	item := func(status LeadStatus, p decimal.NullDecimal) *LeadListItem {
		return &LeadListItem{Lead: Lead{ID: uuid.New(), Status: status}, CoursePrice: p}
	}

	leads := []*LeadListItem{
		item(LeadConverted, price),
		item(LeadConverted, odd),
		item(LeadConverted, odd),
		item(LeadConverted, decimal.NullDecimal{}),
		item(LeadPending, price),
		item(LeadNotConverted, price),
	}
	// Rounded per lead: 500.00 + 25.01 + 25.01.
	if got := TotalCommission(leads); !got.Equal(dec("550.02")) {
		t.Errorf("TotalCommission() = %s, want 550.02", got)
	}
	if got := TotalCommission(nil); !got.Equal(decimal.Zero) {
		t.Errorf("TotalCommission(nil) = %s, want 0", got)
	}
}
