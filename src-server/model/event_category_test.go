package model_test

import (
	"testing"

	"stridercup/src-server/model"

	"github.com/shopspring/decimal"
)

func TestCategoryFormattedPrice(t *testing.T) {
	cases := []struct {
		price int64
		want  string
	}{
		{499, "₹499"},
		{1499, "₹1,499"},
		{150000, "₹1,50,000"}, // Indian grouping
	}
	for _, tc := range cases {
		category := model.EventCategory{Price: decimal.NewFromInt(tc.price)}
		if got := category.FormattedPrice(); got != tc.want {
			t.Errorf("FormattedPrice(%d) = %q, want %q", tc.price, got, tc.want)
		}
	}
}
