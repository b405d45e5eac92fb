package money_test

import (
	"testing"

	"hotel/shared/money"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPercent(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		rate   string
		want   string
	}{
		{name: "whole percent", amount: "1000", rate: "12", want: "120"},
		{name: "rounds to two places", amount: "10.05", rate: "5", want: "0.5"},
		{name: "fractional rate", amount: "2499.99", rate: "18", want: "450"},
		{name: "zero rate", amount: "350", rate: "0", want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := money.Percent(decimal.RequireFromString(tt.amount), decimal.RequireFromString(tt.rate))

			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestLineAndNonNegative(t *testing.T) {
	assert.True(t, decimal.RequireFromString("750.75").Equal(money.Line(decimal.RequireFromString("250.25"), 3)))
	assert.True(t, money.NonNegative(decimal.NewFromInt(-5)).IsZero())
	assert.True(t, decimal.NewFromInt(5).Equal(money.NonNegative(decimal.NewFromInt(5))))
}
