package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMoney(t *testing.T) {
	assert.Equal(t, "20.00", FormatAmount(RoundAmount(LineAmount(10, 2))))
	assert.Equal(t, "239.97", FormatAmount(RoundAmount(LineAmount(79.99, 3))))
	assert.Equal(t, "0.30", FormatAmount(RoundAmount(LineAmount(0.1, 3))))
	assert.Equal(t, "0.00", FormatAmount(decimal.Zero))

	// half away from zero, not banker's rounding
	assert.Equal(t, "0.13", FormatAmount(RoundAmount(decimal.RequireFromString("0.125"))))
	assert.Equal(t, "1.01", FormatAmount(RoundAmount(LineAmount(1.005, 1))))
}
