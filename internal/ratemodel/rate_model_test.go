package ratemodel

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	baseRate       = decimal.NewFromInt(200)
	multiplier     = decimal.NewFromInt(1000)
	jumpMultiplier = decimal.NewFromInt(5000)
	optimal        = decimal.NewFromInt(8000)
	reserveFactor  = decimal.NewFromInt(1000)
)

func TestUtilization(t *testing.T) {
	assert.True(t, Utilization(decimal.Zero, decimal.Zero).IsZero())
	assert.Equal(t, "5000", Utilization(decimal.NewFromInt(1000), decimal.NewFromInt(500)).String())
	assert.Equal(t, "10000", Utilization(decimal.NewFromInt(1000), decimal.NewFromInt(1000)).String())
	// truncates toward zero
	assert.Equal(t, "3333", Utilization(decimal.NewFromInt(3), decimal.NewFromInt(1)).String())
}

func TestBorrowRate(t *testing.T) {
	// below the kink: 200 + 5000*1000/8000 = 825
	rate := BorrowRate(decimal.NewFromInt(5000), baseRate, multiplier, jumpMultiplier, optimal)
	assert.Equal(t, "825", rate.String())

	// at the kink: 200 + 1000
	rate = BorrowRate(optimal, baseRate, multiplier, jumpMultiplier, optimal)
	assert.Equal(t, "1200", rate.String())

	// above the kink: 200 + 1000 + 1000*5000/2000 = 3700
	rate = BorrowRate(decimal.NewFromInt(9000), baseRate, multiplier, jumpMultiplier, optimal)
	assert.Equal(t, "3700", rate.String())

	// zero optimal utilization lands in the jump regime, no zero division
	rate = BorrowRate(decimal.NewFromInt(5000), baseRate, multiplier, jumpMultiplier, decimal.Zero)
	assert.Equal(t, "3700", rate.String())

	// optimal at 10000 never reaches the jump branch
	rate = BorrowRate(decimal.NewFromInt(10000), baseRate, multiplier, jumpMultiplier, BpsScale)
	assert.Equal(t, "1200", rate.String())
}

func TestBorrowRateMonotonic(t *testing.T) {
	prev := decimal.NewFromInt(-1)
	for u := int64(0); u <= 10000; u += 250 {
		rate := BorrowRate(decimal.NewFromInt(u), baseRate, multiplier, jumpMultiplier, optimal)
		require.True(t, rate.GreaterThanOrEqual(prev), "rate regressed at utilization %d", u)
		prev = rate
	}
}

func TestSupplyRateBelowBorrowRate(t *testing.T) {
	for u := int64(0); u <= 10000; u += 500 {
		utilization := decimal.NewFromInt(u)
		borrow := BorrowRate(utilization, baseRate, multiplier, jumpMultiplier, optimal)
		supply := SupplyRate(utilization, baseRate, multiplier, jumpMultiplier, optimal, reserveFactor)
		require.True(t, supply.LessThanOrEqual(borrow), "supply rate above borrow rate at %d", u)
	}

	// 825 * 5000 * 9000 / 10000^2 = 371.25 -> 371
	supply := SupplyRate(decimal.NewFromInt(5000), baseRate, multiplier, jumpMultiplier, optimal, reserveFactor)
	assert.Equal(t, "371", supply.String())
}

func TestInterestAccrued(t *testing.T) {
	// one year at 825 bps on 500 units: 41.25 -> 41
	interest := InterestAccrued(decimal.NewFromInt(500), decimal.NewFromInt(825), 31536000)
	assert.Equal(t, "41", interest.String())

	assert.True(t, InterestAccrued(decimal.NewFromInt(500), decimal.NewFromInt(825), 0).IsZero())
	assert.True(t, InterestAccrued(decimal.Zero, decimal.NewFromInt(825), 31536000).IsZero())

	// same inputs, same result
	again := InterestAccrued(decimal.NewFromInt(500), decimal.NewFromInt(825), 31536000)
	assert.True(t, interest.Equal(again))
}

func TestCollateralRatio(t *testing.T) {
	// 800 * 10000 / 541 = 14787.4... -> 14787
	ratio := CollateralRatio(decimal.NewFromInt(800), decimal.NewFromInt(541))
	assert.Equal(t, "14787", ratio.String())

	assert.True(t, CollateralRatio(decimal.NewFromInt(800), decimal.Zero).IsZero())
	assert.True(t, ratio.GreaterThanOrEqual(LiquidationThreshold))
}

func TestLiquidationPayout(t *testing.T) {
	assert.Equal(t, "840", LiquidationPayout(decimal.NewFromInt(800)).String())
	// 10500/10000 of 1 truncates to 1
	assert.Equal(t, "1", LiquidationPayout(decimal.NewFromInt(1)).String())
}
