package ratemodel

import (
	"lendpool/pkg/number"

	"github.com/shopspring/decimal"
)

// All percentage values are integer basis points (10000 = 100%). Every
// division truncates toward zero; amounts stay in the asset's smallest unit.
var (
	// BpsScale scale of one whole, 100% = 10000 bps
	BpsScale = decimal.NewFromInt(10000)
	// SecondsPerYear accrual period base
	SecondsPerYear = decimal.NewFromInt(31536000)
	// MinCollateralRatio minimum collateral ratio to open a loan, 150%
	MinCollateralRatio = decimal.NewFromInt(15000)
	// LiquidationThreshold ratio below which a loan becomes liquidatable, 120%
	LiquidationThreshold = decimal.NewFromInt(12000)
	// LiquidationBonus extra collateral paid to the liquidator, 5%
	LiquidationBonus = decimal.NewFromInt(500)
	// DefaultReserveFactor protocol cut of borrower interest, 10%
	DefaultReserveFactor = decimal.NewFromInt(1000)
)

// Utilization fraction of a pool's deposits currently lent out, in bps.
// utilization = total_borrows * 10000 / total_deposits
func Utilization(totalDeposits, totalBorrows decimal.Decimal) decimal.Decimal {
	if totalDeposits.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	return number.DivTrunc(totalBorrows.Mul(BpsScale), totalDeposits)
}

// BorrowRate annualized borrow rate in bps on the kinked curve.
//
// utilization <= optimal: base + utilization * multiplier / optimal
// utilization >  optimal: base + multiplier + (utilization - optimal) * jump / (10000 - optimal)
//
// optimalUtilization == 0 puts the pool permanently in the jump regime so the
// first branch's division never sees a zero divisor.
func BorrowRate(utilization, baseRate, multiplier, jumpMultiplier, optimalUtilization decimal.Decimal) decimal.Decimal {
	if optimalUtilization.IsPositive() && utilization.LessThanOrEqual(optimalUtilization) {
		return baseRate.Add(number.DivTrunc(utilization.Mul(multiplier), optimalUtilization))
	}

	excess := utilization.Sub(optimalUtilization)
	spread := BpsScale.Sub(optimalUtilization)
	if !spread.IsPositive() {
		// optimalUtilization == 10000, the jump regime is unreachable
		return baseRate.Add(multiplier)
	}

	return baseRate.Add(multiplier).Add(number.DivTrunc(excess.Mul(jumpMultiplier), spread))
}

// SupplyRate depositor share of borrower-paid interest after the reserve cut.
// supply_rate = borrow_rate * utilization * (10000 - reserve_factor) / 10000^2
func SupplyRate(utilization, baseRate, multiplier, jumpMultiplier, optimalUtilization, reserveFactor decimal.Decimal) decimal.Decimal {
	borrowRate := BorrowRate(utilization, baseRate, multiplier, jumpMultiplier, optimalUtilization)
	return number.DivTrunc(
		borrowRate.Mul(utilization).Mul(BpsScale.Sub(reserveFactor)),
		BpsScale.Mul(BpsScale),
	)
}

// InterestAccrued simple interest earned by principal at rate bps over
// elapsed seconds, truncated toward zero.
// interest = principal * rate * elapsed / (10000 * seconds_per_year)
func InterestAccrued(principal, rate decimal.Decimal, elapsed int64) decimal.Decimal {
	if elapsed <= 0 || !principal.IsPositive() {
		return decimal.Zero
	}

	return number.DivTrunc(
		principal.Mul(rate).Mul(decimal.NewFromInt(elapsed)),
		BpsScale.Mul(SecondsPerYear),
	)
}

// CollateralRatio collateral value over outstanding debt, in bps.
// Zero when there is no debt.
func CollateralRatio(collateral, debt decimal.Decimal) decimal.Decimal {
	if !debt.IsPositive() {
		return decimal.Zero
	}

	return number.DivTrunc(collateral.Mul(BpsScale), debt)
}

// LiquidationPayout collateral released to the liquidator, bonus included.
// payout = collateral * (10000 + bonus) / 10000
func LiquidationPayout(collateral decimal.Decimal) decimal.Decimal {
	return number.DivTrunc(collateral.Mul(BpsScale.Add(LiquidationBonus)), BpsScale)
}
