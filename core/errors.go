package core

import "strconv"

// ErrorCode int
type ErrorCode int

const (
	// ErrUnknown unknown
	ErrUnknown ErrorCode = 100000
	// ErrInvalidInput zero or negative amount, identical borrow/collateral
	// asset, unknown or inactive loan
	ErrInvalidInput ErrorCode = 100001

	// ErrPoolUnavailable referenced asset has no active pool
	ErrPoolUnavailable ErrorCode = 100100
	// ErrInsufficientLiquidity requested borrow or withdrawal exceeds
	// the pool's available liquidity
	ErrInsufficientLiquidity ErrorCode = 100101
	// ErrInsufficientCollateral collateral ratio below the required minimum
	ErrInsufficientCollateral ErrorCode = 100102
	// ErrLoanNotLiquidatable liquidation attempted at or above the threshold
	ErrLoanNotLiquidatable ErrorCode = 100103
	// ErrTransferFailed the transfer collaborator reported failure
	ErrTransferFailed ErrorCode = 100104
	// ErrPoolExists pool already created for the asset
	ErrPoolExists ErrorCode = 100105
	// ErrInvalidPoolParams rejected pool rate parameters
	ErrInvalidPoolParams ErrorCode = 100106
)

func (e ErrorCode) String() string {
	return strconv.Itoa(int(e))
}

func (e ErrorCode) Error() string {
	return e.String()
}
