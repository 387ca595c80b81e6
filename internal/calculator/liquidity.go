package calculator

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/mmynk/autorug/internal/errs"
	"github.com/mmynk/autorug/internal/models"
)

// DustThreshold is the liquidity below which a coin counts as empty and is deleted.
const DustThreshold = 0.001

// CurrentLiquidity returns investment + profit.
func CurrentLiquidity(coin models.Coin) float64 {
	return coin.Investment + coin.Profit
}

// Withdrawal is the outcome of removing liquidity from a coin.
type Withdrawal struct {
	// Deleted is true when the remaining liquidity fell below DustThreshold.
	Deleted bool

	// Amount is the liquidity actually removed. On a full withdrawal it is
	// the whole pre-withdrawal liquidity, not the requested amount.
	Amount float64

	// Coin is the coin after the withdrawal. Meaningless when Deleted.
	Coin models.Coin
}

// Withdraw removes amount of liquidity from coin.
//
// Algorithm:
//   - reject amount that is not finite, <= 0, or > current liquidity
//   - new liquidity < DustThreshold: full withdrawal, coin is deleted
//   - otherwise: ratio = new / current; investment and profit both shrink by ratio,
//     which keeps the investment:profit split intact
func Withdraw(coin models.Coin, amount float64) (Withdrawal, error) {
	current := CurrentLiquidity(coin)

	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Withdrawal{}, errs.Validation("amount", "must be a number")
	}
	if amount <= 0 {
		return Withdrawal{}, errs.Validation("amount", "must be greater than zero")
	}
	if amount > current {
		return Withdrawal{}, errs.Validation("amount", "exceeds current liquidity")
	}

	remaining := current - amount
	if remaining < DustThreshold {
		return Withdrawal{Deleted: true, Amount: current, Coin: coin}, nil
	}

	ratio := remaining / current
	updated := coin
	updated.Investment = coin.Investment * ratio
	updated.Profit = coin.Profit * ratio

	return Withdrawal{Amount: current - remaining, Coin: updated}, nil
}

// Preset is a shortcut for the withdrawal amount field.
type Preset string

const (
	PresetQuarter Preset = "25"
	PresetHalf    Preset = "50"
	PresetMax     Preset = "max"
)

// PresetAmount returns the withdrawal amount for a preset.
// 25% and 50% are rounded to 2 decimals; MAX is the exact liquidity so a full
// withdrawal always takes the deletion path.
func PresetAmount(liquidity float64, p Preset) (float64, error) {
	switch p {
	case PresetQuarter:
		return Round2(liquidity * 0.25), nil
	case PresetHalf:
		return Round2(liquidity * 0.5), nil
	case PresetMax:
		return liquidity, nil
	default:
		return 0, errs.Validation("preset", "must be one of 25, 50, max")
	}
}

// Round2 rounds x half away from zero to 2 decimal places.
func Round2(x float64) float64 {
	return decimal.NewFromFloat(x).Round(2).InexactFloat64()
}
