package calculator

import (
	"github.com/mmynk/autorug/internal/models"
)

// Rand is the randomness source for PNL simulation.
// *math/rand/v2.Rand satisfies it.
type Rand interface {
	Float64() float64
}

const (
	profitChance  = 0.7
	minProfitMult = 2.0
	maxProfitMult = 10.0
	minLossMult   = -0.9
	maxLossMult   = -0.1
)

// SimulatePNL draws a new profit for coin.
//
// With probability 0.7 the multiplier is uniform in [2, 10], otherwise in
// [-0.9, -0.1]. Losses stop at -0.9x so liquidity stays positive.
// profit = investment * multiplier; investment is unchanged.
func SimulatePNL(coin models.Coin, r Rand) models.Coin {
	var multiplier float64
	if r.Float64() < profitChance {
		multiplier = minProfitMult + r.Float64()*(maxProfitMult-minProfitMult)
	} else {
		multiplier = maxLossMult - r.Float64()*(maxLossMult-minLossMult)
	}

	coin.Profit = coin.Investment * multiplier
	coin.PNL = PNLPercent(coin)
	return coin
}

// PNLPercent returns profit / investment * 100 rounded to 2 decimals, or 0
// for a coin without investment.
func PNLPercent(coin models.Coin) float64 {
	if coin.Investment == 0 {
		return 0
	}
	return Round2(coin.Profit / coin.Investment * 100)
}
