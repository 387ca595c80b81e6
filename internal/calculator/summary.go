package calculator

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/autorug/internal/models"
)

// SOLToUSD is the fixed conversion rate used for display.
const SOLToUSD = 175.82

// RecentWindow is how far back "recently created" reaches.
const RecentWindow = 30 * 24 * time.Hour

// Summary aggregates a user's transaction history.
type Summary struct {
	TotalLiquidityAdded   float64 `json:"totalLiquidityAdded"`   // SOL, sum of creation amounts
	TotalLiquidityRemoved float64 `json:"totalLiquidityRemoved"` // SOL, sum of removal amounts
	TotalAddedUSD         float64 `json:"totalAddedUsd"`
	TotalRemovedUSD       float64 `json:"totalRemovedUsd"`
	CoinsCreatedRecently  int     `json:"coinsCreatedRecently"` // creations within RecentWindow of now
}

// Summarize computes a Summary over transactions as of now.
func Summarize(transactions []models.Transaction, now time.Time) Summary {
	var s Summary
	cutoff := now.Add(-RecentWindow)

	for _, tx := range transactions {
		switch tx.Type {
		case models.TransactionCreation:
			s.TotalLiquidityAdded += tx.Amount
			if tx.Timestamp.After(cutoff) {
				s.CoinsCreatedRecently++
			}
		case models.TransactionRemoval:
			s.TotalLiquidityRemoved += tx.Amount
		}
	}

	s.TotalAddedUSD = ToUSD(s.TotalLiquidityAdded)
	s.TotalRemovedUSD = ToUSD(s.TotalLiquidityRemoved)
	return s
}

// ToUSD converts SOL to USD at SOLToUSD, rounded to cents.
func ToUSD(sol float64) float64 {
	return decimal.NewFromFloat(sol).
		Mul(decimal.NewFromFloat(SOLToUSD)).
		Round(2).
		InexactFloat64()
}
