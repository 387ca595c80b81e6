package calculator

import (
	"testing"
	"time"

	"github.com/mmynk/autorug/internal/models"
)

func TestSummarize(t *testing.T) {
	now := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)
	txs := []models.Transaction{
		{Type: models.TransactionCreation, Amount: 2, Timestamp: now.Add(-24 * time.Hour)},
		{Type: models.TransactionCreation, Amount: 1, Timestamp: now.Add(-45 * 24 * time.Hour)},
		{Type: models.TransactionRemoval, Amount: 0.5, Timestamp: now.Add(-time.Hour)},
		{Type: models.TransactionRemoval, Amount: 1.5, Timestamp: now},
	}

	s := Summarize(txs, now)

	if s.TotalLiquidityAdded != 3 {
		t.Errorf("TotalLiquidityAdded = %v, want 3", s.TotalLiquidityAdded)
	}
	if s.TotalLiquidityRemoved != 2 {
		t.Errorf("TotalLiquidityRemoved = %v, want 2", s.TotalLiquidityRemoved)
	}
	if s.CoinsCreatedRecently != 1 {
		t.Errorf("CoinsCreatedRecently = %d, want 1", s.CoinsCreatedRecently)
	}
	if s.TotalAddedUSD != 527.46 {
		t.Errorf("TotalAddedUSD = %v, want 527.46", s.TotalAddedUSD)
	}
	if s.TotalRemovedUSD != 351.64 {
		t.Errorf("TotalRemovedUSD = %v, want 351.64", s.TotalRemovedUSD)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil, time.Now())
	if s != (Summary{}) {
		t.Errorf("Summarize(nil) = %+v, want zero", s)
	}
}
