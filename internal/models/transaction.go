package models

import (
	"encoding/json"
	"time"
)

// TransactionType distinguishes liquidity added at creation from liquidity removed.
type TransactionType string

const (
	TransactionCreation TransactionType = "creation"
	TransactionRemoval  TransactionType = "removal"
)

// Transaction is one entry in a user's liquidity history.
//
// CoinID is a soft reference: the coin may have been deleted since.
type Transaction struct {
	// ID is the unique identifier for the transaction (UUID format).
	ID string `json:"id"`

	UserID   string `json:"userId"`
	CoinID   string `json:"coinId"`
	CoinName string `json:"coinName"`

	Type TransactionType `json:"type"`

	// Amount is the initial investment for a creation, or the liquidity
	// actually removed for a removal.
	Amount float64 `json:"amount"`

	Timestamp time.Time `json:"timestamp"`
}

// UnmarshalJSON decodes a transaction, tolerating a malformed timestamp.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	type alias Transaction
	aux := struct {
		*alias
		Timestamp json.RawMessage `json:"timestamp"`
	}{alias: (*alias)(t)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	t.Timestamp = parseTimestamp("transaction", t.ID, aux.Timestamp)
	return nil
}
