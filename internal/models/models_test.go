package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestCoinUnmarshalTimestamps(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantTime time.Time
		wantNow  bool
	}{
		{
			name:     "RFC 3339",
			raw:      `"2025-03-01T12:00:00Z"`,
			wantTime: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			name:     "unix milliseconds",
			raw:      `1740830400000`,
			wantTime: time.UnixMilli(1740830400000),
		},
		{name: "garbage string", raw: `"not a date"`, wantNow: true},
		{name: "null", raw: `null`, wantNow: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := []byte(`{"id":"c1","userId":"u1","name":"DogeMax","investment":2,"profit":0.5,"platform":"Raydium","pnl":25,"createdAt":` + tt.raw + `}`)

			before := time.Now()
			var coin Coin
			if err := json.Unmarshal(data, &coin); err != nil {
				t.Fatalf("Unmarshal failed: %v", err)
			}

			if coin.ID != "c1" || coin.UserID != "u1" || coin.Investment != 2 || coin.Profit != 0.5 {
				t.Errorf("fields not decoded: %+v", coin)
			}
			if tt.wantNow {
				if coin.CreatedAt.Before(before) {
					t.Errorf("CreatedAt = %v, want fallback to now", coin.CreatedAt)
				}
				return
			}
			if !coin.CreatedAt.Equal(tt.wantTime) {
				t.Errorf("CreatedAt = %v, want %v", coin.CreatedAt, tt.wantTime)
			}
		})
	}
}

func TestTransactionRoundTripKeepsWireNames(t *testing.T) {
	tx := Transaction{
		ID:        "t1",
		UserID:    "u1",
		CoinID:    "c1",
		CoinName:  "DogeMax",
		Type:      TransactionRemoval,
		Amount:    1.5,
		Timestamp: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	}

	data, err := json.Marshal(tx)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	for _, key := range []string{"id", "userId", "coinId", "coinName", "type", "amount", "timestamp"} {
		if _, ok := fields[key]; !ok {
			t.Errorf("missing JSON field %q in %s", key, data)
		}
	}
	if fields["type"] != "removal" {
		t.Errorf("type = %v, want removal", fields["type"])
	}
}

func TestCoinLiquidity(t *testing.T) {
	coin := Coin{Investment: 2, Profit: -0.5}
	if got := coin.Liquidity(); got != 1.5 {
		t.Errorf("Liquidity() = %v, want 1.5", got)
	}
}

func TestPlatformName(t *testing.T) {
	if name, ok := PlatformName(PlatformRaydium); !ok || name != "Raydium" {
		t.Errorf("PlatformName(raydium) = %q, %v", name, ok)
	}
	if name, ok := PlatformName(PlatformPumpFun); !ok || name != "Pump.fun" {
		t.Errorf("PlatformName(pumpfun) = %q, %v", name, ok)
	}
	if _, ok := PlatformName("uniswap"); ok {
		t.Error("expected uniswap to be unrecognized")
	}
}

func TestUserDisplayName(t *testing.T) {
	if got := (User{Username: "alice"}).DisplayName(); got != "alice" {
		t.Errorf("DisplayName() = %q, want alice", got)
	}
	if got := (User{Username: "alice", Name: "Alice"}).DisplayName(); got != "Alice" {
		t.Errorf("DisplayName() = %q, want Alice", got)
	}
}
