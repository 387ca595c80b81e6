package models

import (
	"encoding/json"
	"time"
)

// Platform identifiers accepted by the onboarding wizard.
const (
	PlatformRaydium = "raydium"
	PlatformPumpFun = "pumpfun"
)

var platformNames = map[string]string{
	PlatformRaydium: "Raydium",
	PlatformPumpFun: "Pump.fun",
}

// PlatformName returns the display name stored on a coin for a platform
// identifier, and whether the identifier is recognized.
func PlatformName(id string) (string, bool) {
	name, ok := platformNames[id]
	return name, ok
}

// DefaultCoinImage is used when a coin is created without an image.
const DefaultCoinImage = "/placeholder.svg?height=40&width=40"

// Coin represents a simulated memecoin owned by one user.
//
// Current liquidity is always Investment + Profit and is never stored.
type Coin struct {
	// ID is the unique identifier for the coin (UUID format).
	ID string `json:"id"`

	// UserID is the owner. Reads are always filtered by it.
	UserID string `json:"userId"`

	Name  string `json:"name"`
	Image string `json:"image"`

	// Investment is the SOL put into the coin, shrunk proportionally on withdrawals.
	Investment float64 `json:"investment"`

	// Profit is the simulated gain (or loss, when negative) on top of Investment.
	Profit float64 `json:"profit"`

	// Platform is the display name of the launch platform (e.g. "Raydium").
	Platform string `json:"platform"`

	CreatedAt time.Time `json:"createdAt"`

	// PNL is Profit / Investment as a percentage, rounded to 2 decimals.
	PNL float64 `json:"pnl"`

	SocialLinks *SocialLinks `json:"socialLinks,omitempty"`
}

// Liquidity returns Investment + Profit.
func (c Coin) Liquidity() float64 {
	return c.Investment + c.Profit
}

// UnmarshalJSON decodes a coin, tolerating a malformed createdAt.
func (c *Coin) UnmarshalJSON(data []byte) error {
	type alias Coin
	aux := struct {
		*alias
		CreatedAt json.RawMessage `json:"createdAt"`
	}{alias: (*alias)(c)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	c.CreatedAt = parseTimestamp("coin", c.ID, aux.CreatedAt)
	return nil
}

// SocialLinks are the optional community links collected by the wizard.
type SocialLinks struct {
	Website  string `json:"website,omitempty"`
	Telegram string `json:"telegram,omitempty"`
	Discord  string `json:"discord,omitempty"`
	Reddit   string `json:"reddit,omitempty"`
	Twitter  string `json:"twitter,omitempty"`
	TikTok   string `json:"tiktok,omitempty"`
}

// IsZero reports whether no link is set.
func (s SocialLinks) IsZero() bool {
	return s == SocialLinks{}
}
