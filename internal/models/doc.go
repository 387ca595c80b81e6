// Package models defines the core domain models for AutoRug.
//
// # Models
//
//   - User: a registered account (the password hash lives in storage only)
//   - Coin: a simulated memecoin with its investment and profit
//   - Transaction: an append-only entry in a user's liquidity history
//
// # Design Principles
//
// 1. **Liquidity is derived**: a coin stores investment and profit, never their sum
// 2. **Soft references**: transactions point at coins by ID; deleting a coin keeps its history
// 3. **Stable wire names**: JSON tags match the persisted layout (camelCase)
// 4. **Forgiving decoding**: a bad timestamp degrades to "now" instead of failing the collection
package models
