package wizard

import (
	"github.com/mmynk/autorug/internal/clock"
)

const (
	addressAlphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"
	addressLength   = 44
)

// FakeAddress returns a base58-looking wallet address. It is display text
// only; no key material exists behind it.
func FakeAddress(r clock.Rand) string {
	b := make([]byte, addressLength)
	for i := range b {
		idx := int(r.Float64() * float64(len(addressAlphabet)))
		if idx >= len(addressAlphabet) {
			idx = len(addressAlphabet) - 1
		}
		b[i] = addressAlphabet[idx]
	}
	return string(b)
}
