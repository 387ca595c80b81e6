package wizard

import (
	"math"
	"strings"

	"github.com/mmynk/autorug/internal/models"
)

// Step is a wizard state.
type Step int

const (
	StepDetails Step = iota + 1
	StepSocial
	StepPlatform
	StepLoading
	StepWallet
	StepLiquidity
	StepSuccess
)

var stepNames = map[Step]string{
	StepDetails:   "details",
	StepSocial:    "social",
	StepPlatform:  "platform",
	StepLoading:   "loading",
	StepWallet:    "wallet",
	StepLiquidity: "liquidity",
	StepSuccess:   "success",
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return "unknown"
}

// ParseStep resolves a step from its name.
func ParseStep(name string) (Step, bool) {
	for step, n := range stepNames {
		if n == name {
			return step, true
		}
	}
	return 0, false
}

// transition describes what a step allows. A zero next or back means the
// move is not offered.
type transition struct {
	next Step
	back Step

	// navigable is false for steps the user cannot leave by hand.
	navigable bool
	skippable bool
	valid     func(*Draft) bool
}

func always(*Draft) bool { return true }

var transitions = map[Step]transition{
	StepDetails: {
		next:      StepSocial,
		navigable: true,
		valid:     func(d *Draft) bool { return strings.TrimSpace(d.Name) != "" },
	},
	StepSocial: {
		next:      StepPlatform,
		back:      StepDetails,
		navigable: true,
		skippable: true,
		valid:     always,
	},
	StepPlatform: {
		next:      StepLoading,
		back:      StepSocial,
		navigable: true,
		valid: func(d *Draft) bool {
			_, ok := models.PlatformName(d.Platform)
			return ok
		},
	},
	StepLoading: {
		next:  StepWallet,
		valid: always,
	},
	StepWallet: {
		next: StepLiquidity,
		// Going back replays the platform choice, not the creation delay.
		back:      StepPlatform,
		navigable: true,
		valid:     func(d *Draft) bool { return d.WalletConnected },
	},
	StepLiquidity: {
		next:      StepSuccess,
		back:      StepWallet,
		navigable: true,
		valid: func(d *Draft) bool {
			return !math.IsInf(d.LiquidityAmount, 0) && d.LiquidityAmount > 0
		},
	},
	StepSuccess: {
		valid: always,
	},
}

func (s Step) canNext(d *Draft) bool {
	t := transitions[s]
	return t.navigable && t.next != 0 && t.valid(d)
}

func (s Step) canBack() bool {
	t := transitions[s]
	return t.navigable && t.back != 0
}

func (s Step) canSkip() bool {
	t := transitions[s]
	return t.navigable && t.skippable
}
