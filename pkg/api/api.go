// Package api defines the request and response messages of the autorug.v1
// services. Messages travel as JSON; see package apiconnect for the handlers
// and clients.
package api

import (
	"github.com/mmynk/autorug/internal/calculator"
	"github.com/mmynk/autorug/internal/models"
	"github.com/mmynk/autorug/internal/wizard"
)

// AuthService

type RegisterRequest struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	Name            string `json:"name,omitempty"`
}

type RegisterResponse struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

type LogoutRequest struct{}

type LogoutResponse struct{}

type GetCurrentUserRequest struct{}

type GetCurrentUserResponse struct {
	User models.User `json:"user"`
}

// WizardService

type StartWizardRequest struct{}

type GetWizardRequest struct{}

// WizardResponse is returned by every WizardService call that changes or
// reads the wizard.
type WizardResponse struct {
	State wizard.State `json:"state"`
}

type DetailsInput struct {
	Name        string `json:"name"`
	Image       string `json:"image,omitempty"`
	Description string `json:"description,omitempty"`
}

// UpdateWizardRequest sets the field of the current step. Exactly one field
// should be set, matching the step the wizard is on.
type UpdateWizardRequest struct {
	Details         *DetailsInput       `json:"details,omitempty"`
	SocialLinks     *models.SocialLinks `json:"socialLinks,omitempty"`
	Platform        *string             `json:"platform,omitempty"`
	LiquidityAmount *float64            `json:"liquidityAmount,omitempty"`
}

// Advance actions.
const (
	ActionNext = "next"
	ActionBack = "back"
	ActionSkip = "skip"
)

type AdvanceRequest struct {
	Action string `json:"action"`

	// Wait blocks until a simulated step that the move entered has finished.
	Wait bool `json:"wait,omitempty"`
}

type ConnectWalletRequest struct {
	// Wait blocks until the simulated connection completes.
	Wait bool `json:"wait,omitempty"`
}

type CancelWizardRequest struct{}

type CancelWizardResponse struct {
	Cancelled bool `json:"cancelled"`
}

// DashboardService

type GetOverviewRequest struct{}

type GetOverviewResponse struct {
	Coins        []models.Coin        `json:"coins"`
	Transactions []models.Transaction `json:"transactions"`
	Summary      calculator.Summary   `json:"summary"`
}

// RemoveLiquidityRequest withdraws either Amount SOL or a Preset ("25", "50", "max").
type RemoveLiquidityRequest struct {
	CoinID string   `json:"coinId"`
	Amount *float64 `json:"amount,omitempty"`
	Preset string   `json:"preset,omitempty"`
}

type RemoveLiquidityResponse struct {
	Deleted bool         `json:"deleted"`
	Amount  float64      `json:"amount"`
	Coin    *models.Coin `json:"coin,omitempty"`
}

type GeneratePNLRequest struct{}

type GeneratePNLResponse struct {
	Coins []models.Coin `json:"coins"`
}

type DeleteTransactionRequest struct {
	TransactionID string `json:"transactionId"`
}

type DeleteTransactionResponse struct{}
