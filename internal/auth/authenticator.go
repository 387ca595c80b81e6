package auth

import (
	"context"

	"github.com/mmynk/autorug/internal/models"
)

// Authenticator defines the interface for authentication implementations.
// The session and service layers only see this, so the credential scheme can
// change without touching them.
type Authenticator interface {
	// Register creates a new user account with the given username and credential.
	// name is optional display text.
	Register(ctx context.Context, username, name, credential string) (*models.User, error)

	// Authenticate verifies the credential and returns the matching user.
	// Unknown usernames and wrong credentials fail with the same error.
	Authenticate(ctx context.Context, username, credential string) (*models.User, error)

	// ValidateCredential checks if the credential meets the implementation's requirements.
	ValidateCredential(credential string) error
}
