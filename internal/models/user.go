package models

// User represents a registered user account as seen by sessions and views.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string `json:"id"`

	// Username is the login name. Unique across the users collection.
	Username string `json:"username"`

	// Name is the display name. Defaults to Username at registration.
	Name string `json:"name"`
}

// DisplayName returns Name, falling back to Username.
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Username
}
