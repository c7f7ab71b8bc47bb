// Package model defines the data structures used throughout the application.
package model

// User represents a registered account as stored in the database document.
//
// WHY Password string (plaintext)?
// Credentials are compared as-is against the stored value — this service
// deliberately ships without password hashing (see internal/auth/password.go
// for the bcrypt service kept ready for when that changes). The important
// contract is that Password NEVER leaves the server: every API response uses
// PublicUser, which has no password field at all.
//
// WHY ProfilePicture string (not *string)?
// A user without a picture simply has "". The empty string is a safe zero
// value to render; a nullable pointer would only add nil checks everywhere.
type User struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	Password       string `json:"password"`
	ProfilePicture string `json:"profilePicture"`
}

// PublicUser is the projection of User returned by the API.
//
// It is a separate struct (rather than a `json:"-"` tag on User.Password)
// because User must still round-trip through the persisted document WITH its
// password. Two types, two jobs: User is the storage shape, PublicUser is the
// wire shape. Converting is explicit, so a handler can't accidentally
// serialize a raw User.
type PublicUser struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	ProfilePicture string `json:"profilePicture"`
}

// Public returns the API-safe projection of the user.
func (u User) Public() PublicUser {
	return PublicUser{
		ID:             u.ID,
		Username:       u.Username,
		ProfilePicture: u.ProfilePicture,
	}
}
