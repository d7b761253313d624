package models

// User is a system account (not a traveler). The username columns hold
// cipher tokens; lookups decrypt username_encrypted and compare
// case-insensitively, so no plaintext username ever reaches the datastore.
type User struct {
	ID                int64
	Username          string
	UsernameEncrypted string
	PasswordHash      string
	Role              string
	FirstName         string
	LastName          string
	CreatedDate       string
	CreatedBy         *int64
	IsActive          bool
}
