package models

import "time"

// Account is a registered learner. The API key is stored encrypted under the
// server passphrase; EncryptedAPIKey and IV are hex encoded.
type Account struct {
	ID              string
	Username        string
	PasswordSalt    []byte
	PasswordHash    []byte
	EncryptedAPIKey string
	IV              string
	CreatedAt       time.Time
}

// Identity is the public part of an account.
type Identity struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

func (a *Account) Identity() Identity {
	return Identity{ID: a.ID, Username: a.Username}
}
