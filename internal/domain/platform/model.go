package platform

import (
	"time"
)

// Credential is the decrypted view of an ecosystem-scoped social media
// account. Unlike vault items the username is plaintext metadata: teams search
// platform accounts by handle.
type Credential struct {
	ID          int       `json:"id"`
	EcosystemID int       `json:"ecosystem_id"`
	Name        string    `json:"name"`
	URL         string    `json:"url,omitempty"`
	Username    string    `json:"username,omitempty"`
	Password    string    `json:"password,omitempty"`
	TOTPSecret  string    `json:"totp_secret,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// StoredCredential is the persisted form: password and totp_secret hold
// ciphertext, or "" when absent (persisted as NULL).
type StoredCredential struct {
	ID          int
	EcosystemID int
	Name        string
	URL         string
	Username    string
	Password    string
	TOTPSecret  string
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// AccessTag is an advisory, free-form role label attached to a (platform,
// user) pair, e.g. "Admin" or "Editor". Tags are display metadata: nothing
// combines them into an effective permission, and they never gate an
// operation. They are still persisted and audited like grants because teams
// rely on the trail to see who was handed which account.
type AccessTag struct {
	ID         int       `json:"id"`
	PlatformID int       `json:"platform_id"`
	UserID     int       `json:"user_id"`
	Label      string    `json:"label"`
	CreatedAt  time.Time `json:"created_at"`
}
