package vault

import (
	"fmt"
	"time"

	"github.com/danielgtaylor/huma/v2"
)

// LoginType is the closed set of credential kinds a secure login item holds.
type LoginType string

const (
	LoginEmailPassword LoginType = "email_password"
	LoginGoogleOAuth   LoginType = "google_oauth"
)

func (LoginType) Schema() huma.Schema {
	return huma.Schema{
		Type: "string",
		Enum: []any{
			string(LoginEmailPassword),
			string(LoginGoogleOAuth),
		},
		Description: "Kind of credential stored in the item",
		Examples:    []any{LoginEmailPassword},
	}
}

func (t LoginType) Validate() error {
	switch t {
	case LoginEmailPassword, LoginGoogleOAuth:
		return nil
	}
	return fmt.Errorf("invalid login type: %s", t)
}

func (t LoginType) String() string {
	return string(t)
}

// Item is the decrypted view of a secure login item. The service always hands
// plaintext secrets to an authorized caller: encryption is an at-rest concern,
// never a response-shaping one.
type Item struct {
	ID              int       `json:"id"`
	OwnerID         int       `json:"owner_id"`
	Title           string    `json:"title"`
	URL             string    `json:"url,omitempty"`
	LoginType       LoginType `json:"login_type"`
	Username        string    `json:"username,omitempty"`
	Password        string    `json:"password,omitempty"`
	TOTPSecret      string    `json:"totp_secret,omitempty"`
	Notes           string    `json:"notes,omitempty"`
	GoogleAccountID *int      `json:"google_account_id,omitempty"`
	FolderID        *int      `json:"folder_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// StoredItem is the persisted form: secret fields hold ciphertext, or "" when
// the secret is absent (persisted as NULL). An item is never partially
// encrypted: every secret field is either empty or a valid ciphertext block.
type StoredItem struct {
	ID              int
	OwnerID         int
	Title           string
	URL             string
	LoginType       LoginType
	Username        string
	Password        string
	TOTPSecret      string
	Notes           string
	GoogleAccountID *int
	FolderID        *int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
