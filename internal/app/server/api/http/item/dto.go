package item

import (
	"credvault/internal/domain/access"
	"credvault/internal/domain/audit"
	"credvault/internal/domain/vault"
)

type listInput struct {
	Query     string `query:"q" doc:"Search in title and url"`
	FolderID  *int   `query:"folder_id" doc:"Only items in this folder"`
	LoginType string `query:"login_type" doc:"Only items of this login type"`
	Limit     int    `query:"limit" default:"50" maximum:"200" doc:"Page size"`
	Offset    int    `query:"offset" doc:"Page offset"`
}

type listOutput struct {
	Body vault.ListResponse
}

type getInput struct {
	ID int `path:"id" example:"1" doc:"Item ID"`
}

type itemOutput struct {
	Body *vault.Item
}

type createInput struct {
	Body createRequest
}

type createRequest struct {
	Title           string          `json:"title" minLength:"1" doc:"Item title"`
	URL             string          `json:"url,omitempty" doc:"Resource URL"`
	LoginType       vault.LoginType `json:"login_type" doc:"Kind of credential"`
	Username        string          `json:"username,omitempty" doc:"Login name"`
	Password        string          `json:"password,omitempty" doc:"Password"`
	TOTPSecret      string          `json:"totp_secret,omitempty" doc:"TOTP seed"`
	Notes           string          `json:"notes,omitempty" doc:"Free-form notes"`
	GoogleAccountID *int            `json:"google_account_id,omitempty" doc:"Linked google account, required for google_oauth items"`
	FolderID        *int            `json:"folder_id,omitempty" doc:"Folder placement"`
}

type updateInput struct {
	ID   int `path:"id" example:"1" doc:"Item ID"`
	Body updateRequest
}

// updateRequest carries only the fields to touch; omitted fields stay as they
// are.
type updateRequest struct {
	Title       *string          `json:"title,omitempty" doc:"New title"`
	URL         *string          `json:"url,omitempty" doc:"New URL"`
	LoginType   *vault.LoginType `json:"login_type,omitempty" doc:"New login type"`
	Username    *string          `json:"username,omitempty" doc:"New login name"`
	Password    *string          `json:"password,omitempty" doc:"New password"`
	TOTPSecret  *string          `json:"totp_secret,omitempty" doc:"New TOTP seed"`
	Notes       *string          `json:"notes,omitempty" doc:"New notes"`
	FolderID    *int             `json:"folder_id,omitempty" doc:"Move into this folder"`
	ClearFolder bool             `json:"clear_folder,omitempty" doc:"Move the item out of any folder"`
}

type grantInput struct {
	ID   int `path:"id" example:"1" doc:"Item ID"`
	Body grantRequest
}

type grantRequest struct {
	GranteeType access.GranteeType `json:"grantee_type" enum:"user,group" doc:"Who the grant points at"`
	GranteeID   int                `json:"grantee_id" doc:"User or group ID"`
	Level       access.Level       `json:"level" doc:"Granted access level"`
}

type revokeInput struct {
	ID          int                `path:"id" example:"1" doc:"Item ID"`
	GranteeType access.GranteeType `path:"grantee_type" enum:"user,group" doc:"Who the grant points at"`
	GranteeID   int                `path:"grantee_id" doc:"User or group ID"`
}

type grantsOutput struct {
	Body []access.Grant
}

type historyInput struct {
	ID    int `path:"id" example:"1" doc:"Item ID"`
	Limit int `query:"limit" default:"50" maximum:"200" doc:"Max entries, newest first"`
}

type historyOutput struct {
	Body []audit.Entry
}

type statusOutput struct {
	Body statusResponse
}

type statusResponse struct {
	Status string `json:"status"`
}
