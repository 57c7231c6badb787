package platform

import (
	"credvault/internal/domain/audit"
	"credvault/internal/domain/platform"
)

type listInput struct {
	EcosystemID *int   `query:"ecosystem_id" doc:"Only credentials of this ecosystem"`
	Query       string `query:"q" doc:"Search in name, url and username"`
	Limit       int    `query:"limit" default:"50" maximum:"200" doc:"Page size"`
	Offset      int    `query:"offset" doc:"Page offset"`
}

type listOutput struct {
	Body platform.ListResponse
}

type getInput struct {
	ID int `path:"id" example:"1" doc:"Platform credential ID"`
}

type credentialOutput struct {
	Body *platform.Credential
}

type createInput struct {
	Body createRequest
}

type createRequest struct {
	EcosystemID int    `json:"ecosystem_id" doc:"Owning ecosystem"`
	Name        string `json:"name" minLength:"1" doc:"Platform account name"`
	URL         string `json:"url,omitempty" doc:"Platform URL"`
	Username    string `json:"username,omitempty" doc:"Account handle, stored as plaintext metadata"`
	Password    string `json:"password,omitempty" doc:"Password"`
	TOTPSecret  string `json:"totp_secret,omitempty" doc:"TOTP seed"`
	Notes       string `json:"notes,omitempty" doc:"Free-form notes"`
}

type updateInput struct {
	ID   int `path:"id" example:"1" doc:"Platform credential ID"`
	Body updateRequest
}

type updateRequest struct {
	Name       *string `json:"name,omitempty" doc:"New name"`
	URL        *string `json:"url,omitempty" doc:"New URL"`
	Username   *string `json:"username,omitempty" doc:"New account handle"`
	Password   *string `json:"password,omitempty" doc:"New password"`
	TOTPSecret *string `json:"totp_secret,omitempty" doc:"New TOTP seed"`
	Notes      *string `json:"notes,omitempty" doc:"New notes"`
}

type setTagInput struct {
	ID   int `path:"id" example:"1" doc:"Platform credential ID"`
	Body tagRequest
}

type tagRequest struct {
	UserID int    `json:"user_id" doc:"User the tag points at"`
	Label  string `json:"label" minLength:"1" doc:"Free-form role label, e.g. Admin or Editor"`
}

type tagPathInput struct {
	ID     int `path:"id" example:"1" doc:"Platform credential ID"`
	UserID int `path:"user_id" example:"2" doc:"Tagged user ID"`
}

type tagsOutput struct {
	Body []platform.AccessTag
}

type historyInput struct {
	ID    int `path:"id" example:"1" doc:"Platform credential ID"`
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
