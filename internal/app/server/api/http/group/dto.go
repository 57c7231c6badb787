package group

import (
	"credvault/internal/domain/group"
)

type listOutput struct {
	Body []group.Group
}

type createInput struct {
	Body createRequest
}

type createRequest struct {
	Name string `json:"name" minLength:"1" doc:"Group name, unique per owner"`
}

type groupOutput struct {
	Body *group.Group
}

type groupIDInput struct {
	ID int `path:"id" example:"1" doc:"Group ID"`
}

type membersOutput struct {
	Body []group.Member
}

type addMemberInput struct {
	ID   int `path:"id" example:"1" doc:"Group ID"`
	Body memberRequest
}

type memberRequest struct {
	UserID int              `json:"user_id" doc:"User to add"`
	Role   group.MemberRole `json:"role,omitempty" doc:"Member role, defaults to member"`
}

type memberPathInput struct {
	ID     int `path:"id" example:"1" doc:"Group ID"`
	UserID int `path:"user_id" example:"2" doc:"Member user ID"`
}

type updateRoleInput struct {
	ID     int `path:"id" example:"1" doc:"Group ID"`
	UserID int `path:"user_id" example:"2" doc:"Member user ID"`
	Body   roleRequest
}

type roleRequest struct {
	Role group.MemberRole `json:"role" doc:"New member role"`
}

type statusOutput struct {
	Body statusResponse
}

type statusResponse struct {
	Status string `json:"status"`
}
