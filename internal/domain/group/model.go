package group

import (
	"fmt"
	"time"

	"github.com/danielgtaylor/huma/v2"
)

// MemberRole is the role a member holds inside a group. Group ownership is a
// distinct relation on the group itself, never a member row.
type MemberRole string

const (
	RoleMember MemberRole = "member"
	RoleAdmin  MemberRole = "admin"
)

func (MemberRole) Schema() huma.Schema {
	return huma.Schema{
		Type:        "string",
		Enum:        []any{string(RoleMember), string(RoleAdmin)},
		Description: "Role of a group member",
		Examples:    []any{RoleMember},
	}
}

func (r MemberRole) Validate() error {
	switch r {
	case RoleMember, RoleAdmin:
		return nil
	}
	return fmt.Errorf("invalid member role: %s", r)
}

type Group struct {
	ID        int       `json:"id"`
	OwnerID   int       `json:"owner_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type Member struct {
	GroupID int        `json:"group_id"`
	UserID  int        `json:"user_id"`
	Role    MemberRole `json:"role"`
	AddedAt time.Time  `json:"added_at"`
}
