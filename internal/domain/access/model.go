package access

import (
	"fmt"

	"github.com/danielgtaylor/huma/v2"
)

// Level is the closed set of effective access levels over a vault item.
// Platform credentials use free-form advisory tags instead and never go
// through this algebra.
type Level string

const (
	LevelNone  Level = "none"
	LevelRead  Level = "read"
	LevelEdit  Level = "edit"
	LevelOwner Level = "owner"
)

var levelRank = map[Level]int{
	LevelNone:  0,
	LevelRead:  1,
	LevelEdit:  2,
	LevelOwner: 3,
}

func (l Level) Rank() int {
	return levelRank[l]
}

// Max returns the more permissive of the two levels.
func (l Level) Max(other Level) Level {
	if other.Rank() > l.Rank() {
		return other
	}
	return l
}

func (Level) Schema() huma.Schema {
	return huma.Schema{
		Type: "string",
		Enum: []any{
			string(LevelRead),
			string(LevelEdit),
		},
		Description: "Access level for a grant",
		Examples:    []any{LevelRead},
	}
}

// ValidateGrantable reports whether the level may appear on a grant.
// Ownership is a relation on the item itself, never a grant.
func (l Level) ValidateGrantable() error {
	switch l {
	case LevelRead, LevelEdit:
		return nil
	}
	return fmt.Errorf("level %q is not grantable", l)
}

func (l Level) String() string {
	return string(l)
}

// GranteeType distinguishes user grants from group grants.
type GranteeType string

const (
	GranteeUser  GranteeType = "user"
	GranteeGroup GranteeType = "group"
)

// Grantee identifies who a grant points at.
type Grantee struct {
	Type GranteeType `json:"type"`
	ID   int         `json:"id"`
}

// Grant ties a vault item to a grantee at a level. Unique per (item, grantee):
// re-granting updates in place.
type Grant struct {
	ItemID  int     `json:"item_id"`
	Grantee Grantee `json:"grantee"`
	Level   Level   `json:"level"`
}

// Result is the resolver's answer for one (principal, item) pair.
type Result struct {
	CanAccess bool  `json:"can_access"`
	Level     Level `json:"level"`
}

// CanEdit reports whether the level permits mutation.
func (r Result) CanEdit() bool {
	return r.Level == LevelOwner || r.Level == LevelEdit
}

// IsOwner reports absolute ownership.
func (r Result) IsOwner() bool {
	return r.Level == LevelOwner
}
