package folder

import (
	"time"
)

// Folder organizes a principal's vault items. Purely organizational: folders
// carry no access semantics of their own.
type Folder struct {
	ID        int       `json:"id"`
	OwnerID   int       `json:"owner_id"`
	ParentID  *int      `json:"parent_id,omitempty"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
