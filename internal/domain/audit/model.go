package audit

import (
	"time"

	"github.com/google/uuid"
)

type Action string

const (
	ActionCreate        Action = "create"
	ActionUpdate        Action = "update"
	ActionDelete        Action = "delete"
	ActionAccessGranted Action = "access_granted"
	ActionAccessRevoked Action = "access_revoked"
)

// ResourceType namespaces audited resources so the same numeric IDs from
// different tables never collide in the trail.
type ResourceType string

const (
	ResourceVaultItem ResourceType = "vault_item"
	ResourcePlatform  ResourceType = "platform_credential"
)

// RedactionMarker replaces sensitive field values before persistence.
const RedactionMarker = "[REDACTED]"

// sensitiveFields lists, per resource type, the fields whose values are
// substituted with RedactionMarker unconditionally. There is no bypass.
var sensitiveFields = map[ResourceType]map[string]bool{
	ResourceVaultItem: {
		"password":    true,
		"totp_secret": true,
		"username":    true,
	},
	ResourcePlatform: {
		"password":    true,
		"totp_secret": true,
	},
}

// IsSensitive reports whether values of the field must be redacted for the
// given resource type.
func IsSensitive(resourceType ResourceType, field string) bool {
	return sensitiveFields[resourceType][field]
}

// Origin captures where a request came from, for the audit trail.
type Origin struct {
	IP        string `json:"ip,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`
}

// Entry is a single immutable audit record. Old/new values are independently
// nullable: a create has no old value, a delete no new one.
type Entry struct {
	ID           uuid.UUID    `json:"id"`
	ResourceType ResourceType `json:"resource_type"`
	ResourceID   int          `json:"resource_id"`
	Action       Action       `json:"action"`
	Field        string       `json:"field,omitempty"`
	OldValue     *string      `json:"old_value,omitempty"`
	NewValue     *string      `json:"new_value,omitempty"`
	ActorID      int          `json:"actor_id"`
	Origin       Origin       `json:"origin,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
}
