package group

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) listOp() huma.Operation {
	return huma.Operation{
		OperationID: "groups-list",
		Method:      http.MethodGet,
		Path:        "/api/groups",
		Summary:     "List groups owned or joined",
		Tags:        []string{"groups"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) createOp() huma.Operation {
	return huma.Operation{
		OperationID: "groups-create",
		Method:      http.MethodPost,
		Path:        "/api/groups",
		Summary:     "Create a sharing group",
		Tags:        []string{"groups"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) deleteOp() huma.Operation {
	return huma.Operation{
		OperationID: "groups-delete",
		Method:      http.MethodDelete,
		Path:        "/api/groups/{id}",
		Summary:     "Delete a group",
		Description: "Owner only. Memberships and group grants cascade away.",
		Tags:        []string{"groups"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) membersOp() huma.Operation {
	return huma.Operation{
		OperationID: "groups-members-list",
		Method:      http.MethodGet,
		Path:        "/api/groups/{id}/members",
		Summary:     "List group members",
		Tags:        []string{"groups"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) addMemberOp() huma.Operation {
	return huma.Operation{
		OperationID: "groups-members-add",
		Method:      http.MethodPost,
		Path:        "/api/groups/{id}/members",
		Summary:     "Add a group member",
		Description: "Requires manage authority. The group owner can never be added as a member.",
		Tags:        []string{"groups"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) removeMemberOp() huma.Operation {
	return huma.Operation{
		OperationID: "groups-members-remove",
		Method:      http.MethodDelete,
		Path:        "/api/groups/{id}/members/{user_id}",
		Summary:     "Remove a group member",
		Description: "Managers can remove anyone but the owner; members can remove themselves.",
		Tags:        []string{"groups"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) updateRoleOp() huma.Operation {
	return huma.Operation{
		OperationID: "groups-members-role",
		Method:      http.MethodPut,
		Path:        "/api/groups/{id}/members/{user_id}/role",
		Summary:     "Change a member's role",
		Description: "Owner only.",
		Tags:        []string{"groups"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}
