package item

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) listOp() huma.Operation {
	return huma.Operation{
		OperationID: "items-list",
		Method:      http.MethodGet,
		Path:        "/api/items",
		Summary:     "List accessible vault items",
		Description: "Returns owned, directly granted and group-granted items. Filters and pagination apply inside the accessible set only.",
		Tags:        []string{"items"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) createOp() huma.Operation {
	return huma.Operation{
		OperationID: "items-create",
		Method:      http.MethodPost,
		Path:        "/api/items",
		Summary:     "Create a vault item",
		Tags:        []string{"items"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) getOp() huma.Operation {
	return huma.Operation{
		OperationID: "items-get",
		Method:      http.MethodGet,
		Path:        "/api/items/{id}",
		Summary:     "Get a vault item",
		Tags:        []string{"items"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) updateOp() huma.Operation {
	return huma.Operation{
		OperationID: "items-update",
		Method:      http.MethodPut,
		Path:        "/api/items/{id}",
		Summary:     "Update a vault item",
		Tags:        []string{"items"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) deleteOp() huma.Operation {
	return huma.Operation{
		OperationID: "items-delete",
		Method:      http.MethodDelete,
		Path:        "/api/items/{id}",
		Summary:     "Delete a vault item",
		Description: "Owner only. Grants on the item cascade away.",
		Tags:        []string{"items"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) listGrantsOp() huma.Operation {
	return huma.Operation{
		OperationID: "items-grants-list",
		Method:      http.MethodGet,
		Path:        "/api/items/{id}/grants",
		Summary:     "List grants on a vault item",
		Tags:        []string{"items", "grants"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) grantOp() huma.Operation {
	return huma.Operation{
		OperationID: "items-grant",
		Method:      http.MethodPut,
		Path:        "/api/items/{id}/grants",
		Summary:     "Grant or update access to a vault item",
		Description: "Owner only. Re-granting the same grantee updates the level in place.",
		Tags:        []string{"items", "grants"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) revokeOp() huma.Operation {
	return huma.Operation{
		OperationID: "items-revoke",
		Method:      http.MethodDelete,
		Path:        "/api/items/{id}/grants/{grantee_type}/{grantee_id}",
		Summary:     "Revoke access to a vault item",
		Tags:        []string{"items", "grants"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) historyOp() huma.Operation {
	return huma.Operation{
		OperationID: "items-history",
		Method:      http.MethodGet,
		Path:        "/api/items/{id}/history",
		Summary:     "Audit history of a vault item",
		Description: "Newest first. Sensitive field values appear redacted.",
		Tags:        []string{"items", "audit"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}
