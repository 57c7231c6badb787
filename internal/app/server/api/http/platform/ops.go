package platform

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) listOp() huma.Operation {
	return huma.Operation{
		OperationID: "platforms-list",
		Method:      http.MethodGet,
		Path:        "/api/platforms",
		Summary:     "List platform credentials",
		Tags:        []string{"platforms"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) createOp() huma.Operation {
	return huma.Operation{
		OperationID: "platforms-create",
		Method:      http.MethodPost,
		Path:        "/api/platforms",
		Summary:     "Create a platform credential",
		Description: "Requires the write role.",
		Tags:        []string{"platforms"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) getOp() huma.Operation {
	return huma.Operation{
		OperationID: "platforms-get",
		Method:      http.MethodGet,
		Path:        "/api/platforms/{id}",
		Summary:     "Get a platform credential",
		Tags:        []string{"platforms"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) updateOp() huma.Operation {
	return huma.Operation{
		OperationID: "platforms-update",
		Method:      http.MethodPut,
		Path:        "/api/platforms/{id}",
		Summary:     "Update a platform credential",
		Description: "Requires the write role.",
		Tags:        []string{"platforms"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) deleteOp() huma.Operation {
	return huma.Operation{
		OperationID: "platforms-delete",
		Method:      http.MethodDelete,
		Path:        "/api/platforms/{id}",
		Summary:     "Delete a platform credential",
		Description: "Requires the manager role.",
		Tags:        []string{"platforms"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) listTagsOp() huma.Operation {
	return huma.Operation{
		OperationID: "platforms-tags-list",
		Method:      http.MethodGet,
		Path:        "/api/platforms/{id}/tags",
		Summary:     "List advisory access tags",
		Description: "Tags are display metadata only and never gate an operation.",
		Tags:        []string{"platforms", "tags"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) setTagOp() huma.Operation {
	return huma.Operation{
		OperationID: "platforms-tags-set",
		Method:      http.MethodPut,
		Path:        "/api/platforms/{id}/tags",
		Summary:     "Set an advisory access tag",
		Description: "Requires the manager role. Re-tagging the same user relabels in place.",
		Tags:        []string{"platforms", "tags"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) removeTagOp() huma.Operation {
	return huma.Operation{
		OperationID: "platforms-tags-remove",
		Method:      http.MethodDelete,
		Path:        "/api/platforms/{id}/tags/{user_id}",
		Summary:     "Remove an advisory access tag",
		Description: "Requires the manager role.",
		Tags:        []string{"platforms", "tags"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) historyOp() huma.Operation {
	return huma.Operation{
		OperationID: "platforms-history",
		Method:      http.MethodGet,
		Path:        "/api/platforms/{id}/history",
		Summary:     "Audit history of a platform credential",
		Description: "Newest first. Sensitive field values appear redacted.",
		Tags:        []string{"platforms", "audit"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}
