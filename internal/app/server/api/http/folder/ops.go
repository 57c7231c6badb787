package folder

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) listOp() huma.Operation {
	return huma.Operation{
		OperationID: "folders-list",
		Method:      http.MethodGet,
		Path:        "/api/folders",
		Summary:     "List own folders",
		Tags:        []string{"folders"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) createOp() huma.Operation {
	return huma.Operation{
		OperationID: "folders-create",
		Method:      http.MethodPost,
		Path:        "/api/folders",
		Summary:     "Create a folder",
		Tags:        []string{"folders"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) renameOp() huma.Operation {
	return huma.Operation{
		OperationID: "folders-rename",
		Method:      http.MethodPut,
		Path:        "/api/folders/{id}",
		Summary:     "Rename a folder",
		Tags:        []string{"folders"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) moveOp() huma.Operation {
	return huma.Operation{
		OperationID: "folders-move",
		Method:      http.MethodPut,
		Path:        "/api/folders/{id}/parent",
		Summary:     "Move a folder",
		Description: "Re-parents the folder. A move that would close a cycle in the hierarchy is rejected.",
		Tags:        []string{"folders"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) deleteOp() huma.Operation {
	return huma.Operation{
		OperationID: "folders-delete",
		Method:      http.MethodDelete,
		Path:        "/api/folders/{id}",
		Summary:     "Delete a folder",
		Description: "Contained items fall back to no folder; child folders move up to the deleted folder's parent.",
		Tags:        []string{"folders"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}
