package folder

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"credvault/internal/app/server/api/http/middleware/auth"
	"credvault/internal/domain/folder"
)

type Handler struct {
	service    folder.Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service folder.Servicer, log *slog.Logger, mws huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		log:        log,
		middleware: mws,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.listOp(), h.list)
	huma.Register(api, h.createOp(), h.create)
	huma.Register(api, h.renameOp(), h.rename)
	huma.Register(api, h.moveOp(), h.move)
	huma.Register(api, h.deleteOp(), h.delete)
}

func (h *Handler) list(ctx context.Context, _ *struct{}) (*listOutput, error) {
	principal, ok := auth.GetPrincipal(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	folders, err := h.service.List(ctx, principal.ID)
	if err != nil {
		return nil, mapError(err)
	}
	return &listOutput{Body: folders}, nil
}

func (h *Handler) create(ctx context.Context, input *createInput) (*folderOutput, error) {
	principal, ok := auth.GetPrincipal(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	created, err := h.service.Create(ctx, principal.ID, input.Body.Name, input.Body.ParentID)
	if err != nil {
		return nil, mapError(err)
	}
	return &folderOutput{Body: created}, nil
}

func (h *Handler) rename(ctx context.Context, input *renameInput) (*statusOutput, error) {
	principal, ok := auth.GetPrincipal(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	if err := h.service.Rename(ctx, principal.ID, input.ID, input.Body.Name); err != nil {
		return nil, mapError(err)
	}
	return &statusOutput{Body: statusResponse{Status: "Ok"}}, nil
}

func (h *Handler) move(ctx context.Context, input *moveInput) (*statusOutput, error) {
	principal, ok := auth.GetPrincipal(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	if err := h.service.Move(ctx, principal.ID, input.ID, input.Body.ParentID); err != nil {
		return nil, mapError(err)
	}
	return &statusOutput{Body: statusResponse{Status: "Ok"}}, nil
}

func (h *Handler) delete(ctx context.Context, input *deleteInput) (*statusOutput, error) {
	principal, ok := auth.GetPrincipal(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	if err := h.service.Delete(ctx, principal.ID, input.ID); err != nil {
		return nil, mapError(err)
	}
	return &statusOutput{Body: statusResponse{Status: "Ok"}}, nil
}

func mapError(err error) error {
	switch {
	case errors.Is(err, folder.ErrNotFound):
		return huma.Error404NotFound("folder not found")
	case errors.Is(err, folder.ErrConflict):
		return huma.Error409Conflict(err.Error())
	case errors.Is(err, folder.ErrCycle):
		return huma.Error422UnprocessableEntity(err.Error())
	case errors.Is(err, folder.ErrValidation):
		return huma.Error422UnprocessableEntity(err.Error())
	}
	return err
}
