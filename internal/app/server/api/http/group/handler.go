package group

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"credvault/internal/app/server/api/http/middleware/auth"
	"credvault/internal/domain/group"
)

type Handler struct {
	service    group.Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service group.Servicer, log *slog.Logger, mws huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		log:        log,
		middleware: mws,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.listOp(), h.list)
	huma.Register(api, h.createOp(), h.create)
	huma.Register(api, h.deleteOp(), h.delete)
	huma.Register(api, h.membersOp(), h.members)
	huma.Register(api, h.addMemberOp(), h.addMember)
	huma.Register(api, h.removeMemberOp(), h.removeMember)
	huma.Register(api, h.updateRoleOp(), h.updateRole)
}

func (h *Handler) list(ctx context.Context, _ *struct{}) (*listOutput, error) {
	principal, ok := auth.GetPrincipal(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	groups, err := h.service.List(ctx, principal.ID)
	if err != nil {
		return nil, mapError(err)
	}
	return &listOutput{Body: groups}, nil
}

func (h *Handler) create(ctx context.Context, input *createInput) (*groupOutput, error) {
	principal, ok := auth.GetPrincipal(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	created, err := h.service.Create(ctx, principal.ID, input.Body.Name)
	if err != nil {
		return nil, mapError(err)
	}
	return &groupOutput{Body: created}, nil
}

func (h *Handler) delete(ctx context.Context, input *groupIDInput) (*statusOutput, error) {
	principal, ok := auth.GetPrincipal(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	if err := h.service.Delete(ctx, principal.ID, input.ID); err != nil {
		return nil, mapError(err)
	}
	return &statusOutput{Body: statusResponse{Status: "Ok"}}, nil
}

func (h *Handler) members(ctx context.Context, input *groupIDInput) (*membersOutput, error) {
	principal, ok := auth.GetPrincipal(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	members, err := h.service.Members(ctx, principal.ID, input.ID)
	if err != nil {
		return nil, mapError(err)
	}
	return &membersOutput{Body: members}, nil
}

func (h *Handler) addMember(ctx context.Context, input *addMemberInput) (*statusOutput, error) {
	principal, ok := auth.GetPrincipal(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	role := input.Body.Role
	if role == "" {
		role = group.RoleMember
	}
	if err := h.service.AddMember(ctx, principal.ID, input.ID, input.Body.UserID, role); err != nil {
		return nil, mapError(err)
	}
	return &statusOutput{Body: statusResponse{Status: "Ok"}}, nil
}

func (h *Handler) removeMember(ctx context.Context, input *memberPathInput) (*statusOutput, error) {
	principal, ok := auth.GetPrincipal(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	if err := h.service.RemoveMember(ctx, principal.ID, input.ID, input.UserID); err != nil {
		return nil, mapError(err)
	}
	return &statusOutput{Body: statusResponse{Status: "Ok"}}, nil
}

func (h *Handler) updateRole(ctx context.Context, input *updateRoleInput) (*statusOutput, error) {
	principal, ok := auth.GetPrincipal(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	if err := h.service.UpdateRole(ctx, principal.ID, input.ID, input.UserID, input.Body.Role); err != nil {
		return nil, mapError(err)
	}
	return &statusOutput{Body: statusResponse{Status: "Ok"}}, nil
}

func mapError(err error) error {
	switch {
	case errors.Is(err, group.ErrNotFound):
		return huma.Error404NotFound("group not found")
	case errors.Is(err, group.ErrMemberNotFound):
		return huma.Error404NotFound("member not found")
	case errors.Is(err, group.ErrDenied):
		return huma.Error403Forbidden(err.Error())
	case errors.Is(err, group.ErrConflict):
		return huma.Error409Conflict(err.Error())
	case errors.Is(err, group.ErrOwnerIsMember):
		return huma.Error422UnprocessableEntity(err.Error())
	case errors.Is(err, group.ErrInvalidRole):
		return huma.Error422UnprocessableEntity(err.Error())
	case errors.Is(err, group.ErrValidation):
		return huma.Error422UnprocessableEntity(err.Error())
	}
	return err
}
