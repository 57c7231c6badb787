package platform

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"credvault/internal/app/server/api/http/middleware/auth"
	"credvault/internal/app/server/api/http/middleware/origin"
	"credvault/internal/domain/platform"
)

type Handler struct {
	service    platform.Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service platform.Servicer, log *slog.Logger, mws huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		log:        log,
		middleware: mws,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.listOp(), h.list)
	huma.Register(api, h.createOp(), h.create)
	huma.Register(api, h.getOp(), h.get)
	huma.Register(api, h.updateOp(), h.update)
	huma.Register(api, h.deleteOp(), h.delete)
	huma.Register(api, h.listTagsOp(), h.listTags)
	huma.Register(api, h.setTagOp(), h.setTag)
	huma.Register(api, h.removeTagOp(), h.removeTag)
	huma.Register(api, h.historyOp(), h.history)
}

func (h *Handler) list(ctx context.Context, input *listInput) (*listOutput, error) {
	principal, ok := auth.GetPrincipal(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	resp, err := h.service.List(ctx, principal, platform.ListFilter{
		EcosystemID: input.EcosystemID,
		Query:       input.Query,
		Limit:       input.Limit,
		Offset:      input.Offset,
	})
	if err != nil {
		return nil, mapError(err)
	}
	return &listOutput{Body: resp}, nil
}

func (h *Handler) create(ctx context.Context, input *createInput) (*credentialOutput, error) {
	principal, ok := auth.GetPrincipal(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	created, err := h.service.Create(ctx, principal, platform.CreateInput{
		EcosystemID: input.Body.EcosystemID,
		Name:        input.Body.Name,
		URL:         input.Body.URL,
		Username:    input.Body.Username,
		Password:    input.Body.Password,
		TOTPSecret:  input.Body.TOTPSecret,
		Notes:       input.Body.Notes,
	}, origin.FromContext(ctx))
	if err != nil {
		return nil, mapError(err)
	}
	return &credentialOutput{Body: created}, nil
}

func (h *Handler) get(ctx context.Context, input *getInput) (*credentialOutput, error) {
	principal, ok := auth.GetPrincipal(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	cred, err := h.service.Get(ctx, principal, input.ID)
	if err != nil {
		return nil, mapError(err)
	}
	return &credentialOutput{Body: cred}, nil
}

func (h *Handler) update(ctx context.Context, input *updateInput) (*credentialOutput, error) {
	principal, ok := auth.GetPrincipal(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	cred, err := h.service.Update(ctx, principal, input.ID, platform.UpdateInput{
		Name:       input.Body.Name,
		URL:        input.Body.URL,
		Username:   input.Body.Username,
		Password:   input.Body.Password,
		TOTPSecret: input.Body.TOTPSecret,
		Notes:      input.Body.Notes,
	}, origin.FromContext(ctx))
	if err != nil {
		return nil, mapError(err)
	}
	return &credentialOutput{Body: cred}, nil
}

func (h *Handler) delete(ctx context.Context, input *getInput) (*statusOutput, error) {
	principal, ok := auth.GetPrincipal(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	if err := h.service.Delete(ctx, principal, input.ID, origin.FromContext(ctx)); err != nil {
		return nil, mapError(err)
	}
	return &statusOutput{Body: statusResponse{Status: "Ok"}}, nil
}

func (h *Handler) listTags(ctx context.Context, input *getInput) (*tagsOutput, error) {
	principal, ok := auth.GetPrincipal(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	tags, err := h.service.ListAccessTags(ctx, principal, input.ID)
	if err != nil {
		return nil, mapError(err)
	}
	return &tagsOutput{Body: tags}, nil
}

func (h *Handler) setTag(ctx context.Context, input *setTagInput) (*statusOutput, error) {
	principal, ok := auth.GetPrincipal(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	err := h.service.SetAccessTag(ctx, principal, input.ID, input.Body.UserID,
		input.Body.Label, origin.FromContext(ctx))
	if err != nil {
		return nil, mapError(err)
	}
	return &statusOutput{Body: statusResponse{Status: "Ok"}}, nil
}

func (h *Handler) removeTag(ctx context.Context, input *tagPathInput) (*statusOutput, error) {
	principal, ok := auth.GetPrincipal(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	err := h.service.RemoveAccessTag(ctx, principal, input.ID, input.UserID, origin.FromContext(ctx))
	if err != nil {
		return nil, mapError(err)
	}
	return &statusOutput{Body: statusResponse{Status: "Ok"}}, nil
}

func (h *Handler) history(ctx context.Context, input *historyInput) (*historyOutput, error) {
	principal, ok := auth.GetPrincipal(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	entries, err := h.service.History(ctx, principal, input.ID, input.Limit)
	if err != nil {
		return nil, mapError(err)
	}
	return &historyOutput{Body: entries}, nil
}

// mapError keeps not-found and denied distinct: platform existence is already
// visible through ecosystem membership, so a 403 leaks nothing.
func mapError(err error) error {
	switch {
	case errors.Is(err, platform.ErrNotFound):
		return huma.Error404NotFound("platform credential not found")
	case errors.Is(err, platform.ErrTagNotFound):
		return huma.Error404NotFound("access tag not found")
	case errors.Is(err, platform.ErrDenied):
		return huma.Error403Forbidden(err.Error())
	case errors.Is(err, platform.ErrValidation):
		return huma.Error422UnprocessableEntity(err.Error())
	}
	return err
}
