package item

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"credvault/internal/app/server/api/http/middleware/auth"
	"credvault/internal/app/server/api/http/middleware/origin"
	"credvault/internal/domain/access"
	"credvault/internal/domain/vault"
)

type Handler struct {
	service    vault.Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service vault.Servicer, log *slog.Logger, mws huma.Middlewares) *Handler {
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
	huma.Register(api, h.listGrantsOp(), h.listGrants)
	huma.Register(api, h.grantOp(), h.grant)
	huma.Register(api, h.revokeOp(), h.revoke)
	huma.Register(api, h.historyOp(), h.history)
}

func (h *Handler) list(ctx context.Context, input *listInput) (*listOutput, error) {
	principal, ok := auth.GetPrincipal(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	filter := vault.ListFilter{
		Query:    input.Query,
		FolderID: input.FolderID,
		Limit:    input.Limit,
		Offset:   input.Offset,
	}
	if input.LoginType != "" {
		lt := vault.LoginType(input.LoginType)
		if err := lt.Validate(); err != nil {
			return nil, huma.Error422UnprocessableEntity(err.Error())
		}
		filter.LoginType = &lt
	}

	resp, err := h.service.List(ctx, principal.ID, filter)
	if err != nil {
		return nil, mapError(err)
	}
	return &listOutput{Body: resp}, nil
}

func (h *Handler) create(ctx context.Context, input *createInput) (*itemOutput, error) {
	principal, ok := auth.GetPrincipal(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	created, err := h.service.Create(ctx, principal.ID, vault.CreateInput{
		Title:           input.Body.Title,
		URL:             input.Body.URL,
		LoginType:       input.Body.LoginType,
		Username:        input.Body.Username,
		Password:        input.Body.Password,
		TOTPSecret:      input.Body.TOTPSecret,
		Notes:           input.Body.Notes,
		GoogleAccountID: input.Body.GoogleAccountID,
		FolderID:        input.Body.FolderID,
	}, origin.FromContext(ctx))
	if err != nil {
		return nil, mapError(err)
	}
	return &itemOutput{Body: created}, nil
}

func (h *Handler) get(ctx context.Context, input *getInput) (*itemOutput, error) {
	principal, ok := auth.GetPrincipal(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	item, err := h.service.Get(ctx, principal.ID, input.ID)
	if err != nil {
		return nil, mapError(err)
	}
	return &itemOutput{Body: item}, nil
}

func (h *Handler) update(ctx context.Context, input *updateInput) (*itemOutput, error) {
	principal, ok := auth.GetPrincipal(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	item, err := h.service.Update(ctx, principal.ID, input.ID, vault.UpdateInput{
		Title:       input.Body.Title,
		URL:         input.Body.URL,
		LoginType:   input.Body.LoginType,
		Username:    input.Body.Username,
		Password:    input.Body.Password,
		TOTPSecret:  input.Body.TOTPSecret,
		Notes:       input.Body.Notes,
		FolderID:    input.Body.FolderID,
		ClearFolder: input.Body.ClearFolder,
	}, origin.FromContext(ctx))
	if err != nil {
		return nil, mapError(err)
	}
	return &itemOutput{Body: item}, nil
}

func (h *Handler) delete(ctx context.Context, input *getInput) (*statusOutput, error) {
	principal, ok := auth.GetPrincipal(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	if err := h.service.Delete(ctx, principal.ID, input.ID, origin.FromContext(ctx)); err != nil {
		return nil, mapError(err)
	}
	return &statusOutput{Body: statusResponse{Status: "Ok"}}, nil
}

func (h *Handler) listGrants(ctx context.Context, input *getInput) (*grantsOutput, error) {
	principal, ok := auth.GetPrincipal(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	grants, err := h.service.ListGrants(ctx, principal.ID, input.ID)
	if err != nil {
		return nil, mapError(err)
	}
	return &grantsOutput{Body: grants}, nil
}

func (h *Handler) grant(ctx context.Context, input *grantInput) (*statusOutput, error) {
	principal, ok := auth.GetPrincipal(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	if err := input.Body.Level.ValidateGrantable(); err != nil {
		return nil, huma.Error422UnprocessableEntity(err.Error())
	}

	err := h.service.GrantAccess(ctx, principal.ID, input.ID,
		access.Grantee{Type: input.Body.GranteeType, ID: input.Body.GranteeID},
		input.Body.Level, origin.FromContext(ctx))
	if err != nil {
		return nil, mapError(err)
	}
	return &statusOutput{Body: statusResponse{Status: "Ok"}}, nil
}

func (h *Handler) revoke(ctx context.Context, input *revokeInput) (*statusOutput, error) {
	principal, ok := auth.GetPrincipal(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	err := h.service.RevokeAccess(ctx, principal.ID, input.ID,
		access.Grantee{Type: input.GranteeType, ID: input.GranteeID},
		origin.FromContext(ctx))
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

	entries, err := h.service.History(ctx, principal.ID, input.ID, input.Limit)
	if err != nil {
		return nil, mapError(err)
	}
	return &historyOutput{Body: entries}, nil
}

// mapError translates domain errors to HTTP ones. Not-found and denied share
// one 404 so responses never disclose whether an inaccessible item exists.
func mapError(err error) error {
	switch {
	case vault.IsNotFound(err):
		return huma.Error404NotFound("item not found")
	case errors.Is(err, access.ErrGrantNotFound):
		return huma.Error404NotFound("grant not found")
	case errors.Is(err, vault.ErrValidation):
		return huma.Error422UnprocessableEntity(err.Error())
	case errors.Is(err, access.ErrSelfGrant):
		return huma.Error422UnprocessableEntity(err.Error())
	}
	return err
}
