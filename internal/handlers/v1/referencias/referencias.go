// Package referencias exposes the drawers' lookup lists.
package referencias

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/contabhub/financeiro-server/internal/handlers/v1/request"
	"github.com/contabhub/financeiro-server/internal/logging"
	"github.com/contabhub/financeiro-server/internal/service"
	"github.com/contabhub/financeiro-server/internal/session"
)

// carregador is the interface for the reference loads.
type carregador interface {
	Carregar(ctx context.Context, sess session.Session, tipo service.Tipo) (*service.Referencias, error)
}

// ListReferenciasInput is the Huma input for the lookup lists.
type ListReferenciasInput struct {
	request.SessionHeaders
	Tipo string `path:"tipo" enum:"saidas,entradas" doc:"Listing type the drawers target"`
}

// ListReferenciasOutput is the Huma output for the lookup lists.
type ListReferenciasOutput struct {
	Body service.Referencias
}

// Handler handles GET /v1/referencias/{tipo}.
type Handler struct {
	Referencias carregador
}

// NewHandler creates a new Handler.
func NewHandler(svc carregador) *Handler {
	return &Handler{Referencias: svc}
}

// Register registers the lookup endpoint with the Huma API.
func (h *Handler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-referencias",
		Method:      http.MethodGet,
		Path:        "/v1/referencias/{tipo}",
		Summary:     "List reference data",
		Description: "Returns every lookup list the drawers need, in one response.",
		Tags:        []string{"Referencias"},
	}, h.handle)
}

func (h *Handler) handle(ctx context.Context, input *ListReferenciasInput) (*ListReferenciasOutput, error) {
	sess, err := input.Session()
	if err != nil {
		return nil, err
	}

	logData := logging.GetLogData(ctx)
	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("carregarReferenciasMs")
	}
	refs, err := h.Referencias.Carregar(ctx, sess, service.Tipo(input.Tipo))
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		if errors.Is(err, service.ErrEntradaInvalida) {
			return nil, huma.NewError(http.StatusUnprocessableEntity, err.Error())
		}
		return nil, request.MapUpstreamError(err, "failed to load reference data")
	}

	return &ListReferenciasOutput{Body: *refs}, nil
}
