package transacao

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/contabhub/financeiro-server/internal/handlers/v1/request"
	"github.com/contabhub/financeiro-server/internal/service"
	"github.com/contabhub/financeiro-server/internal/session"
)

// transacaoRoteador is the interface for single-row mutations, routed by
// origin.
type transacaoRoteador interface {
	Excluir(ctx context.Context, sess session.Session, origem service.Origem, id int64) error
	AlterarSituacao(ctx context.Context, sess session.Session, origem service.Origem, id int64, alvo service.Situacao, hoje time.Time) error
}

// PatchSituacaoBody carries the status change for one row. The current status
// travels with the request so the transition can be checked.
type PatchSituacaoBody struct {
	Origem        string `json:"origem" required:"true" doc:"Record origin, used to pick the endpoint family"`
	SituacaoAtual string `json:"situacaoAtual" required:"true" doc:"Status the row is in"`
	Situacao      string `json:"situacao" required:"true" doc:"Target status"`
}

// PatchSituacaoInput is the Huma input for a status change.
type PatchSituacaoInput struct {
	request.SessionHeaders
	ID   int64 `path:"id" minimum:"1" doc:"Transaction id"`
	Body PatchSituacaoBody
}

// PatchSituacaoOutput is the Huma output for a status change.
type PatchSituacaoOutput struct {
	Status int `json:"-"`
}

// PatchSituacaoHandler handles PATCH /v1/transacoes/{id}/situacao.
type PatchSituacaoHandler struct {
	Rotas transacaoRoteador
	Now   func() time.Time
}

// NewPatchSituacaoHandler creates a new PatchSituacaoHandler.
func NewPatchSituacaoHandler(rotas transacaoRoteador) *PatchSituacaoHandler {
	return &PatchSituacaoHandler{Rotas: rotas, Now: time.Now}
}

// Register registers the status change endpoint with the Huma API.
func (h *PatchSituacaoHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "patch-situacao",
		Method:        http.MethodPatch,
		Path:          "/v1/transacoes/{id}/situacao",
		Summary:       "Change transaction status",
		Description:   "Moves one transaction to an allowed target status.",
		Tags:          []string{"Transacoes"},
		DefaultStatus: http.StatusNoContent,
	}, h.handle)
}

func (h *PatchSituacaoHandler) handle(ctx context.Context, input *PatchSituacaoInput) (*PatchSituacaoOutput, error) {
	sess, err := input.Session()
	if err != nil {
		return nil, err
	}

	atual := service.Situacao(input.Body.SituacaoAtual)
	alvo := service.Situacao(input.Body.Situacao)
	if !service.TransicaoPermitida(atual, alvo) {
		return nil, huma.NewError(http.StatusUnprocessableEntity, "transition not allowed")
	}

	if err := h.Rotas.AlterarSituacao(ctx, sess, service.Origem(input.Body.Origem), input.ID, alvo, h.Now()); err != nil {
		return nil, mapErro(err, "failed to change status")
	}

	return &PatchSituacaoOutput{Status: http.StatusNoContent}, nil
}

// DeleteTransacaoInput is the Huma input for deleting one row.
type DeleteTransacaoInput struct {
	request.SessionHeaders
	ID     int64  `path:"id" minimum:"1" doc:"Transaction id"`
	Origem string `query:"origem" required:"true" doc:"Record origin, used to pick the endpoint family"`
}

// DeleteTransacaoOutput is the Huma output for deleting one row.
type DeleteTransacaoOutput struct {
	Status int `json:"-"`
}

// DeleteTransacaoHandler handles DELETE /v1/transacoes/{id}.
type DeleteTransacaoHandler struct {
	Rotas transacaoRoteador
}

// NewDeleteTransacaoHandler creates a new DeleteTransacaoHandler.
func NewDeleteTransacaoHandler(rotas transacaoRoteador) *DeleteTransacaoHandler {
	return &DeleteTransacaoHandler{Rotas: rotas}
}

// Register registers the delete endpoint with the Huma API.
func (h *DeleteTransacaoHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "delete-transacao",
		Method:        http.MethodDelete,
		Path:          "/v1/transacoes/{id}",
		Summary:       "Delete transaction",
		Description:   "Deletes one transaction through its origin's endpoint family.",
		Tags:          []string{"Transacoes"},
		DefaultStatus: http.StatusNoContent,
	}, h.handle)
}

func (h *DeleteTransacaoHandler) handle(ctx context.Context, input *DeleteTransacaoInput) (*DeleteTransacaoOutput, error) {
	sess, err := input.Session()
	if err != nil {
		return nil, err
	}

	if err := h.Rotas.Excluir(ctx, sess, service.Origem(input.Origem), input.ID); err != nil {
		return nil, mapErro(err, "failed to delete transaction")
	}

	return &DeleteTransacaoOutput{Status: http.StatusNoContent}, nil
}
