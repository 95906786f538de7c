package transacao

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/contabhub/financeiro-server/internal/handlers/v1/request"
	"github.com/contabhub/financeiro-server/internal/service"
	"github.com/contabhub/financeiro-server/internal/session"
)

// EditLancamentoInput is the Huma input for a full edit.
type EditLancamentoInput struct {
	request.SessionHeaders
	ID   int64 `path:"id" minimum:"1" doc:"Transaction id"`
	Body LancamentoBody
}

// EditLancamentoOutput is the Huma output for a full edit.
type EditLancamentoOutput struct {
	Status int `json:"-"`
}

// lancamentoEditor is the interface for the edit drawer.
type lancamentoEditor interface {
	Editar(ctx context.Context, sess session.Session, id int64, input service.LancamentoInput) error
}

// EditLancamentoHandler handles PUT /v1/transacoes/{id}.
type EditLancamentoHandler struct {
	Lancamentos lancamentoEditor
}

// NewEditLancamentoHandler creates a new EditLancamentoHandler.
func NewEditLancamentoHandler(svc lancamentoEditor) *EditLancamentoHandler {
	return &EditLancamentoHandler{Lancamentos: svc}
}

// Register registers the edit endpoint with the Huma API.
func (h *EditLancamentoHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "edit-lancamento",
		Method:        http.MethodPut,
		Path:          "/v1/transacoes/{id}",
		Summary:       "Edit transaction",
		Description:   "Replaces every editable field of a transaction.",
		Tags:          []string{"Transacoes"},
		DefaultStatus: http.StatusNoContent,
	}, h.handle)
}

func (h *EditLancamentoHandler) handle(ctx context.Context, input *EditLancamentoInput) (*EditLancamentoOutput, error) {
	sess, err := input.Session()
	if err != nil {
		return nil, err
	}

	if err := h.Lancamentos.Editar(ctx, sess, input.ID, input.Body.ToInput()); err != nil {
		return nil, mapErro(err, "failed to edit transaction")
	}

	return &EditLancamentoOutput{Status: http.StatusNoContent}, nil
}
