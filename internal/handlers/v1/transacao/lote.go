package transacao

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/contabhub/financeiro-server/internal/handlers/v1/request"
	"github.com/contabhub/financeiro-server/internal/logging"
	"github.com/contabhub/financeiro-server/internal/service"
	"github.com/contabhub/financeiro-server/internal/session"
)

// LoteItemBody is one selected row in a batch request.
type LoteItemBody struct {
	ID     int64  `json:"id" required:"true" doc:"Transaction id"`
	Origem string `json:"origem" required:"true" doc:"Record origin"`
}

// LoteBody mutates a selection set: either a status change or a delete.
type LoteBody struct {
	Itens    []LoteItemBody `json:"itens" required:"true" minItems:"1" doc:"Selected rows"`
	Situacao string         `json:"situacao,omitempty" doc:"Target status, omit when deleting"`
	Excluir  bool           `json:"excluir,omitempty" doc:"Delete the selection instead of patching"`
	Atomico  bool           `json:"atomico,omitempty" doc:"Report the whole batch failed on any item failure"`
}

// LoteInput is the Huma input for a batch mutation.
type LoteInput struct {
	request.SessionHeaders
	Body LoteBody
}

// LoteItemResultadoBody is the per-item outcome.
type LoteItemResultadoBody struct {
	ID   int64  `json:"id" doc:"Transaction id"`
	Erro string `json:"erro,omitempty" doc:"Failure reason, empty on success"`
}

// LoteResponseBody aggregates one batch run.
type LoteResponseBody struct {
	RunID    string                  `json:"runId" doc:"Batch run id"`
	Itens    []LoteItemResultadoBody `json:"itens" doc:"Per-item outcomes"`
	Sucessos int                     `json:"sucessos" doc:"Items that succeeded"`
	Falhas   int                     `json:"falhas" doc:"Items that failed"`
	Falhou   bool                    `json:"falhou" doc:"Batch-level verdict"`
}

// LoteOutput is the Huma output for a batch mutation.
type LoteOutput struct {
	Body LoteResponseBody
}

// loteProcessador is the interface for batch mutations.
type loteProcessador interface {
	Processar(ctx context.Context, sess session.Session, req service.LoteRequest) (*service.LoteResultado, error)
}

// LoteHandler handles POST /v1/transacoes/lote.
type LoteHandler struct {
	Lotes loteProcessador
}

// NewLoteHandler creates a new LoteHandler.
func NewLoteHandler(svc loteProcessador) *LoteHandler {
	return &LoteHandler{Lotes: svc}
}

// Register registers the batch endpoint with the Huma API.
func (h *LoteHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "lote-transacoes",
		Method:      http.MethodPost,
		Path:        "/v1/transacoes/lote",
		Summary:     "Batch mutation",
		Description: "Applies a status change or delete to a selection set, reporting per-item outcomes.",
		Tags:        []string{"Transacoes"},
	}, h.handle)
}

func (h *LoteHandler) handle(ctx context.Context, input *LoteInput) (*LoteOutput, error) {
	sess, err := input.Session()
	if err != nil {
		return nil, err
	}

	req := service.LoteRequest{
		Itens:    make([]service.LoteItem, len(input.Body.Itens)),
		Situacao: service.Situacao(input.Body.Situacao),
		Excluir:  input.Body.Excluir,
		Atomico:  input.Body.Atomico,
	}
	for i, item := range input.Body.Itens {
		req.Itens[i] = service.LoteItem{ID: item.ID, Origem: service.Origem(item.Origem)}
	}

	logData := logging.GetLogData(ctx)
	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("processarLoteMs")
	}
	result, err := h.Lotes.Processar(ctx, sess, req)
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		return nil, mapErro(err, "failed to process batch")
	}

	if logData != nil {
		logData.AddData("runId", result.RunID.String())
		logData.AddData("falhas", result.Falhas)
	}

	resp := LoteResponseBody{
		RunID:    result.RunID.String(),
		Itens:    make([]LoteItemResultadoBody, len(result.Itens)),
		Sucessos: result.Sucessos,
		Falhas:   result.Falhas,
		Falhou:   result.Falhou,
	}
	for i, item := range result.Itens {
		resp.Itens[i] = LoteItemResultadoBody{ID: item.ID, Erro: item.Erro}
	}

	return &LoteOutput{Body: resp}, nil
}
