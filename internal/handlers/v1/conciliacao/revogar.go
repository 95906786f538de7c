// Package conciliacao exposes the reconciliation revocation endpoint.
package conciliacao

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shopspring/decimal"

	"github.com/contabhub/financeiro-server/internal/handlers/v1/request"
	"github.com/contabhub/financeiro-server/internal/logging"
	"github.com/contabhub/financeiro-server/internal/service"
	"github.com/contabhub/financeiro-server/internal/session"
)

// RevogarBody carries the reconciled row plus the revocation options. The row
// travels in the request because the caller already holds the listed row.
type RevogarBody struct {
	TransacaoID          int64   `json:"transacaoId" required:"true" doc:"Transaction id"`
	Descricao            string  `json:"descricao" doc:"Row description, used when the feed link must be searched"`
	Valor                string  `json:"valor" required:"true" doc:"Decimal amount"`
	DataVencimento       string  `json:"dataVencimento" doc:"Due date, yyyy-MM-dd"`
	Situacao             string  `json:"situacao" required:"true" doc:"Current status"`
	Origem               string  `json:"origem" required:"true" doc:"Record origin"`
	TransacaoAPIID       int64   `json:"transacaoApiId,omitempty" doc:"Linked feed entry id, 0 when unknown"`
	ConciliacaoID        int64   `json:"conciliacaoId,omitempty" doc:"Reconciliation link id"`
	Observacao           string  `json:"observacao,omitempty" doc:"Reason recorded with the revocation"`
	ExcluirAposRevogar   bool    `json:"excluirAposRevogar,omitempty" doc:"Delete the row after revoking"`
	TransacaoAPIIDManual *string `json:"transacaoApiIdManual,omitempty" doc:"Operator-supplied feed id after an unresolved run"`
}

// RevogarInput is the Huma input for a revocation.
type RevogarInput struct {
	request.SessionHeaders
	Body RevogarBody
}

// RevogarResponseBody reports the terminal state of the run.
type RevogarResponseBody struct {
	Resultado      string `json:"resultado" doc:"Terminal state of the revocation run"`
	TransacaoAPIID int64  `json:"transacaoApiId,omitempty" doc:"Feed entry id the link was resolved to"`
	ContaID        string `json:"contaId,omitempty" doc:"Account the feed entry was found in"`
	Mensagem       string `json:"mensagem,omitempty" doc:"Human-readable detail"`
}

// RevogarOutput is the Huma output for a revocation.
type RevogarOutput struct {
	Body RevogarResponseBody
}

// revogador is the interface for the revocation flow.
type revogador interface {
	Revogar(ctx context.Context, sess session.Session, req service.RevogacaoRequest) (*service.RevogacaoResultado, error)
}

// RevogarHandler handles POST /v1/conciliacao/revogar.
type RevogarHandler struct {
	Conciliacao revogador
}

// NewRevogarHandler creates a new RevogarHandler.
func NewRevogarHandler(svc revogador) *RevogarHandler {
	return &RevogarHandler{Conciliacao: svc}
}

// Register registers the revocation endpoint with the Huma API.
func (h *RevogarHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "revogar-conciliacao",
		Method:      http.MethodPost,
		Path:        "/v1/conciliacao/revogar",
		Summary:     "Revoke reconciliation",
		Description: "Revokes the reconciliation of one transaction, resolving the feed link when missing.",
		Tags:        []string{"Conciliacao"},
	}, h.handle)
}

func (h *RevogarHandler) handle(ctx context.Context, input *RevogarInput) (*RevogarOutput, error) {
	sess, err := input.Session()
	if err != nil {
		return nil, err
	}

	valor, err := decimal.NewFromString(input.Body.Valor)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid valor", err)
	}

	req := service.RevogacaoRequest{
		Transacao: service.Transacao{
			ID:             input.Body.TransacaoID,
			Descricao:      input.Body.Descricao,
			Valor:          valor,
			DataVencimento: input.Body.DataVencimento,
			Situacao:       service.Situacao(input.Body.Situacao),
			Origem:         service.Origem(input.Body.Origem),
			TransacaoAPIID: input.Body.TransacaoAPIID,
			ConciliacaoID:  input.Body.ConciliacaoID,
		},
		Observacao:           input.Body.Observacao,
		ExcluirAposRevogar:   input.Body.ExcluirAposRevogar,
		TransacaoAPIIDManual: input.Body.TransacaoAPIIDManual,
	}

	logData := logging.GetLogData(ctx)
	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("revogarMs")
	}
	result, err := h.Conciliacao.Revogar(ctx, sess, req)
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		if errors.Is(err, service.ErrEntradaInvalida) {
			return nil, huma.NewError(http.StatusUnprocessableEntity, err.Error())
		}
		return nil, request.MapUpstreamError(err, "failed to revoke reconciliation")
	}

	if logData != nil {
		logData.AddData("resultado", string(result.Estado))
	}

	return &RevogarOutput{Body: RevogarResponseBody{
		Resultado:      string(result.Estado),
		TransacaoAPIID: result.TransacaoAPIID,
		ContaID:        result.ContaID,
		Mensagem:       result.Mensagem,
	}}, nil
}
