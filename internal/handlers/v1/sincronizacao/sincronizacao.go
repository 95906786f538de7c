// Package sincronizacao exposes the open-finance account refresh.
package sincronizacao

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/contabhub/financeiro-server/internal/handlers/v1/request"
	"github.com/contabhub/financeiro-server/internal/service"
	"github.com/contabhub/financeiro-server/internal/session"
)

// sincronizador is the interface for the sync pass.
type sincronizador interface {
	SincronizarTodas(ctx context.Context, sess session.Session) (*service.SyncResumo, error)
}

// SincronizarInput is the Huma input for a sync pass.
type SincronizarInput struct {
	request.SessionHeaders
}

// ContaResultadoBody is the outcome for one account.
type ContaResultadoBody struct {
	ContaID    string `json:"contaId" doc:"Account id"`
	Nome       string `json:"nome" doc:"Account name"`
	Tentativas int    `json:"tentativas" doc:"Attempts made"`
	Erro       string `json:"erro,omitempty" doc:"Failure reason, empty on success"`
}

// SincronizarResponseBody aggregates one sync pass.
type SincronizarResponseBody struct {
	Contas   []ContaResultadoBody `json:"contas" doc:"Per-account outcomes"`
	Sucessos int                  `json:"sucessos" doc:"Accounts refreshed"`
	Falhas   int                  `json:"falhas" doc:"Accounts that failed"`
	Parcial  bool                 `json:"parcial" doc:"The time limit cut the pass short"`
}

// SincronizarOutput is the Huma output for a sync pass.
type SincronizarOutput struct {
	Body SincronizarResponseBody
}

// Handler handles POST /v1/sincronizacao.
type Handler struct {
	Sync sincronizador
}

// NewHandler creates a new Handler.
func NewHandler(svc sincronizador) *Handler {
	return &Handler{Sync: svc}
}

// Register registers the sync endpoint with the Huma API.
func (h *Handler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "sincronizar-contas",
		Method:      http.MethodPost,
		Path:        "/v1/sincronizacao",
		Summary:     "Refresh open-finance accounts",
		Description: "Runs one sync pass over every connected account.",
		Tags:        []string{"Sincronizacao"},
	}, h.handle)
}

func (h *Handler) handle(ctx context.Context, input *SincronizarInput) (*SincronizarOutput, error) {
	sess, err := input.Session()
	if err != nil {
		return nil, err
	}

	resumo, err := h.Sync.SincronizarTodas(ctx, sess)
	if err != nil {
		if errors.Is(err, service.ErrSyncEmAndamento) {
			return nil, huma.NewError(http.StatusConflict, err.Error())
		}
		return nil, request.MapUpstreamError(err, "failed to sync accounts")
	}

	resp := SincronizarResponseBody{
		Contas:   make([]ContaResultadoBody, len(resumo.Contas)),
		Sucessos: resumo.Sucessos,
		Falhas:   resumo.Falhas,
		Parcial:  resumo.Parcial,
	}
	for i, c := range resumo.Contas {
		resp.Contas[i] = ContaResultadoBody{
			ContaID:    c.ContaID,
			Nome:       c.Nome,
			Tentativas: c.Tentativas,
			Erro:       c.Erro,
		}
	}

	return &SincronizarOutput{Body: resp}, nil
}
