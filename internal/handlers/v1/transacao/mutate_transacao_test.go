package transacao

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/contabhub/financeiro-server/internal/service"
	"github.com/contabhub/financeiro-server/internal/session"
)

type mockRoteador struct {
	mock.Mock
}

func (m *mockRoteador) Excluir(ctx context.Context, sess session.Session, origem service.Origem, id int64) error {
	args := m.Called(ctx, sess, origem, id)
	return args.Error(0)
}

func (m *mockRoteador) AlterarSituacao(ctx context.Context, sess session.Session, origem service.Origem, id int64, alvo service.Situacao, hoje time.Time) error {
	args := m.Called(ctx, sess, origem, id, alvo, hoje)
	return args.Error(0)
}

func TestHTTP_PatchSituacao_Success(t *testing.T) {
	hoje := time.Date(2025, 8, 11, 10, 0, 0, 0, time.UTC)
	mockRotas := new(mockRoteador)
	mockRotas.On("AlterarSituacao", mock.Anything, mock.Anything, service.OrigemEmpresa, int64(12), service.SituacaoRecebido, hoje).Return(nil)

	_, api := humatest.New(t)
	handler := NewPatchSituacaoHandler(mockRotas)
	handler.Now = func() time.Time { return hoje }
	handler.Register(api)

	resp := api.Patch("/v1/transacoes/12/situacao", append(authHeaders, PatchSituacaoBody{
		Origem:        "empresa",
		SituacaoAtual: "em aberto",
		Situacao:      "recebido",
	})...)

	assert.Equal(t, http.StatusNoContent, resp.Code)
	mockRotas.AssertExpectations(t)
}

func TestHTTP_PatchSituacao_TransicaoNaoPermitida(t *testing.T) {
	mockRotas := new(mockRoteador)

	_, api := humatest.New(t)
	NewPatchSituacaoHandler(mockRotas).Register(api)

	// reconciled rows never offer a direct status change
	resp := api.Patch("/v1/transacoes/12/situacao", append(authHeaders, PatchSituacaoBody{
		Origem:        "empresa",
		SituacaoAtual: "conciliado",
		Situacao:      "em aberto",
	})...)

	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	mockRotas.AssertNotCalled(t, "AlterarSituacao", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHTTP_DeleteTransacao_OrigemPluggy(t *testing.T) {
	mockRotas := new(mockRoteador)
	mockRotas.On("Excluir", mock.Anything, mock.Anything, service.OrigemPluggy, int64(77)).Return(nil)

	_, api := humatest.New(t)
	NewDeleteTransacaoHandler(mockRotas).Register(api)

	resp := api.Delete("/v1/transacoes/77?origem=pluggy", authHeaders...)

	assert.Equal(t, http.StatusNoContent, resp.Code)
	mockRotas.AssertExpectations(t)
}
