package transacao

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/contabhub/financeiro-server/internal/erp"
	"github.com/contabhub/financeiro-server/internal/service"
	"github.com/contabhub/financeiro-server/internal/session"
)

type mockListagemService struct {
	mock.Mock
}

func (m *mockListagemService) Listar(ctx context.Context, sess session.Session, tipo service.Tipo, params service.FiltroParams) (*service.ListagemResult, error) {
	args := m.Called(ctx, sess, tipo, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ListagemResult), args.Error(1)
}

var authHeaders = []any{
	"Authorization: Bearer tok",
	"X-Company-ID: 9",
	"X-User-ID: 3",
}

func newListTestAPI(t *testing.T, svc transacaoLister) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	NewListTransacoesHandler(svc).Register(api)
	return api
}

func TestHTTP_ListTransacoes_Success(t *testing.T) {
	mockSvc := new(mockListagemService)
	mockSvc.On("Listar", mock.Anything, mock.MatchedBy(func(sess session.Session) bool {
		return sess.Token == "tok" && sess.CompanyID == 9
	}), service.TipoSaida, mock.MatchedBy(func(p service.FiltroParams) bool {
		return p.Busca == "mercado" && p.Pagina == 2
	})).Return(&service.ListagemResult{
		Transacoes: []service.Transacao{{
			ID:             12,
			Descricao:      "Mercado Central",
			Valor:          decimal.RequireFromString("1500.00"),
			DataVencimento: "2025-08-11",
			Situacao:       service.SituacaoEmAberto,
			Origem:         service.OrigemEmpresa,
			Categoria:      "Alimentação - Mercado",
		}},
		TotalFiltrado: 1,
		TotalBruto:    40,
		Pagina:        2,
		PorPagina:     10,
	}, nil)

	resp := newListTestAPI(t, mockSvc).Get("/v1/transacoes/saidas?busca=mercado&pagina=2", authHeaders...)

	assert.Equal(t, http.StatusOK, resp.Code)
	var body ListTransacoesResponseBody
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Len(t, body.Transacoes, 1)
	assert.Equal(t, "1500.00", body.Transacoes[0].Valor)
	assert.Equal(t, "R$ 1.500,00", body.Transacoes[0].ValorFormatado)
	assert.Equal(t, []string{"recebido", "vencidos"}, body.Transacoes[0].Transicoes)
	assert.Equal(t, 40, body.TotalBruto)
	mockSvc.AssertExpectations(t)
}

func TestHTTP_ListTransacoes_MissingCredentials(t *testing.T) {
	mockSvc := new(mockListagemService)

	resp := newListTestAPI(t, mockSvc).Get("/v1/transacoes/saidas", "Authorization: Bearer tok")

	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	mockSvc.AssertNotCalled(t, "Listar", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHTTP_ListTransacoes_UpstreamUnavailable(t *testing.T) {
	mockSvc := new(mockListagemService)
	mockSvc.On("Listar", mock.Anything, mock.Anything, service.TipoEntrada, mock.Anything).
		Return(nil, &erp.StatusError{StatusCode: http.StatusServiceUnavailable, Body: "maintenance"})

	resp := newListTestAPI(t, mockSvc).Get("/v1/transacoes/entradas", authHeaders...)

	assert.Equal(t, http.StatusBadGateway, resp.Code)
}

func TestHTTP_ListTransacoes_UpstreamAuthPassesThrough(t *testing.T) {
	mockSvc := new(mockListagemService)
	mockSvc.On("Listar", mock.Anything, mock.Anything, service.TipoSaida, mock.Anything).
		Return(nil, &erp.StatusError{StatusCode: http.StatusUnauthorized, Body: "expired"})

	resp := newListTestAPI(t, mockSvc).Get("/v1/transacoes/saidas", authHeaders...)

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}
