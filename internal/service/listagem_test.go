package service

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/contabhub/financeiro-server/internal/erp"
	"github.com/contabhub/financeiro-server/internal/session"
)

type mockLister struct {
	mock.Mock
}

func (m *mockLister) ListTransacoes(ctx context.Context, sess session.Session, tipo string, filter erp.ListFilter) ([]erp.RawTransacao, error) {
	args := m.Called(ctx, sess, tipo, filter)
	raw, _ := args.Get(0).([]erp.RawTransacao)
	return raw, args.Error(1)
}

func rawSaida(id int64, descricao, vencimento string) erp.RawTransacao {
	return erp.RawTransacao{
		ID:             json.Number(fmt.Sprintf("%d", id)),
		Descricao:      descricao,
		DataVencimento: vencimento,
		Origem:         "empresa",
		APagar:         nullDecimal("100.00"),
		Situacao:       "em aberto",
	}
}

func listagemTeste(gateway *mockLister, agora time.Time) *ListagemService {
	s := NewListagemService(gateway)
	s.now = func() time.Time { return agora }
	return s
}

func TestListar_TipoInvalido(t *testing.T) {
	gateway := &mockLister{}
	s := listagemTeste(gateway, time.Now())

	_, err := s.Listar(context.Background(), session.Session{}, Tipo("contas"), FiltroParams{})

	assert.ErrorIs(t, err, ErrEntradaInvalida)
	gateway.AssertNotCalled(t, "ListTransacoes")
}

func TestListar_RepassaFiltrosDeQuery(t *testing.T) {
	gateway := &mockLister{}
	sess := session.Session{Token: "tok", CompanyID: 9}
	gateway.On("ListTransacoes", mock.Anything, sess, "saidas", erp.ListFilter{
		Status:     "em aberto",
		DataInicio: "2025-08-01",
		DataFim:    "2025-08-31",
	}).Return([]erp.RawTransacao{rawSaida(1, "Aluguel", "2025-08-10")}, nil)
	s := listagemTeste(gateway, time.Date(2025, 8, 15, 12, 0, 0, 0, time.UTC))

	got, err := s.Listar(context.Background(), sess, TipoSaida, FiltroParams{
		Status:     "em aberto",
		DataInicio: "2025-08-01",
		DataFim:    "2025-08-31",
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, got.TotalFiltrado)
	gateway.AssertExpectations(t)
}

func TestListar_FiltroDeQuerySuprimePreset(t *testing.T) {
	gateway := &mockLister{}
	// One row this month, one far in the past. With a status query filter the
	// "Este mês" preset must not run, so both survive.
	gateway.On("ListTransacoes", mock.Anything, mock.Anything, "saidas", mock.Anything).Return([]erp.RawTransacao{
		rawSaida(1, "Aluguel", "2025-08-10"),
		rawSaida(2, "Seguro anual", "2024-01-05"),
	}, nil)
	agora := time.Date(2025, 8, 15, 12, 0, 0, 0, time.UTC)
	s := listagemTeste(gateway, agora)

	soPreset, err := s.Listar(context.Background(), session.Session{}, TipoSaida, FiltroParams{Preset: PresetEsteMes})
	assert.NoError(t, err)
	assert.Equal(t, 1, soPreset.TotalFiltrado)

	comStatus, err := s.Listar(context.Background(), session.Session{}, TipoSaida, FiltroParams{Preset: PresetEsteMes, Status: "em aberto"})
	assert.NoError(t, err)
	assert.Equal(t, 2, comStatus.TotalFiltrado)
	assert.Equal(t, 2, comStatus.TotalBruto)
}

func TestListar_SemPresetNaoFiltraPeriodo(t *testing.T) {
	gateway := &mockLister{}
	gateway.On("ListTransacoes", mock.Anything, mock.Anything, "saidas", mock.Anything).Return([]erp.RawTransacao{
		rawSaida(1, "Aluguel", "2025-08-10"),
		rawSaida(2, "Seguro anual", "2024-01-05"),
	}, nil)
	s := listagemTeste(gateway, time.Date(2025, 8, 15, 12, 0, 0, 0, time.UTC))

	got, err := s.Listar(context.Background(), session.Session{}, TipoSaida, FiltroParams{})

	assert.NoError(t, err)
	assert.Equal(t, 2, got.TotalFiltrado)
}

func TestListar_PaginacaoComPadroes(t *testing.T) {
	gateway := &mockLister{}
	var raw []erp.RawTransacao
	for i := int64(1); i <= 25; i++ {
		raw = append(raw, rawSaida(i, fmt.Sprintf("Conta %d", i), "2025-08-10"))
	}
	gateway.On("ListTransacoes", mock.Anything, mock.Anything, "saidas", mock.Anything).Return(raw, nil)
	s := listagemTeste(gateway, time.Date(2025, 8, 15, 12, 0, 0, 0, time.UTC))

	got, err := s.Listar(context.Background(), session.Session{}, TipoSaida, FiltroParams{Pagina: 0, PorPagina: 0})

	assert.NoError(t, err)
	assert.Equal(t, 1, got.Pagina)
	assert.Equal(t, 10, got.PorPagina)
	assert.Len(t, got.Transacoes, 10)
	assert.Equal(t, 25, got.TotalFiltrado)
	assert.Equal(t, int64(1), got.Transacoes[0].ID)
}

func TestListar_ErroDoGateway(t *testing.T) {
	gateway := &mockLister{}
	gateway.On("ListTransacoes", mock.Anything, mock.Anything, "entradas", mock.Anything).Return(nil, fmt.Errorf("upstream indisponível"))
	s := listagemTeste(gateway, time.Now())

	_, err := s.Listar(context.Background(), session.Session{}, TipoEntrada, FiltroParams{})

	assert.ErrorContains(t, err, "upstream indisponível")
}
