package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/contabhub/financeiro-server/internal/erp"
	"github.com/contabhub/financeiro-server/internal/session"
)

type mockMutator struct {
	mock.Mock
}

func (m *mockMutator) PatchTransacao(ctx context.Context, sess session.Session, id int64, patch erp.PatchTransacao) error {
	args := m.Called(ctx, sess, id, patch)
	return args.Error(0)
}

func (m *mockMutator) DeleteTransacao(ctx context.Context, sess session.Session, id int64) error {
	args := m.Called(ctx, sess, id)
	return args.Error(0)
}

func (m *mockMutator) DeleteTransacaoAPI(ctx context.Context, sess session.Session, id int64) error {
	args := m.Called(ctx, sess, id)
	return args.Error(0)
}

var sessTeste = session.Session{Token: "tok", CompanyID: 9, UserID: 3}

func TestRotas_ExcluirPluggyUsaFamiliaAPI(t *testing.T) {
	m := &mockMutator{}
	m.On("DeleteTransacaoAPI", mock.Anything, sessTeste, int64(10)).Return(nil)

	rotas := NewRotas(m)
	err := rotas.Excluir(context.Background(), sessTeste, OrigemPluggy, 10)

	assert.NoError(t, err)
	m.AssertNotCalled(t, "DeleteTransacao", mock.Anything, mock.Anything, mock.Anything)
	m.AssertExpectations(t)
}

func TestRotas_ExcluirOFXEManualCompartilhamRota(t *testing.T) {
	for _, origem := range []Origem{OrigemOFX, OrigemEmpresa, Origem("desconhecida")} {
		m := &mockMutator{}
		m.On("DeleteTransacao", mock.Anything, sessTeste, int64(11)).Return(nil)

		rotas := NewRotas(m)
		err := rotas.Excluir(context.Background(), sessTeste, origem, 11)

		assert.NoError(t, err, string(origem))
		m.AssertExpectations(t)
	}
}

func TestRotas_AlterarSituacaoRecebidoCarimbaHoje(t *testing.T) {
	hoje := time.Date(2025, 8, 15, 14, 0, 0, 0, time.UTC)
	m := &mockMutator{}
	m.On("PatchTransacao", mock.Anything, sessTeste, int64(5), mock.MatchedBy(func(p erp.PatchTransacao) bool {
		return p.Situacao == "recebido" && p.DataTransacao != nil && *p.DataTransacao == "2025-08-15"
	})).Return(nil)

	rotas := NewRotas(m)
	err := rotas.AlterarSituacao(context.Background(), sessTeste, OrigemEmpresa, 5, SituacaoRecebido, hoje)

	assert.NoError(t, err)
	m.AssertExpectations(t)
}

func TestRotas_AlterarSituacaoEmAbertoLimpaData(t *testing.T) {
	m := &mockMutator{}
	m.On("PatchTransacao", mock.Anything, sessTeste, int64(5), mock.MatchedBy(func(p erp.PatchTransacao) bool {
		return p.Situacao == "em aberto" && p.DataTransacao == nil
	})).Return(nil)

	rotas := NewRotas(m)
	err := rotas.AlterarSituacao(context.Background(), sessTeste, OrigemOFX, 5, SituacaoEmAberto, time.Now())

	assert.NoError(t, err)
	m.AssertExpectations(t)
}

func TestRotas_AlterarSituacaoPluggyNaoOferecida(t *testing.T) {
	m := &mockMutator{}

	rotas := NewRotas(m)
	err := rotas.AlterarSituacao(context.Background(), sessTeste, OrigemPluggy, 5, SituacaoEmAberto, time.Now())

	assert.Error(t, err)
	m.AssertNotCalled(t, "PatchTransacao", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
