package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/contabhub/financeiro-server/internal/erp"
	"github.com/contabhub/financeiro-server/internal/session"
)

type mockSyncGateway struct {
	mock.Mock
}

func (m *mockSyncGateway) ListContasAPI(ctx context.Context, sess session.Session) ([]erp.ContaAPI, error) {
	args := m.Called(ctx, sess)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]erp.ContaAPI), args.Error(1)
}

func (m *mockSyncGateway) SyncContaAPI(ctx context.Context, sess session.Session, contaID string, clienteID int64) error {
	args := m.Called(ctx, sess, contaID, clienteID)
	return args.Error(0)
}

func syncServiceTeste(gateway syncGateway) *SyncService {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	s := NewSyncService(gateway, logrus.NewEntry(log))
	s.backoff = time.Millisecond
	return s
}

func TestSincronizarTodas(t *testing.T) {
	m := new(mockSyncGateway)
	m.On("ListContasAPI", mock.Anything, sessTeste).Return([]erp.ContaAPI{
		{ID: "acc-1", Nome: "Conta Corrente", ClienteID: 5},
		{ID: "acc-2", Nome: "Poupanca", ClienteID: 5},
	}, nil)
	m.On("SyncContaAPI", mock.Anything, sessTeste, "acc-1", int64(5)).Return(nil)
	m.On("SyncContaAPI", mock.Anything, sessTeste, "acc-2", int64(5)).Return(nil)
	s := syncServiceTeste(m)

	resumo, err := s.SincronizarTodas(context.Background(), sessTeste)

	assert.NoError(t, err)
	assert.Equal(t, 2, resumo.Sucessos)
	assert.Equal(t, 0, resumo.Falhas)
	assert.False(t, resumo.Parcial)
	assert.False(t, s.EmAndamento())
}

func TestSincronizarTodas_RetentaDuasVezes(t *testing.T) {
	m := new(mockSyncGateway)
	m.On("ListContasAPI", mock.Anything, sessTeste).Return([]erp.ContaAPI{
		{ID: "acc-1", Nome: "Conta Corrente", ClienteID: 5},
	}, nil)
	m.On("SyncContaAPI", mock.Anything, sessTeste, "acc-1", int64(5)).Return(errors.New("timeout")).Twice()
	m.On("SyncContaAPI", mock.Anything, sessTeste, "acc-1", int64(5)).Return(nil).Once()
	s := syncServiceTeste(m)

	resumo, err := s.SincronizarTodas(context.Background(), sessTeste)

	assert.NoError(t, err)
	assert.Equal(t, 1, resumo.Sucessos)
	assert.Equal(t, 3, resumo.Contas[0].Tentativas)
	assert.Empty(t, resumo.Contas[0].Erro)
}

func TestSincronizarTodas_FalhaDepoisDasRetentativas(t *testing.T) {
	m := new(mockSyncGateway)
	m.On("ListContasAPI", mock.Anything, sessTeste).Return([]erp.ContaAPI{
		{ID: "acc-1", Nome: "Conta Corrente", ClienteID: 5},
		{ID: "acc-2", Nome: "Poupanca", ClienteID: 5},
	}, nil)
	m.On("SyncContaAPI", mock.Anything, sessTeste, "acc-1", int64(5)).Return(errors.New("banco fora"))
	m.On("SyncContaAPI", mock.Anything, sessTeste, "acc-2", int64(5)).Return(nil)
	s := syncServiceTeste(m)

	resumo, err := s.SincronizarTodas(context.Background(), sessTeste)

	assert.NoError(t, err)
	assert.Equal(t, 1, resumo.Sucessos)
	assert.Equal(t, 1, resumo.Falhas)
	assert.Equal(t, "banco fora", resumo.Contas[0].Erro)
	assert.Equal(t, 3, resumo.Contas[0].Tentativas)
	m.AssertNumberOfCalls(t, "SyncContaAPI", 4)
}

func TestSincronizarTodas_ApenasUmaPorVez(t *testing.T) {
	bloqueio := make(chan struct{})
	m := new(mockSyncGateway)
	m.On("ListContasAPI", mock.Anything, sessTeste).Run(func(args mock.Arguments) {
		<-bloqueio
	}).Return([]erp.ContaAPI{}, nil)
	s := syncServiceTeste(m)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := s.SincronizarTodas(context.Background(), sessTeste)
		assert.NoError(t, err)
	}()

	assert.Eventually(t, s.EmAndamento, time.Second, time.Millisecond)
	_, err := s.SincronizarTodas(context.Background(), sessTeste)
	assert.ErrorIs(t, err, ErrSyncEmAndamento)

	close(bloqueio)
	<-done
	assert.False(t, s.EmAndamento())
}

func TestSincronizarTodas_LimiteDeTempo(t *testing.T) {
	m := new(mockSyncGateway)
	m.On("ListContasAPI", mock.Anything, sessTeste).Return([]erp.ContaAPI{
		{ID: "acc-1", Nome: "Conta Corrente", ClienteID: 5},
		{ID: "acc-2", Nome: "Poupanca", ClienteID: 5},
	}, nil)
	m.On("SyncContaAPI", mock.Anything, sessTeste, "acc-1", int64(5)).Run(func(args mock.Arguments) {
		time.Sleep(20 * time.Millisecond)
	}).Return(errors.New("lento"))
	s := syncServiceTeste(m)
	s.limite = 10 * time.Millisecond

	resumo, err := s.SincronizarTodas(context.Background(), sessTeste)

	assert.NoError(t, err)
	assert.True(t, resumo.Parcial)
	m.AssertNotCalled(t, "SyncContaAPI", mock.Anything, sessTeste, "acc-2", int64(5))
	assert.False(t, s.EmAndamento())
}
