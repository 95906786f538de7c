package service

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/contabhub/financeiro-server/internal/erp"
	"github.com/contabhub/financeiro-server/internal/session"
)

type mockLancamentoGateway struct {
	mock.Mock
}

func (m *mockLancamentoGateway) CreateTransacao(ctx context.Context, sess session.Session, payload erp.TransacaoCreate) (*erp.TransacaoCreateResult, error) {
	args := m.Called(ctx, sess, payload)
	result, _ := args.Get(0).(*erp.TransacaoCreateResult)
	return result, args.Error(1)
}

func (m *mockLancamentoGateway) UpdateTransacao(ctx context.Context, sess session.Session, id int64, payload erp.TransacaoCreate) error {
	args := m.Called(ctx, sess, id, payload)
	return args.Error(0)
}

func (m *mockLancamentoGateway) CreateRecorrencia(ctx context.Context, sess session.Session, rec erp.Recorrencia) error {
	args := m.Called(ctx, sess, rec)
	return args.Error(0)
}

func inputValido() LancamentoInput {
	return LancamentoInput{
		Tipo:           TipoSaida,
		Descricao:      "Aluguel",
		Valor:          "300,00",
		DataVencimento: "2025-09-01",
		CategoriaID:    1,
		ClienteID:      2,
		ContaID:        3,
	}
}

func TestCriar_LancamentoSimples(t *testing.T) {
	m := &mockLancamentoGateway{}
	m.On("CreateTransacao", mock.Anything, sessTeste, mock.MatchedBy(func(p erp.TransacaoCreate) bool {
		return p.Descricao == "Aluguel" && p.Valor == "300.00" && p.Situacao == "em aberto" &&
			p.Tipo == "Despesa" && p.CompanyID == sessTeste.CompanyID
	})).Return(&erp.TransacaoCreateResult{ID: 55}, nil)

	svc := NewLancamentoService(m)
	res, err := svc.Criar(context.Background(), sessTeste, inputValido())

	assert.NoError(t, err)
	assert.Equal(t, int64(55), res.TransacaoID)
	assert.False(t, res.Recorrencia)
	m.AssertExpectations(t)
}

func TestCriar_ParcelamentoMensal(t *testing.T) {
	m := &mockLancamentoGateway{}
	m.On("CreateRecorrencia", mock.Anything, sessTeste, mock.MatchedBy(func(r erp.Recorrencia) bool {
		return r.Frequencia == "mensal" && r.TotalParcelas == 3 && r.Transacao.Valor == "300.00"
	})).Return(nil)

	input := inputValido()
	input.Parcelamento = "3x"

	svc := NewLancamentoService(m)
	res, err := svc.Criar(context.Background(), sessTeste, input)

	assert.NoError(t, err)
	assert.True(t, res.Recorrencia)
	assert.Equal(t, 3, res.TotalParcelas)
	assert.Equal(t, "R$ 100,00", res.ValorParcela)
	m.AssertNotCalled(t, "CreateTransacao", mock.Anything, mock.Anything, mock.Anything)
}

func TestCriar_RecorrenciaComTemplate(t *testing.T) {
	m := &mockLancamentoGateway{}
	m.On("CreateRecorrencia", mock.Anything, sessTeste, mock.MatchedBy(func(r erp.Recorrencia) bool {
		return r.RecorrenciaTemplateID == 42 && r.Indeterminada
	})).Return(nil)

	input := inputValido()
	input.Recorrente = true
	input.RecorrenciaTemplateID = 42

	svc := NewLancamentoService(m)
	res, err := svc.Criar(context.Background(), sessTeste, input)

	assert.NoError(t, err)
	assert.True(t, res.Recorrencia)
}

func TestCriar_ParcelamentoERecorrenciaJuntosRejeitado(t *testing.T) {
	m := &mockLancamentoGateway{}
	input := inputValido()
	input.Parcelamento = "2x"
	input.Recorrente = true
	input.RecorrenciaTemplateID = 42

	svc := NewLancamentoService(m)
	_, err := svc.Criar(context.Background(), sessTeste, input)

	assert.Error(t, err)
	m.AssertNotCalled(t, "CreateRecorrencia", mock.Anything, mock.Anything, mock.Anything)
	m.AssertNotCalled(t, "CreateTransacao", mock.Anything, mock.Anything, mock.Anything)
}

func TestCriar_ValidacaoCamposObrigatorios(t *testing.T) {
	svc := NewLancamentoService(&mockLancamentoGateway{})

	casos := []func(*LancamentoInput){
		func(i *LancamentoInput) { i.Descricao = "" },
		func(i *LancamentoInput) { i.Valor = "" },
		func(i *LancamentoInput) { i.CategoriaID = 0 },
		func(i *LancamentoInput) { i.ClienteID = 0 },
		func(i *LancamentoInput) { i.ContaID = 0 },
		func(i *LancamentoInput) { i.Valor = "abc" },
		func(i *LancamentoInput) { i.Pago = true },
	}

	for i, mutate := range casos {
		input := inputValido()
		mutate(&input)
		_, err := svc.Criar(context.Background(), sessTeste, input)
		assert.Error(t, err, "caso %d", i)
	}
}

func TestCriar_PagoComDataGeraSituacaoRecebido(t *testing.T) {
	m := &mockLancamentoGateway{}
	m.On("CreateTransacao", mock.Anything, sessTeste, mock.MatchedBy(func(p erp.TransacaoCreate) bool {
		return p.Situacao == "recebido" && p.DataPagamento == "2025-08-20"
	})).Return(&erp.TransacaoCreateResult{ID: 1}, nil)

	input := inputValido()
	input.Pago = true
	input.DataPagamento = "2025-08-20"

	svc := NewLancamentoService(m)
	_, err := svc.Criar(context.Background(), sessTeste, input)

	assert.NoError(t, err)
	m.AssertExpectations(t)
}

func TestCriar_AnexoPDF(t *testing.T) {
	m := &mockLancamentoGateway{}
	m.On("CreateTransacao", mock.Anything, sessTeste, mock.Anything).
		Return(&erp.TransacaoCreateResult{ID: 1, ValorExtraidoPDF: true}, nil)

	input := inputValido()
	input.AnexoBase64 = base64.StdEncoding.EncodeToString([]byte("%PDF-1.4 conteudo"))
	input.AnexoNome = "boleto.pdf"

	svc := NewLancamentoService(m)
	res, err := svc.Criar(context.Background(), sessTeste, input)

	assert.NoError(t, err)
	assert.True(t, res.ValorExtraidoPDF)
}

func TestCriar_AnexoInvalido(t *testing.T) {
	svc := NewLancamentoService(&mockLancamentoGateway{})

	naoPDF := inputValido()
	naoPDF.AnexoBase64 = base64.StdEncoding.EncodeToString([]byte("plain text"))
	_, err := svc.Criar(context.Background(), sessTeste, naoPDF)
	assert.Error(t, err)

	naoBase64 := inputValido()
	naoBase64.AnexoBase64 = "não é base64 %%%"
	_, err = svc.Criar(context.Background(), sessTeste, naoBase64)
	assert.Error(t, err)

	grande := inputValido()
	grande.AnexoBase64 = base64.StdEncoding.EncodeToString(append([]byte("%PDF"), make([]byte, anexoTamanhoMaximo)...))
	_, err = svc.Criar(context.Background(), sessTeste, grande)
	assert.Error(t, err)
}

func TestEditar(t *testing.T) {
	m := &mockLancamentoGateway{}
	m.On("UpdateTransacao", mock.Anything, sessTeste, int64(9), mock.MatchedBy(func(p erp.TransacaoCreate) bool {
		return p.Valor == "300.00"
	})).Return(nil)

	svc := NewLancamentoService(m)
	err := svc.Editar(context.Background(), sessTeste, 9, inputValido())

	assert.NoError(t, err)
	m.AssertExpectations(t)
}

func TestParcelasDe(t *testing.T) {
	for entrada, esperado := range map[string]int{"": 1, "A vista": 1, "3x": 3, "12X": 12} {
		got, err := parcelasDe(entrada)
		assert.NoError(t, err, entrada)
		assert.Equal(t, esperado, got, entrada)
	}

	_, err := parcelasDe("muitas")
	assert.Error(t, err)

	_, err = parcelasDe("0x")
	assert.Error(t, err)
}

func TestFormatarValorBR(t *testing.T) {
	casos := map[string]string{
		"100":       "R$ 100,00",
		"1500":      "R$ 1.500,00",
		"1234567.8": "R$ 1.234.567,80",
		"-42.5":     "-R$ 42,50",
	}
	for entrada, esperado := range casos {
		valor, _ := ParseValorBR(entrada)
		assert.Equal(t, esperado, FormatarValorBR(valor), entrada)
	}
}
