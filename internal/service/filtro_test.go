package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var agora = time.Date(2025, 8, 15, 10, 0, 0, 0, time.UTC)

func transacaoComValor(valor string) Transacao {
	return Transacao{
		Descricao:      "Pagamento fornecedor",
		Valor:          decimal.RequireFromString(valor),
		DataVencimento: "2025-08-11",
		Situacao:       SituacaoEmAberto,
	}
}

func TestBusca_ValorFormatoBrasileiro(t *testing.T) {
	rows := []Transacao{
		transacaoComValor("1500.00"),
		transacaoComValor("1500.02"),
		transacaoComValor("1501.00"),
	}

	got := AplicarFiltros(rows, FiltroParams{Busca: "R$ 1.500,00", Preset: PresetTodoOPeriodo}, agora)

	assert.Len(t, got, 2)
	assert.True(t, got[0].Valor.Equal(decimal.RequireFromString("1500.00")))
	assert.True(t, got[1].Valor.Equal(decimal.RequireFromString("1500.02")))
}

func TestBusca_DataFormatoBrasileiro(t *testing.T) {
	rows := []Transacao{
		{Descricao: "a", DataVencimento: "2025-08-11"},
		{Descricao: "b", DataVencimento: "2025-07-01", DataTransacao: "2025-08-11"},
		{Descricao: "c", DataVencimento: "2025-08-12"},
	}

	got := AplicarFiltros(rows, FiltroParams{Busca: "11/08/2025"}, agora)

	assert.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Descricao)
	assert.Equal(t, "b", got[1].Descricao)
}

func TestBusca_TextoSemAcento(t *testing.T) {
	rows := []Transacao{
		{Descricao: "Cartório de registro"},
		{Descricao: "Padaria"},
		{Categoria: "Serviços - Cartorio"},
	}

	got := AplicarFiltros(rows, FiltroParams{Busca: "cartorio"}, agora)

	assert.Len(t, got, 2)
}

func TestBusca_Cliente(t *testing.T) {
	rows := []Transacao{
		{Descricao: "x", Cliente: "Imobiliária Silva"},
		{Descricao: "y", Cliente: "Outra"},
	}

	got := AplicarFiltros(rows, FiltroParams{Busca: "imobiliaria"}, agora)

	assert.Len(t, got, 1)
}

func TestFiltroSubcategoria_TokenDepoisDoSeparador(t *testing.T) {
	rows := []Transacao{
		{Descricao: "a", Categoria: "Infraestrutura - Aluguel"},
		{Descricao: "b", Categoria: "Aluguel"}, // no separator: no subcategory token
		{Descricao: "c", Categoria: "Pessoal - Salários"},
	}

	got := AplicarFiltros(rows, FiltroParams{SubcategoriaLocal: "Aluguel"}, agora)

	assert.Len(t, got, 1)
	assert.Equal(t, "a", got[0].Descricao)
}

func TestFiltroSubcategoria_QueryParamVenceDropdown(t *testing.T) {
	rows := []Transacao{
		{Descricao: "a", Categoria: "Infraestrutura - Aluguel"},
		{Descricao: "c", Categoria: "Pessoal - Salários"},
	}

	got := AplicarFiltros(rows, FiltroParams{Subcategoria: "Salários", SubcategoriaLocal: "Aluguel"}, agora)

	assert.Len(t, got, 1)
	assert.Equal(t, "c", got[0].Descricao)
}

func TestPeriodo_IgnoradoQuandoHaFiltroQuery(t *testing.T) {
	rows := []Transacao{
		{Descricao: "fora do mês", DataVencimento: "2024-01-05"},
	}

	// The month preset would exclude the row, but a query filter suppresses
	// the period range entirely.
	got := AplicarFiltros(rows, FiltroParams{Preset: PresetEsteMes, Status: "em aberto"}, agora)

	assert.Len(t, got, 1)
}

func TestPeriodo_PresetEsteMes(t *testing.T) {
	rows := []Transacao{
		{Descricao: "dentro", DataVencimento: "2025-08-20"},
		{Descricao: "fora", DataVencimento: "2025-09-01"},
	}

	got := AplicarFiltros(rows, FiltroParams{Preset: PresetEsteMes}, agora)

	assert.Len(t, got, 1)
	assert.Equal(t, "dentro", got[0].Descricao)
}

func TestPeriodo_NavegacaoPorMes(t *testing.T) {
	rows := []Transacao{
		{Descricao: "julho", DataVencimento: "2025-07-10"},
		{Descricao: "agosto", DataVencimento: "2025-08-10"},
	}

	got := AplicarFiltros(rows, FiltroParams{Mes: 7, Ano: 2025}, agora)

	assert.Len(t, got, 1)
	assert.Equal(t, "julho", got[0].Descricao)
}

func TestPeriodo_TodoOPeriodoNaoFiltra(t *testing.T) {
	rows := []Transacao{
		{Descricao: "antiga", DataVencimento: "2019-01-01"},
	}

	got := AplicarFiltros(rows, FiltroParams{Preset: PresetTodoOPeriodo}, agora)

	assert.Len(t, got, 1)
}

func TestIntervaloExplicito_PrecisaDeAmbasAsDatas(t *testing.T) {
	rows := []Transacao{
		{Descricao: "a", DataVencimento: "2025-08-05"},
		{Descricao: "b", DataVencimento: "2025-08-25"},
	}

	soInicio := AplicarFiltros(rows, FiltroParams{DataInicio: "2025-08-01"}, agora)
	assert.Len(t, soInicio, 2)

	completo := AplicarFiltros(rows, FiltroParams{DataInicio: "2025-08-01", DataFim: "2025-08-10"}, agora)
	assert.Len(t, completo, 1)
	assert.Equal(t, "a", completo[0].Descricao)
}

func TestPaginar(t *testing.T) {
	rows := make([]Transacao, 25)
	for i := range rows {
		rows[i].ID = int64(i + 1)
	}

	primeira := Paginar(rows, 1, 10)
	assert.Len(t, primeira, 10)
	assert.Equal(t, int64(1), primeira[0].ID)

	terceira := Paginar(rows, 3, 10)
	assert.Len(t, terceira, 5)
	assert.Equal(t, int64(21), terceira[0].ID)

	vazia := Paginar(rows, 4, 10)
	assert.Empty(t, vazia)
}

func TestParseValorBR(t *testing.T) {
	casos := map[string]string{
		"R$ 1.500,00": "1500.00",
		"1500,5":      "1500.5",
		"1500.50":     "1500.50",
		"(200,00)":    "-200.00",
		"-2.500,10":   "-2500.10",
	}
	for entrada, esperado := range casos {
		got, ok := ParseValorBR(entrada)
		assert.True(t, ok, entrada)
		assert.True(t, got.Equal(decimal.RequireFromString(esperado)), "%s => %s", entrada, got)
	}

	_, ok := ParseValorBR("abc")
	assert.False(t, ok)
	_, ok = ParseValorBR("")
	assert.False(t, ok)
}
