package service

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrEntradaInvalida marks failures caused by the caller's input rather than
// the upstream. Handlers map it to an unprocessable-entity response.
var ErrEntradaInvalida = fmt.Errorf("entrada inválida")

// Situacao is the transaction status enum.
type Situacao string

const (
	SituacaoEmAberto   Situacao = "em aberto"
	SituacaoVencidos   Situacao = "vencidos"
	SituacaoRecebido   Situacao = "recebido"
	SituacaoConciliado Situacao = "conciliado"
)

// Origem records where a transaction came from, which decides the endpoint
// family used for deletes and status patches.
type Origem string

const (
	OrigemEmpresa Origem = "empresa"
	OrigemPluggy  Origem = "pluggy"
	OrigemOFX     Origem = "Importação OFX"
)

// Tipo separates the two transaction listings.
type Tipo string

const (
	TipoSaida   Tipo = "saidas"
	TipoEntrada Tipo = "entradas"
)

// Validar rejects any listing type other than the two known ones.
func (t Tipo) Validar() error {
	if t != TipoSaida && t != TipoEntrada {
		return fmt.Errorf("%w: tipo %q", ErrEntradaInvalida, t)
	}
	return nil
}

// Transacao is the normalized record every workflow operates on, regardless of
// whether the raw row came from a manual entry, an OFX import or the
// open-finance feed.
type Transacao struct {
	ID                int64           `json:"id"`
	DataVencimento    string          `json:"data_vencimento"` // yyyy-MM-dd
	DataTransacao     string          `json:"data_transacao"`  // yyyy-MM-dd, empty when unpaid
	Descricao         string          `json:"descricao"`
	Valor             decimal.Decimal `json:"valor"`
	Situacao          Situacao        `json:"situacao"`
	Categoria         string          `json:"categoria"` // display label, possibly "Categoria - Subcategoria"
	Cliente           string          `json:"cliente,omitempty"`
	Origem            Origem          `json:"origem"`
	TransacaoAPIID    int64           `json:"transacao_api_id,omitempty"`
	ConciliacaoID     int64           `json:"conciliacao_id,omitempty"`
	ConciliacaoStatus string          `json:"conciliacao_status,omitempty"`
}

// Subcategoria derives the subcategory token from the display label: the text
// after the first " - " separator, empty when the label has none.
func (t Transacao) Subcategoria() string {
	for i := 0; i+3 <= len(t.Categoria); i++ {
		if t.Categoria[i:i+3] == " - " {
			return t.Categoria[i+3:]
		}
	}
	return ""
}

// TransicoesPermitidas returns the target statuses offered for a transaction
// in the given status. Reconciled rows only allow revocation, never a direct
// status change.
func TransicoesPermitidas(atual Situacao) []Situacao {
	switch atual {
	case SituacaoEmAberto:
		return []Situacao{SituacaoRecebido, SituacaoVencidos}
	case SituacaoVencidos:
		return []Situacao{SituacaoEmAberto, SituacaoRecebido}
	case SituacaoRecebido:
		return []Situacao{SituacaoEmAberto}
	default:
		return nil
	}
}

// TransicaoPermitida reports whether alvo is offered from atual.
func TransicaoPermitida(atual, alvo Situacao) bool {
	for _, s := range TransicoesPermitidas(atual) {
		if s == alvo {
			return true
		}
	}
	return false
}
