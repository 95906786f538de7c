// Package transacao exposes the transaction listing, drawer and mutation
// endpoints.
package transacao

import (
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/contabhub/financeiro-server/internal/handlers/v1/request"
	"github.com/contabhub/financeiro-server/internal/service"
)

// Transacao is the JSON view of one normalized transaction row.
type Transacao struct {
	ID                int64    `json:"id" doc:"Transaction id"`
	DataVencimento    string   `json:"dataVencimento" doc:"Due date, yyyy-MM-dd"`
	DataTransacao     string   `json:"dataTransacao,omitempty" doc:"Payment date, empty while unpaid"`
	Descricao         string   `json:"descricao" doc:"Description"`
	Valor             string   `json:"valor" doc:"Decimal amount"`
	ValorFormatado    string   `json:"valorFormatado" doc:"Amount formatted as R$ x,xx"`
	Situacao          string   `json:"situacao" doc:"Current status"`
	Categoria         string   `json:"categoria" doc:"Category label"`
	Cliente           string   `json:"cliente,omitempty" doc:"Customer or supplier name"`
	Origem            string   `json:"origem" doc:"Record origin"`
	TransacaoAPIID    int64    `json:"transacaoApiId,omitempty" doc:"Linked open-finance feed entry id"`
	ConciliacaoID     int64    `json:"conciliacaoId,omitempty" doc:"Reconciliation link id"`
	ConciliacaoStatus string   `json:"conciliacaoStatus,omitempty" doc:"Reconciliation link status"`
	Transicoes        []string `json:"transicoes" doc:"Statuses this row may move to"`
}

func toView(t service.Transacao) Transacao {
	transicoes := service.TransicoesPermitidas(t.Situacao)
	nomes := make([]string, len(transicoes))
	for i, s := range transicoes {
		nomes[i] = string(s)
	}
	return Transacao{
		ID:                t.ID,
		DataVencimento:    t.DataVencimento,
		DataTransacao:     t.DataTransacao,
		Descricao:         t.Descricao,
		Valor:             t.Valor.StringFixed(2),
		ValorFormatado:    service.FormatarValorBR(t.Valor),
		Situacao:          string(t.Situacao),
		Categoria:         t.Categoria,
		Cliente:           t.Cliente,
		Origem:            string(t.Origem),
		TransacaoAPIID:    t.TransacaoAPIID,
		ConciliacaoID:     t.ConciliacaoID,
		ConciliacaoStatus: t.ConciliacaoStatus,
		Transicoes:        nomes,
	}
}

// mapErro separates caller mistakes from upstream failures.
func mapErro(err error, msg string) error {
	if errors.Is(err, service.ErrEntradaInvalida) {
		return huma.NewError(http.StatusUnprocessableEntity, err.Error())
	}
	return request.MapUpstreamError(err, msg)
}
