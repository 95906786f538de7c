package service

import (
	"context"
	"fmt"
	"time"

	"github.com/contabhub/financeiro-server/internal/erp"
	"github.com/contabhub/financeiro-server/internal/session"
)

// transacaoLister is the slice of the ERP gateway the listing needs.
type transacaoLister interface {
	ListTransacoes(ctx context.Context, sess session.Session, tipo string, filter erp.ListFilter) ([]erp.RawTransacao, error)
}

// ListagemService fetches, normalizes, filters and pages the company's
// transactions. Everything past the fetch happens in memory; the upstream only
// sees the query-driven filters.
type ListagemService struct {
	erp transacaoLister
	now func() time.Time
}

func NewListagemService(gateway transacaoLister) *ListagemService {
	return &ListagemService{erp: gateway, now: time.Now}
}

// ListagemResult is one page plus the totals the client needs to render
// pagination.
type ListagemResult struct {
	Transacoes    []Transacao
	TotalFiltrado int
	TotalBruto    int
	Pagina        int
	PorPagina     int
}

func (s *ListagemService) Listar(ctx context.Context, sess session.Session, tipo Tipo, params FiltroParams) (*ListagemResult, error) {
	if err := tipo.Validar(); err != nil {
		return nil, fmt.Errorf("listagem: %w", err)
	}

	raw, err := s.erp.ListTransacoes(ctx, sess, string(tipo), erp.ListFilter{
		Status:       params.Status,
		Vencimento:   params.Vencimento,
		Subcategoria: params.Subcategoria,
		DataInicio:   params.DataInicio,
		DataFim:      params.DataFim,
	})
	if err != nil {
		return nil, err
	}

	normalizadas := make([]Transacao, len(raw))
	for i, r := range raw {
		if tipo == TipoSaida {
			normalizadas[i] = MapSaida(r)
		} else {
			normalizadas[i] = MapEntrada(r)
		}
	}

	filtradas := AplicarFiltros(normalizadas, params, s.now())

	pagina := params.Pagina
	if pagina < 1 {
		pagina = 1
	}
	porPagina := params.PorPagina
	if porPagina < 1 {
		porPagina = 10
	}

	return &ListagemResult{
		Transacoes:    Paginar(filtradas, pagina, porPagina),
		TotalFiltrado: len(filtradas),
		TotalBruto:    len(normalizadas),
		Pagina:        pagina,
		PorPagina:     porPagina,
	}, nil
}
