package service

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Search accepts a value that differs by up to two cents so an amount typed
// from a rounded display still finds the row.
var buscaToleranciaValor = decimal.New(2, -2)

// FiltroParams collects every listing filter in one place with an explicit
// precedence: query filters (Status, Vencimento, Subcategoria, explicit date
// range) win over the UI period; the preset/month range applies only when no
// query filter is present.
type FiltroParams struct {
	// Query-driven filters, forwarded upstream and re-applied locally.
	Status       string
	Vencimento   string
	Subcategoria string
	DataInicio   string // yyyy-MM-dd
	DataFim      string // yyyy-MM-dd

	// UI-driven filters.
	Preset            string
	Mes               int
	Ano               int
	SubcategoriaLocal string
	Busca             string

	Pagina    int
	PorPagina int
}

// TemFiltroQuery reports whether any query-driven filter is set.
func (p FiltroParams) TemFiltroQuery() bool {
	return p.Status != "" || p.Vencimento != "" || p.Subcategoria != "" ||
		(p.DataInicio != "" && p.DataFim != "")
}

// AplicarFiltros runs the full pipeline over the normalized rows and returns
// the filtered slice, preserving order.
func AplicarFiltros(transacoes []Transacao, p FiltroParams, now time.Time) []Transacao {
	out := transacoes

	// Period range only when no query filter took over.
	if !p.TemFiltroQuery() {
		if periodo, ok := p.periodo(now); ok {
			out = filtrar(out, func(t Transacao) bool {
				return periodo.Contem(t.DataVencimento)
			})
		}
	}

	// Subcategory: query param first, local dropdown otherwise, never both.
	if sub := p.subcategoriaEfetiva(); sub != "" {
		out = filtrar(out, func(t Transacao) bool {
			return strings.EqualFold(t.Subcategoria(), sub)
		})
	}

	// Explicit date range needs both bounds.
	if p.DataInicio != "" && p.DataFim != "" {
		intervalo := Periodo{
			Inicio: parseDataOuZero(p.DataInicio, now.Location()),
			Fim:    parseDataOuZero(p.DataFim, now.Location()).AddDate(0, 0, 1).Add(-time.Second),
		}
		out = filtrar(out, func(t Transacao) bool {
			return intervalo.Contem(t.DataVencimento)
		})
	}

	if busca := strings.TrimSpace(p.Busca); busca != "" {
		out = filtrar(out, func(t Transacao) bool {
			return correspondeBusca(t, busca)
		})
	}

	return out
}

// Paginar slices one page out of the filtered rows.
func Paginar(transacoes []Transacao, pagina, porPagina int) []Transacao {
	if pagina < 1 {
		pagina = 1
	}
	if porPagina < 1 {
		porPagina = 10
	}
	inicio := (pagina - 1) * porPagina
	if inicio >= len(transacoes) {
		return []Transacao{}
	}
	fim := inicio + porPagina
	if fim > len(transacoes) {
		fim = len(transacoes)
	}
	return transacoes[inicio:fim]
}

func (p FiltroParams) periodo(now time.Time) (Periodo, bool) {
	if p.Mes >= 1 && p.Mes <= 12 && p.Ano > 0 {
		return PeriodoFromMes(p.Mes, p.Ano, now.Location()), true
	}
	if p.Preset != "" {
		return PeriodoFromPreset(p.Preset, now)
	}
	return Periodo{}, false
}

func (p FiltroParams) subcategoriaEfetiva() string {
	if p.Subcategoria != "" {
		return p.Subcategoria
	}
	return p.SubcategoriaLocal
}

// correspondeBusca is the free-text predicate: case- and accent-insensitive OR
// across description, category and client, plus a currency-aware value match
// and a dd/MM/yyyy date match against both transaction dates.
func correspondeBusca(t Transacao, busca string) bool {
	termo := NormalizarTexto(busca)

	if strings.Contains(NormalizarTexto(t.Descricao), termo) ||
		strings.Contains(NormalizarTexto(t.Categoria), termo) ||
		strings.Contains(NormalizarTexto(t.Cliente), termo) {
		return true
	}

	if valor, ok := ParseValorBR(busca); ok {
		if t.Valor.Sub(valor).Abs().LessThanOrEqual(buscaToleranciaValor) {
			return true
		}
	}

	if strings.ContainsAny(busca, "/") {
		if strings.Contains(FormatarDataBR(t.DataVencimento), busca) ||
			strings.Contains(FormatarDataBR(t.DataTransacao), busca) {
			return true
		}
	}

	return false
}

func filtrar(transacoes []Transacao, keep func(Transacao) bool) []Transacao {
	out := make([]Transacao, 0, len(transacoes))
	for _, t := range transacoes {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

func parseDataOuZero(data string, loc *time.Location) time.Time {
	d, err := time.ParseInLocation("2006-01-02", data, loc)
	if err != nil {
		return time.Time{}
	}
	return d
}
