package service

import (
	"github.com/shopspring/decimal"

	"github.com/contabhub/financeiro-server/internal/erp"
)

// MapSaida normalizes one raw expense row. Missing fields default to
// empty/zero; normalization never fails.
func MapSaida(raw erp.RawTransacao) Transacao {
	return mapTransacao(raw, TipoSaida)
}

// MapEntrada normalizes one raw revenue row.
func MapEntrada(raw erp.RawTransacao) Transacao {
	return mapTransacao(raw, TipoEntrada)
}

// mapTransacao folds the three raw shapes into one. A row carrying
// description without descricao is open-finance sourced: those arrive already
// settled, so their status defaults to "recebido" instead of "em aberto".
func mapTransacao(raw erp.RawTransacao, tipo Tipo) Transacao {
	pluggyLike := raw.Description != "" && raw.Descricao == ""

	t := Transacao{
		Descricao:         raw.Descricao,
		Cliente:           raw.Cliente,
		Origem:            Origem(raw.Origem),
		ConciliacaoStatus: raw.ConciliacaoStatus,
		DataVencimento:    raw.DataVencimento,
		DataTransacao:     raw.DataTransacao,
	}

	t.ID, _ = raw.ID.Int64()
	t.TransacaoAPIID, _ = raw.TransacaoAPIID.Int64()
	t.ConciliacaoID, _ = raw.ConciliacaoID.Int64()

	if pluggyLike {
		t.Descricao = raw.Description
		if t.Origem == "" {
			t.Origem = OrigemPluggy
		}
		if t.DataVencimento == "" {
			t.DataVencimento = raw.Date
		}
		if t.DataTransacao == "" {
			t.DataTransacao = raw.Date
		}
	}

	// OFX rows record the real movement date in data_transacao; the listing
	// shows that date as the due date.
	if t.Origem == OrigemOFX && raw.DataTransacao != "" {
		t.DataVencimento = raw.DataTransacao
	}

	t.Valor = mapValor(raw, tipo)
	t.Situacao = mapSituacao(raw.Situacao, pluggyLike)
	t.Categoria = mapCategoria(raw)

	return t
}

func mapValor(raw erp.RawTransacao, tipo Tipo) decimal.Decimal {
	switch {
	case tipo == TipoSaida && raw.APagar.Valid:
		return raw.APagar.Decimal
	case tipo == TipoEntrada && raw.AReceber.Valid:
		return raw.AReceber.Decimal
	case raw.Amount.Valid:
		return raw.Amount.Decimal
	default:
		return decimal.Zero
	}
}

func mapSituacao(raw string, pluggyLike bool) Situacao {
	if raw != "" {
		return Situacao(raw)
	}
	if pluggyLike {
		return SituacaoRecebido
	}
	return SituacaoEmAberto
}

// mapCategoria synthesizes the display label: "Categoria - Subcategoria" when
// both exist, then categoria alone, then the open-finance category, then a
// fixed fallback.
func mapCategoria(raw erp.RawTransacao) string {
	switch {
	case raw.Categoria != "" && raw.Subcategoria != "":
		return raw.Categoria + " - " + raw.Subcategoria
	case raw.Categoria != "":
		return raw.Categoria
	case raw.Category != "":
		return raw.Category
	default:
		return "Sem categoria"
	}
}
