package erp

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// RawTransacao is the union of every transaction shape the list endpoints
// return: manual/ERP entries use the Portuguese fields, open-finance entries
// arrive with the English description/amount/date triple, OFX imports carry
// data_transacao alongside the ERP fields.
type RawTransacao struct {
	ID                json.Number         `json:"id"`
	DataVencimento    string              `json:"data_vencimento"`
	DataTransacao     string              `json:"data_transacao"`
	Descricao         string              `json:"descricao"`
	Situacao          string              `json:"situacao"`
	Categoria         string              `json:"categoria"`
	Subcategoria      string              `json:"subcategoria"`
	Cliente           string              `json:"cliente"`
	Origem            string              `json:"origem"`
	APagar            decimal.NullDecimal `json:"a_pagar"`
	AReceber          decimal.NullDecimal `json:"a_receber"`
	TransacaoAPIID    json.Number         `json:"transacao_api_id"`
	ConciliacaoID     json.Number         `json:"conciliacao_id"`
	ConciliacaoStatus string              `json:"conciliacao_status"`

	// Open-finance (Pluggy) fields.
	Description string              `json:"description"`
	Amount      decimal.NullDecimal `json:"amount"`
	Date        string              `json:"date"`
	Category    string              `json:"category"`
}

// TransacaoAPI is one entry of a linked bank account's transaction feed.
type TransacaoAPI struct {
	ID          int64               `json:"id"`
	Description string              `json:"description"`
	Amount      decimal.NullDecimal `json:"amount"`
	Date        string              `json:"date"`
}

// ContaAPI is a linked open-finance bank account.
type ContaAPI struct {
	ID        string `json:"id"`
	Nome      string `json:"nome"`
	ClienteID int64  `json:"cliente_id"`
}

// PatchTransacao is the body for a status mutation.
type PatchTransacao struct {
	Situacao      string  `json:"situacao"`
	DataTransacao *string `json:"data_transacao"`
}

// TransacaoCreate is the payload for creating or fully editing a transaction.
type TransacaoCreate struct {
	CompanyID      int64  `json:"company_id"`
	Tipo           string `json:"tipo"`
	Descricao      string `json:"descricao"`
	Valor          string `json:"valor"`
	DataVencimento string `json:"data_vencimento"`
	DataPagamento  string `json:"data_pagamento,omitempty"`
	Situacao       string `json:"situacao"`
	CategoriaID    int64  `json:"categoria_id"`
	SubcategoriaID int64  `json:"subcategoria_id,omitempty"`
	ClienteID      int64  `json:"cliente_id"`
	ContaID        int64  `json:"conta_id"`
	CentroCustoID  int64  `json:"centro_custo_id,omitempty"`
	Observacao     string `json:"observacao,omitempty"`
	AnexoBase64    string `json:"anexo_base64,omitempty"`
	AnexoNome      string `json:"anexo_nome,omitempty"`
}

// TransacaoCreateResult echoes what the create endpoint returns. The server
// inspects PDF attachments and reports whether it extracted a value.
type TransacaoCreateResult struct {
	ID               int64 `json:"id"`
	ValorExtraidoPDF bool  `json:"valor_extraido_pdf"`
}

// Recorrencia creates an installment plan or recurring launch from a template
// transaction.
type Recorrencia struct {
	CompanyID              int64           `json:"company_id"`
	Frequencia             string          `json:"frequencia"`
	TotalParcelas          int             `json:"total_parcelas,omitempty"`
	Indeterminada          bool            `json:"indeterminada"`
	IntervaloPersonalizado int             `json:"intervalo_personalizado,omitempty"`
	TipoIntervalo          string          `json:"tipo_intervalo,omitempty"`
	Status                 string          `json:"status"`
	RecorrenciaTemplateID  int64           `json:"recorrencia_template_id,omitempty"`
	Transacao              TransacaoCreate `json:"transacao"`
}

// Revogacao is the body for revoking a reconciliation link.
type Revogacao struct {
	TransacaoAPIID int64  `json:"transacao_api_id"`
	TransacaoID    int64  `json:"transacao_id"`
	UsuarioID      int64  `json:"usuario_id"`
	Observacao     string `json:"observacao"`
}

// Reference/lookup shapes. Flat lists fetched per company, never mutated here.
type Cliente struct {
	ID   int64  `json:"id"`
	Nome string `json:"nome"`
}

type Categoria struct {
	ID   int64  `json:"id"`
	Nome string `json:"nome"`
	Tipo string `json:"tipo"` // "Despesa" or "Receita"
}

type Subcategoria struct {
	ID          int64  `json:"id"`
	Nome        string `json:"nome"`
	CategoriaID int64  `json:"categoria_id"`
}

type CentroCusto struct {
	ID   int64  `json:"id"`
	Nome string `json:"nome"`
}

type Conta struct {
	ID   int64  `json:"id"`
	Nome string `json:"nome"`
}

// Draft is an ephemeral PDF-extraction result (Captura Fácil) held upstream
// until finalized into a real transaction or discarded.
type Draft struct {
	ID         int64                  `json:"id"`
	Titulo     string                 `json:"titulo"`
	Status     string                 `json:"status"` // processando, processado, erro
	BoletoMeta map[string]interface{} `json:"boletoMeta,omitempty"`
	DraftID    string                 `json:"draftId"`
}

// ImportResult is returned by the spreadsheet import commit.
type ImportResult struct {
	Total      int `json:"total"`
	Importadas int `json:"importadas"`
}
