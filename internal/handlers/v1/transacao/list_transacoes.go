package transacao

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/contabhub/financeiro-server/internal/handlers/v1/request"
	"github.com/contabhub/financeiro-server/internal/logging"
	"github.com/contabhub/financeiro-server/internal/service"
	"github.com/contabhub/financeiro-server/internal/session"
)

// ListTransacoesInput is the Huma input for the listing. Query-driven filters
// suppress the period preset; local filters stack on top.
type ListTransacoesInput struct {
	request.SessionHeaders
	Tipo              string `path:"tipo" enum:"saidas,entradas" doc:"Listing type"`
	Situacao          string `query:"situacao" doc:"Status filter"`
	Vencimento        string `query:"vencimento" doc:"Exact due date, yyyy-MM-dd"`
	Subcategoria      string `query:"subcategoria" doc:"Subcategory filter"`
	DataInicio        string `query:"data_inicio" doc:"Range start, yyyy-MM-dd"`
	DataFim           string `query:"data_fim" doc:"Range end, yyyy-MM-dd"`
	Preset            string `query:"preset" doc:"Period preset, empty applies no period filter"`
	Mes               int    `query:"mes" minimum:"0" maximum:"12" doc:"Month for explicit navigation"`
	Ano               int    `query:"ano" doc:"Year for explicit navigation"`
	SubcategoriaLocal string `query:"subcategoria_local" doc:"Locally-applied subcategory filter"`
	Busca             string `query:"busca" doc:"Free-text search over description, value and dates"`
	Pagina            int    `query:"pagina" minimum:"0" doc:"Page number, 1-based"`
	PorPagina         int    `query:"por_pagina" minimum:"0" maximum:"100" doc:"Page size"`
}

// ListTransacoesResponseBody is the response body for the listing.
type ListTransacoesResponseBody struct {
	Transacoes    []Transacao `json:"transacoes" doc:"Page of transactions"`
	TotalFiltrado int         `json:"totalFiltrado" doc:"Rows after filtering"`
	TotalBruto    int         `json:"totalBruto" doc:"Rows fetched before filtering"`
	Pagina        int         `json:"pagina" doc:"Page served"`
	PorPagina     int         `json:"porPagina" doc:"Page size served"`
}

// ListTransacoesOutput is the Huma output for the listing.
type ListTransacoesOutput struct {
	Body ListTransacoesResponseBody
}

// transacaoLister is the interface for listing transactions.
type transacaoLister interface {
	Listar(ctx context.Context, sess session.Session, tipo service.Tipo, params service.FiltroParams) (*service.ListagemResult, error)
}

// ListTransacoesHandler handles GET /v1/transacoes/{tipo}.
type ListTransacoesHandler struct {
	Listagem transacaoLister
}

// NewListTransacoesHandler creates a new ListTransacoesHandler.
func NewListTransacoesHandler(svc transacaoLister) *ListTransacoesHandler {
	return &ListTransacoesHandler{Listagem: svc}
}

// Register registers the listing endpoint with the Huma API.
func (h *ListTransacoesHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-transacoes",
		Method:      http.MethodGet,
		Path:        "/v1/transacoes/{tipo}",
		Summary:     "List transactions",
		Description: "Returns the filtered, paged transaction listing for one type.",
		Tags:        []string{"Transacoes"},
	}, h.handle)
}

func (h *ListTransacoesHandler) handle(ctx context.Context, input *ListTransacoesInput) (*ListTransacoesOutput, error) {
	sess, err := input.Session()
	if err != nil {
		return nil, err
	}

	params := service.FiltroParams{
		Status:            input.Situacao,
		Vencimento:        input.Vencimento,
		Subcategoria:      input.Subcategoria,
		DataInicio:        input.DataInicio,
		DataFim:           input.DataFim,
		Preset:            input.Preset,
		Mes:               input.Mes,
		Ano:               input.Ano,
		SubcategoriaLocal: input.SubcategoriaLocal,
		Busca:             input.Busca,
		Pagina:            input.Pagina,
		PorPagina:         input.PorPagina,
	}

	logData := logging.GetLogData(ctx)
	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("listarTransacoesMs")
	}
	result, err := h.Listagem.Listar(ctx, sess, service.Tipo(input.Tipo), params)
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		return nil, mapErro(err, "failed to list transactions")
	}

	if logData != nil {
		logData.AddData("totalFiltrado", result.TotalFiltrado)
	}

	resp := ListTransacoesResponseBody{
		Transacoes:    make([]Transacao, len(result.Transacoes)),
		TotalFiltrado: result.TotalFiltrado,
		TotalBruto:    result.TotalBruto,
		Pagina:        result.Pagina,
		PorPagina:     result.PorPagina,
	}
	for i, t := range result.Transacoes {
		resp.Transacoes[i] = toView(t)
	}

	return &ListTransacoesOutput{Body: resp}, nil
}
