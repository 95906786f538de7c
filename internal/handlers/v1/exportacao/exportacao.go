// Package exportacao exposes the spreadsheet export download.
package exportacao

import (
	"context"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/contabhub/financeiro-server/internal/handlers/v1/request"
	"github.com/contabhub/financeiro-server/internal/service"
	"github.com/contabhub/financeiro-server/internal/session"
)

// exportador is the interface for the export download.
type exportador interface {
	Export(ctx context.Context, sess session.Session, tipo string, mes, ano int) (string, []byte, error)
}

// ExportInput is the Huma input for the export download.
type ExportInput struct {
	request.SessionHeaders
	Tipo string `path:"tipo" enum:"saidas,entradas" doc:"Listing type"`
	Mes  int    `query:"mes" minimum:"1" maximum:"12" doc:"Month to export, omit for the whole period"`
	Ano  int    `query:"ano" doc:"Year to export, omit for the whole period"`
}

// ExportOutput streams the spreadsheet back.
type ExportOutput struct {
	ContentType        string `header:"Content-Type"`
	ContentDisposition string `header:"Content-Disposition"`
	Body               []byte
}

// ExportHandler handles GET /v1/exportacao/{tipo}.
type ExportHandler struct {
	ERP exportador
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(erp exportador) *ExportHandler {
	return &ExportHandler{ERP: erp}
}

// Register registers the export endpoint with the Huma API.
func (h *ExportHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "export-transacoes",
		Method:      http.MethodGet,
		Path:        "/v1/exportacao/{tipo}",
		Summary:     "Export transactions",
		Description: "Downloads transactions as a spreadsheet, optionally restricted to one month.",
		Tags:        []string{"Exportacao"},
	}, h.handle)
}

func (h *ExportHandler) handle(ctx context.Context, input *ExportInput) (*ExportOutput, error) {
	sess, err := input.Session()
	if err != nil {
		return nil, err
	}
	if err := service.Tipo(input.Tipo).Validar(); err != nil {
		return nil, huma.NewError(http.StatusUnprocessableEntity, err.Error())
	}

	filename, blob, err := h.ERP.Export(ctx, sess, input.Tipo, input.Mes, input.Ano)
	if err != nil {
		return nil, request.MapUpstreamError(err, "failed to export transactions")
	}

	return &ExportOutput{
		ContentType:        "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		ContentDisposition: fmt.Sprintf("attachment; filename=%q", filename),
		Body:               blob,
	}, nil
}
