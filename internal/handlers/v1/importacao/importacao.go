// Package importacao exposes the OFX and spreadsheet import endpoints. Files
// travel base64-encoded in JSON bodies.
package importacao

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/contabhub/financeiro-server/internal/erp"
	"github.com/contabhub/financeiro-server/internal/handlers/v1/request"
	"github.com/contabhub/financeiro-server/internal/service"
	"github.com/contabhub/financeiro-server/internal/session"
)

// importador is the interface for the import flows.
type importador interface {
	ImportarOFX(ctx context.Context, sess session.Session, nomeArquivo string, conteudo []byte, tipo service.Tipo) error
	PreviewPlanilha(nomeArquivo string, conteudo []byte) (*service.PlanilhaPreview, error)
	ImportarPlanilha(ctx context.Context, sess session.Session, tipo service.Tipo, nomeArquivo string, conteudo []byte) (*erp.ImportResult, error)
}

// ArquivoBody is a base64-encoded upload.
type ArquivoBody struct {
	NomeArquivo   string `json:"nomeArquivo" required:"true" doc:"Original file name"`
	ArquivoBase64 string `json:"arquivoBase64" required:"true" doc:"File content, base64"`
	Tipo          string `json:"tipo" required:"true" enum:"saidas,entradas" doc:"Target listing"`
}

func (b ArquivoBody) decodificar() ([]byte, error) {
	conteudo, err := base64.StdEncoding.DecodeString(b.ArquivoBase64)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid arquivoBase64", err)
	}
	return conteudo, nil
}

func mapErro(err error, msg string) error {
	if errors.Is(err, service.ErrEntradaInvalida) {
		return huma.NewError(http.StatusUnprocessableEntity, err.Error())
	}
	return request.MapUpstreamError(err, msg)
}

// ImportOFXInput is the Huma input for an OFX import.
type ImportOFXInput struct {
	request.SessionHeaders
	Body ArquivoBody
}

// ImportOFXOutput is the Huma output for an OFX import.
type ImportOFXOutput struct {
	Status int `json:"-"`
}

// ImportOFXHandler handles POST /v1/importacao/ofx.
type ImportOFXHandler struct {
	Importacao importador
}

// NewImportOFXHandler creates a new ImportOFXHandler.
func NewImportOFXHandler(svc importador) *ImportOFXHandler {
	return &ImportOFXHandler{Importacao: svc}
}

// Register registers the OFX import endpoint with the Huma API.
func (h *ImportOFXHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "import-ofx",
		Method:        http.MethodPost,
		Path:          "/v1/importacao/ofx",
		Summary:       "Import OFX statement",
		Description:   "Imports a bank statement file into one listing.",
		Tags:          []string{"Importacao"},
		DefaultStatus: http.StatusAccepted,
	}, h.handle)
}

func (h *ImportOFXHandler) handle(ctx context.Context, input *ImportOFXInput) (*ImportOFXOutput, error) {
	sess, err := input.Session()
	if err != nil {
		return nil, err
	}
	conteudo, err := input.Body.decodificar()
	if err != nil {
		return nil, err
	}

	if err := h.Importacao.ImportarOFX(ctx, sess, input.Body.NomeArquivo, conteudo, service.Tipo(input.Body.Tipo)); err != nil {
		return nil, mapErro(err, "failed to import OFX")
	}

	return &ImportOFXOutput{Status: http.StatusAccepted}, nil
}

// PreviewPlanilhaInput is the Huma input for the spreadsheet preview.
type PreviewPlanilhaInput struct {
	request.SessionHeaders
	Body ArquivoBody
}

// PreviewPlanilhaResponseBody is the confirmation step before a commit.
type PreviewPlanilhaResponseBody struct {
	Colunas     []string   `json:"colunas" doc:"Header row"`
	Linhas      [][]string `json:"linhas" doc:"Up to five sample data rows"`
	TotalLinhas int        `json:"totalLinhas" doc:"Total data rows in the file"`
}

// PreviewPlanilhaOutput is the Huma output for the spreadsheet preview.
type PreviewPlanilhaOutput struct {
	Body PreviewPlanilhaResponseBody
}

// PreviewPlanilhaHandler handles POST /v1/importacao/planilha/preview.
type PreviewPlanilhaHandler struct {
	Importacao importador
}

// NewPreviewPlanilhaHandler creates a new PreviewPlanilhaHandler.
func NewPreviewPlanilhaHandler(svc importador) *PreviewPlanilhaHandler {
	return &PreviewPlanilhaHandler{Importacao: svc}
}

// Register registers the preview endpoint with the Huma API.
func (h *PreviewPlanilhaHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "preview-planilha",
		Method:      http.MethodPost,
		Path:        "/v1/importacao/planilha/preview",
		Summary:     "Preview spreadsheet import",
		Description: "Parses the spreadsheet and returns a sample so the import can be confirmed.",
		Tags:        []string{"Importacao"},
	}, h.handle)
}

func (h *PreviewPlanilhaHandler) handle(ctx context.Context, input *PreviewPlanilhaInput) (*PreviewPlanilhaOutput, error) {
	if _, err := input.Session(); err != nil {
		return nil, err
	}
	conteudo, err := input.Body.decodificar()
	if err != nil {
		return nil, err
	}

	preview, err := h.Importacao.PreviewPlanilha(input.Body.NomeArquivo, conteudo)
	if err != nil {
		return nil, mapErro(err, "failed to parse spreadsheet")
	}

	return &PreviewPlanilhaOutput{Body: PreviewPlanilhaResponseBody{
		Colunas:     preview.Colunas,
		Linhas:      preview.Linhas,
		TotalLinhas: preview.TotalLinhas,
	}}, nil
}

// ImportPlanilhaInput is the Huma input for the spreadsheet commit.
type ImportPlanilhaInput struct {
	request.SessionHeaders
	Body ArquivoBody
}

// ImportPlanilhaResponseBody reports the committed import.
type ImportPlanilhaResponseBody struct {
	Total      int `json:"total" doc:"Rows in the file"`
	Importadas int `json:"importadas" doc:"Rows imported"`
}

// ImportPlanilhaOutput is the Huma output for the spreadsheet commit.
type ImportPlanilhaOutput struct {
	Body ImportPlanilhaResponseBody
}

// ImportPlanilhaHandler handles POST /v1/importacao/planilha.
type ImportPlanilhaHandler struct {
	Importacao importador
}

// NewImportPlanilhaHandler creates a new ImportPlanilhaHandler.
func NewImportPlanilhaHandler(svc importador) *ImportPlanilhaHandler {
	return &ImportPlanilhaHandler{Importacao: svc}
}

// Register registers the commit endpoint with the Huma API.
func (h *ImportPlanilhaHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "import-planilha",
		Method:        http.MethodPost,
		Path:          "/v1/importacao/planilha",
		Summary:       "Commit spreadsheet import",
		Description:   "Imports the previewed spreadsheet into one listing.",
		Tags:          []string{"Importacao"},
		DefaultStatus: http.StatusCreated,
	}, h.handle)
}

func (h *ImportPlanilhaHandler) handle(ctx context.Context, input *ImportPlanilhaInput) (*ImportPlanilhaOutput, error) {
	sess, err := input.Session()
	if err != nil {
		return nil, err
	}
	conteudo, err := input.Body.decodificar()
	if err != nil {
		return nil, err
	}

	result, err := h.Importacao.ImportarPlanilha(ctx, sess, service.Tipo(input.Body.Tipo), input.Body.NomeArquivo, conteudo)
	if err != nil {
		return nil, mapErro(err, "failed to import spreadsheet")
	}

	return &ImportPlanilhaOutput{Body: ImportPlanilhaResponseBody{
		Total:      result.Total,
		Importadas: result.Importadas,
	}}, nil
}
