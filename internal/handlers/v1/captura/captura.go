// Package captura exposes the PDF capture flow: upload, finalize, discard.
package captura

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/contabhub/financeiro-server/internal/erp"
	"github.com/contabhub/financeiro-server/internal/handlers/v1/request"
	"github.com/contabhub/financeiro-server/internal/handlers/v1/transacao"
	"github.com/contabhub/financeiro-server/internal/service"
	"github.com/contabhub/financeiro-server/internal/session"
)

// capturador is the interface for the capture flow.
type capturador interface {
	EnviarPDF(ctx context.Context, sess session.Session, nomeArquivo string, conteudo []byte) (*erp.Draft, error)
	Finalizar(ctx context.Context, sess session.Session, draftID int64, input service.LancamentoInput) (*service.LancamentoResultado, error)
	Descartar(ctx context.Context, sess session.Session, draftID int64) error
}

func mapErro(err error, msg string) error {
	if errors.Is(err, service.ErrEntradaInvalida) {
		return huma.NewError(http.StatusUnprocessableEntity, err.Error())
	}
	return request.MapUpstreamError(err, msg)
}

// EnviarPDFBody is the upload for a capture draft.
type EnviarPDFBody struct {
	NomeArquivo   string `json:"nomeArquivo" required:"true" doc:"Original file name"`
	ArquivoBase64 string `json:"arquivoBase64" required:"true" doc:"PDF content, base64"`
}

// EnviarPDFInput is the Huma input for the upload.
type EnviarPDFInput struct {
	request.SessionHeaders
	Body EnviarPDFBody
}

// DraftBody is the JSON view of one extraction draft.
type DraftBody struct {
	ID     int64  `json:"id" doc:"Draft id"`
	Titulo string `json:"titulo" doc:"Draft title"`
	Status string `json:"status" doc:"Extraction status"`
}

// EnviarPDFOutput is the Huma output for the upload.
type EnviarPDFOutput struct {
	Status int `json:"-"`
	Body   DraftBody
}

// EnviarPDFHandler handles POST /v1/captura.
type EnviarPDFHandler struct {
	Captura capturador
}

// NewEnviarPDFHandler creates a new EnviarPDFHandler.
func NewEnviarPDFHandler(svc capturador) *EnviarPDFHandler {
	return &EnviarPDFHandler{Captura: svc}
}

// Register registers the upload endpoint with the Huma API.
func (h *EnviarPDFHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "enviar-pdf",
		Method:        http.MethodPost,
		Path:          "/v1/captura",
		Summary:       "Upload capture PDF",
		Description:   "Uploads a boleto or invoice PDF and creates an extraction draft.",
		Tags:          []string{"Captura"},
		DefaultStatus: http.StatusCreated,
	}, h.handle)
}

func (h *EnviarPDFHandler) handle(ctx context.Context, input *EnviarPDFInput) (*EnviarPDFOutput, error) {
	sess, err := input.Session()
	if err != nil {
		return nil, err
	}
	conteudo, err := base64.StdEncoding.DecodeString(input.Body.ArquivoBase64)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid arquivoBase64", err)
	}

	draft, err := h.Captura.EnviarPDF(ctx, sess, input.Body.NomeArquivo, conteudo)
	if err != nil {
		return nil, mapErro(err, "failed to create capture draft")
	}

	return &EnviarPDFOutput{
		Status: http.StatusCreated,
		Body:   DraftBody{ID: draft.ID, Titulo: draft.Titulo, Status: draft.Status},
	}, nil
}

// FinalizarInput is the Huma input for finalizing a draft.
type FinalizarInput struct {
	request.SessionHeaders
	ID   int64 `path:"id" minimum:"1" doc:"Draft id"`
	Body transacao.LancamentoBody
}

// FinalizarResponseBody reports the created transaction.
type FinalizarResponseBody struct {
	TransacaoID      int64 `json:"transacaoId" doc:"Created transaction id"`
	ValorExtraidoPDF bool  `json:"valorExtraidoPdf,omitempty" doc:"Amount was taken from the PDF"`
}

// FinalizarOutput is the Huma output for finalizing a draft.
type FinalizarOutput struct {
	Status int `json:"-"`
	Body   FinalizarResponseBody
}

// FinalizarHandler handles POST /v1/captura/{id}/finalizar.
type FinalizarHandler struct {
	Captura capturador
}

// NewFinalizarHandler creates a new FinalizarHandler.
func NewFinalizarHandler(svc capturador) *FinalizarHandler {
	return &FinalizarHandler{Captura: svc}
}

// Register registers the finalize endpoint with the Huma API.
func (h *FinalizarHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "finalizar-captura",
		Method:        http.MethodPost,
		Path:          "/v1/captura/{id}/finalizar",
		Summary:       "Finalize capture draft",
		Description:   "Turns a reviewed draft into a real transaction.",
		Tags:          []string{"Captura"},
		DefaultStatus: http.StatusCreated,
	}, h.handle)
}

func (h *FinalizarHandler) handle(ctx context.Context, input *FinalizarInput) (*FinalizarOutput, error) {
	sess, err := input.Session()
	if err != nil {
		return nil, err
	}

	result, err := h.Captura.Finalizar(ctx, sess, input.ID, input.Body.ToInput())
	if err != nil {
		return nil, mapErro(err, "failed to finalize draft")
	}

	return &FinalizarOutput{
		Status: http.StatusCreated,
		Body: FinalizarResponseBody{
			TransacaoID:      result.TransacaoID,
			ValorExtraidoPDF: result.ValorExtraidoPDF,
		},
	}, nil
}

// DescartarInput is the Huma input for discarding a draft.
type DescartarInput struct {
	request.SessionHeaders
	ID int64 `path:"id" minimum:"1" doc:"Draft id"`
}

// DescartarOutput is the Huma output for discarding a draft.
type DescartarOutput struct {
	Status int `json:"-"`
}

// DescartarHandler handles DELETE /v1/captura/{id}.
type DescartarHandler struct {
	Captura capturador
}

// NewDescartarHandler creates a new DescartarHandler.
func NewDescartarHandler(svc capturador) *DescartarHandler {
	return &DescartarHandler{Captura: svc}
}

// Register registers the discard endpoint with the Huma API.
func (h *DescartarHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "descartar-captura",
		Method:        http.MethodDelete,
		Path:          "/v1/captura/{id}",
		Summary:       "Discard capture draft",
		Description:   "Drops a draft without creating anything.",
		Tags:          []string{"Captura"},
		DefaultStatus: http.StatusNoContent,
	}, h.handle)
}

func (h *DescartarHandler) handle(ctx context.Context, input *DescartarInput) (*DescartarOutput, error) {
	sess, err := input.Session()
	if err != nil {
		return nil, err
	}

	if err := h.Captura.Descartar(ctx, sess, input.ID); err != nil {
		return nil, mapErro(err, "failed to discard draft")
	}

	return &DescartarOutput{Status: http.StatusNoContent}, nil
}
