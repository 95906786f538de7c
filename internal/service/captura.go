package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/contabhub/financeiro-server/internal/erp"
	"github.com/contabhub/financeiro-server/internal/session"
)

var ErrArquivoNaoPDF = fmt.Errorf("%w: arquivo deve ser um PDF", ErrEntradaInvalida)

type capturaGateway interface {
	ImportarPDFDraft(ctx context.Context, sess session.Session, titulo, pdfBase64 string) (*erp.Draft, error)
	FinalizarDraft(ctx context.Context, sess session.Session, id int64, payload erp.TransacaoCreate) (*erp.TransacaoCreateResult, error)
	DeleteDraft(ctx context.Context, sess session.Session, id int64) error
}

// CapturaService drives the PDF capture flow: a boleto or invoice PDF is
// uploaded, the upstream extracts its fields into a draft, and the draft is
// later finalized into a real transaction or discarded.
type CapturaService struct {
	erp      capturaGateway
	validate *validator.Validate
}

func NewCapturaService(gateway capturaGateway) *CapturaService {
	return &CapturaService{erp: gateway, validate: validator.New()}
}

// EnviarPDF validates the upload and creates an extraction draft upstream.
// The title defaults to the file name without its extension.
func (s *CapturaService) EnviarPDF(ctx context.Context, sess session.Session, nomeArquivo string, conteudo []byte) (*erp.Draft, error) {
	if !strings.EqualFold(filepath.Ext(nomeArquivo), ".pdf") {
		return nil, ErrArquivoNaoPDF
	}
	if len(conteudo) < 4 || string(conteudo[:4]) != "%PDF" {
		return nil, ErrArquivoNaoPDF
	}
	if len(conteudo) > anexoTamanhoMaximo {
		return nil, fmt.Errorf("%w: arquivo excede 10MB", ErrEntradaInvalida)
	}

	titulo := strings.TrimSuffix(nomeArquivo, filepath.Ext(nomeArquivo))
	encoded := base64.StdEncoding.EncodeToString(conteudo)
	return s.erp.ImportarPDFDraft(ctx, sess, titulo, encoded)
}

// Finalizar turns a reviewed draft into a real transaction. The input goes
// through the same validation as a manual drawer submission.
func (s *CapturaService) Finalizar(ctx context.Context, sess session.Session, draftID int64, input LancamentoInput) (*LancamentoResultado, error) {
	if draftID <= 0 {
		return nil, fmt.Errorf("%w: draft %d", ErrEntradaInvalida, draftID)
	}
	valor, err := validarLancamento(s.validate, input)
	if err != nil {
		return nil, err
	}

	result, err := s.erp.FinalizarDraft(ctx, sess, draftID, montarPayloadLancamento(sess, input, valor))
	if err != nil {
		return nil, err
	}
	return &LancamentoResultado{
		TransacaoID:      result.ID,
		ValorExtraidoPDF: result.ValorExtraidoPDF,
	}, nil
}

// Descartar drops a draft without creating anything.
func (s *CapturaService) Descartar(ctx context.Context, sess session.Session, draftID int64) error {
	if draftID <= 0 {
		return fmt.Errorf("%w: draft %d", ErrEntradaInvalida, draftID)
	}
	return s.erp.DeleteDraft(ctx, sess, draftID)
}
