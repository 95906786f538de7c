package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/contabhub/financeiro-server/internal/erp"
	"github.com/contabhub/financeiro-server/internal/session"
)

const previewLinhas = 5

var (
	ErrExtensaoOFX      = fmt.Errorf("%w: arquivo deve ter extensão .ofx", ErrEntradaInvalida)
	ErrPlanilhaVazia    = fmt.Errorf("%w: planilha não tem linhas de dados", ErrEntradaInvalida)
	ErrPlanilhaInvalida = fmt.Errorf("%w: arquivo não é uma planilha válida", ErrEntradaInvalida)
)

type importacaoGateway interface {
	ImportOFX(ctx context.Context, sess session.Session, arquivoBase64 string, tipo string) error
	ImportPlanilha(ctx context.Context, sess session.Session, destino string, nomeArquivo string, conteudo []byte, salvar bool) (*erp.ImportResult, error)
}

// PlanilhaPreview is the confirmation step shown before a spreadsheet import
// is committed: the header, the first rows and the total data row count.
type PlanilhaPreview struct {
	Colunas     []string   `json:"colunas"`
	Linhas      [][]string `json:"linhas"`
	TotalLinhas int        `json:"total_linhas"`
}

type ImportacaoService struct {
	erp importacaoGateway
}

func NewImportacaoService(gateway importacaoGateway) *ImportacaoService {
	return &ImportacaoService{erp: gateway}
}

// ImportarOFX validates the extension, encodes the file and hands it to the
// upstream OFX importer for the given listing type.
func (s *ImportacaoService) ImportarOFX(ctx context.Context, sess session.Session, nomeArquivo string, conteudo []byte, tipo Tipo) error {
	if !strings.EqualFold(filepath.Ext(nomeArquivo), ".ofx") {
		return ErrExtensaoOFX
	}
	if err := tipo.Validar(); err != nil {
		return err
	}
	encoded := base64.StdEncoding.EncodeToString(conteudo)
	return s.erp.ImportOFX(ctx, sess, encoded, string(tipo))
}

// PreviewPlanilha parses the spreadsheet locally and returns the header plus
// up to five data rows so the caller can confirm before committing. Rows are
// padded to the header width.
func (s *ImportacaoService) PreviewPlanilha(nomeArquivo string, conteudo []byte) (*PlanilhaPreview, error) {
	if !strings.EqualFold(filepath.Ext(nomeArquivo), ".xlsx") {
		return nil, ErrPlanilhaInvalida
	}

	f, err := excelize.OpenReader(bytes.NewReader(conteudo))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPlanilhaInvalida, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrPlanilhaVazia
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPlanilhaInvalida, err)
	}
	if len(rows) < 2 {
		return nil, ErrPlanilhaVazia
	}

	colunas := rows[0]
	dados := rows[1:]
	preview := &PlanilhaPreview{
		Colunas:     colunas,
		TotalLinhas: len(dados),
	}
	for _, linha := range dados {
		if len(preview.Linhas) == previewLinhas {
			break
		}
		ajustada := make([]string, len(colunas))
		copy(ajustada, linha)
		preview.Linhas = append(preview.Linhas, ajustada)
	}
	return preview, nil
}

// ImportarPlanilha commits the spreadsheet upstream with save enabled.
func (s *ImportacaoService) ImportarPlanilha(ctx context.Context, sess session.Session, tipo Tipo, nomeArquivo string, conteudo []byte) (*erp.ImportResult, error) {
	if err := tipo.Validar(); err != nil {
		return nil, err
	}
	destino := "contas-a-pagar"
	if tipo == TipoEntrada {
		destino = "contas-a-receber"
	}
	return s.erp.ImportPlanilha(ctx, sess, destino, nomeArquivo, conteudo, true)
}
