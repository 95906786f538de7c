package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/contabhub/financeiro-server/internal/erp"
	"github.com/contabhub/financeiro-server/internal/session"
)

const (
	ParcelamentoAVista = "A vista"

	anexoTamanhoMaximo = 10 << 20 // 10MB decoded
)

// lancamentoGateway is the slice of the ERP gateway the drawers use.
type lancamentoGateway interface {
	CreateTransacao(ctx context.Context, sess session.Session, payload erp.TransacaoCreate) (*erp.TransacaoCreateResult, error)
	UpdateTransacao(ctx context.Context, sess session.Session, id int64, payload erp.TransacaoCreate) error
	CreateRecorrencia(ctx context.Context, sess session.Session, rec erp.Recorrencia) error
}

// LancamentoInput is the drawer submission for a new or edited despesa or
// receita. Valor accepts Brazilian formatting.
type LancamentoInput struct {
	Tipo           Tipo   `validate:"required,oneof=saidas entradas"`
	Descricao      string `validate:"required"`
	Valor          string `validate:"required"`
	DataVencimento string `validate:"required"`
	CategoriaID    int64  `validate:"required,gt=0"`
	SubcategoriaID int64
	ClienteID      int64 `validate:"required,gt=0"`
	ContaID        int64 `validate:"required,gt=0"`
	CentroCustoID  int64
	Observacao     string

	Pago          bool
	DataPagamento string

	Parcelamento          string // "A vista" or "Nx"
	Recorrente            bool
	RecorrenciaTemplateID int64

	AnexoBase64 string
	AnexoNome   string
}

// LancamentoResultado reports what was created: a single transaction or a
// recurrence/installment plan, plus derived installment fields when present.
type LancamentoResultado struct {
	TransacaoID      int64
	Recorrencia      bool
	TotalParcelas    int
	ValorParcela     string // formatted "R$ x,xx", empty for single launches
	ValorExtraidoPDF bool
}

type LancamentoService struct {
	erp      lancamentoGateway
	validate *validator.Validate
}

func NewLancamentoService(gateway lancamentoGateway) *LancamentoService {
	return &LancamentoService{erp: gateway, validate: validator.New()}
}

// Criar validates and submits one drawer. The three branches (installments,
// recurring launch from a template, single transaction) are mutually
// exclusive; asking for installments and a recurrence template at once is
// rejected before any request is made.
func (s *LancamentoService) Criar(ctx context.Context, sess session.Session, input LancamentoInput) (*LancamentoResultado, error) {
	valor, err := validarLancamento(s.validate, input)
	if err != nil {
		return nil, err
	}

	parcelas, err := parcelasDe(input.Parcelamento)
	if err != nil {
		return nil, err
	}

	if parcelas > 1 && input.Recorrente {
		return nil, fmt.Errorf("%w: parcelamento e recorrência não podem ser combinados", ErrEntradaInvalida)
	}

	payload := montarPayloadLancamento(sess, input, valor)

	switch {
	case parcelas > 1:
		valorParcela := valor.Div(decimal.NewFromInt(int64(parcelas))).Round(2)
		rec := erp.Recorrencia{
			CompanyID:     sess.CompanyID,
			Frequencia:    "mensal",
			TotalParcelas: parcelas,
			Status:        "ativa",
			Transacao:     payload,
		}
		if err := s.erp.CreateRecorrencia(ctx, sess, rec); err != nil {
			return nil, err
		}
		return &LancamentoResultado{
			Recorrencia:   true,
			TotalParcelas: parcelas,
			ValorParcela:  FormatarValorBR(valorParcela),
		}, nil

	case input.Recorrente && input.RecorrenciaTemplateID > 0:
		rec := erp.Recorrencia{
			CompanyID:             sess.CompanyID,
			Frequencia:            "mensal",
			Indeterminada:         true,
			Status:                "ativa",
			RecorrenciaTemplateID: input.RecorrenciaTemplateID,
			Transacao:             payload,
		}
		if err := s.erp.CreateRecorrencia(ctx, sess, rec); err != nil {
			return nil, err
		}
		return &LancamentoResultado{Recorrencia: true}, nil

	default:
		result, err := s.erp.CreateTransacao(ctx, sess, payload)
		if err != nil {
			return nil, err
		}
		return &LancamentoResultado{
			TransacaoID:      result.ID,
			ValorExtraidoPDF: result.ValorExtraidoPDF,
		}, nil
	}
}

// Editar validates and submits a full edit of an existing transaction.
// Installment/recurrence branching only applies to creation.
func (s *LancamentoService) Editar(ctx context.Context, sess session.Session, id int64, input LancamentoInput) error {
	valor, err := validarLancamento(s.validate, input)
	if err != nil {
		return err
	}
	return s.erp.UpdateTransacao(ctx, sess, id, montarPayloadLancamento(sess, input, valor))
}

func validarLancamento(v *validator.Validate, input LancamentoInput) (decimal.Decimal, error) {
	if err := v.Struct(input); err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", ErrEntradaInvalida, err)
	}

	valor, ok := ParseValorBR(input.Valor)
	if !ok || valor.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, fmt.Errorf("%w: valor %q", ErrEntradaInvalida, input.Valor)
	}

	if input.Pago && input.DataPagamento == "" {
		return decimal.Zero, fmt.Errorf("%w: data de pagamento é obrigatória quando marcado como pago", ErrEntradaInvalida)
	}

	if err := validarAnexo(input.AnexoBase64); err != nil {
		return decimal.Zero, err
	}

	return valor, nil
}

func montarPayloadLancamento(sess session.Session, input LancamentoInput, valor decimal.Decimal) erp.TransacaoCreate {
	situacao := SituacaoEmAberto
	dataPagamento := ""
	if input.Pago {
		situacao = SituacaoRecebido
		dataPagamento = input.DataPagamento
	}

	tipo := "Despesa"
	if input.Tipo == TipoEntrada {
		tipo = "Receita"
	}

	return erp.TransacaoCreate{
		CompanyID:      sess.CompanyID,
		Tipo:           tipo,
		Descricao:      input.Descricao,
		Valor:          valor.StringFixed(2),
		DataVencimento: input.DataVencimento,
		DataPagamento:  dataPagamento,
		Situacao:       string(situacao),
		CategoriaID:    input.CategoriaID,
		SubcategoriaID: input.SubcategoriaID,
		ClienteID:      input.ClienteID,
		ContaID:        input.ContaID,
		CentroCustoID:  input.CentroCustoID,
		Observacao:     input.Observacao,
		AnexoBase64:    input.AnexoBase64,
		AnexoNome:      input.AnexoNome,
	}
}

// parcelasDe parses the "Nx" installment selector. "A vista" and empty mean a
// single payment.
func parcelasDe(parcelamento string) (int, error) {
	p := strings.TrimSpace(parcelamento)
	if p == "" || p == ParcelamentoAVista {
		return 1, nil
	}
	n, err := strconv.Atoi(strings.TrimSuffix(strings.ToLower(p), "x"))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: parcelamento %q", ErrEntradaInvalida, parcelamento)
	}
	return n, nil
}

// validarAnexo checks the optional PDF attachment: real base64, PDF magic
// bytes and the 10MB cap.
func validarAnexo(anexoBase64 string) error {
	if anexoBase64 == "" {
		return nil
	}

	decoded, err := base64.StdEncoding.DecodeString(anexoBase64)
	if err != nil {
		return fmt.Errorf("%w: anexo não é base64 válido", ErrEntradaInvalida)
	}
	if len(decoded) > anexoTamanhoMaximo {
		return fmt.Errorf("%w: anexo excede 10MB", ErrEntradaInvalida)
	}
	if len(decoded) < 4 || string(decoded[:4]) != "%PDF" {
		return fmt.Errorf("%w: anexo deve ser um PDF", ErrEntradaInvalida)
	}
	return nil
}
