package transacao

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/contabhub/financeiro-server/internal/handlers/v1/request"
	"github.com/contabhub/financeiro-server/internal/service"
	"github.com/contabhub/financeiro-server/internal/session"
)

// LancamentoBody is the drawer submission for a new or edited transaction.
type LancamentoBody struct {
	Tipo           string `json:"tipo" required:"true" enum:"saidas,entradas" doc:"Listing type"`
	Descricao      string `json:"descricao" required:"true" doc:"Description"`
	Valor          string `json:"valor" required:"true" doc:"Amount, Brazilian formatting accepted"`
	DataVencimento string `json:"dataVencimento" required:"true" doc:"Due date, yyyy-MM-dd"`
	CategoriaID    int64  `json:"categoriaId" required:"true" doc:"Category id"`
	SubcategoriaID int64  `json:"subcategoriaId,omitempty" doc:"Subcategory id"`
	ClienteID      int64  `json:"clienteId" required:"true" doc:"Customer or supplier id"`
	ContaID        int64  `json:"contaId" required:"true" doc:"Bank account id"`
	CentroCustoID  int64  `json:"centroCustoId,omitempty" doc:"Cost center id"`
	Observacao     string `json:"observacao,omitempty" doc:"Free-text note"`

	Pago          bool   `json:"pago,omitempty" doc:"Already paid"`
	DataPagamento string `json:"dataPagamento,omitempty" doc:"Payment date, required when pago"`

	Parcelamento          string `json:"parcelamento,omitempty" doc:"\"A vista\" or \"Nx\""`
	Recorrente            bool   `json:"recorrente,omitempty" doc:"Launch from a recurrence template"`
	RecorrenciaTemplateID int64  `json:"recorrenciaTemplateId,omitempty" doc:"Recurrence template id"`

	AnexoBase64 string `json:"anexoBase64,omitempty" doc:"PDF attachment, base64"`
	AnexoNome   string `json:"anexoNome,omitempty" doc:"Attachment file name"`
}

// ToInput converts the body to the service input.
func (b LancamentoBody) ToInput() service.LancamentoInput {
	return service.LancamentoInput{
		Tipo:                  service.Tipo(b.Tipo),
		Descricao:             b.Descricao,
		Valor:                 b.Valor,
		DataVencimento:        b.DataVencimento,
		CategoriaID:           b.CategoriaID,
		SubcategoriaID:        b.SubcategoriaID,
		ClienteID:             b.ClienteID,
		ContaID:               b.ContaID,
		CentroCustoID:         b.CentroCustoID,
		Observacao:            b.Observacao,
		Pago:                  b.Pago,
		DataPagamento:         b.DataPagamento,
		Parcelamento:          b.Parcelamento,
		Recorrente:            b.Recorrente,
		RecorrenciaTemplateID: b.RecorrenciaTemplateID,
		AnexoBase64:           b.AnexoBase64,
		AnexoNome:             b.AnexoNome,
	}
}

// CreateLancamentoInput is the Huma input for creating a transaction.
type CreateLancamentoInput struct {
	request.SessionHeaders
	Body LancamentoBody
}

// CreateLancamentoResponseBody reports what was created.
type CreateLancamentoResponseBody struct {
	TransacaoID      int64  `json:"transacaoId,omitempty" doc:"Created transaction id, absent for recurrences"`
	Recorrencia      bool   `json:"recorrencia" doc:"Whether a recurrence or installment plan was created"`
	TotalParcelas    int    `json:"totalParcelas,omitempty" doc:"Installment count"`
	ValorParcela     string `json:"valorParcela,omitempty" doc:"Per-installment amount, formatted"`
	ValorExtraidoPDF bool   `json:"valorExtraidoPdf,omitempty" doc:"Amount was taken from the attached PDF"`
}

// CreateLancamentoOutput is the Huma output for creating a transaction.
type CreateLancamentoOutput struct {
	Status int `json:"-"`
	Body   CreateLancamentoResponseBody
}

// lancamentoCriador is the interface for the creation drawer.
type lancamentoCriador interface {
	Criar(ctx context.Context, sess session.Session, input service.LancamentoInput) (*service.LancamentoResultado, error)
}

// CreateLancamentoHandler handles POST /v1/transacoes.
type CreateLancamentoHandler struct {
	Lancamentos lancamentoCriador
}

// NewCreateLancamentoHandler creates a new CreateLancamentoHandler.
func NewCreateLancamentoHandler(svc lancamentoCriador) *CreateLancamentoHandler {
	return &CreateLancamentoHandler{Lancamentos: svc}
}

// Register registers the creation endpoint with the Huma API.
func (h *CreateLancamentoHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-lancamento",
		Method:        http.MethodPost,
		Path:          "/v1/transacoes",
		Summary:       "Create transaction",
		Description:   "Creates a transaction, an installment plan or a recurring launch.",
		Tags:          []string{"Transacoes"},
		DefaultStatus: http.StatusCreated,
	}, h.handle)
}

func (h *CreateLancamentoHandler) handle(ctx context.Context, input *CreateLancamentoInput) (*CreateLancamentoOutput, error) {
	sess, err := input.Session()
	if err != nil {
		return nil, err
	}

	result, err := h.Lancamentos.Criar(ctx, sess, input.Body.ToInput())
	if err != nil {
		return nil, mapErro(err, "failed to create transaction")
	}

	return &CreateLancamentoOutput{
		Status: http.StatusCreated,
		Body: CreateLancamentoResponseBody{
			TransacaoID:      result.TransacaoID,
			Recorrencia:      result.Recorrencia,
			TotalParcelas:    result.TotalParcelas,
			ValorParcela:     result.ValorParcela,
			ValorExtraidoPDF: result.ValorExtraidoPDF,
		},
	}, nil
}
