package erp

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/contabhub/financeiro-server/internal/session"
)

// ListFilter mirrors the query parameters the list endpoints accept. Zero
// values are omitted from the request.
type ListFilter struct {
	Status       string
	Vencimento   string
	Subcategoria string
	DataInicio   string
	DataFim      string
}

func (f ListFilter) values() url.Values {
	query := url.Values{}
	if f.Status != "" {
		query.Set("status", f.Status)
	}
	if f.Vencimento != "" {
		query.Set("vencimento", f.Vencimento)
	}
	if f.Subcategoria != "" {
		query.Set("subcategoria", f.Subcategoria)
	}
	if f.DataInicio != "" {
		query.Set("data_inicio", f.DataInicio)
	}
	if f.DataFim != "" {
		query.Set("data_fim", f.DataFim)
	}
	return query
}

// ListTransacoes fetches the company's saidas or entradas. tipo must be
// "saidas" or "entradas"; the caller validates it.
func (c *Client) ListTransacoes(ctx context.Context, sess session.Session, tipo string, filter ListFilter) ([]RawTransacao, error) {
	path := fmt.Sprintf("/financeiro/transacoes/empresa/%d/%s", sess.CompanyID, tipo)
	var rows []RawTransacao
	if err := c.do(ctx, sess, http.MethodGet, path, filter.values(), nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *Client) CreateTransacao(ctx context.Context, sess session.Session, payload TransacaoCreate) (*TransacaoCreateResult, error) {
	var result TransacaoCreateResult
	if err := c.do(ctx, sess, http.MethodPost, "/financeiro/transacoes", nil, payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) UpdateTransacao(ctx context.Context, sess session.Session, id int64, payload TransacaoCreate) error {
	path := fmt.Sprintf("/financeiro/transacoes/%d", id)
	return c.do(ctx, sess, http.MethodPut, path, nil, payload, nil)
}

func (c *Client) PatchTransacao(ctx context.Context, sess session.Session, id int64, patch PatchTransacao) error {
	path := fmt.Sprintf("/financeiro/transacoes/%d", id)
	return c.do(ctx, sess, http.MethodPatch, path, nil, patch, nil)
}

func (c *Client) DeleteTransacao(ctx context.Context, sess session.Session, id int64) error {
	path := fmt.Sprintf("/financeiro/transacoes/%d", id)
	return c.do(ctx, sess, http.MethodDelete, path, nil, nil, nil)
}

func (c *Client) CreateRecorrencia(ctx context.Context, sess session.Session, rec Recorrencia) error {
	return c.do(ctx, sess, http.MethodPost, "/financeiro/recorrencias", nil, rec, nil)
}
