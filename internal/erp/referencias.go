package erp

import (
	"context"
	"fmt"
	"net/http"

	"github.com/contabhub/financeiro-server/internal/session"
)

func (c *Client) ListClientes(ctx context.Context, sess session.Session) ([]Cliente, error) {
	var out []Cliente
	path := fmt.Sprintf("/financeiro/clientes/empresa/%d", sess.CompanyID)
	if err := c.do(ctx, sess, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListCategorias(ctx context.Context, sess session.Session) ([]Categoria, error) {
	var out []Categoria
	path := fmt.Sprintf("/financeiro/categorias/empresa/%d", sess.CompanyID)
	if err := c.do(ctx, sess, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListSubcategorias(ctx context.Context, sess session.Session) ([]Subcategoria, error) {
	var out []Subcategoria
	path := fmt.Sprintf("/financeiro/subcategorias/empresa/%d", sess.CompanyID)
	if err := c.do(ctx, sess, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListCentrosCusto(ctx context.Context, sess session.Session) ([]CentroCusto, error) {
	var out []CentroCusto
	path := fmt.Sprintf("/financeiro/centros-de-custo/empresa/%d", sess.CompanyID)
	if err := c.do(ctx, sess, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListContas(ctx context.Context, sess session.Session) ([]Conta, error) {
	var out []Conta
	path := fmt.Sprintf("/financeiro/contas/empresa/%d", sess.CompanyID)
	if err := c.do(ctx, sess, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
