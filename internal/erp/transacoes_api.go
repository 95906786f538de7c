package erp

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/contabhub/financeiro-server/internal/session"
)

// FeedPage is one page of a linked account's third-party transaction feed.
type FeedPage struct {
	Transacoes   []TransacaoAPI `json:"transacoes"`
	TotalPaginas int            `json:"total_paginas"`
}

// ListContasAPI returns the company's linked open-finance accounts.
func (c *Client) ListContasAPI(ctx context.Context, sess session.Session) ([]ContaAPI, error) {
	path := fmt.Sprintf("/financeiro/contas-api/empresa/%d", sess.CompanyID)
	var contas []ContaAPI
	if err := c.do(ctx, sess, http.MethodGet, path, nil, nil, &contas); err != nil {
		return nil, err
	}
	return contas, nil
}

// ListFeed fetches one page of an account's transaction feed. Pages start at 1.
func (c *Client) ListFeed(ctx context.Context, sess session.Session, accountID string, page int) (*FeedPage, error) {
	path := "/financeiro/transacoes-api/conta/" + url.PathEscape(accountID)
	query := url.Values{"pagina": []string{strconv.Itoa(page)}}
	var feed FeedPage
	if err := c.do(ctx, sess, http.MethodGet, path, query, nil, &feed); err != nil {
		return nil, err
	}
	return &feed, nil
}

// DeleteTransacaoAPI removes an open-finance-origin transaction. Pluggy rows
// live in their own endpoint family, not under /transacoes.
func (c *Client) DeleteTransacaoAPI(ctx context.Context, sess session.Session, id int64) error {
	path := fmt.Sprintf("/financeiro/transacoes-api/%d", id)
	return c.do(ctx, sess, http.MethodDelete, path, nil, nil, nil)
}

// SyncContaAPI asks the upstream to pull fresh feed data for one account.
func (c *Client) SyncContaAPI(ctx context.Context, sess session.Session, accountID string, clienteID int64) error {
	body := map[string]interface{}{
		"accountId":  accountID,
		"company_id": sess.CompanyID,
		"cliente_id": clienteID,
	}
	return c.do(ctx, sess, http.MethodPost, "/financeiro/transacoes-api/sync", nil, body, nil)
}

// RevogarConciliacao undoes the link between a local transaction and its bank
// feed counterpart.
func (c *Client) RevogarConciliacao(ctx context.Context, sess session.Session, rev Revogacao) error {
	return c.do(ctx, sess, http.MethodPost, "/financeiro/conciliacoes/revogar", nil, rev, nil)
}
