package erp

import (
	"context"
	"fmt"
	"net/http"

	"github.com/contabhub/financeiro-server/internal/session"
)

// ImportarPDFDraft sends a boleto PDF for server-side extraction and returns
// the resulting draft. Extraction is asynchronous; the draft starts in status
// "processando".
func (c *Client) ImportarPDFDraft(ctx context.Context, sess session.Session, titulo, pdfBase64 string) (*Draft, error) {
	body := map[string]interface{}{
		"titulo":     titulo,
		"pdfBase64":  pdfBase64,
		"company_id": sess.CompanyID,
	}
	var draft Draft
	if err := c.do(ctx, sess, http.MethodPost, "/boletos-drafts/importar-pdf", nil, body, &draft); err != nil {
		return nil, err
	}
	return &draft, nil
}

// FinalizarDraft converts a processed draft into a real transaction.
func (c *Client) FinalizarDraft(ctx context.Context, sess session.Session, id int64, payload TransacaoCreate) (*TransacaoCreateResult, error) {
	path := fmt.Sprintf("/drafts/%d/finalizar", id)
	var result TransacaoCreateResult
	if err := c.do(ctx, sess, http.MethodPost, path, nil, payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteDraft discards a draft without creating a transaction.
func (c *Client) DeleteDraft(ctx context.Context, sess session.Session, id int64) error {
	path := fmt.Sprintf("/drafts/%d", id)
	return c.do(ctx, sess, http.MethodDelete, path, nil, nil, nil)
}
