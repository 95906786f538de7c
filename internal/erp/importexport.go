package erp

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"github.com/contabhub/financeiro-server/internal/session"
)

// ImportOFX posts a base64-encoded OFX statement. tipo is "saidas" or "entradas".
func (c *Client) ImportOFX(ctx context.Context, sess session.Session, arquivoBase64, tipo string) error {
	body := map[string]interface{}{
		"arquivoBase64": arquivoBase64,
		"company_id":    sess.CompanyID,
		"tipo":          tipo,
	}
	return c.do(ctx, sess, http.MethodPost, "/ofx-import", nil, body, nil)
}

// ImportPlanilha uploads a spreadsheet as multipart form data. With save=false
// the upstream only validates; save=true performs the real import. destino is
// "contas-a-pagar" or "contas-a-receber".
func (c *Client) ImportPlanilha(ctx context.Context, sess session.Session, destino, filename string, file []byte, save bool) (*ImportResult, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("arquivo", filename)
	if err != nil {
		return nil, fmt.Errorf("erp: build multipart: %w", err)
	}
	if _, err := part.Write(file); err != nil {
		return nil, fmt.Errorf("erp: build multipart: %w", err)
	}
	if save {
		if err := writer.WriteField("save", "true"); err != nil {
			return nil, fmt.Errorf("erp: build multipart: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("erp: build multipart: %w", err)
	}

	path := fmt.Sprintf("/import/%s/%d", destino, sess.CompanyID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return nil, fmt.Errorf("erp: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+sess.Token)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("erp: POST %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var result ImportResult
	if err := decodeJSON(resp.Body, &result); err != nil {
		return nil, fmt.Errorf("erp: decode import result: %w", err)
	}
	return &result, nil
}

// Export downloads the export blob for the given tipo ("saidas" or
// "entradas"). The filename comes from Content-Disposition; when the header is
// absent or unparseable a default name is used. The two export paths differ
// upstream and are kept as-is.
func (c *Client) Export(ctx context.Context, sess session.Session, tipo string, mes, ano int) (string, []byte, error) {
	var path string
	if tipo == "saidas" {
		path = fmt.Sprintf("/financeiro/exportar/saidas/%d", sess.CompanyID)
	} else {
		path = fmt.Sprintf("/financeiro/export/entradas/%d", sess.CompanyID)
	}

	query := url.Values{}
	if mes > 0 {
		query.Set("mes", strconv.Itoa(mes))
	}
	if ano > 0 {
		query.Set("ano", strconv.Itoa(ano))
	}

	data, headers, err := c.doRaw(ctx, sess, http.MethodGet, path, query)
	if err != nil {
		return "", nil, err
	}

	filename := "transacoes-" + tipo + ".xlsx"
	if disposition := headers.Get("Content-Disposition"); disposition != "" {
		if _, params, err := mime.ParseMediaType(disposition); err == nil {
			if name, ok := params["filename"]; ok && name != "" {
				filename = name
			}
		}
	}

	return filename, data, nil
}
