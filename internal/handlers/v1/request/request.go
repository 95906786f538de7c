// Package request holds the input plumbing shared by every v1 handler:
// session header parsing and upstream error translation.
package request

import (
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/contabhub/financeiro-server/internal/erp"
	"github.com/contabhub/financeiro-server/internal/session"
)

// SessionHeaders is embedded in every authenticated huma input.
type SessionHeaders struct {
	Authorization string `header:"Authorization" required:"true" doc:"Bearer token"`
	CompanyID     string `header:"X-Company-ID" required:"true" doc:"Acting company id"`
	UserID        string `header:"X-User-ID" doc:"Acting user id"`
}

// Session parses the headers into a session, mapping missing credentials to a
// 401.
func (h SessionHeaders) Session() (session.Session, error) {
	sess, err := session.FromHeaders(h.Authorization, h.CompanyID, h.UserID)
	if err != nil {
		return session.Session{}, huma.NewError(http.StatusUnauthorized, "invalid credentials", err)
	}
	return sess, nil
}

// MapUpstreamError turns gateway failures into API errors. Auth and not-found
// statuses pass through unchanged, upstream 5xx becomes a 502, anything else
// is a plain 500.
func MapUpstreamError(err error, msg string) error {
	var statusErr *erp.StatusError
	if errors.As(err, &statusErr) {
		switch {
		case statusErr.StatusCode == http.StatusUnauthorized,
			statusErr.StatusCode == http.StatusForbidden,
			statusErr.StatusCode == http.StatusNotFound:
			return huma.NewError(statusErr.StatusCode, msg, err)
		case statusErr.StatusCode >= http.StatusInternalServerError:
			return huma.NewError(http.StatusBadGateway, msg, err)
		}
	}
	return huma.NewError(http.StatusInternalServerError, msg, err)
}
