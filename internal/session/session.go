// Package session carries the caller's credentials through every upstream
// call. They are resolved once per request and passed explicitly rather than
// fished out of ambient state by each handler.
package session

import (
	"errors"
	"strconv"
	"strings"
)

var ErrMissingCredentials = errors.New("session: missing bearer token or company id")

type Session struct {
	Token     string
	CompanyID int64
	UserID    int64
}

// FromHeaders builds a Session from the Authorization, X-Company-ID and
// X-User-ID header values. UserID is optional; it is only required by the
// reconciliation revoke flow.
func FromHeaders(authorization, companyID, userID string) (Session, error) {
	token := strings.TrimSpace(strings.TrimPrefix(authorization, "Bearer "))
	if token == "" || companyID == "" {
		return Session{}, ErrMissingCredentials
	}

	company, err := strconv.ParseInt(companyID, 10, 64)
	if err != nil {
		return Session{}, errors.New("session: company id must be numeric")
	}

	s := Session{Token: token, CompanyID: company}
	if userID != "" {
		user, err := strconv.ParseInt(userID, 10, 64)
		if err != nil {
			return Session{}, errors.New("session: user id must be numeric")
		}
		s.UserID = user
	}

	return s, nil
}
