package saluran

import (
	"context"
	"strings"
	"sync"
)

// AuthMiddleware injects an Authorization-style header on outgoing requests
// unless one is already present. The token can be rotated or cleared at any
// time; in-flight calls pick up the value current at ProcessRequest time.
type AuthMiddleware struct {
	NopMiddleware

	mu     sync.RWMutex
	header string
	scheme string
	token  string
}

// NewAuthMiddleware creates an auth unit setting "Authorization: Bearer <token>".
func NewAuthMiddleware(token string) *AuthMiddleware {
	return &AuthMiddleware{
		header: "Authorization",
		scheme: "Bearer",
		token:  token,
	}
}

// NewHeaderAuthMiddleware creates an auth unit with a custom header name and
// no scheme prefix, e.g. X-Api-Key.
func NewHeaderAuthMiddleware(header, token string) *AuthMiddleware {
	return &AuthMiddleware{header: header, token: token}
}

// SetToken rotates the live token.
func (m *AuthMiddleware) SetToken(token string) {
	m.mu.Lock()
	m.token = token
	m.mu.Unlock()
}

// ClearToken removes the token; subsequent requests go out unauthenticated.
func (m *AuthMiddleware) ClearToken() {
	m.SetToken("")
}

// ProcessRequest implements Middleware.
func (m *AuthMiddleware) ProcessRequest(ctx context.Context, rc *RequestContext) error {
	m.mu.RLock()
	token := m.token
	m.mu.RUnlock()

	if token == "" {
		return nil
	}
	for name := range rc.Headers {
		if strings.EqualFold(name, m.header) {
			return nil
		}
	}
	if rc.Headers == nil {
		rc.Headers = make(map[string]string)
	}
	value := token
	if m.scheme != "" {
		value = m.scheme + " " + token
	}
	rc.Headers[m.header] = value
	return nil
}
