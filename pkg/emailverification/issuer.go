package emailverification

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"
)

const (
	tokenBytes        = 32
	defaultVerifyPath = "/verify"
)

// IssuedToken is a freshly generated token and the link that carries it
type IssuedToken struct {
	Email string
	Token string
	Link  string
}

// Issuer generates verification tokens and links. It has no side effects.
type Issuer struct {
	baseURL    *url.URL
	verifyPath string
}

// IssuerOption configures an Issuer
type IssuerOption func(*Issuer)

// WithVerifyPath sets the path the link points at, "/verify" by default
func WithVerifyPath(path string) IssuerOption {
	return func(i *Issuer) {
		i.verifyPath = path
	}
}

// NewIssuer creates an issuer building links on baseURL
func NewIssuer(baseURL string, opts ...IssuerOption) (*Issuer, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base url %q: scheme and host required", baseURL)
	}

	issuer := &Issuer{
		baseURL:    u,
		verifyPath: defaultVerifyPath,
	}
	for _, opt := range opts {
		opt(issuer)
	}

	return issuer, nil
}

// Issue generates a new token for email and the verification link embedding it
func (i *Issuer) Issue(email string) (*IssuedToken, error) {
	token, err := generateToken()
	if err != nil {
		return nil, err
	}

	return &IssuedToken{
		Email: email,
		Token: token,
		Link:  i.link(token),
	}, nil
}

func (i *Issuer) link(token string) string {
	u := *i.baseURL
	u.Path = strings.TrimSuffix(u.Path, "/") + "/" + strings.TrimPrefix(i.verifyPath, "/")
	u.RawPath = ""
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	u.Fragment = ""
	return u.String()
}

// generateToken generates a cryptographically secure random token
func generateToken() (string, error) {
	b := make([]byte, tokenBytes)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
