package auth

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/CrestNiraj12/roadmud/domain"
)

// TokenProvider supplies an access token for API authentication. An empty
// token means the viewer is anonymous.
type TokenProvider interface {
	AccessToken() (string, error)
}

// Anonymous is a TokenProvider for viewers without an account.
type Anonymous struct{}

// AccessToken always returns an empty token.
func (Anonymous) AccessToken() (string, error) { return "", nil }

// FileTokenProvider reads a bearer token from a file on disk.
type FileTokenProvider struct {
	path string
	now  func() time.Time
}

// NewFileTokenProvider creates a TokenProvider that reads from the given file path.
func NewFileTokenProvider(path string) *FileTokenProvider {
	return &FileTokenProvider{path: path, now: time.Now}
}

// AccessToken reads and returns the token, trimming whitespace. Tokens that
// are JWTs with an expiry in the past are rejected before any request goes
// out.
func (f *FileTokenProvider) AccessToken() (string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return "", fmt.Errorf("reading token from %s: %w", f.path, err)
	}

	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", fmt.Errorf("token file %s is empty", f.path)
	}
	if err := checkExpiry(token, f.now()); err != nil {
		return "", err
	}

	return token, nil
}

// Resolve picks the provider for path: the file when it exists, otherwise
// Anonymous.
func Resolve(path string) TokenProvider {
	if path == "" {
		return Anonymous{}
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return Anonymous{}
	}
	return NewFileTokenProvider(path)
}

// checkExpiry only inspects the exp claim. The signature is the backend's
// business; opaque tokens pass through untouched.
func checkExpiry(token string, now time.Time) error {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil
	}
	if !exp.After(now) {
		return fmt.Errorf("token expired at %s: %w", exp.Format(time.RFC3339), domain.ErrUnauthorized)
	}
	return nil
}
