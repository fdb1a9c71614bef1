// Package session resolves request identities against the external auth provider.
package session

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/titouancv/mapinned/internal/observability"

	"github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v5"
)

// Identity is the authenticated user attached to a request. It is resolved
// per call and never cached across requests.
type Identity struct {
	UserID string
	Name   string
	Email  string
	Image  string
}

// Resolver resolves zero-or-one identity from raw request credentials.
type Resolver interface {
	// Resolve returns (nil, nil) when the request carries no valid session.
	Resolve(ctx context.Context, authorization, cookie string) (*Identity, error)
}

// Validator delegates session validation to the external auth provider. Two
// paths are supported: a locally verified JWT issued by the provider (shared
// HMAC secret), and a session cookie forwarded to the provider's get-session
// endpoint.
type Validator struct {
	baseURL   string
	jwtSecret string
	client    *http.Client
}

// NewValidator creates a Validator for the given provider base URL. jwtSecret
// may be empty, in which case only the cookie path is used.
func NewValidator(baseURL, jwtSecret string) *Validator {
	return &Validator{
		baseURL:   strings.TrimRight(baseURL, "/"),
		jwtSecret: jwtSecret,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

// sessionResponse mirrors the provider's get-session payload.
type sessionResponse struct {
	User struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
		Image string `json:"image"`
	} `json:"user"`
}

// Resolve implements Resolver.
func (v *Validator) Resolve(ctx context.Context, authorization, cookie string) (*Identity, error) {
	if token := bearerToken(authorization); token != "" && v.jwtSecret != "" {
		if id := v.resolveJWT(token); id != nil {
			return id, nil
		}
		// An invalid bearer token does not fall through to the cookie path:
		// the caller explicitly chose token auth and it failed.
		return nil, nil
	}

	if cookie == "" {
		return nil, nil
	}
	return v.resolveCookie(ctx, cookie)
}

// resolveJWT validates a provider-signed HS256 token locally.
func (v *Validator) resolveJWT(tokenString string) *Identity {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(v.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return nil
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return nil
	}

	id := &Identity{UserID: sub}
	if name, ok := claims["name"].(string); ok {
		id.Name = name
	}
	if email, ok := claims["email"].(string); ok {
		id.Email = email
	}
	if image, ok := claims["image"].(string); ok {
		id.Image = image
	}
	return id
}

// resolveCookie forwards the session cookie to the provider's get-session endpoint.
func (v *Validator) resolveCookie(ctx context.Context, cookie string) (*Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.baseURL+"/api/auth/get-session", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create session request: %w", err)
	}
	req.Header.Set("Cookie", cookie)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := v.client.Do(req)
	observability.ObserveExternalRequest("auth_provider", start)
	if err != nil {
		return nil, fmt.Errorf("session validation failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("auth provider returned status %d", resp.StatusCode)
	}

	// The provider answers 200 with a null body for anonymous requests.
	var parsed sessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, nil
	}
	if parsed.User.ID == "" {
		return nil, nil
	}

	return &Identity{
		UserID: parsed.User.ID,
		Name:   parsed.User.Name,
		Email:  parsed.User.Email,
		Image:  parsed.User.Image,
	}, nil
}

func bearerToken(authorization string) string {
	parts := strings.Split(authorization, " ")
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}
