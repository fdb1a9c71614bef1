package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestValidator_Resolve_JWT(t *testing.T) {
	t.Parallel()

	v := NewValidator("http://localhost:3000", testSecret)
	ctx := context.Background()

	t.Run("valid token", func(t *testing.T) {
		t.Parallel()

		token := signToken(t, testSecret, jwt.MapClaims{
			"sub":   "user-1",
			"name":  "Alice",
			"email": "alice@example.com",
			"exp":   time.Now().Add(time.Hour).Unix(),
		})

		id, err := v.Resolve(ctx, "Bearer "+token, "")
		require.NoError(t, err)
		require.NotNil(t, id)
		assert.Equal(t, "user-1", id.UserID)
		assert.Equal(t, "Alice", id.Name)
	})

	t.Run("wrong secret is anonymous", func(t *testing.T) {
		t.Parallel()

		token := signToken(t, "other-secret", jwt.MapClaims{"sub": "user-1"})
		id, err := v.Resolve(ctx, "Bearer "+token, "")
		require.NoError(t, err)
		assert.Nil(t, id)
	})

	t.Run("expired token is anonymous", func(t *testing.T) {
		t.Parallel()

		token := signToken(t, testSecret, jwt.MapClaims{
			"sub": "user-1",
			"exp": time.Now().Add(-time.Hour).Unix(),
		})
		id, err := v.Resolve(ctx, "Bearer "+token, "")
		require.NoError(t, err)
		assert.Nil(t, id)
	})

	t.Run("missing sub is anonymous", func(t *testing.T) {
		t.Parallel()

		token := signToken(t, testSecret, jwt.MapClaims{"name": "ghost"})
		id, err := v.Resolve(ctx, "Bearer "+token, "")
		require.NoError(t, err)
		assert.Nil(t, id)
	})

	t.Run("invalid bearer does not fall back to cookie", func(t *testing.T) {
		t.Parallel()

		// The cookie path would hit the network; a nil identity without error
		// proves it was never taken.
		id, err := v.Resolve(ctx, "Bearer garbage", "session=abc")
		require.NoError(t, err)
		assert.Nil(t, id)
	})
}

func TestValidator_Resolve_Cookie(t *testing.T) {
	t.Parallel()

	t.Run("valid session", func(t *testing.T) {
		t.Parallel()

		provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/auth/get-session", r.URL.Path)
			assert.Equal(t, "session=abc", r.Header.Get("Cookie"))
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"user":{"id":"user-7","name":"Bob","email":"bob@example.com","image":""}}`))
		}))
		defer provider.Close()

		v := NewValidator(provider.URL, "")
		id, err := v.Resolve(context.Background(), "", "session=abc")
		require.NoError(t, err)
		require.NotNil(t, id)
		assert.Equal(t, "user-7", id.UserID)
		assert.Equal(t, "Bob", id.Name)
	})

	t.Run("null body is anonymous", func(t *testing.T) {
		t.Parallel()

		provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`null`))
		}))
		defer provider.Close()

		v := NewValidator(provider.URL, "")
		id, err := v.Resolve(context.Background(), "", "session=abc")
		require.NoError(t, err)
		assert.Nil(t, id)
	})

	t.Run("401 is anonymous", func(t *testing.T) {
		t.Parallel()

		provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer provider.Close()

		v := NewValidator(provider.URL, "")
		id, err := v.Resolve(context.Background(), "", "session=abc")
		require.NoError(t, err)
		assert.Nil(t, id)
	})

	t.Run("provider error surfaces", func(t *testing.T) {
		t.Parallel()

		provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer provider.Close()

		v := NewValidator(provider.URL, "")
		_, err := v.Resolve(context.Background(), "", "session=abc")
		assert.Error(t, err)
	})

	t.Run("no credentials is anonymous without network", func(t *testing.T) {
		t.Parallel()

		v := NewValidator("http://127.0.0.1:1", "")
		id, err := v.Resolve(context.Background(), "", "")
		require.NoError(t, err)
		assert.Nil(t, id)
	})
}
