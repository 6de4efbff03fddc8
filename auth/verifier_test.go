package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newProviderStub fakes the identity provider's user and admin endpoints.
func newProviderStub(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /auth/v1/user", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer good-token" {
			http.Error(w, `{"error":"invalid token"}`, http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id":            "user-1",
			"email":         "alice@example.com",
			"user_metadata": map[string]string{"name": "Alice"},
		})
	})
	mux.HandleFunc("POST /auth/v1/admin/users", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Email        string            `json:"email"`
			UserMetadata map[string]string `json:"user_metadata"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Email == "taken@example.com" {
			http.Error(w, `{"error":"email exists"}`, http.StatusUnprocessableEntity)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id":            "user-new",
			"email":         body.Email,
			"user_metadata": body.UserMetadata,
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestVerifier(srv *httptest.Server) *HTTPVerifier {
	return &HTTPVerifier{
		baseURL:    srv.URL,
		serviceKey: "service-key",
		client:     srv.Client(),
	}
}

func TestHTTPVerifier_VerifyToken(t *testing.T) {
	srv := newProviderStub(t)
	verifier := newTestVerifier(srv)

	identity, err := verifier.VerifyToken(context.Background(), "good-token")
	require.NoError(t, err)
	assert.Equal(t, "user-1", identity.ID)
	assert.Equal(t, "alice@example.com", identity.Email)
	assert.Equal(t, "Alice", identity.Name)
}

func TestHTTPVerifier_VerifyToken_Invalid(t *testing.T) {
	srv := newProviderStub(t)
	verifier := newTestVerifier(srv)

	_, err := verifier.VerifyToken(context.Background(), "bad-token")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = verifier.VerifyToken(context.Background(), "")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestHTTPVerifier_Signup(t *testing.T) {
	srv := newProviderStub(t)
	verifier := newTestVerifier(srv)

	identity, err := verifier.Signup(context.Background(), "carol@example.com", "hunter2", "Carol")
	require.NoError(t, err)
	assert.Equal(t, "user-new", identity.ID)
	assert.Equal(t, "carol@example.com", identity.Email)
	assert.Equal(t, "Carol", identity.Name)
}

func TestHTTPVerifier_Signup_Rejected(t *testing.T) {
	srv := newProviderStub(t)
	verifier := newTestVerifier(srv)

	_, err := verifier.Signup(context.Background(), "taken@example.com", "hunter2", "X")
	assert.ErrorIs(t, err, ErrSignupFailed)
}

func TestIdentity_DisplayName(t *testing.T) {
	assert.Equal(t, "Alice", (&Identity{Name: "Alice"}).DisplayName())
	assert.Equal(t, "Unknown User", (&Identity{}).DisplayName())
}

func TestStaticVerifier(t *testing.T) {
	verifier := NewStaticVerifier(map[string]Identity{
		"tok": {ID: "u1", Name: "U"},
	})

	identity, err := verifier.VerifyToken(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, "u1", identity.ID)

	_, err = verifier.VerifyToken(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrUnauthorized)

	created, err := verifier.Signup(context.Background(), "new@example.com", "pw", "New")
	require.NoError(t, err)

	again, err := verifier.VerifyToken(context.Background(), "new@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, again.ID)
}
