package mw

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dexsentry/internal/security"
)

func setupVerifier(t *testing.T) (*security.RS256Verifier, *security.RS256Signer) {
	t.Helper()

	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	pubBytes, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	require.NoError(t, err)
	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubBytes})

	path := filepath.Join(t.TempDir(), "pub.pem")
	require.NoError(t, os.WriteFile(path, pubPEM, 0o600))

	v, err := security.NewRS256Verifier(path, "", "")
	require.NoError(t, err)

	return v, security.FromPrivateKey(priv, "", "")
}

func TestNewJWT_NilVerifierPanics(t *testing.T) {
	assert.Panics(t, func() { NewJWT(nil) })
}

func TestJWTMiddleware_ValidTokenPassesSubject(t *testing.T) {
	v, signer := setupVerifier(t)
	token, err := signer.Sign("user-42", time.Minute)
	require.NoError(t, err)

	var gotSubject string
	handler := NewJWT(v).Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSubject = SubjectFromRequest(r)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-42", gotSubject)
}

func TestJWTMiddleware_MissingHeaderRejected(t *testing.T) {
	v, _ := setupVerifier(t)

	handler := NewJWT(v).Handler(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Fatalf("handler must not run without a token")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTMiddleware_GarbageTokenRejected(t *testing.T) {
	v, _ := setupVerifier(t)

	handler := NewJWT(v).Handler(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Fatalf("handler must not run with a bad token")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not.a.jwt")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSubjectFromRequest_EmptyWithoutAuth(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, "", SubjectFromRequest(req))
}
