package security

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test keys generated once for all tests
var (
	testPrivateKey    *rsa.PrivateKey
	testPublicKeyPath string
	otherPrivateKey   *rsa.PrivateKey
)

func TestMain(m *testing.M) {
	var err error
	testPrivateKey, err = rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		panic(fmt.Sprintf("Failed to generate test private key: %v", err))
	}

	otherPrivateKey, err = rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		panic(fmt.Sprintf("Failed to generate other private key: %v", err))
	}

	testPublicKeyPath = createTempPublicKey(&testPrivateKey.PublicKey)

	code := m.Run()

	os.Remove(testPublicKeyPath)
	os.Exit(code)
}

func createTempPublicKey(pubKey *rsa.PublicKey) string {
	pubKeyBytes, err := x509.MarshalPKIXPublicKey(pubKey)
	if err != nil {
		panic(fmt.Sprintf("Failed to marshal public key: %v", err))
	}

	pubKeyPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "PUBLIC KEY",
		Bytes: pubKeyBytes,
	})

	tmpFile, err := os.CreateTemp("", "test_pub_key_*.pem")
	if err != nil {
		panic(fmt.Sprintf("Failed to create temp file: %v", err))
	}
	defer tmpFile.Close()

	if _, err := tmpFile.Write(pubKeyPEM); err != nil {
		panic(fmt.Sprintf("Failed to write to temp file: %v", err))
	}

	return tmpFile.Name()
}

func TestNewRS256Verifier(t *testing.T) {
	v, err := NewRS256Verifier(testPublicKeyPath, "aud", "iss")
	require.NoError(t, err)
	require.NotNil(t, v)

	_, err = NewRS256Verifier("/nonexistent/file.pem", "", "")
	assert.ErrorContains(t, err, "failed to read public key")

	bad, err := os.CreateTemp(t.TempDir(), "bad_*.pem")
	require.NoError(t, err)
	_, err = bad.WriteString("not a pem")
	require.NoError(t, err)
	bad.Close()

	_, err = NewRS256Verifier(bad.Name(), "", "")
	assert.ErrorContains(t, err, "failed to parse public key")
}

func TestVerifyBearer_ValidToken(t *testing.T) {
	v, err := NewRS256Verifier(testPublicKeyPath, "dexsentry-api", "dexsentry-auth")
	require.NoError(t, err)

	signer := FromPrivateKey(testPrivateKey, "dexsentry-auth", "dexsentry-api")
	token, err := signer.Sign("user-1", time.Minute)
	require.NoError(t, err)

	claims, err := v.VerifyBearer("Bearer " + token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "dexsentry-auth", claims.Issuer)
}

func TestVerifyBearer_BadHeader(t *testing.T) {
	v, err := NewRS256Verifier(testPublicKeyPath, "", "")
	require.NoError(t, err)

	for _, h := range []string{"", "Bearer", "Bearer ", "Basic abc", "token-without-scheme"} {
		_, err := v.VerifyBearer(h)
		assert.ErrorIs(t, err, ErrNoBearerToken, "header %q", h)
	}
}

func TestVerifyBearer_WrongKey(t *testing.T) {
	v, err := NewRS256Verifier(testPublicKeyPath, "", "")
	require.NoError(t, err)

	signer := FromPrivateKey(otherPrivateKey, "", "")
	token, err := signer.Sign("user-1", time.Minute)
	require.NoError(t, err)

	_, err = v.VerifyBearer("Bearer " + token)
	assert.Error(t, err)
}

func TestVerifyBearer_Expired(t *testing.T) {
	v, err := NewRS256Verifier(testPublicKeyPath, "", "")
	require.NoError(t, err)

	// expired past the minute of leeway
	signer := FromPrivateKey(testPrivateKey, "", "")
	token, err := signer.Sign("user-1", -2*time.Minute)
	require.NoError(t, err)

	_, err = v.VerifyBearer("Bearer " + token)
	assert.Error(t, err)
}

func TestVerifyBearer_AudienceIssuerMismatch(t *testing.T) {
	v, err := NewRS256Verifier(testPublicKeyPath, "expected-aud", "expected-iss")
	require.NoError(t, err)

	signer := FromPrivateKey(testPrivateKey, "other-iss", "other-aud")
	token, err := signer.Sign("user-1", time.Minute)
	require.NoError(t, err)

	_, err = v.VerifyBearer("Bearer " + token)
	assert.Error(t, err)
}

func TestVerifyBearer_RejectsHS256(t *testing.T) {
	v, err := NewRS256Verifier(testPublicKeyPath, "", "")
	require.NoError(t, err)

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "user-1",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
	})
	signed, err := token.SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = v.VerifyBearer("Bearer " + signed)
	assert.Error(t, err)
}

func TestSigner_LoadsPKCS1AndPKCS8(t *testing.T) {
	dir := t.TempDir()

	pkcs1 := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(testPrivateKey),
	})
	pkcs1Path := dir + "/pkcs1.pem"
	require.NoError(t, os.WriteFile(pkcs1Path, pkcs1, 0o600))

	pkcs8Bytes, err := x509.MarshalPKCS8PrivateKey(testPrivateKey)
	require.NoError(t, err)
	pkcs8 := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: pkcs8Bytes})
	pkcs8Path := dir + "/pkcs8.pem"
	require.NoError(t, os.WriteFile(pkcs8Path, pkcs8, 0o600))

	for _, path := range []string{pkcs1Path, pkcs8Path} {
		s, err := NewRS256Signer(path, "iss", "aud")
		require.NoError(t, err, path)
		token, err := s.Sign("user-1", time.Minute)
		require.NoError(t, err)
		require.NotEmpty(t, token)
	}

	_, err = NewRS256Signer("", "", "")
	assert.Error(t, err)
}
