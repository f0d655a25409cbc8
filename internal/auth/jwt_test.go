package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newManager(t *testing.T) *JWTManager {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatal(err)
	}
	return NewJWTManagerFromKey(key, "zonewatch-test")
}

func TestTokenPairRoundTrip(t *testing.T) {
	m := newManager(t)

	pair, err := m.GenerateTokenPair("officer-1", time.Minute, time.Hour, 3, "local")
	if err != nil {
		t.Fatalf("GenerateTokenPair: %v", err)
	}
	if !pair.RefreshExp.After(pair.AccessExp) {
		t.Errorf("refresh expiry %v not after access expiry %v", pair.RefreshExp, pair.AccessExp)
	}

	claims, err := m.VerifyToken(pair.AccessToken, AccessToken)
	if err != nil {
		t.Fatalf("VerifyToken(access): %v", err)
	}
	if claims.Subject != "officer-1" || claims.TokenVersion != 3 || claims.AuthMethod != "local" || claims.JTI != pair.JTI {
		t.Errorf("claims = %+v", claims)
	}

	if _, err := m.VerifyToken(pair.RefreshToken, RefreshToken); err != nil {
		t.Fatalf("VerifyToken(refresh): %v", err)
	}
}

func TestVerifyTokenRejectsWrongKind(t *testing.T) {
	m := newManager(t)
	pair, err := m.GenerateTokenPair("officer-1", time.Minute, time.Hour, 0, "local")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.VerifyToken(pair.RefreshToken, AccessToken); !errors.Is(err, ErrWrongTokenKind) {
		t.Fatalf("err = %v, want ErrWrongTokenKind", err)
	}
}

func TestVerifyTokenRejectsForeignKeyAndExpiry(t *testing.T) {
	m := newManager(t)
	other := newManager(t)

	pair, err := other.GenerateTokenPair("officer-1", time.Minute, time.Hour, 0, "local")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.VerifyToken(pair.AccessToken, AccessToken); err == nil {
		t.Error("token signed by another key was accepted")
	}

	expired, err := m.GenerateTokenPair("officer-1", -time.Minute, -time.Minute, 0, "local")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.VerifyToken(expired.AccessToken, AccessToken); err == nil {
		t.Error("expired token was accepted")
	}

	if _, err := m.VerifyToken("not-a-token", AccessToken); err == nil {
		t.Error("garbage was accepted")
	}
}

func TestLoadOrGenerate(t *testing.T) {
	dir := t.TempDir()
	priv := filepath.Join(dir, "jwt_private.pem")
	pub := filepath.Join(dir, "jwt_public.pem")

	m, ephemeral, err := LoadOrGenerate(priv, pub, "zonewatch")
	if err != nil || m == nil {
		t.Fatalf("LoadOrGenerate without files: %v", err)
	}
	if !ephemeral {
		t.Error("expected an ephemeral key when files are missing")
	}

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatal(err)
	}
	privPEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})
	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		t.Fatal(err)
	}
	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})
	if err := os.WriteFile(priv, privPEM, 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(pub, pubPEM, 0o600); err != nil {
		t.Fatal(err)
	}

	m, ephemeral, err = LoadOrGenerate(priv, pub, "zonewatch")
	if err != nil {
		t.Fatalf("LoadOrGenerate with files: %v", err)
	}
	if ephemeral {
		t.Error("key loaded from disk reported as ephemeral")
	}
	pair, err := m.GenerateTokenPair("officer-2", time.Minute, time.Hour, 0, "local")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewJWTManagerFromKey(key, "zonewatch").VerifyToken(pair.AccessToken, AccessToken); err != nil {
		t.Errorf("token from loaded key does not verify: %v", err)
	}
}
