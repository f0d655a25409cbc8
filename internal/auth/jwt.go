package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type TokenKind string

const (
	AccessToken  TokenKind = "access"
	RefreshToken TokenKind = "refresh"
)

var ErrWrongTokenKind = errors.New("wrong token kind")

type JWTManager struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	issuer     string
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
	JTI          string
}

// Claims is the subset of token claims the service relies on.
type Claims struct {
	Subject      string
	Kind         TokenKind
	TokenVersion int
	AuthMethod   string
	JTI          string
}

func NewJWTManager(privatePath, publicPath, issuer string) (*JWTManager, error) {
	privPem, err := os.ReadFile(privatePath)
	if err != nil {
		return nil, fmt.Errorf("read private key: %w", err)
	}
	privKey, err := jwt.ParseRSAPrivateKeyFromPEM(privPem)
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}

	pubPem, err := os.ReadFile(publicPath)
	if err != nil {
		return nil, fmt.Errorf("read public key: %w", err)
	}
	pubKey, err := jwt.ParseRSAPublicKeyFromPEM(pubPem)
	if err != nil {
		return nil, fmt.Errorf("parse public key: %w", err)
	}

	return &JWTManager{
		privateKey: privKey,
		publicKey:  pubKey,
		issuer:     issuer,
	}, nil
}

// NewJWTManagerFromKey builds a manager around an in-memory key pair.
func NewJWTManagerFromKey(key *rsa.PrivateKey, issuer string) *JWTManager {
	return &JWTManager{privateKey: key, publicKey: &key.PublicKey, issuer: issuer}
}

// LoadOrGenerate reads the PEM key pair, or generates a throwaway 2048 bit
// key when the private key file does not exist. The returned bool reports
// whether the key is ephemeral; tokens signed with it die with the process.
func LoadOrGenerate(privatePath, publicPath, issuer string) (*JWTManager, bool, error) {
	if _, err := os.Stat(privatePath); errors.Is(err, os.ErrNotExist) {
		key, err := rsa.GenerateKey(rand.Reader, 2048)
		if err != nil {
			return nil, false, fmt.Errorf("generate rsa key: %w", err)
		}
		return NewJWTManagerFromKey(key, issuer), true, nil
	}
	m, err := NewJWTManager(privatePath, publicPath, issuer)
	return m, false, err
}

// createJWT makes a signed JWT for given claims
func (m *JWTManager) createJWT(officerID string, kind TokenKind, ttl time.Duration, tokenVersion int, jti string, authMethod string) (string, time.Time, error) {
	now := time.Now().UTC()
	exp := now.Add(ttl)

	claims := jwt.MapClaims{
		"iss":         m.issuer,
		"sub":         officerID,
		"iat":         now.Unix(),
		"exp":         exp.Unix(),
		"jti":         jti,
		"typ":         string(kind),
		"ver":         tokenVersion,
		"auth_method": authMethod,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	tokenStr, err := token.SignedString(m.privateKey)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenStr, exp, nil
}

// GenerateTokenPair – create access + refresh tokens
func (m *JWTManager) GenerateTokenPair(officerID string, accessTTL, refreshTTL time.Duration, tokenVersion int, authMethod string) (*TokenPair, error) {
	jti := uuid.New().String()
	accessToken, accessExp, err := m.createJWT(officerID, AccessToken, accessTTL, tokenVersion, jti, authMethod)
	if err != nil {
		return nil, err
	}

	refreshToken, refreshExp, err := m.createJWT(officerID, RefreshToken, refreshTTL, tokenVersion, uuid.New().String(), authMethod)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
		JTI:          jti,
	}, nil
}

// VerifyToken checks the RS256 signature, expiry and issuer, then requires the
// token to be of the given kind.
func (m *JWTManager) VerifyToken(tokenStr string, kind TokenKind) (*Claims, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodRS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.publicKey, nil
	}, jwt.WithLeeway(5*time.Second), jwt.WithIssuer(m.issuer))
	if err != nil {
		return nil, err
	}

	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims := &Claims{}
	claims.Subject, _ = mc["sub"].(string)
	typ, _ := mc["typ"].(string)
	claims.Kind = TokenKind(typ)
	ver, _ := mc["ver"].(float64)
	claims.TokenVersion = int(ver)
	claims.AuthMethod, _ = mc["auth_method"].(string)
	claims.JTI, _ = mc["jti"].(string)

	if claims.Kind != kind {
		return nil, fmt.Errorf("%w: got %q, want %q", ErrWrongTokenKind, claims.Kind, kind)
	}
	if claims.Subject == "" {
		return nil, errors.New("invalid token sub")
	}
	return claims, nil
}
