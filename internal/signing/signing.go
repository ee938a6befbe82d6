// Package signing provides JWT-based integrity signing for exported
// passports, using Ed25519 (EdDSA).
package signing

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/ashita-ai/kioku"
	"github.com/ashita-ai/kioku/internal/util"
)

// claims extends jwt.RegisteredClaims with the passport content hash and
// identity fields carried in kioku.PassportClaims.
type claims struct {
	jwt.RegisteredClaims
	ContentHash string `json:"content_hash"`
	Version     string `json:"version"`
	UserKey     string `json:"user_key"`
}

// Manager signs and verifies passport export tokens using Ed25519. It
// implements kioku.Signer.
type Manager struct {
	privateKey ed25519.PrivateKey
	publicKey  ed25519.PublicKey
	expiration time.Duration
}

// NewManager creates a Manager from PEM key files. If paths are empty,
// generates an ephemeral key pair (not for production use).
func NewManager(privateKeyPath, publicKeyPath string, expiration time.Duration) (*Manager, error) {
	if privateKeyPath == "" || publicKeyPath == "" {
		slog.Warn("signing: no JWT key files configured, generating ephemeral key pair (not for production)")
		pub, priv, err := ed25519.GenerateKey(rand.Reader)
		if err != nil {
			return nil, fmt.Errorf("signing: generate key pair: %w", err)
		}
		return &Manager{privateKey: priv, publicKey: pub, expiration: expiration}, nil
	}

	privPEM, err := os.ReadFile(privateKeyPath) //nolint:gosec // paths come from validated config, not user input
	if err != nil {
		return nil, fmt.Errorf("signing: read private key: %w", err)
	}
	block, _ := pem.Decode(privPEM)
	if block == nil {
		return nil, fmt.Errorf("signing: decode private key PEM")
	}
	privKey, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("signing: parse private key: %w", err)
	}
	edPriv, ok := privKey.(ed25519.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("signing: private key is not Ed25519")
	}

	pubPEM, err := os.ReadFile(publicKeyPath) //nolint:gosec // paths come from validated config, not user input
	if err != nil {
		return nil, fmt.Errorf("signing: read public key: %w", err)
	}
	pubBlock, _ := pem.Decode(pubPEM)
	if pubBlock == nil {
		return nil, fmt.Errorf("signing: decode public key PEM")
	}
	pubKey, err := x509.ParsePKIXPublicKey(pubBlock.Bytes)
	if err != nil {
		return nil, fmt.Errorf("signing: parse public key: %w", err)
	}
	edPub, ok := pubKey.(ed25519.PublicKey)
	if !ok {
		return nil, fmt.Errorf("signing: public key is not Ed25519")
	}

	derivedPub := edPriv.Public().(ed25519.PublicKey)
	if !bytes.Equal(derivedPub, edPub) {
		return nil, fmt.Errorf("signing: public key does not match private key")
	}

	return &Manager{privateKey: edPriv, publicKey: edPub, expiration: expiration}, nil
}

// Sign computes the passport's content hash and issues a signed token
// carrying it, along with version and user_key, as PassportClaims.
func (m *Manager) Sign(ctx context.Context, p *kioku.Passport) (string, error) {
	hash, err := util.SHA256JSON(p)
	if err != nil {
		return "", fmt.Errorf("signing: hash passport: %w", err)
	}

	now := time.Now().UTC()
	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.UserKey,
			Issuer:    "kioku",
			Audience:  jwt.ClaimStrings{"kioku"},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expiration)),
			ID:        uuid.New().String(),
		},
		ContentHash: hash,
		Version:     p.Version,
		UserKey:     p.UserKey,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodEdDSA, c)
	signed, err := token.SignedString(m.privateKey)
	if err != nil {
		return "", fmt.Errorf("signing: sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token, returning its PassportClaims. It
// does not recompute or compare against a live passport — callers that need
// tamper detection should re-hash the passport they hold and compare
// against ContentHash themselves.
func (m *Manager) Verify(ctx context.Context, tokenStr string) (kioku.PassportClaims, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodEd25519); !ok {
				return nil, fmt.Errorf("signing: unexpected signing method: %v", token.Header["alg"])
			}
			return m.publicKey, nil
		},
		jwt.WithAudience("kioku"),
	)
	if err != nil {
		return kioku.PassportClaims{}, fmt.Errorf("signing: validate token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return kioku.PassportClaims{}, fmt.Errorf("signing: invalid token claims")
	}
	if c.Issuer != "kioku" {
		return kioku.PassportClaims{}, fmt.Errorf("signing: invalid issuer: %s", c.Issuer)
	}

	return kioku.PassportClaims{
		ContentHash: c.ContentHash,
		Version:     c.Version,
		UserKey:     c.UserKey,
	}, nil
}
