// Package security holds the HTTP hardening pieces: response headers and
// RSA signatures over JSON response bodies.
package security

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const (
	HeaderSignature          = "X-Signature"
	HeaderSignatureAlgorithm = "X-Signature-Algorithm"
	SignatureAlgorithm       = "RSA-SHA256"
)

type Signer struct {
	key       *rsa.PrivateKey
	publicPEM []byte
}

func NewSigner(key *rsa.PrivateKey) (*Signer, error) {
	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("marshal public key: %w", err)
	}
	return &Signer{
		key:       key,
		publicPEM: pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}),
	}, nil
}

// LoadOrGenerate reads a PEM private key from path. With an empty path a
// fresh key is generated and kept in memory only; with a path that does not
// exist yet the generated key is written there (mode 0600).
func LoadOrGenerate(path string, bits int) (*Signer, bool, error) {
	if path != "" {
		raw, err := os.ReadFile(path)
		if err == nil {
			key, err := ParsePrivateKeyPEM(raw)
			if err != nil {
				return nil, false, fmt.Errorf("%s: %w", path, err)
			}
			s, err := NewSigner(key)
			return s, false, err
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, false, err
		}
	}

	key, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return nil, false, fmt.Errorf("generate rsa key: %w", err)
	}

	if path != "" {
		der, err := x509.MarshalPKCS8PrivateKey(key)
		if err != nil {
			return nil, false, err
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, false, err
		}
		block := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})
		if err := os.WriteFile(path, block, 0o600); err != nil {
			return nil, false, fmt.Errorf("write rsa key: %w", err)
		}
	}

	s, err := NewSigner(key)
	return s, true, err
}

// ParsePrivateKeyPEM accepts PKCS#8 ("PRIVATE KEY") and PKCS#1
// ("RSA PRIVATE KEY") blocks.
func ParsePrivateKeyPEM(raw []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(raw)
	if block == nil {
		return nil, errors.New("no PEM block found")
	}

	switch block.Type {
	case "RSA PRIVATE KEY":
		return x509.ParsePKCS1PrivateKey(block.Bytes)
	case "PRIVATE KEY":
		key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, err
		}
		rsaKey, ok := key.(*rsa.PrivateKey)
		if !ok {
			return nil, fmt.Errorf("PKCS#8 key is %T, not RSA", key)
		}
		return rsaKey, nil
	default:
		return nil, fmt.Errorf("unsupported PEM block %q", block.Type)
	}
}

func ParsePublicKeyPEM(raw []byte) (*rsa.PublicKey, error) {
	block, _ := pem.Decode(raw)
	if block == nil {
		return nil, errors.New("no PEM block found")
	}
	key, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, err
	}
	rsaKey, ok := key.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("public key is %T, not RSA", key)
	}
	return rsaKey, nil
}

func (s *Signer) PublicKeyPEM() []byte { return s.publicPEM }

func (s *Signer) PublicKey() *rsa.PublicKey { return &s.key.PublicKey }

// Sign returns the base64 PKCS#1 v1.5 signature of SHA-256(data).
func (s *Signer) Sign(data []byte) (string, error) {
	digest := sha256.Sum256(data)
	sig, err := rsa.SignPKCS1v15(rand.Reader, s.key, crypto.SHA256, digest[:])
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(sig), nil
}

// Verify checks a signature produced by Sign.
func Verify(pub *rsa.PublicKey, data []byte, signature string) error {
	sig, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return fmt.Errorf("decode signature: %w", err)
	}
	digest := sha256.Sum256(data)
	return rsa.VerifyPKCS1v15(pub, crypto.SHA256, digest[:], sig)
}
