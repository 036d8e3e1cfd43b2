// Package ed25519 implements the Ed25519 signature provider participants
// use to sign payments and trust-line changes.
package ed25519

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
)

// keyPrefix marks a hex-encoded key as Ed25519, the way a family-seed
// prefix byte distinguishes key algorithms on the wire.
const keyPrefix byte = 0xED

var (
	// ErrInvalidPrivateKey is returned when a private key is malformed.
	ErrInvalidPrivateKey = errors.New("ed25519: invalid private key")
	// ErrInvalidSignature is returned when a signature is malformed.
	ErrInvalidSignature = errors.New("ed25519: invalid signature")
)

// Provider implements the crypto.SignatureProvider interface for Ed25519.
type Provider struct{}

// NewProvider returns a new Ed25519 signature provider.
func NewProvider() *Provider {
	return &Provider{}
}

// GenerateKeypair generates a fresh Ed25519 keypair. seed is ignored when
// nil; a random seed is drawn from crypto/rand otherwise the seed's bytes
// are used directly (exactly 32 bytes are required). isValidator has no
// effect here: unlike hierarchical key derivation schemes, this provider
// has only a single notion of keypair.
func (p *Provider) GenerateKeypair(seed []byte, isValidator bool) (privateKeyHex, publicKeyHex string, err error) {
	var s []byte
	if len(seed) == 0 {
		s = make([]byte, ed25519.SeedSize)
		if _, err := rand.Read(s); err != nil {
			return "", "", err
		}
	} else if len(seed) == ed25519.SeedSize {
		s = seed
	} else {
		return "", "", ErrInvalidPrivateKey
	}

	priv := ed25519.NewKeyFromSeed(s)
	pub := priv.Public().(ed25519.PublicKey)

	privateKeyHex = encodeWithPrefix(s)
	publicKeyHex = encodeWithPrefix(pub)
	return privateKeyHex, publicKeyHex, nil
}

// SignMessage signs message with the given hex-encoded private key seed.
func (p *Provider) SignMessage(message, privateKeyHex string) (string, error) {
	seed, err := decodeWithPrefix(privateKeyHex)
	if err != nil {
		return "", ErrInvalidPrivateKey
	}
	if len(seed) != ed25519.SeedSize {
		return "", ErrInvalidPrivateKey
	}

	priv := ed25519.NewKeyFromSeed(seed)
	sig := ed25519.Sign(priv, []byte(message))
	return strings.ToUpper(hex.EncodeToString(sig)), nil
}

// VerifySignature verifies a signature over message with a hex-encoded
// public key.
func (p *Provider) VerifySignature(message, publicKeyHex, signatureHex string) bool {
	pub, err := decodeWithPrefix(publicKeyHex)
	if err != nil || len(pub) != ed25519.PublicKeySize {
		return false
	}

	sig, err := hex.DecodeString(signatureHex)
	if err != nil || len(sig) != ed25519.SignatureSize {
		return false
	}

	return ed25519.Verify(pub, []byte(message), sig)
}

func encodeWithPrefix(b []byte) string {
	out := make([]byte, 0, len(b)+1)
	out = append(out, keyPrefix)
	out = append(out, b...)
	return strings.ToUpper(hex.EncodeToString(out))
}

func decodeWithPrefix(s string) ([]byte, error) {
	decoded, err := hex.DecodeString(s)
	if err != nil || len(decoded) == 0 {
		return nil, ErrInvalidPrivateKey
	}
	if decoded[0] != keyPrefix {
		return nil, ErrInvalidPrivateKey
	}
	return decoded[1:], nil
}
