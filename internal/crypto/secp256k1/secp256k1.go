// Package secp256k1 implements the signature provider used for
// privileged, operator-level operations: equivalent creation and
// policy-level trust-line changes. Participant payment traffic uses
// Ed25519 instead (see internal/crypto/ed25519); carrying both gives
// the network two trust tiers backed by two distinct key algorithms.
package secp256k1

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

var (
	// ErrInvalidPrivateKey is returned when a private key is malformed.
	ErrInvalidPrivateKey = errors.New("secp256k1: invalid private key")
	// ErrInvalidSignature is returned when a signature is malformed.
	ErrInvalidSignature = errors.New("secp256k1: invalid signature")
)

// Provider implements the crypto.SignatureProvider interface for
// ECDSA over secp256k1, signing SHA-256 digests and encoding signatures
// as DER hex, matching the convention used elsewhere for wire-safe
// signature material.
type Provider struct{}

// NewProvider returns a new secp256k1 signature provider.
func NewProvider() *Provider {
	return &Provider{}
}

// GenerateKeypair generates a secp256k1 keypair. seed, when 32 bytes, is
// used directly as the private key scalar; otherwise a random key is
// drawn. isValidator has no effect: this provider has no hierarchical
// derivation.
func (p *Provider) GenerateKeypair(seed []byte, isValidator bool) (privateKeyHex, publicKeyHex string, err error) {
	var priv *btcec.PrivateKey
	if len(seed) == 32 {
		priv, _ = btcec.PrivKeyFromBytes(seed)
	} else {
		priv, err = btcec.NewPrivateKey()
		if err != nil {
			return "", "", err
		}
	}

	privateKeyHex = strings.ToUpper(hex.EncodeToString(priv.Serialize()))
	publicKeyHex = strings.ToUpper(hex.EncodeToString(priv.PubKey().SerializeCompressed()))
	return privateKeyHex, publicKeyHex, nil
}

// SignMessage signs the SHA-256 digest of message, returning a DER-encoded,
// low-S (fully canonical) signature as uppercase hex.
func (p *Provider) SignMessage(message, privateKeyHex string) (string, error) {
	keyBytes, err := hex.DecodeString(privateKeyHex)
	if err != nil || len(keyBytes) != 32 {
		return "", ErrInvalidPrivateKey
	}

	priv, _ := btcec.PrivKeyFromBytes(keyBytes)
	digest := sha256.Sum256([]byte(message))
	sig := ecdsa.Sign(priv, digest[:])

	return strings.ToUpper(hex.EncodeToString(sig.Serialize())), nil
}

// VerifySignature verifies a DER-encoded signature over the SHA-256 digest
// of message.
func (p *Provider) VerifySignature(message, publicKeyHex, signatureHex string) bool {
	pubBytes, err := hex.DecodeString(publicKeyHex)
	if err != nil {
		return false
	}
	pub, err := btcec.ParsePubKey(pubBytes)
	if err != nil {
		return false
	}

	sigBytes, err := hex.DecodeString(signatureHex)
	if err != nil {
		return false
	}
	sig, err := ecdsa.ParseDERSignature(sigBytes)
	if err != nil {
		return false
	}

	digest := sha256.Sum256([]byte(message))
	return sig.Verify(digest[:], pub)
}
