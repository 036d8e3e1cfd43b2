package crypto

import (
	"crypto/sha256"

	"github.com/geohub/geod/internal/crypto/base58"
)

// PIDSize is the size of a participant identifier's underlying hash, in bytes.
const PIDSize = 32

// CalcPID computes a participant's identifier from its public key.
// PID = base58(sha256(publicKey)), per the network's identity scheme.
//
// Unlike account derivation schemes that hash twice to get a short,
// fixed-length identifier, this is a single hash: there is no RIPEMD160
// step, since nothing here requires the short 160-bit output that
// motivates that choice elsewhere.
func CalcPID(publicKey []byte) string {
	sum := sha256.Sum256(publicKey)
	return base58.Encode(sum[:])
}

// ParsePID decodes a base58 PID string back into its raw hash bytes.
func ParsePID(pid string) ([PIDSize]byte, error) {
	var out [PIDSize]byte
	decoded, err := base58.Decode(pid)
	if err != nil {
		return out, err
	}
	if len(decoded) != PIDSize {
		return out, base58.ErrInvalidLength
	}
	copy(out[:], decoded)
	return out, nil
}

// IsValidPID reports whether s decodes as a well-formed PID.
func IsValidPID(s string) bool {
	_, err := ParsePID(s)
	return err == nil
}
