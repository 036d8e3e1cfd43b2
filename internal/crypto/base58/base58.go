// Package base58 implements Bitcoin-style base58 encoding, used here to
// render participant identifiers as short, unambiguous strings.
//
// No library in the dependency set covers this narrow algorithm, so it
// is implemented locally, in the same hand-rolled-codec spirit as the
// small fixed-purpose encoders a binary wire-format package tends to
// carry.
package base58

import (
	"errors"
	"math/big"
)

const alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

// ErrInvalidCharacter is returned when decoding a string outside the base58 alphabet.
var ErrInvalidCharacter = errors.New("base58: invalid character")

// ErrInvalidLength is returned when a decoded value has an unexpected byte length.
var ErrInvalidLength = errors.New("base58: invalid decoded length")

var (
	bigRadix = big.NewInt(58)
	bigZero  = big.NewInt(0)
)

var decodeTable [256]int8

func init() {
	for i := range decodeTable {
		decodeTable[i] = -1
	}
	for i, c := range alphabet {
		decodeTable[byte(c)] = int8(i)
	}
}

// Encode returns the base58 encoding of b, preserving leading-zero bytes
// as leading '1' characters the way Bitcoin addresses do.
func Encode(b []byte) string {
	x := new(big.Int).SetBytes(b)

	var out []byte
	mod := new(big.Int)
	for x.Cmp(bigZero) > 0 {
		x.DivMod(x, bigRadix, mod)
		out = append(out, alphabet[mod.Int64()])
	}

	for _, c := range b {
		if c != 0 {
			break
		}
		out = append(out, alphabet[0])
	}
	reverse(out)
	return string(out)
}

// Decode reverses Encode.
func Decode(s string) ([]byte, error) {
	x := new(big.Int)
	for i := 0; i < len(s); i++ {
		d := decodeTable[s[i]]
		if d == -1 {
			return nil, ErrInvalidCharacter
		}
		x.Mul(x, bigRadix)
		x.Add(x, big.NewInt(int64(d)))
	}

	decoded := x.Bytes()

	var leadingZeros int
	for i := 0; i < len(s) && s[i] == alphabet[0]; i++ {
		leadingZeros++
	}

	out := make([]byte, leadingZeros+len(decoded))
	copy(out[leadingZeros:], decoded)
	return out, nil
}

func reverse(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}
