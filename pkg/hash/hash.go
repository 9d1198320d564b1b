package hash

import (
	"fmt"
	"io"
	"math"
	"math/big"

	"github.com/taurusgroup/secure-aco/internal/params"
	"github.com/zeebo/blake3"
)

const DigestLengthBytes = params.SecBytes * 2 // 64

// Hash is the hash function we use for transcripts, run identifiers and key derivation.
//
// Internally, this is a wrapper around blake3, whose extendable output doubles as a
// source of key material.
type Hash struct {
	h *blake3.Hasher
}

// New creates a Hash struct where the internal hash function is initialized with "secure-aco".
func New() *Hash {
	hash := &Hash{h: blake3.New()}
	_ = hash.WriteAny(&BytesWithDomain{
		TheDomain: "Library",
		Bytes:     []byte("secure-aco"),
	})
	return hash
}

// Digest returns a reader for the current output of the function.
//
// This finalizes the current state of the hash, and returns what's
// essentially a stream of random bytes.
func (hash *Hash) Digest() io.Reader {
	return hash.h.Digest()
}

// Sum returns a slice of length DigestLengthBytes resulting from the current hash state.
// If a different length is required, use io.ReadFull(hash.Digest(), out) instead.
func (hash *Hash) Sum() []byte {
	out := make([]byte, DigestLengthBytes)
	if _, err := io.ReadFull(hash.Digest(), out); err != nil {
		panic(fmt.Sprintf("hash.Sum: internal hash failure: %v", err))
	}
	return out
}

// WriteAny takes many different data types and writes them to the hash state.
//
// Currently supported types:
//
//   - []byte
//   - string
//   - int, int64
//   - float64
//   - *big.Int
//   - hash.WriterToWithDomain
//
// This function will apply its own domain separation for the builtin types.
// The last type already suggests which domain to use, and this function respects it.
func (hash *Hash) WriteAny(data ...interface{}) error {
	var err error
	for _, d := range data {
		switch t := d.(type) {
		case []byte:
			err = writeWithDomain(hash.h, &BytesWithDomain{
				TheDomain: "[]byte",
				Bytes:     t,
			})
			if err != nil {
				return fmt.Errorf("hash.Hash: write []byte: %w", err)
			}
		case string:
			err = writeWithDomain(hash.h, &BytesWithDomain{
				TheDomain: "string",
				Bytes:     []byte(t),
			})
			if err != nil {
				return fmt.Errorf("hash.Hash: write string: %w", err)
			}
		case int:
			if err = writeWithDomain(hash.h, &Int64WithDomain{TheDomain: "int", Value: int64(t)}); err != nil {
				return fmt.Errorf("hash.Hash: write int: %w", err)
			}
		case int64:
			if err = writeWithDomain(hash.h, &Int64WithDomain{TheDomain: "int64", Value: t}); err != nil {
				return fmt.Errorf("hash.Hash: write int64: %w", err)
			}
		case float64:
			err = writeWithDomain(hash.h, &Int64WithDomain{
				TheDomain: "float64",
				Value:     int64(math.Float64bits(t)),
			})
			if err != nil {
				return fmt.Errorf("hash.Hash: write float64: %w", err)
			}
		case *big.Int:
			if t == nil {
				return fmt.Errorf("hash.Hash: write *big.Int: nil")
			}
			bytes, err := t.GobEncode()
			if err != nil {
				return fmt.Errorf("hash.Hash: GobEncode: %w", err)
			}
			err = writeWithDomain(hash.h, &BytesWithDomain{
				TheDomain: "big.Int",
				Bytes:     bytes,
			})
			if err != nil {
				return fmt.Errorf("hash.Hash: write *big.Int: %w", err)
			}
		case WriterToWithDomain:
			if err = writeWithDomain(hash.h, t); err != nil {
				return fmt.Errorf("hash.Hash: write io.WriterTo: %w", err)
			}
		default:
			panic("hash.Hash: unsupported type")
		}
	}
	return nil
}

// Clone returns a copy of the Hash in its current state.
func (hash *Hash) Clone() *Hash {
	return &Hash{h: hash.h.Clone()}
}

// Fork returns a copy of the Hash in its current state, with an extra domain label written to it.
// It is used to derive independent keys from a common transcript.
func (hash *Hash) Fork(label string) *Hash {
	cloned := hash.Clone()
	_ = cloned.WriteAny(&BytesWithDomain{
		TheDomain: "Fork",
		Bytes:     []byte(label),
	})
	return cloned
}
