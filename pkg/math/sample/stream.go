package sample

import (
	"fmt"

	"github.com/taurusgroup/secure-aco/pkg/hash"
	"golang.org/x/crypto/chacha20"
)

// Stream is a deterministic source of randomness: the ChaCha20 keystream under a key derived from a seed.
//
// Two streams created from the same seed and label produce identical output, which is what
// allows a colony run to be replayed in tests. It is not safe for concurrent use; wrap it in a
// pool.LockedReader when it is shared.
type Stream struct {
	cipher *chacha20.Cipher
}

// NewStream derives a ChaCha20 key from (seed, label) and returns the corresponding keystream.
// Streams under the same seed are forks of one seed transcript, keyed apart by label.
func NewStream(seed int64, label string) (*Stream, error) {
	h := hash.New()
	if err := h.WriteAny(&hash.Int64WithDomain{TheDomain: "Seed", Value: seed}); err != nil {
		return nil, fmt.Errorf("sample: stream: %w", err)
	}
	key := make([]byte, chacha20.KeySize)
	mustReadBits(h.Fork(label).Digest(), key)
	nonce := make([]byte, chacha20.NonceSize)
	c, err := chacha20.NewUnauthenticatedCipher(key, nonce)
	if err != nil {
		return nil, fmt.Errorf("sample: stream: %w", err)
	}
	return &Stream{cipher: c}, nil
}

// Read implements io.Reader, filling p with keystream bytes.
func (s *Stream) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	s.cipher.XORKeyStream(p, p)
	return len(p), nil
}
