package blackjack

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
)

// Fairness holds the seed material behind one deck shuffle. The SHA-256 hash
// of the server seed is published with the opening snapshot; the seed itself
// is revealed once the session reaches GameOver, so the client can recompute
// the shuffle and audit every card it was dealt.
type Fairness struct {
	ServerSeed string
	ClientSeed string
	Nonce      uint64
}

func newFairness() Fairness {
	return Fairness{
		ServerSeed: randomHex(32),
		ClientSeed: randomHex(8),
	}
}

func randomHex(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("crypto/rand failed: %v", err))
	}
	return hex.EncodeToString(buf)
}

// Hash returns the SHA-256 commitment to the server seed.
func (f Fairness) Hash() string {
	sum := sha256.Sum256([]byte(f.ServerSeed))
	return hex.EncodeToString(sum[:])
}

// byteStream yields HMAC-SHA256 output for a seed triple, 32 bytes per round.
type byteStream struct {
	fair   Fairness
	round  uint64
	pos    int
	buffer [32]byte
}

func newByteStream(f Fairness) *byteStream {
	bs := &byteStream{fair: f}
	bs.fill()
	return bs
}

func (bs *byteStream) fill() {
	h := hmac.New(sha256.New, []byte(bs.fair.ServerSeed))
	message := fmt.Sprintf("%s:%d:%d", bs.fair.ClientSeed, bs.fair.Nonce, bs.round)
	h.Write([]byte(message))
	copy(bs.buffer[:], h.Sum(nil))
}

func (bs *byteStream) next() byte {
	if bs.pos >= 32 {
		bs.round++
		bs.pos = 0
		bs.fill()
	}
	b := bs.buffer[bs.pos]
	bs.pos++
	return b
}

// nextFloat folds four bytes into a value in [0, 1).
func (bs *byteStream) nextFloat() float64 {
	result := 0.0
	for i := 0; i < 4; i++ {
		result += float64(bs.next()) / math.Pow(256, float64(i+1))
	}
	return result
}

// shuffle permutes cards in place with a selection shuffle driven by the
// seed-derived float stream: each float picks one card out of the shrinking
// pool. The same seed triple always produces the same deck order.
func (f Fairness) shuffle(cards []Card) {
	bs := newByteStream(f)
	pool := append([]Card(nil), cards...)
	for i := range cards {
		idx := int(bs.nextFloat() * float64(len(pool)))
		if idx >= len(pool) {
			idx = len(pool) - 1
		}
		cards[i] = pool[idx]
		pool = append(pool[:idx], pool[idx+1:]...)
	}
}
