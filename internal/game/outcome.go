package game

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"
)

// DigitSource yields draw numbers. Implementations must be safe for use by a
// single session; values outside 0-9 are folded back into range by Draw.
type DigitSource interface {
	NextDigit() int
}

type randomSource struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewRandomSource returns a uniform source seeded from the wall clock.
func NewRandomSource() DigitSource {
	seed := uint64(time.Now().UnixNano())
	return &randomSource{r: rand.New(rand.NewPCG(seed, seed>>1|1))}
}

func (s *randomSource) NextDigit() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.IntN(10)
}

// HashSource derives digits from HMAC-SHA256(seed, "label:nonce"), so a
// given seed always replays the same sequence of draws.
type HashSource struct {
	mu    sync.Mutex
	seed  string
	label string
	nonce uint64
}

func NewHashSource(seed, label string) *HashSource {
	return &HashSource{seed: seed, label: label}
}

func (h *HashSource) NextDigit() int {
	h.mu.Lock()
	h.nonce++
	nonce := h.nonce
	h.mu.Unlock()
	return DigitFromSeed(h.seed, h.label, nonce)
}

func DigitFromSeed(seed, label string, nonce uint64) int {
	mac := hmac.New(sha256.New, []byte(seed))
	fmt.Fprintf(mac, "%s:%d", label, nonce)
	sum := mac.Sum(nil)
	return int(binary.BigEndian.Uint64(sum[:8]) % 10)
}

// Single source of truth for number -> colors.
var colorTable = [10][]Color{
	0: {ColorRed, ColorViolet},
	1: {ColorGreen},
	2: {ColorRed},
	3: {ColorGreen},
	4: {ColorRed},
	5: {ColorGreen, ColorViolet},
	6: {ColorRed},
	7: {ColorGreen},
	8: {ColorRed},
	9: {ColorGreen},
}

// ColorsFor returns a fresh copy of the colors for n, or nil when n is not a digit.
func ColorsFor(n int) []Color {
	if n < 0 || n > 9 {
		return nil
	}
	out := make([]Color, len(colorTable[n]))
	copy(out, colorTable[n])
	return out
}

func SizeFor(n int) Size {
	if n >= 5 {
		return SizeBig
	}
	return SizeSmall
}

type Outcome struct {
	Number int     `json:"number"`
	Colors []Color `json:"colors"`
	Size   Size    `json:"size"`
}

func OutcomeFor(n int) Outcome {
	return Outcome{Number: n, Colors: ColorsFor(n), Size: SizeFor(n)}
}

func Draw(src DigitSource) Outcome {
	n := src.NextDigit() % 10
	if n < 0 {
		n += 10
	}
	return OutcomeFor(n)
}

func (o Outcome) HasColor(c Color) bool {
	for _, oc := range o.Colors {
		if oc == c {
			return true
		}
	}
	return false
}
