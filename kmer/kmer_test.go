package kmer

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	for _, seq := range []string{
		"a", "t", "acgt", "aaaa", "tttt",
		"acgtacgtacg",      // K=11, partial final byte
		"gattacagattacag",  // K=15
		"acgtacgtacgtacgt", // K=16, byte aligned
	} {
		enc, err := Encode(seq)
		require.NoError(t, err)
		require.Len(t, enc, Bytes(len(seq)))
		assert.Equal(t, seq, Decode(enc, len(seq)))
	}
}

func TestEncodeUpperCase(t *testing.T) {
	lo, err := Encode("gattaca")
	require.NoError(t, err)
	up, err := Encode("GATTACA")
	require.NoError(t, err)
	assert.Equal(t, lo, up)
}

func TestEncodeRejectsBadBase(t *testing.T) {
	_, err := Encode("acgn")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "position 3")
}

func TestEncodePadsTailWithZeros(t *testing.T) {
	enc, err := Encode("ttt") // 3 symbols, last slot must stay 0
	require.NoError(t, err)
	require.Len(t, enc, 1)
	assert.Equal(t, byte(0xfc), enc[0])
}

func TestSymbol(t *testing.T) {
	enc, err := Encode("acgtgtca")
	require.NoError(t, err)
	want := []byte{0, 1, 2, 3, 2, 3, 1, 0}
	for i, w := range want {
		assert.Equal(t, w, Symbol(enc, i), "symbol %d", i)
	}
}

func TestCompare(t *testing.T) {
	a, _ := Encode("aacc")
	b, _ := Encode("aacg")
	assert.Equal(t, -1, Compare(a, b, 1))
	assert.Equal(t, 1, Compare(b, a, 1))
	assert.Equal(t, 0, Compare(a, a, 1))

	// Prefix-limited comparison ignores the differing tail byte.
	c, _ := Encode("aaccaaaa")
	d, _ := Encode("aacctttt")
	assert.Equal(t, 0, Compare(c, d, 1))
	assert.Equal(t, -1, Compare(c, d, 2))
}

// bruteMismatch is the straightforward symbol-by-symbol reference the
// packed implementation must agree with.
func bruteMismatch(a, b []byte, limit int) int {
	// Examine the same symbol range as FirstMismatch: every symbol of
	// every byte holding a symbol index <= limit.
	top := (limit>>2)*4 + 4
	for i := 0; i < top; i++ {
		if Symbol(a, i) != Symbol(b, i) {
			return i
		}
	}
	return limit + 1
}

func TestFirstMismatchEqual(t *testing.T) {
	a, _ := Encode("gattacagattaca")
	for limit := 0; limit < 14; limit++ {
		assert.Equal(t, limit+1, FirstMismatch(a, a, limit), "limit %d", limit)
	}
}

func TestFirstMismatchEverySinglePosition(t *testing.T) {
	const k = 16
	base := strings.Repeat("a", k)
	enc, err := Encode(base)
	require.NoError(t, err)

	for pos := 0; pos < k; pos++ {
		for _, sub := range []string{"c", "g", "t"} {
			mut := base[:pos] + sub + base[pos+1:]
			menc, err := Encode(mut)
			require.NoError(t, err)

			// Any limit whose examined byte range covers pos reports pos
			// exactly; any smaller limit sees equality.
			for limit := 0; limit < k; limit++ {
				got := FirstMismatch(enc, menc, limit)
				if pos <= (limit>>2)*4+3 {
					assert.Equal(t, pos, got, "pos %d limit %d sub %s", pos, limit, sub)
				} else {
					assert.Equal(t, limit+1, got, "pos %d limit %d sub %s", pos, limit, sub)
				}
			}
		}
	}
}

func TestFirstMismatchAtExactBound(t *testing.T) {
	// K=8, khalf=4: a mismatch exactly at symbol 4 must be reported as 4,
	// one at symbol 3 as 3, since the partition scan classifies on ==.
	a, _ := Encode("aaaacaaa")
	b, _ := Encode("aaaagaaa")
	assert.Equal(t, 4, FirstMismatch(a, b, 4))

	c, _ := Encode("aaacaaaa")
	assert.Equal(t, 3, FirstMismatch(a, c, 4))
}

func TestFirstMismatchRandomAgainstBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	const k = 20
	letters := []byte(bases)

	randSeq := func() string {
		b := make([]byte, k)
		for i := range b {
			b[i] = letters[rng.Intn(4)]
		}
		return string(b)
	}

	for trial := 0; trial < 2000; trial++ {
		a, err := Encode(randSeq())
		require.NoError(t, err)
		b, err := Encode(randSeq())
		require.NoError(t, err)
		limit := rng.Intn(k)
		assert.Equal(t, bruteMismatch(a, b, limit), FirstMismatch(a, b, limit))
	}
}
