// Package kmer provides the packed 2-bit encoding of DNA k-mers and the
// comparison primitives that the partition and merge passes build on.
//
// A k-mer of length K over the alphabet {a,c,g,t} occupies Bytes(K) =
// ceil(K/4) bytes, four symbols per byte, with the earliest symbol in the
// most significant bits. Unused low-order bits of a partially filled final
// byte are zero, so two encodings of the same K are equal as byte strings
// exactly when the k-mers are equal.
package kmer

import (
	"bytes"
	"fmt"
)

const bases = "acgt"

// codes maps ASCII bases (either case) to their 2-bit code; 0xff marks
// characters outside the alphabet.
var codes [256]byte

// fmer holds the 4-base string for every possible packed byte, so full
// bytes decode with a single table lookup.
var fmer [256]string

func init() {
	for i := range codes {
		codes[i] = 0xff
	}
	for c, b := range []byte(bases) {
		codes[b] = byte(c)
		codes[b&^0x20] = byte(c) // upper case
	}

	var quad [4]byte
	for i := 0; i < 256; i++ {
		for s := 0; s < 4; s++ {
			quad[s] = bases[(i>>(6-2*s))&3]
		}
		fmer[i] = string(quad[:])
	}
}

// Bytes returns the number of bytes occupied by the encoding of a k-mer
// of length k.
func Bytes(k int) int {
	return (k + 3) >> 2
}

// Symbol returns the 2-bit code of the i-th symbol of enc.
func Symbol(enc []byte, i int) byte {
	return (enc[i>>2] >> (6 - 2*(uint(i)&3))) & 3
}

// Encode packs seq into its 2-bit representation. Characters outside
// acgt/ACGT are rejected.
func Encode(seq string) ([]byte, error) {
	enc := make([]byte, Bytes(len(seq)))
	for i := 0; i < len(seq); i++ {
		c := codes[seq[i]]
		if c == 0xff {
			return nil, fmt.Errorf("kmer: invalid base %q at position %d", seq[i], i)
		}
		enc[i>>2] |= c << (6 - 2*(uint(i)&3))
	}
	return enc, nil
}

// Decode renders the first k symbols of enc as a lower-case base string.
func Decode(enc []byte, k int) string {
	var b bytes.Buffer
	b.Grow(k)
	full := k >> 2
	for i := 0; i < full; i++ {
		b.WriteString(fmer[enc[i]])
	}
	for i := full << 2; i < k; i++ {
		b.WriteByte(bases[Symbol(enc, i)])
	}
	return b.String()
}

// Compare orders two encodings byte-lexicographically over their first
// n bytes, returning -1, 0 or +1.
func Compare(a, b []byte, n int) int {
	return bytes.Compare(a[:n], b[:n])
}

// FirstMismatch returns the symbol index at which a and b first differ,
// examining every byte that holds a symbol index <= limit. If all examined
// bytes are equal it returns limit+1. A mismatch located past limit but
// inside an examined byte reports its true index, which is > limit; callers
// that only classify against limit (<, ==, >) are unaffected.
//
// Both slices must hold at least limit/4+1 bytes. This is the routine every
// grouping decision rests on; its boundary behavior is pinned by tests.
func FirstMismatch(a, b []byte, limit int) int {
	for i := 0; i <= limit; i += 4 {
		x, y := a[i>>2], b[i>>2]
		if x != y {
			if x&0xf0 != y&0xf0 {
				if x&0xc0 != y&0xc0 {
					return i
				}
				return i + 1
			}
			if x&0xfc != y&0xfc {
				return i + 2
			}
			return i + 3
		}
	}
	return limit + 1
}
