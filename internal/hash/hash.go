// Package hash provides cheap content fingerprinting for change detection.
//
// Fingerprints are compared, never trusted: they exist so that one projdash
// process can notice that another process rewrote shared state. They are not
// suitable for security or addressing.
package hash

import (
	"strconv"
	"unicode/utf16"
	"unicode/utf8"
)

// djb2Seed is the initial value of the multiplicative string hash.
const djb2Seed uint32 = 5381

// String computes the classic djb2 hash (h = h*33 + c) of s, truncated to
// 32 bits. Characters are taken as UTF-16 code units so that paths outside
// the BMP hash the same way the editor host hashes them. Bytes that are not
// valid UTF-8 each contribute their own value.
func String(s string) uint32 {
	h := djb2Seed
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case r == utf8.RuneError && size == 1:
			h = h*33 + uint32(s[i])
		case r > 0xFFFF:
			r1, r2 := utf16.EncodeRune(r)
			h = (h*33+uint32(r1))*33 + uint32(r2)
		default:
			h = h*33 + uint32(r)
		}
		i += size
	}
	return h
}

// Ordered folds the hashes of keys into a single order-sensitive value. Each
// key is suffixed with its decimal index before hashing and the results are
// XORed together. The boolean is false when keys is empty.
func Ordered(keys []string) (uint32, bool) {
	if len(keys) == 0 {
		return 0, false
	}
	sum := String(keys[0] + "0")
	for i := 1; i < len(keys); i++ {
		sum ^= String(keys[i] + strconv.Itoa(i))
	}
	return sum, true
}
