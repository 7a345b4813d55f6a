// Package id generates sortable identifiers for requests and sessions.
package id

import (
	"crypto/rand"
	"encoding/binary"
	"time"
)

// Crockford's Base32 alphabet (excludes I, L, O, U).
const crockfordBase32 = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

// ulidLen is the encoded length: 10 timestamp chars followed by 16 entropy chars.
const ulidLen = 26

// NewULID returns a 26-character ULID.
// The first 48 bits are the current Unix time in milliseconds, the remaining
// 80 bits are random, so IDs sort by creation time.
func NewULID() string {
	var raw [16]byte
	binary.BigEndian.PutUint64(raw[0:8], uint64(time.Now().UnixMilli())<<16)
	if _, err := rand.Read(raw[6:]); err != nil {
		binary.BigEndian.PutUint64(raw[8:], uint64(time.Now().UnixNano()))
	}
	return encode(raw)
}

// encode writes the 128-bit value as 26 base32 characters, most significant first.
// The leading character carries only the top 3 bits.
func encode(raw [16]byte) string {
	hi := binary.BigEndian.Uint64(raw[0:8])
	lo := binary.BigEndian.Uint64(raw[8:16])

	var out [ulidLen]byte
	for i := ulidLen - 1; i >= 0; i-- {
		out[i] = crockfordBase32[lo&0x1F]
		lo = lo>>5 | hi<<59
		hi >>= 5
	}
	return string(out[:])
}
