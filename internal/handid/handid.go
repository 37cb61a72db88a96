// Package handid generates the identifiers stamped on every hand. An id is a
// UUIDv7 rendered as 26 lowercase Crockford base32 characters, so ids sort by
// creation time.
package handid

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Crockford's base32, lowercase
const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// Length is the number of characters in every hand id.
const Length = 26

// Generator produces hand ids from a configurable entropy source.
type Generator struct {
	entropy io.Reader
}

// NewGenerator creates a generator. A nil reader uses crypto/rand through the
// uuid package; tests pass a seeded reader for reproducible suffixes.
func NewGenerator(entropy io.Reader) *Generator {
	return &Generator{entropy: entropy}
}

// Generate creates a new hand id with the default entropy source.
func Generate() string {
	return NewGenerator(nil).Generate()
}

// Generate creates a new hand id. It panics if the entropy source fails, which
// only happens when the operating system cannot supply random bytes.
func (g *Generator) Generate() string {
	var (
		id  uuid.UUID
		err error
	)
	if g.entropy != nil {
		id, err = uuid.NewV7FromReader(g.entropy)
	} else {
		id, err = uuid.NewV7()
	}
	if err != nil {
		panic("failed to generate hand id: " + err.Error())
	}
	return Encode(id)
}

// Encode renders a UUID as 26 base32 characters. The 128 bits are treated as a
// 130-bit number with two leading zero bits, so the first character is 0-7.
func Encode(id uuid.UUID) string {
	hi, lo := split(id)
	out := make([]byte, Length)
	for i := 0; i < Length; i++ {
		shift := uint(125 - 5*i)
		out[i] = alphabet[extract5(hi, lo, shift)]
	}
	return string(out)
}

// Decode parses a hand id back into the UUID it encodes.
func Decode(s string) (uuid.UUID, error) {
	if err := Validate(s); err != nil {
		return uuid.Nil, err
	}
	var hi, lo uint64
	for i := 0; i < Length; i++ {
		v := uint64(strings.IndexByte(alphabet, s[i]))
		hi = hi<<5 | lo>>59
		lo = lo<<5 | v
	}
	var id uuid.UUID
	for i := 0; i < 8; i++ {
		id[i] = byte(hi >> (56 - 8*i))
		id[8+i] = byte(lo >> (56 - 8*i))
	}
	return id, nil
}

// Time returns the creation time embedded in a hand id, to millisecond precision.
func Time(s string) (time.Time, error) {
	id, err := Decode(s)
	if err != nil {
		return time.Time{}, err
	}
	var ms int64
	for i := 0; i < 6; i++ {
		ms = ms<<8 | int64(id[i])
	}
	return time.UnixMilli(ms), nil
}

// Validate checks that s is a well-formed hand id.
func Validate(s string) error {
	if len(s) != Length {
		return fmt.Errorf("hand id must be exactly %d characters, got %d", Length, len(s))
	}
	if s[0] > '7' {
		return fmt.Errorf("hand id first character must be 0-7, got %c", s[0])
	}
	for i := 0; i < len(s); i++ {
		if strings.IndexByte(alphabet, s[i]) < 0 {
			return fmt.Errorf("invalid character %c at position %d", s[i], i)
		}
	}
	return nil
}

func split(id uuid.UUID) (hi, lo uint64) {
	for i := 0; i < 8; i++ {
		hi = hi<<8 | uint64(id[i])
		lo = lo<<8 | uint64(id[8+i])
	}
	return hi, lo
}

// extract5 returns the five bits of the 128-bit value hi:lo starting at shift.
// Bits above 127 read as zero.
func extract5(hi, lo uint64, shift uint) uint64 {
	switch {
	case shift >= 64:
		return (hi >> (shift - 64)) & 0x1f
	case shift+5 <= 64:
		return (lo >> shift) & 0x1f
	default:
		return ((hi << (64 - shift)) | (lo >> shift)) & 0x1f
	}
}
