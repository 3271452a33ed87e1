// Package wire implements the Hazel transport codec: variable-width integers,
// little-endian primitives, and the outer tagged frame/sub-frame layering.
package wire

import "errors"

// ErrTruncatedVarint is returned when a u7v run reaches end-of-buffer before a
// terminating byte (high bit clear).
var ErrTruncatedVarint = errors.New("wire: truncated varint")

// ErrOverlongVarint is returned when a u7v run exceeds the maximum 5-byte width.
var ErrOverlongVarint = errors.New("wire: overlong varint")

// maxVarintBytes bounds a u7v to 5 bytes (35 bits), enough to cover a 32-bit
// payload; the three bits above bit 31 are discarded on decode (§6.3).
const maxVarintBytes = 5

// DecodeU7V reads a packed 7-bit-continuation unsigned integer from buf,
// returning the decoded value and the number of bytes consumed.
func DecodeU7V(buf []byte) (uint32, int, error) {
	var value uint32
	for i := 0; i < maxVarintBytes; i++ {
		if i >= len(buf) {
			return 0, 0, ErrTruncatedVarint
		}
		b := buf[i]
		value |= uint32(b&0x7f) << uint(7*i)
		if b&0x80 == 0 {
			return value, i + 1, nil
		}
	}
	return 0, 0, ErrOverlongVarint
}

// EncodeU7V appends the minimal-length packed encoding of v to dst and
// returns the extended slice. Zero encodes as a single 0x00 byte.
func EncodeU7V(dst []byte, v uint32) []byte {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			dst = append(dst, b|0x80)
			continue
		}
		dst = append(dst, b)
		return dst
	}
}

// DecodeBitset reads a bitset-varint and returns the ordered list of set bit
// positions (bit 0 first).
func DecodeBitset(buf []byte) ([]int, int, error) {
	value, n, err := DecodeU7V(buf)
	if err != nil {
		return nil, 0, err
	}
	return bitsOf(value), n, nil
}

// EncodeBitset packs an (unordered, possibly duplicated) list of bit positions
// into its u7v-encoded integer form.
func EncodeBitset(dst []byte, positions []int) []byte {
	var value uint32
	for _, p := range positions {
		if p < 0 || p > 31 {
			continue
		}
		value |= 1 << uint(p)
	}
	return EncodeU7V(dst, value)
}

func bitsOf(value uint32) []int {
	positions := make([]int, 0, 4)
	for i := 0; i < 32; i++ {
		if value&(1<<uint(i)) != 0 {
			positions = append(positions, i)
		}
	}
	return positions
}

// HasBit reports whether index is present in an already-decoded bitset.
func HasBit(positions []int, index int) bool {
	for _, p := range positions {
		if p == index {
			return true
		}
	}
	return false
}
