// Package image converts between the on-disk firmware formats and the
// word/byte sequences the controllers consume. A flash image is a flat
// little-endian sequence of 32-bit words, an EEPROM image is a flat
// byte sequence.
package image

import (
	"encoding/binary"
	"errors"
)

var ErrorInvalidLength = errors.New("image length not valid")

// DecodeWords splits a flash image into words. The length must be a
// multiple of 4.
func DecodeWords(data []byte) ([]uint32, error) {
	if len(data)%4 != 0 {
		return nil, ErrorInvalidLength
	}

	words := make([]uint32, len(data)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(data[i*4:])
	}

	return words, nil
}

// EncodeWords flattens words into a flash image.
func EncodeWords(words []uint32) []byte {
	data := make([]byte, len(words)*4)
	for i, w := range words {
		binary.LittleEndian.PutUint32(data[i*4:], w)
	}

	return data
}
