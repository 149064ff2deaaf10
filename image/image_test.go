package image

import (
	"bytes"
	"crypto/rand"
	"testing"
)

func TestCRC(t *testing.T) {
	result := Checksum([]byte{1, 2, 3, 4, 5, 6, 7, 8})
	correct := uint32(0x3fca88c5)

	if result != correct {
		t.Errorf("CRC Error: %08x!=%08x", result, correct)
	}
}

func getRandomBuf(length int) []byte {
	out := make([]byte, length)
	rand.Read(out)
	return out
}

func TestEncodeDecodeWords(t *testing.T) {
	buf := getRandomBuf(0x400)

	words, err := DecodeWords(buf)
	if err != nil {
		t.Fatal("Failed to decode valid image:", err)
	}
	if len(words) != 0x100 {
		t.Error("Wrong word count:", len(words))
	}

	if !bytes.Equal(EncodeWords(words), buf) {
		t.Error("Regenerated image is not equal to the input")
	}
}

func TestDecodeWordsLittleEndian(t *testing.T) {
	words, err := DecodeWords([]byte{0x78, 0x56, 0x34, 0x12})
	if err != nil {
		t.Fatal(err)
	}
	if words[0] != 0x12345678 {
		t.Errorf("Wrong byte order: %08x", words[0])
	}
}

func TestDecodeWordsInvalidLength(t *testing.T) {
	if _, err := DecodeWords(make([]byte, 7)); err != ErrorInvalidLength {
		t.Error("Image with invalid length accepted:", err)
	}
}
