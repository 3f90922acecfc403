package credstore

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"
)

// DefaultKeyLength is the derived key length, giving AES-128.
const DefaultKeyLength = 16

// DeriveKey hex-encodes deviceID and repeats it until it is exactly n
// characters long.
func DeriveKey(deviceID []byte, n int) (string, error) {
	if len(deviceID) == 0 {
		return "", ErrEmptyDeviceID
	}
	if n <= 0 {
		n = DefaultKeyLength
	}
	h := hex.EncodeToString(deviceID)
	reps := n/len(h) + 1
	return strings.Repeat(h, reps)[:n], nil
}

// Cipher encrypts credential text with AES in ECB mode, zero padded to the
// block size. ECB leaks repeated plaintext blocks; the format is kept for
// compatibility with existing credential files.
type Cipher struct {
	block cipher.Block
}

// NewCipher returns a Cipher using the bytes of key, which must be 16, 24 or
// 32 bytes long.
func NewCipher(key string) (*Cipher, error) {
	block, err := aes.NewCipher([]byte(key))
	if err != nil {
		return nil, fmt.Errorf("credstore: %w", err)
	}
	return &Cipher{block: block}, nil
}

// NewDeviceCipher derives a key from deviceID and returns a Cipher for it.
func NewDeviceCipher(deviceID []byte) (*Cipher, error) {
	key, err := DeriveKey(deviceID, DefaultKeyLength)
	if err != nil {
		return nil, err
	}
	return NewCipher(key)
}

// Encrypt pads the UTF-8 bytes of plaintext with zeros and encrypts each block.
func (c *Cipher) Encrypt(plaintext string) []byte {
	bs := c.block.BlockSize()
	data := []byte(plaintext)
	if rem := len(data) % bs; rem != 0 || len(data) == 0 {
		data = append(data, make([]byte, bs-rem)...)
	}
	out := make([]byte, len(data))
	for i := 0; i < len(data); i += bs {
		c.block.Encrypt(out[i:i+bs], data[i:i+bs])
	}
	return out
}

// EncryptValue renders v as canonical JSON text, unless it is already a
// string, and encrypts it.
func (c *Cipher) EncryptValue(v any) ([]byte, error) {
	if s, ok := v.(string); ok {
		return c.Encrypt(s), nil
	}
	text, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return c.Encrypt(string(text)), nil
}

// Decrypt reverses Encrypt and strips the trailing zero padding.
func (c *Cipher) Decrypt(ciphertext []byte) (string, error) {
	bs := c.block.BlockSize()
	if len(ciphertext) == 0 || len(ciphertext)%bs != 0 {
		return "", fmt.Errorf("ciphertext length %d is not a multiple of %d: %w", len(ciphertext), bs, ErrCorruptCredentials)
	}
	out := make([]byte, len(ciphertext))
	for i := 0; i < len(ciphertext); i += bs {
		c.block.Decrypt(out[i:i+bs], ciphertext[i:i+bs])
	}
	out = bytes.TrimRight(out, "\x00")
	if !utf8.Valid(out) {
		return "", fmt.Errorf("decrypted text is not valid UTF-8: %w", ErrCorruptCredentials)
	}
	return string(out), nil
}
