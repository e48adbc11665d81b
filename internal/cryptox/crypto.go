// Package cryptox implements the credential cipher that protects a user's
// third-party API key at rest, and the password hashing used for accounts.
package cryptox

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"golang.org/x/crypto/argon2"
)

// IVSize is the length of the CBC initialization vector in bytes.
const IVSize = aes.BlockSize

// ErrDecryption is returned for any ciphertext that cannot be turned back into
// the original plaintext: malformed hex, wrong IV length, truncated data or a
// different key.
var ErrDecryption = errors.New("decryption failed")

// randReader is a test seam for the IV source.
var randReader io.Reader = rand.Reader

// DeriveKey hashes the server passphrase into a 32-byte AES-256 key. It is
// deterministic, so any process configured with the same passphrase can
// decrypt what another one encrypted.
func DeriveKey(passphrase string) []byte {
	sum := sha256.Sum256([]byte(passphrase))
	return sum[:]
}

// Cipher encrypts single secret strings with AES-256-CBC and PKCS#7 padding.
// A Cipher is safe for concurrent use.
type Cipher struct {
	block cipher.Block
}

// NewCipher builds a Cipher keyed by DeriveKey(passphrase).
func NewCipher(passphrase string) (*Cipher, error) {
	block, err := aes.NewCipher(DeriveKey(passphrase))
	if err != nil {
		return nil, err
	}
	return &Cipher{block: block}, nil
}

// Encrypt returns the hex encoded ciphertext and the hex encoded random IV
// used to produce it. Every call draws a fresh IV.
func (c *Cipher) Encrypt(plaintext string) (ciphertextHex, ivHex string, err error) {
	iv := make([]byte, IVSize)
	if _, err := io.ReadFull(randReader, iv); err != nil {
		return "", "", fmt.Errorf("iv: %w", err)
	}

	padded := pad([]byte(plaintext))
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(c.block, iv).CryptBlocks(out, padded)

	return hex.EncodeToString(out), hex.EncodeToString(iv), nil
}

// Decrypt reverses Encrypt. Every failure wraps ErrDecryption.
func (c *Cipher) Decrypt(ciphertextHex, ivHex string) (string, error) {
	iv, err := hex.DecodeString(ivHex)
	if err != nil || len(iv) != IVSize {
		return "", fmt.Errorf("%w: bad iv", ErrDecryption)
	}
	data, err := hex.DecodeString(ciphertextHex)
	if err != nil {
		return "", fmt.Errorf("%w: bad ciphertext encoding", ErrDecryption)
	}
	if len(data) == 0 || len(data)%aes.BlockSize != 0 {
		return "", fmt.Errorf("%w: ciphertext length %d", ErrDecryption, len(data))
	}

	plain := make([]byte, len(data))
	cipher.NewCBCDecrypter(c.block, iv).CryptBlocks(plain, data)

	plain, err = unpad(plain)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(plain) {
		return "", fmt.Errorf("%w: plaintext is not utf-8", ErrDecryption)
	}
	return string(plain), nil
}

func pad(b []byte) []byte {
	n := aes.BlockSize - len(b)%aes.BlockSize
	return append(b, bytes.Repeat([]byte{byte(n)}, n)...)
}

func unpad(b []byte) ([]byte, error) {
	n := int(b[len(b)-1])
	if n == 0 || n > aes.BlockSize || n > len(b) {
		return nil, fmt.Errorf("%w: bad padding", ErrDecryption)
	}
	for _, v := range b[len(b)-n:] {
		if int(v) != n {
			return nil, fmt.Errorf("%w: bad padding", ErrDecryption)
		}
	}
	return b[:len(b)-n], nil
}

// SaltSize is the length of the random per-account password salt.
const SaltSize = 16

// HashPassword derives an argon2id hash of password under salt.
func HashPassword(password string, salt []byte) []byte {
	return argon2.IDKey([]byte(password), salt, 1, 64*1024, 4, 32)
}

// VerifyPassword reports whether password hashes to hash under salt, in
// constant time.
func VerifyPassword(password string, salt, hash []byte) bool {
	return subtle.ConstantTimeCompare(HashPassword(password, salt), hash) == 1
}
