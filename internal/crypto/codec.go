package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

// ErrCodec marks a failed decryption: malformed ciphertext, truncated value or
// a key mismatch. Callers must surface it, never swallow it as an empty secret.
var ErrCodec = errors.New("codec: decryption failed")

const (
	keySize        = 32
	kdfIterations  = 210_000
	kdfSaltContext = "credvault.field-encryption.v1"
)

// Codec encrypts and decrypts secret field values with AES-256-GCM.
// Each value gets its own random nonce, stored as hex(nonce||ciphertext),
// so the server key can be rotated by re-encrypting on the next write.
type Codec struct {
	key []byte
}

// NewCodec creates a codec from a raw 32-byte key.
func NewCodec(key []byte) (*Codec, error) {
	if len(key) != keySize {
		return nil, fmt.Errorf("codec key must be %d bytes, got %d", keySize, len(key))
	}
	k := make([]byte, keySize)
	copy(k, key)
	return &Codec{key: k}, nil
}

// NewCodecFromHex creates a codec from a hex-encoded 32-byte key.
func NewCodecFromHex(keyHex string) (*Codec, error) {
	key, err := hex.DecodeString(keyHex)
	if err != nil {
		return nil, fmt.Errorf("decode codec key: %w", err)
	}
	return NewCodec(key)
}

// KeyFromPassphrase derives a 32-byte key from an operator passphrase.
// The salt is a fixed context string: the same passphrase must yield the same
// key across restarts or previously written values become unreadable.
func KeyFromPassphrase(passphrase string) []byte {
	return pbkdf2.Key([]byte(passphrase), []byte(kdfSaltContext), kdfIterations, keySize, sha256.New)
}

// Encrypt encrypts a single field value. Empty input yields an empty output,
// which the storage layer persists as NULL, so presence of a secret can be
// tested without decrypting.
func (c *Codec) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", fmt.Errorf("create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("create GCM: %w", err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	ciphertext := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return hex.EncodeToString(ciphertext), nil
}

// Decrypt reverses Encrypt. Empty or absent stored values decrypt to "".
// Anything else that fails to decode or authenticate returns ErrCodec.
func (c *Codec) Decrypt(ciphertextHex string) (string, error) {
	if ciphertextHex == "" {
		return "", nil
	}

	ciphertext, err := hex.DecodeString(ciphertextHex)
	if err != nil {
		return "", fmt.Errorf("%w: decode hex: %v", ErrCodec, err)
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", fmt.Errorf("create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("create GCM: %w", err)
	}

	nonceSize := gcm.NonceSize()
	if len(ciphertext) < nonceSize {
		return "", fmt.Errorf("%w: ciphertext too short", ErrCodec)
	}

	nonce, ciphertext := ciphertext[:nonceSize], ciphertext[nonceSize:]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCodec, err)
	}

	return string(plaintext), nil
}
