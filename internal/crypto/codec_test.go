package crypto

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCodec(t *testing.T) *Codec {
	t.Helper()
	codec, err := NewCodec([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)
	return codec
}

func TestCodec_RoundTrip(t *testing.T) {
	codec := newTestCodec(t)

	cases := []string{
		"secret1",
		"пароль с юникодом",
		"emoji 🔑 and spaces",
		"with\x00embedded\x00nulls",
		strings.Repeat("long", 2048),
		" ",
	}

	for _, plaintext := range cases {
		ciphertext, err := codec.Encrypt(plaintext)
		require.NoError(t, err)
		require.NotEmpty(t, ciphertext)
		assert.NotContains(t, ciphertext, plaintext)

		decrypted, err := codec.Decrypt(ciphertext)
		require.NoError(t, err)
		assert.Equal(t, plaintext, decrypted)
	}
}

func TestCodec_EmptyInput(t *testing.T) {
	codec := newTestCodec(t)

	ciphertext, err := codec.Encrypt("")
	require.NoError(t, err)
	assert.Empty(t, ciphertext, "empty plaintext must stay absent, not become an encrypted empty string")

	plaintext, err := codec.Decrypt("")
	require.NoError(t, err)
	assert.Empty(t, plaintext)
}

func TestCodec_NonceUniquePerValue(t *testing.T) {
	codec := newTestCodec(t)

	first, err := codec.Encrypt("same value")
	require.NoError(t, err)
	second, err := codec.Encrypt("same value")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestCodec_MalformedCiphertext(t *testing.T) {
	codec := newTestCodec(t)

	for _, ciphertext := range []string{
		"not hex at all!",
		"abcd",                            // too short for a nonce
		hex.EncodeToString(make([]byte, 64)), // right shape, garbage content
	} {
		_, err := codec.Decrypt(ciphertext)
		assert.ErrorIs(t, err, ErrCodec, "input %q", ciphertext)
	}
}

func TestCodec_TamperDetection(t *testing.T) {
	codec := newTestCodec(t)

	ciphertext, err := codec.Encrypt("integrity matters")
	require.NoError(t, err)

	raw, err := hex.DecodeString(ciphertext)
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0xff

	_, err = codec.Decrypt(hex.EncodeToString(raw))
	assert.ErrorIs(t, err, ErrCodec)
}

func TestCodec_WrongKey(t *testing.T) {
	codec := newTestCodec(t)
	other, err := NewCodec([]byte("ffffffffffffffffffffffffffffffff"))
	require.NoError(t, err)

	ciphertext, err := codec.Encrypt("secret")
	require.NoError(t, err)

	_, err = other.Decrypt(ciphertext)
	assert.ErrorIs(t, err, ErrCodec)
}

func TestNewCodec_KeySize(t *testing.T) {
	_, err := NewCodec([]byte("short"))
	assert.Error(t, err)

	_, err = NewCodecFromHex("zz")
	assert.Error(t, err)
}

func TestKeyFromPassphrase(t *testing.T) {
	key := KeyFromPassphrase("correct horse battery staple")
	require.Len(t, key, 32)

	// Deterministic: previously written values must stay readable.
	assert.Equal(t, key, KeyFromPassphrase("correct horse battery staple"))
	assert.NotEqual(t, key, KeyFromPassphrase("different passphrase"))

	codec, err := NewCodec(key)
	require.NoError(t, err)
	ciphertext, err := codec.Encrypt("x")
	require.NoError(t, err)
	plaintext, err := codec.Decrypt(ciphertext)
	require.NoError(t, err)
	assert.Equal(t, "x", plaintext)
}
