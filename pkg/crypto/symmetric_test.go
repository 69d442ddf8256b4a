package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey() []byte {
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}
	return key
}

func TestSymmetricRoundTrip(t *testing.T) {
	cipher, err := NewSymmetric(testKey())
	require.NoError(t, err)

	aad := []byte("api_key")
	plaintext := []byte("sk-abcdef1234567890")

	packed, err := cipher.Encrypt(aad, plaintext)
	require.NoError(t, err)
	assert.NotEqual(t, plaintext, packed)

	decrypted, err := cipher.Decrypt(aad, packed)
	require.NoError(t, err)
	assert.Equal(t, plaintext, decrypted)
}

func TestSymmetricSurvivesRestart(t *testing.T) {
	// A fresh cipher built from the same key material must decrypt
	// ciphertexts written before the "restart".
	key := DeriveKey("platform-secret")

	first, err := NewSymmetric(key)
	require.NoError(t, err)

	packed, err := first.Encrypt([]byte("api_key"), []byte("sk-abcdef1234567890"))
	require.NoError(t, err)

	second, err := NewSymmetric(DeriveKey("platform-secret"))
	require.NoError(t, err)

	decrypted, err := second.Decrypt([]byte("api_key"), packed)
	require.NoError(t, err)
	assert.Equal(t, "sk-abcdef1234567890", string(decrypted))
}

func TestSymmetricRejectsWrongAAD(t *testing.T) {
	cipher, err := NewSymmetric(testKey())
	require.NoError(t, err)

	packed, err := cipher.Encrypt([]byte("field-a"), []byte("value"))
	require.NoError(t, err)

	_, err = cipher.Decrypt([]byte("field-b"), packed)
	assert.ErrorIs(t, err, ErrDecryptionFailure)
}

func TestSymmetricRejectsShortCiphertext(t *testing.T) {
	cipher, err := NewSymmetric(testKey())
	require.NoError(t, err)

	_, err = cipher.Decrypt(nil, []byte("short"))
	assert.ErrorIs(t, err, ErrDecryptionFailure)
}

func TestDeriveKeyDeterministic(t *testing.T) {
	assert.Equal(t, DeriveKey("s"), DeriveKey("s"))
	assert.NotEqual(t, DeriveKey("s"), DeriveKey("t"))
	assert.Len(t, DeriveKey("s"), 32)
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "sk-a...7890", MaskSecret("sk-abcdef1234567890", 4))
	// Values at or below twice the visible width are fully masked at
	// their original length.
	assert.Equal(t, "********", MaskSecret("12345678", 4))
	assert.Equal(t, "***", MaskSecret("abc", 4))
	assert.Equal(t, "", MaskSecret("", 4))
}
