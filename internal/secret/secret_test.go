package secret

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "6368616e676520746869732070617373776f726420746f206120736563726574"

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	encrypted, err := Encrypt(testKey, "hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", encrypted)

	decrypted, err := Decrypt(testKey, encrypted)
	require.NoError(t, err)
	assert.Equal(t, "hunter2", decrypted)
}

func TestEncrypt_UniqueCiphertexts(t *testing.T) {
	first, err := Encrypt(testKey, "hunter2")
	require.NoError(t, err)
	second, err := Encrypt(testKey, "hunter2")
	require.NoError(t, err)

	// Random nonce per call.
	assert.NotEqual(t, first, second)
}

func TestDecrypt_WrongKey(t *testing.T) {
	encrypted, err := Encrypt(testKey, "hunter2")
	require.NoError(t, err)

	otherKey := "0000000000000000000000000000000000000000000000000000000000000000"
	_, err = Decrypt(otherKey, encrypted)

	assert.ErrorIs(t, err, ErrInvalidCiphertext)
}

func TestDecrypt_MalformedInput(t *testing.T) {
	_, err := Decrypt(testKey, "not base64!!!")
	assert.Error(t, err)

	_, err = Decrypt(testKey, "aGk=") // too short to hold a nonce
	assert.ErrorIs(t, err, ErrInvalidCiphertext)
}

func TestBadKeyLength(t *testing.T) {
	_, err := Encrypt("abcd", "hunter2")
	assert.Error(t, err)

	_, err = Decrypt("zznothex", "aGk=")
	assert.Error(t, err)
}
