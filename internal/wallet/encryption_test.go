package wallet

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fastParams keeps Argon2id cheap enough for tests.
func fastParams() EncryptionParams {
	return EncryptionParams{Memory: 64, Iterations: 1, Parallelism: 1}
}

func TestEncrypt_RoundTrip(t *testing.T) {
	key := testKey(t, 0xC0FFEE)
	payloads := map[string][]byte{
		"empty":       {},
		"short":       []byte("secret wallet data"),
		"private key": key.Serialize(),
		"large":       bytes.Repeat([]byte{0x00, 0x7f, 0xff}, 4000),
	}
	for name, plain := range payloads {
		t.Run(name, func(t *testing.T) {
			sealed, err := Encrypt(plain, []byte("pw"), fastParams())
			require.NoError(t, err)
			assert.GreaterOrEqual(t, len(sealed), headerSize+24+16+len(plain))

			opened, err := Decrypt(sealed, []byte("pw"))
			require.NoError(t, err)
			assert.True(t, bytes.Equal(plain, opened))
		})
	}
}

func TestEncrypt_FreshSaltAndNonce(t *testing.T) {
	a, err := Encrypt([]byte("same"), []byte("pw"), fastParams())
	require.NoError(t, err)
	b, err := Encrypt([]byte("same"), []byte("pw"), fastParams())
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestEncrypt_StoresParams(t *testing.T) {
	params := EncryptionParams{Memory: 128, Iterations: 2, Parallelism: 1}
	sealed, err := Encrypt([]byte("x"), []byte("pw"), params)
	require.NoError(t, err)

	// Decrypt reads the parameters back from the header.
	opened, err := Decrypt(sealed, []byte("pw"))
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), opened)
	assert.Equal(t, byte(128), sealed[SaltSize])
	assert.Equal(t, byte(2), sealed[SaltSize+4])
}

func TestDecrypt_Rejects(t *testing.T) {
	sealed, err := Encrypt([]byte("data"), []byte("pass"), fastParams())
	require.NoError(t, err)

	mutate := func(f func(b []byte)) []byte {
		b := append([]byte(nil), sealed...)
		f(b)
		return b
	}

	t.Run("wrong password", func(t *testing.T) {
		_, err := Decrypt(sealed, []byte("wrong"))
		assert.ErrorIs(t, err, ErrWrongPassword)
	})
	t.Run("flipped tag", func(t *testing.T) {
		_, err := Decrypt(mutate(func(b []byte) { b[len(b)-1] ^= 0xff }), []byte("pass"))
		assert.ErrorIs(t, err, ErrWrongPassword)
	})
	t.Run("tampered iterations", func(t *testing.T) {
		_, err := Decrypt(mutate(func(b []byte) { b[SaltSize+4]++ }), []byte("pass"))
		assert.ErrorIs(t, err, ErrWrongPassword)
	})
	t.Run("zeroed parallelism", func(t *testing.T) {
		_, err := Decrypt(mutate(func(b []byte) { b[SaltSize+8] = 0 }), []byte("pass"))
		assert.Error(t, err)
	})
	t.Run("truncated", func(t *testing.T) {
		_, err := Decrypt(sealed[:headerSize+10], []byte("pass"))
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrWrongPassword)
	})
}

func TestEncrypt_InvalidParams(t *testing.T) {
	_, err := Encrypt([]byte("data"), []byte("pass"), EncryptionParams{Memory: 64, Parallelism: 1})
	assert.Error(t, err)
}

func TestDefaultParams(t *testing.T) {
	assert.Equal(t, EncryptionParams{Memory: 64 * 1024, Iterations: 3, Parallelism: 4}, DefaultParams())
}
