package wallet

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

// SaltSize is the Argon2id salt length.
const SaltSize = 16

// Sealed layout: salt(16) | memory(4 LE) | iterations(4 LE) | parallelism(1) | nonce(24) | ciphertext
const headerSize = SaltSize + 4 + 4 + 1

// EncryptionParams holds Argon2id parameters.
type EncryptionParams struct {
	Memory      uint32 // KiB
	Iterations  uint32
	Parallelism uint8
}

// DefaultParams returns the Argon2id parameters used for new keys.
func DefaultParams() EncryptionParams {
	return EncryptionParams{
		Memory:      64 * 1024,
		Iterations:  3,
		Parallelism: 4,
	}
}

func (p EncryptionParams) validate() error {
	if p.Memory == 0 || p.Iterations == 0 || p.Parallelism == 0 {
		return fmt.Errorf("invalid argon2 parameters: memory=%d iterations=%d parallelism=%d",
			p.Memory, p.Iterations, p.Parallelism)
	}
	return nil
}

func deriveKey(password, salt []byte, params EncryptionParams) []byte {
	return argon2.IDKey(password, salt, params.Iterations, params.Memory, params.Parallelism, chacha20poly1305.KeySize)
}

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// Encrypt seals data under password with Argon2id and XChaCha20-Poly1305.
// The Argon2id parameters travel with the ciphertext.
func Encrypt(data, password []byte, params EncryptionParams) ([]byte, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}
	header := make([]byte, headerSize, headerSize+chacha20poly1305.NonceSizeX+len(data)+chacha20poly1305.Overhead)
	if _, err := rand.Read(header[:SaltSize]); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	binary.LittleEndian.PutUint32(header[SaltSize:], params.Memory)
	binary.LittleEndian.PutUint32(header[SaltSize+4:], params.Iterations)
	header[SaltSize+8] = params.Parallelism

	key := deriveKey(password, header[:SaltSize], params)
	defer wipe(key)
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}
	out := append(header, nonce...)
	// The header is authenticated as associated data.
	return aead.Seal(out, nonce, data, header), nil
}

// Decrypt opens data sealed by Encrypt. A wrong password or tampered
// data yields ErrWrongPassword.
func Decrypt(sealed, password []byte) ([]byte, error) {
	nonceSize := chacha20poly1305.NonceSizeX
	if need := headerSize + nonceSize + chacha20poly1305.Overhead; len(sealed) < need {
		return nil, fmt.Errorf("encrypted data too short: %d bytes, need at least %d", len(sealed), need)
	}
	header := sealed[:headerSize]
	params := EncryptionParams{
		Memory:      binary.LittleEndian.Uint32(header[SaltSize:]),
		Iterations:  binary.LittleEndian.Uint32(header[SaltSize+4:]),
		Parallelism: header[SaltSize+8],
	}
	if err := params.validate(); err != nil {
		return nil, err
	}
	nonce := sealed[headerSize : headerSize+nonceSize]

	key := deriveKey(password, header[:SaltSize], params)
	defer wipe(key)
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	plain, err := aead.Open(nil, nonce, sealed[headerSize+nonceSize:], header)
	if err != nil {
		return nil, ErrWrongPassword
	}
	return plain, nil
}
