// Package crypto provides cryptographic primitives for totpctl.
//
// This package implements XChaCha20-Poly1305 authenticated encryption
// and Argon2id key derivation with tunable, persisted cost parameters.
//
// # Security Features
//
//   - XChaCha20-Poly1305 authenticated encryption with associated data
//   - Argon2id key derivation (64MB memory, 3 iterations, 4 threads by default)
//   - HKDF-SHA256 subkey separation between the KDF output and cipher key
//   - Cryptographically secure random salt and nonce generation
//   - Secure memory wiping for sensitive data
//
// # Example Usage
//
//	// Derive a key from a passphrase
//	salt, _ := crypto.GenerateSalt()
//	master, err := crypto.DeriveKey([]byte("passphrase"), salt, crypto.DefaultParams())
//	defer crypto.SecureWipe(master)
//
//	// Bind a subkey to one purpose
//	key, err := crypto.ExpandKey(master, "myapp-encryption")
//	defer crypto.SecureWipe(key)
//
//	// Encrypt data, binding the header bytes as associated data
//	nonce, _ := crypto.GenerateNonce()
//	ciphertext, err := crypto.Encrypt(key, nonce, plaintext, header)
//
//	// Decrypt data
//	plaintext, err := crypto.Decrypt(key, nonce, ciphertext, header)
package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"runtime"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

// Key, salt, and nonce sizes in bytes.
const (
	// KeyLength is the length of derived keys (256 bits).
	KeyLength = 32

	// SaltLength is the length of KDF salts (128 bits).
	SaltLength = 16

	// NonceLength is the XChaCha20-Poly1305 nonce length (192 bits),
	// large enough that random nonces are safe for every save.
	NonceLength = chacha20poly1305.NonceSizeX
)

// Default Argon2id parameters following OWASP recommendations. These
// are starting values for new vaults; the cost actually used is carried
// in each encrypted file so it can be raised without breaking old files.
const (
	// DefaultMemory is the memory cost in KiB (64MB).
	DefaultMemory = 64 * 1024

	// DefaultTime is the number of iterations.
	DefaultTime = 3

	// DefaultThreads is the degree of parallelism.
	DefaultThreads = 4
)

// Upper bounds for parameters read from untrusted file headers. A
// tampered header must not be able to turn key derivation into a
// memory or CPU bomb before authentication can reject it.
const (
	// MaxMemory is the largest accepted memory cost in KiB (1 GiB).
	MaxMemory = 1024 * 1024

	// MaxTime is the largest accepted iteration count.
	MaxTime = 64

	// MaxThreads is the largest accepted parallelism degree.
	MaxThreads = 16
)

// Sentinel errors returned by crypto functions.
var (
	// ErrEmptyPassphrase indicates key derivation was asked to run on an
	// empty passphrase.
	ErrEmptyPassphrase = errors.New("crypto: passphrase must not be empty")

	// ErrInvalidParams indicates Argon2id cost parameters are zero or
	// exceed the safety caps.
	ErrInvalidParams = errors.New("crypto: kdf cost parameters out of range")

	// ErrInvalidSaltLength indicates the salt is not 16 bytes.
	ErrInvalidSaltLength = errors.New("crypto: invalid salt length, must be 16 bytes")

	// ErrInvalidKeyLength indicates the key is not 32 bytes.
	ErrInvalidKeyLength = errors.New("crypto: invalid key length, must be 32 bytes")

	// ErrInvalidNonceLength indicates the nonce is not 24 bytes.
	ErrInvalidNonceLength = errors.New("crypto: invalid nonce length, must be 24 bytes")

	// ErrDecryptionFailed indicates decryption or authentication tag
	// verification failed.
	ErrDecryptionFailed = errors.New("crypto: decryption failed, authentication tag verification failed")

	// ErrCiphertextTooShort indicates the ciphertext is shorter than the
	// Poly1305 tag.
	ErrCiphertextTooShort = errors.New("crypto: ciphertext too short")
)

// Params carries the tunable Argon2id cost parameters. They are stored
// in plaintext alongside each encrypted vault; only the salt and the
// passphrase are inputs an attacker does not already hold.
type Params struct {
	// Memory is the memory cost in KiB.
	Memory uint32

	// Time is the iteration count.
	Time uint32

	// Threads is the degree of parallelism.
	Threads uint8
}

// DefaultParams returns the recommended cost for newly created vaults.
func DefaultParams() Params {
	return Params{
		Memory:  DefaultMemory,
		Time:    DefaultTime,
		Threads: DefaultThreads,
	}
}

// Validate rejects zero and over-cap cost parameters. Run this on any
// Params read from a file header before deriving a key with them.
func (p Params) Validate() error {
	if p.Memory == 0 || p.Memory > MaxMemory {
		return fmt.Errorf("%w: memory %d KiB", ErrInvalidParams, p.Memory)
	}
	if p.Time == 0 || p.Time > MaxTime {
		return fmt.Errorf("%w: iterations %d", ErrInvalidParams, p.Time)
	}
	if p.Threads == 0 || p.Threads > MaxThreads {
		return fmt.Errorf("%w: parallelism %d", ErrInvalidParams, p.Threads)
	}
	return nil
}

// DeriveKey derives a 256-bit master key from a passphrase using
// Argon2id with the given cost.
//
// The salt must be 16 bytes of cryptographically secure random data,
// fresh for every encryption. The call is deliberately slow (hundreds
// of milliseconds at default cost) to resist offline passphrase search.
// Callers must SecureWipe the returned key when done.
func DeriveKey(passphrase, salt []byte, p Params) ([]byte, error) {
	if len(passphrase) == 0 {
		return nil, ErrEmptyPassphrase
	}
	if len(salt) != SaltLength {
		return nil, ErrInvalidSaltLength
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return argon2.IDKey(passphrase, salt, p.Time, p.Memory, p.Threads, KeyLength), nil
}

// ExpandKey derives a purpose-bound 256-bit subkey from a master key
// using HKDF-SHA256. Distinct info strings yield independent keys, so
// the master key itself never touches the cipher.
func ExpandKey(master []byte, info string) ([]byte, error) {
	if len(master) != KeyLength {
		return nil, ErrInvalidKeyLength
	}
	key := make([]byte, KeyLength)
	if _, err := io.ReadFull(hkdf.New(sha256.New, master, nil, []byte(info)), key); err != nil {
		return nil, fmt.Errorf("crypto: failed to expand key: %w", err)
	}
	return key, nil
}

// GenerateSalt generates a cryptographically secure random KDF salt.
func GenerateSalt() ([]byte, error) {
	salt := make([]byte, SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("crypto: failed to generate salt: %w", err)
	}
	return salt, nil
}

// GenerateNonce generates a cryptographically secure random
// XChaCha20-Poly1305 nonce.
func GenerateNonce() ([]byte, error) {
	nonce := make([]byte, NonceLength)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("crypto: failed to generate nonce: %w", err)
	}
	return nonce, nil
}

// Encrypt encrypts plaintext using XChaCha20-Poly1305.
//
// The nonce is supplied by the caller because the surrounding file
// format stores it in the header, and the header bytes are in turn
// bound to the ciphertext as associated data. The authentication tag is
// appended to the returned ciphertext and covers both the plaintext and
// the associated data, so flipping any byte of either fails Decrypt.
//
// Parameters:
//   - key: 32-byte encryption key (use DeriveKey + ExpandKey)
//   - nonce: 24-byte nonce, fresh for every call (use GenerateNonce)
//   - plaintext: data to encrypt (any length)
//   - additionalData: bytes authenticated but not encrypted (may be nil)
func Encrypt(key, nonce, plaintext, additionalData []byte) ([]byte, error) {
	if len(key) != KeyLength {
		return nil, ErrInvalidKeyLength
	}
	if len(nonce) != NonceLength {
		return nil, ErrInvalidNonceLength
	}

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("crypto: failed to create cipher: %w", err)
	}
	return aead.Seal(nil, nonce, plaintext, additionalData), nil
}

// Decrypt decrypts ciphertext using XChaCha20-Poly1305.
//
// The authentication tag is verified before any plaintext is returned.
// Tag failure means a wrong key, a corrupted ciphertext, or mismatched
// associated data; the three cases are indistinguishable and all yield
// ErrDecryptionFailed.
func Decrypt(key, nonce, ciphertext, additionalData []byte) ([]byte, error) {
	if len(key) != KeyLength {
		return nil, ErrInvalidKeyLength
	}
	if len(nonce) != NonceLength {
		return nil, ErrInvalidNonceLength
	}

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("crypto: failed to create cipher: %w", err)
	}

	if len(ciphertext) < aead.Overhead() {
		return nil, ErrCiphertextTooShort
	}

	plaintext, err := aead.Open(nil, nonce, ciphertext, additionalData)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	return plaintext, nil
}

// SecureWipe overwrites a byte slice with zeros in a way that prevents
// compiler optimization from removing the operation.
// This is critical for securely destroying sensitive data like derived
// keys and passphrases.
func SecureWipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
	// runtime.KeepAlive ensures the write operations are not optimized away
	// by the compiler since b is still "in use" after the loop.
	runtime.KeepAlive(b)
}
