package vault

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/forest6511/totpctl/pkg/crypto"
)

// Magic number for encrypted vault files: "TCTL_VLT"
var magicNumber = [8]byte{'T', 'C', 'T', 'L', '_', 'V', 'L', 'T'}

const (
	// containerVersion is the current encrypted container format version.
	containerVersion = 1

	// maxHeaderLength caps the header length field read from untrusted
	// files (1MB).
	maxHeaderLength = 1 << 20

	// kdfArgon2id and cipherXChaCha20 name the only algorithms the
	// container format currently speaks.
	kdfArgon2id     = "argon2id"
	cipherXChaCha20 = "xchacha20poly1305"

	// hkdfInfoVault binds the encryption subkey to this container format,
	// so the same passphrase and salt can never yield a key shared with
	// another purpose.
	hkdfInfoVault = "totpctl-vault-encryption-v1"
)

// KDFParams carries the Argon2id cost an encrypted vault was sealed
// with. It lives in the plaintext header; only the passphrase is secret.
type KDFParams struct {
	Salt        []byte `json:"salt"`        // Base64-encoded by encoding/json
	Memory      uint32 `json:"memory"`      // Memory in KiB
	Iterations  uint32 `json:"iterations"`  // Time cost
	Parallelism uint8  `json:"parallelism"` // Threads
}

func (p KDFParams) costParams() crypto.Params {
	return crypto.Params{
		Memory:  p.Memory,
		Time:    p.Iterations,
		Threads: p.Parallelism,
	}
}

// EncryptionHeader is the plaintext header of an encrypted vault file.
// It holds everything needed to re-derive the key except the passphrase.
// The serialized header bytes are bound to the ciphertext as associated
// data, so any edit to them fails authentication.
type EncryptionHeader struct {
	Version   int       `json:"version"`
	KDF       string    `json:"kdf"`
	KDFParams KDFParams `json:"kdf_params"`
	Cipher    string    `json:"cipher"`
	Nonce     []byte    `json:"nonce"`
}

// EncodeEncrypted serializes the vault as an encrypted container:
// the magic number, a 4-byte big-endian header length, the JSON header,
// and the XChaCha20-Poly1305 ciphertext of the JSON-encoded records.
//
// The KDF salt and the nonce are freshly generated on every call, so
// encrypting the same vault twice never produces the same bytes.
func EncodeEncrypted(v *Vault, passphrase []byte, params crypto.Params) ([]byte, error) {
	plaintext, err := EncodePlain(v, FormatJSON)
	if err != nil {
		return nil, err
	}
	defer crypto.SecureWipe(plaintext)

	salt, err := crypto.GenerateSalt()
	if err != nil {
		return nil, err
	}
	nonce, err := crypto.GenerateNonce()
	if err != nil {
		return nil, err
	}

	master, err := crypto.DeriveKey(passphrase, salt, params)
	if err != nil {
		return nil, err
	}
	defer crypto.SecureWipe(master)

	key, err := crypto.ExpandKey(master, hkdfInfoVault)
	if err != nil {
		return nil, err
	}
	defer crypto.SecureWipe(key)

	header := EncryptionHeader{
		Version: containerVersion,
		KDF:     kdfArgon2id,
		KDFParams: KDFParams{
			Salt:        salt,
			Memory:      params.Memory,
			Iterations:  params.Time,
			Parallelism: params.Threads,
		},
		Cipher: cipherXChaCha20,
		Nonce:  nonce,
	}
	headerJSON, err := json.Marshal(&header)
	if err != nil {
		return nil, fmt.Errorf("vault: failed to marshal header: %w", err)
	}

	// The container prefix doubles as the AEAD associated data.
	prefix := make([]byte, 0, len(magicNumber)+4+len(headerJSON))
	prefix = append(prefix, magicNumber[:]...)
	prefix = binary.BigEndian.AppendUint32(prefix, uint32(len(headerJSON)))
	prefix = append(prefix, headerJSON...)

	ciphertext, err := crypto.Encrypt(key, nonce, plaintext, prefix)
	if err != nil {
		return nil, err
	}

	v.header = &header
	return append(prefix, ciphertext...), nil
}

// DecodeEncrypted parses and decrypts an encrypted container.
//
// Every failure up to and including authentication reports
// ErrAuthentication: a truncated file, an edited header, a flipped
// ciphertext byte, and a wrong passphrase are indistinguishable by
// construction. Only a payload that authenticates but does not parse
// reports ErrFormat.
func DecodeEncrypted(data, passphrase []byte) (*Vault, error) {
	if len(data) < len(magicNumber)+4 {
		return nil, ErrAuthentication
	}
	if !bytes.Equal(data[:len(magicNumber)], magicNumber[:]) {
		return nil, ErrAuthentication
	}

	headerLen := binary.BigEndian.Uint32(data[len(magicNumber) : len(magicNumber)+4])
	if headerLen > maxHeaderLength {
		return nil, ErrAuthentication
	}
	headerEnd := len(magicNumber) + 4 + int(headerLen)
	if len(data) < headerEnd {
		return nil, ErrAuthentication
	}

	var header EncryptionHeader
	if err := json.Unmarshal(data[len(magicNumber)+4:headerEnd], &header); err != nil {
		return nil, ErrAuthentication
	}
	if header.Version != containerVersion {
		return nil, ErrAuthentication
	}
	if header.KDF != kdfArgon2id || header.Cipher != cipherXChaCha20 {
		return nil, ErrAuthentication
	}

	// Cost caps stop a forged header from turning key derivation into a
	// memory bomb before the tag check can reject it.
	params := header.KDFParams.costParams()
	if err := params.Validate(); err != nil {
		return nil, ErrAuthentication
	}

	master, err := crypto.DeriveKey(passphrase, header.KDFParams.Salt, params)
	if err != nil {
		return nil, ErrAuthentication
	}
	defer crypto.SecureWipe(master)

	key, err := crypto.ExpandKey(master, hkdfInfoVault)
	if err != nil {
		return nil, ErrAuthentication
	}
	defer crypto.SecureWipe(key)

	plaintext, err := crypto.Decrypt(key, header.Nonce, data[headerEnd:], data[:headerEnd])
	if err != nil {
		return nil, ErrAuthentication
	}
	defer crypto.SecureWipe(plaintext)

	v, err := DecodePlain(plaintext, FormatJSON)
	if err != nil {
		return nil, err
	}
	v.header = &header
	return v, nil
}
