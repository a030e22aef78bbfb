package keyring

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"

	"golang.org/x/crypto/scrypt"
)

// scrypt cost parameters. N=32768 matches the cost the wider example pack
// uses for passphrase-derived keys (aldelo-common's Generate32ByteRandomKey);
// r/p are the library's own recommended defaults.
const (
	scryptN      = 32768
	scryptR      = 8
	scryptP      = 1
	scryptKeyLen = 32
	saltSize     = 32
)

// SealedKey is the on-disk representation of a passphrase-protected private
// key: a fresh scrypt salt plus an AES-256-GCM-sealed PEM blob (the GCM
// nonce is stored as the ciphertext's leading bytes, cipher.Seal's
// convention).
type SealedKey struct {
	Salt       []byte
	Ciphertext []byte
}

// SealPrivateKeyPEM encrypts keyPEM (the PEM-armored output of
// EncodePrivateKeyPEM) under a key derived from passphrase via scrypt. This
// is the mechanism `pkg/keyring` substitutes for the original KeyManager's
// reliance on GnuPG to keep private key material off disk in the clear.
func SealPrivateKeyPEM(keyPEM, passphrase []byte) (*SealedKey, error) {
	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("keyring: generate salt: %w", err)
	}

	aead, err := newPassphraseAEAD(passphrase, salt)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("keyring: generate nonce: %w", err)
	}

	ciphertext := aead.Seal(nonce, nonce, keyPEM, nil)
	return &SealedKey{Salt: salt, Ciphertext: ciphertext}, nil
}

// Bytes serializes a SealedKey to its on-disk form: Salt followed directly
// by Ciphertext. Salt is always saltSize bytes, so this needs no length
// prefix.
func (s *SealedKey) Bytes() []byte {
	return append(append([]byte{}, s.Salt...), s.Ciphertext...)
}

// ParseSealedKey reverses SealedKey.Bytes.
func ParseSealedKey(data []byte) (*SealedKey, error) {
	if len(data) < saltSize {
		return nil, fmt.Errorf("keyring: sealed key file too short")
	}
	return &SealedKey{Salt: data[:saltSize], Ciphertext: data[saltSize:]}, nil
}

// OpenPrivateKeyPEM reverses SealPrivateKeyPEM, recovering the PEM-armored
// bytes. A wrong passphrase or tampered ciphertext fails authentication and
// returns an error — GCM never silently returns corrupted plaintext.
func (s *SealedKey) OpenPrivateKeyPEM(passphrase []byte) ([]byte, error) {
	aead, err := newPassphraseAEAD(passphrase, s.Salt)
	if err != nil {
		return nil, err
	}

	if len(s.Ciphertext) < aead.NonceSize() {
		return nil, fmt.Errorf("keyring: sealed key too short")
	}
	nonce, ciphertext := s.Ciphertext[:aead.NonceSize()], s.Ciphertext[aead.NonceSize():]

	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("keyring: open sealed key: wrong passphrase or corrupted data")
	}
	return plaintext, nil
}

func newPassphraseAEAD(passphrase, salt []byte) (cipher.AEAD, error) {
	key, err := scrypt.Key(passphrase, salt, scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return nil, fmt.Errorf("keyring: derive key: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("keyring: aes cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("keyring: gcm: %w", err)
	}
	return aead, nil
}
