package primitives

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"fmt"
)

// ErrInvalidPadding is returned by AESDecryptCBC when the decrypted
// plaintext's PKCS7 padding is malformed. Per spec §4.1 this is the single
// "DecryptError" case for the content block; callers in the trial-decryption
// loop never see it (only the recipient that already matched the header
// sentinel reaches AES decryption).
var ErrInvalidPadding = fmt.Errorf("primitives: invalid PKCS7 padding")

// AESEncryptCBC pads pt to a 16-byte boundary with PKCS7 and encrypts it
// with AES-128-CBC under key/iv.
func AESEncryptCBC(pt, key, iv []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("primitives: aes cipher: %w", err)
	}
	if len(iv) != block.BlockSize() {
		return nil, fmt.Errorf("primitives: iv must be %d bytes, got %d", block.BlockSize(), len(iv))
	}

	padded := pkcs7Pad(pt, block.BlockSize())
	ct := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ct, padded)
	return ct, nil
}

// AESDecryptCBC reverses AESEncryptCBC, returning ErrInvalidPadding if the
// recovered plaintext's PKCS7 padding does not validate.
func AESDecryptCBC(ct, key, iv []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("primitives: aes cipher: %w", err)
	}
	if len(iv) != block.BlockSize() {
		return nil, fmt.Errorf("primitives: iv must be %d bytes, got %d", block.BlockSize(), len(iv))
	}
	if len(ct) == 0 || len(ct)%block.BlockSize() != 0 {
		return nil, ErrInvalidPadding
	}

	padded := make([]byte, len(ct))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(padded, ct)

	return pkcs7Unpad(padded, block.BlockSize())
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	padLen := blockSize - len(data)%blockSize
	padding := bytes.Repeat([]byte{byte(padLen)}, padLen)
	return append(append([]byte{}, data...), padding...)
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, ErrInvalidPadding
	}

	padLen := int(data[len(data)-1])
	if padLen == 0 || padLen > blockSize || padLen > len(data) {
		return nil, ErrInvalidPadding
	}

	padding := data[len(data)-padLen:]
	for _, b := range padding {
		if int(b) != padLen {
			return nil, ErrInvalidPadding
		}
	}
	return data[:len(data)-padLen], nil
}
